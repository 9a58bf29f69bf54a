// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/framecore"
	"github.com/gogpu/framecore/command"
	"github.com/gogpu/framecore/pipeline"
	"github.com/gogpu/framecore/render"
	"github.com/gogpu/framecore/renderpass"
)

// Common backend errors.
var (
	// ErrNotInitialized is returned when a backend lacks a required resource.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrClosed is returned by operations on a closed backend.
	ErrClosed = errors.New("backend: closed")

	// ErrUnknownFramebuffer is returned for a framebuffer that was never attached.
	ErrUnknownFramebuffer = errors.New("backend: framebuffer not attached")

	// ErrUnknownPipeline is returned for a pipeline handle missing from the cache.
	ErrUnknownPipeline = errors.New("backend: unknown pipeline")

	// ErrForeignRecording is returned when a recording from another backend
	// is submitted.
	ErrForeignRecording = errors.New("backend: recording belongs to another backend")
)

// Base implements the bookkeeping every backend needs: its name, the
// optimizer step, pipeline resolution and attached framebuffers.
//
// Base is embedded by value; it is not safe for concurrent use.
type Base struct {
	name         string
	pipelines    *pipeline.Cache
	optimizer    render.Optimizer
	logger       *slog.Logger
	framebuffers map[uint32]*renderpass.Framebuffer
	closed       bool
}

// NewBase creates the shared state for a backend called name.
func NewBase(name string, cfg render.Config) (Base, error) {
	if cfg.Pipelines == nil {
		return Base{}, fmt.Errorf("%s: %w: nil pipeline cache", name, ErrNotInitialized)
	}
	return Base{
		name:         name,
		pipelines:    cfg.Pipelines,
		optimizer:    cfg.OptimizerOr(),
		logger:       framecore.LoggerOr(cfg.Logger),
		framebuffers: make(map[uint32]*renderpass.Framebuffer),
	}, nil
}

// Name returns the backend name.
func (b *Base) Name() string { return b.name }

// Logger returns the backend logger.
func (b *Base) Logger() *slog.Logger { return b.logger }

// OptimizeCommands runs the configured optimizer.
func (b *Base) OptimizeCommands(buf *command.Buffer) error {
	if b.closed {
		return ErrClosed
	}
	return b.optimizer.Optimize(buf)
}

// Remember records fb as attached.
func (b *Base) Remember(fb *renderpass.Framebuffer) {
	b.framebuffers[fb.ID] = fb
}

// Forget drops the framebuffer with the given ID. It reports whether it
// was attached.
func (b *Base) Forget(id uint32) bool {
	if _, ok := b.framebuffers[id]; !ok {
		return false
	}
	delete(b.framebuffers, id)
	return true
}

// Framebuffer returns an attached framebuffer.
func (b *Base) Framebuffer(id uint32) (*renderpass.Framebuffer, error) {
	fb, ok := b.framebuffers[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w: %d", b.name, ErrUnknownFramebuffer, id)
	}
	return fb, nil
}

// Framebuffers returns the number of attached framebuffers.
func (b *Base) Framebuffers() int { return len(b.framebuffers) }

// Pipeline resolves a pipeline handle.
func (b *Base) Pipeline(h pipeline.Handle) (pipeline.State, error) {
	s, ok := b.pipelines.Lookup(h)
	if !ok {
		return pipeline.State{}, fmt.Errorf("%s: %w: %v", b.name, ErrUnknownPipeline, h)
	}
	return s, nil
}

// CheckRecording verifies rec was produced by this backend.
func (b *Base) CheckRecording(rec render.RecordedCommandBuffer) error {
	if b.closed {
		return ErrClosed
	}
	if rec.Backend != b.name {
		return fmt.Errorf("%s: %w (%q)", b.name, ErrForeignRecording, rec.Backend)
	}
	return nil
}

// MarkClosed flags the backend closed and forgets its framebuffers.
// It reports whether the backend was open.
func (b *Base) MarkClosed() bool {
	if b.closed {
		return false
	}
	b.closed = true
	clear(b.framebuffers)
	return true
}

// Closed reports whether MarkClosed was called.
func (b *Base) Closed() bool { return b.closed }

// RGBA returns c as four float64 channels.
func RGBA(c gputypes.Color) [4]float64 {
	return [4]float64{float64(c.R), float64(c.G), float64(c.B), float64(c.A)}
}
