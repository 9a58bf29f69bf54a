// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"log/slog"

	"github.com/gogpu/framecore"
	"github.com/gogpu/framecore/config"
	"github.com/gogpu/framecore/loop"
	"github.com/gogpu/framecore/memory"
	"github.com/gogpu/framecore/render"
)

// Context is the engine state shared by the loops.
// It is created once and passed by pointer; its fields are not modified
// after Run starts.
type Context struct {
	Config config.Config
	Memory *memory.Service
	Logger *slog.Logger
	Clock  loop.Clock

	// Device is handed to GPU backends. Nil selects render.NullDeviceHandle.
	Device render.DeviceHandle
}

// ContextOption configures a Context during creation.
type ContextOption func(*Context)

// WithLogger sets the engine logger. The default is framecore.Logger().
func WithLogger(l *slog.Logger) ContextOption {
	return func(c *Context) { c.Logger = l }
}

// WithClock replaces the system clock, mostly for tests.
func WithClock(clock loop.Clock) ContextOption {
	return func(c *Context) { c.Clock = clock }
}

// WithDevice sets the GPU device handed to backends.
func WithDevice(d render.DeviceHandle) ContextOption {
	return func(c *Context) { c.Device = d }
}

// WithMemory supplies the memory service. The default is sized by
// cfg.Memory.Budget.
func WithMemory(svc *memory.Service) ContextOption {
	return func(c *Context) { c.Memory = svc }
}

// NewContext creates a context for cfg.
func NewContext(cfg config.Config, opts ...ContextOption) *Context {
	c := &Context{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}
	c.Logger = framecore.LoggerOr(c.Logger)
	c.Clock = loop.ClockOr(c.Clock)
	if c.Device == nil {
		c.Device = render.NullDeviceHandle{}
	}
	if c.Memory == nil {
		c.Memory = memory.NewService(
			memory.WithBudget(cfg.Memory.Budget),
			memory.WithLogger(c.Logger),
		)
	}
	return c
}
