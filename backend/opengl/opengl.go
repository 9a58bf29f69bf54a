// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package opengl

import (
	"fmt"

	"github.com/gogpu/framecore/backend"
	"github.com/gogpu/framecore/command"
	"github.com/gogpu/framecore/pipeline"
	"github.com/gogpu/framecore/render"
	"github.com/gogpu/framecore/renderpass"
)

// Name is the registered backend name.
const Name = "opengl"

func init() {
	render.Register(Name, func(cfg render.Config) (render.API, error) {
		return New(cfg, nil)
	})
}

// Backend is the immediate-mode OpenGL backend.
//
// Recording is a no-op; SubmitRenderCommands walks the command view and
// issues GL calls directly. Backend must be used from the thread that owns
// the GL context.
type Backend struct {
	backend.Base

	gl       GL
	targets  map[uint32]uint32          // framebuffer ID -> GL framebuffer
	programs map[pipeline.Handle]uint32 // pipeline handle -> GL program
	overlay  render.OverlayRenderer
	draws    int
}

// New creates an OpenGL backend on gl. A nil gl selects the default
// implementation for the build (SoftGL unless built with the gogl tag).
func New(cfg render.Config, gl GL) (*Backend, error) {
	base, err := backend.NewBase(Name, cfg)
	if err != nil {
		return nil, err
	}
	if gl == nil {
		if gl, err = defaultGL(); err != nil {
			return nil, fmt.Errorf("opengl: %w", err)
		}
	}
	b := &Backend{
		Base:     base,
		gl:       gl,
		targets:  make(map[uint32]uint32),
		programs: make(map[pipeline.Handle]uint32),
	}
	if o, ok := gl.(render.OverlayRenderer); ok {
		b.overlay = o
	}
	return b, nil
}

// GL returns the underlying GL implementation.
func (b *Backend) GL() GL { return b.gl }

// SetOverlayRenderer replaces the text renderer used for overlay commands.
// A nil renderer makes overlay commands no-ops.
func (b *Backend) SetOverlayRenderer(o render.OverlayRenderer) { b.overlay = o }

// Target returns the GL framebuffer behind an attached framebuffer.
func (b *Backend) Target(fb uint32) (uint32, bool) {
	t, ok := b.targets[fb]
	return t, ok
}

// Draws returns the number of draw calls issued so far.
func (b *Backend) Draws() int { return b.draws }

// AttachFramebuffer creates the GL framebuffer for fb.
func (b *Backend) AttachFramebuffer(fb *renderpass.Framebuffer) error {
	if b.Closed() {
		return backend.ErrClosed
	}
	if _, ok := b.targets[fb.ID]; ok {
		return nil
	}
	t, err := b.gl.CreateFramebuffer(int(fb.Width), int(fb.Height))
	if err != nil {
		return fmt.Errorf("opengl: attach framebuffer %d: %w", fb.ID, err)
	}
	b.targets[fb.ID] = t
	b.Remember(fb)
	b.Logger().Debug("opengl: framebuffer attached", "id", fb.ID, "gl", t,
		"width", fb.Width, "height", fb.Height)
	return nil
}

// DetachFramebuffer deletes the GL framebuffer behind fb.
func (b *Backend) DetachFramebuffer(fb *renderpass.Framebuffer) error {
	if b.Closed() {
		return backend.ErrClosed
	}
	t, ok := b.targets[fb.ID]
	if !ok {
		return nil
	}
	b.gl.DeleteFramebuffer(t)
	delete(b.targets, fb.ID)
	b.Forget(fb.ID)
	b.Logger().Debug("opengl: framebuffer detached", "id", fb.ID, "gl", t)
	return nil
}

// RecordCommands hands the command view to the execute phase unchanged.
func (b *Backend) RecordCommands(buf *command.Buffer) (render.RecordedCommandBuffer, error) {
	if b.Closed() {
		return render.RecordedCommandBuffer{}, backend.ErrClosed
	}
	return render.RecordedCommandBuffer{Backend: Name, Native: buf, Commands: buf.Len()}, nil
}

// SubmitRenderCommands executes the recorded commands.
func (b *Backend) SubmitRenderCommands(rec render.RecordedCommandBuffer) error {
	if err := b.CheckRecording(rec); err != nil {
		return err
	}
	buf, ok := rec.Native.(*command.Buffer)
	if !ok {
		return fmt.Errorf("opengl: unexpected native recording %T", rec.Native)
	}
	v := &executeVisitor{b: b, buf: buf}
	if err := buf.Walk(v); err != nil {
		return fmt.Errorf("opengl: execute: %w", err)
	}
	return nil
}

// Present blits fb to the default framebuffer.
func (b *Backend) Present(fb *renderpass.Framebuffer) error {
	if b.Closed() {
		return backend.ErrClosed
	}
	t, ok := b.targets[fb.ID]
	if !ok {
		return fmt.Errorf("opengl: present: %w: %d", backend.ErrUnknownFramebuffer, fb.ID)
	}
	b.gl.BlitFramebuffer(t, int32(fb.Width), int32(fb.Height))
	return nil
}

// Close deletes GL programs and framebuffers.
func (b *Backend) Close() error {
	if !b.MarkClosed() {
		return nil
	}
	for _, p := range b.programs {
		b.gl.DeleteProgram(p)
	}
	for _, t := range b.targets {
		b.gl.DeleteFramebuffer(t)
	}
	clear(b.programs)
	clear(b.targets)
	b.Logger().Info("opengl: closed", "draws", b.draws)
	return nil
}

// program returns the GL program for h, compiling it on first use.
func (b *Backend) program(h pipeline.Handle) (uint32, error) {
	if p, ok := b.programs[h]; ok {
		return p, nil
	}
	state, err := b.Pipeline(h)
	if err != nil {
		return 0, err
	}
	p, err := b.gl.CreateProgram(state.Shader)
	if err != nil {
		return 0, fmt.Errorf("opengl: program for %v: %w", h, err)
	}
	b.programs[h] = p
	return p, nil
}

var (
	_ render.API       = (*Backend)(nil)
	_ render.Presenter = (*Backend)(nil)
)
