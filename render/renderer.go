// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/framecore"
	"github.com/gogpu/framecore/command"
	"github.com/gogpu/framecore/memory"
	"github.com/gogpu/framecore/pipeline"
	"github.com/gogpu/framecore/renderpass"
)

// Session is the renderer's session state.
type Session int

const (
	// SessionUndefined means no session has run yet.
	SessionUndefined Session = iota

	// SessionStarted means a render pass is being recorded.
	SessionStarted

	// SessionFinished means the last session was submitted.
	SessionFinished
)

// String returns the string representation of Session.
func (s Session) String() string {
	switch s {
	case SessionUndefined:
		return "Undefined"
	case SessionStarted:
		return "Started"
	case SessionFinished:
		return "Finished"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Options configures a Renderer.
type Options struct {
	// CommandBufferSize is the command arena size in bytes.
	CommandBufferSize int

	// ScratchSize is the per-stage scratch stack size in bytes.
	ScratchSize int

	// Logger receives per-frame diagnostics. Nil means framecore.Logger().
	Logger *slog.Logger
}

// FrameStats describes the last submitted pass.
type FrameStats struct {
	Passes       uint64
	Commands     int
	CommandBytes uintptr
	PeakBytes    uintptr
}

// Renderer records layer draws into a command buffer and drives a render
// pass through a backend.
//
// Renderer is NOT thread-safe. It belongs to the render goroutine.
type Renderer struct {
	api       API
	pipelines *pipeline.Cache
	buffer    *command.Buffer
	scratch   *memory.StackAllocator
	pass      *renderpass.Pass
	session   Session
	viewProj  mgl32.Mat4
	drawer    drawVisitor
	logger    *slog.Logger
	stats     FrameStats
}

// NewRenderer creates a renderer whose command buffer and scratch stack are
// reserved from svc.
func NewRenderer(api API, svc *memory.Service, pipelines *pipeline.Cache, opts Options) (*Renderer, error) {
	if api == nil {
		return nil, fmt.Errorf("render: nil API")
	}
	if pipelines == nil {
		return nil, fmt.Errorf("render: nil pipeline cache")
	}
	buf, err := command.NewBuffer(svc, opts.CommandBufferSize)
	if err != nil {
		return nil, err
	}
	scratch, err := svc.NewStackAllocator(opts.ScratchSize)
	if err != nil {
		buf.Close()
		return nil, fmt.Errorf("render: scratch: %w", err)
	}
	r := &Renderer{
		api:       api,
		pipelines: pipelines,
		buffer:    buf,
		scratch:   scratch,
		viewProj:  mgl32.Ident4(),
		logger:    framecore.LoggerOr(opts.Logger),
	}
	r.drawer.r = r
	return r, nil
}

// API returns the backend.
func (r *Renderer) API() API { return r.api }

// Pipelines returns the pipeline cache.
func (r *Renderer) Pipelines() *pipeline.Cache { return r.pipelines }

// Session returns the session state.
func (r *Renderer) Session() Session { return r.session }

// Stats returns statistics for the last submitted pass.
func (r *Renderer) Stats() FrameStats { return r.stats }

// SetViewProjection sets the matrix applied to every Mesh model matrix.
func (r *Renderer) SetViewProjection(m mgl32.Mat4) { r.viewProj = m }

// Scratch returns the per-stage stack allocator. Every allocation must be
// released before the stage ends.
func (r *Renderer) Scratch() *memory.StackAllocator { return r.scratch }

// SetRenderPass selects the pass used by the next session.
func (r *Renderer) SetRenderPass(p *renderpass.Pass) error {
	if r.session == SessionStarted {
		return violation(ErrSessionActive, "set render pass")
	}
	r.pass = p
	return nil
}

// NewPass creates a pass over t that attaches framebuffers through the
// renderer's backend.
func (r *Renderer) NewPass(t *renderpass.Template) *renderpass.Pass {
	return renderpass.NewPass(t, r.api)
}

// RenderPass returns the current pass.
func (r *Renderer) RenderPass() *renderpass.Pass { return r.pass }

// BeginRenderPass starts a session: the pass is started, its framebuffer
// begun and the first stage bound.
func (r *Renderer) BeginRenderPass() error {
	if r.session == SessionStarted {
		return violation(ErrSessionActive, "begin render pass")
	}
	if r.pass == nil {
		return violation(ErrNoRenderPass, "begin render pass")
	}
	if err := r.pass.StartPass(); err != nil {
		return err
	}
	fb := r.pass.Framebuffer()
	if _, err := command.Submit(r.buffer, command.BeginRenderPassCommand{
		Framebuffer: fb.ID,
		Width:       fb.Width,
		Height:      fb.Height,
		Clear:       r.pass.ClearColor(),
	}); err != nil {
		r.abort()
		return err
	}
	r.session = SessionStarted
	if err := r.bindNextStage(); err != nil {
		r.abort()
		return err
	}
	return nil
}

// NextRenderStage advances to the next stage of the pass.
func (r *Renderer) NextRenderStage() error {
	if r.session != SessionStarted {
		return violation(ErrSessionNotStarted, "next render stage")
	}
	if err := r.checkScratch(); err != nil {
		return err
	}
	return r.bindNextStage()
}

func (r *Renderer) bindNextStage() error {
	stage, err := r.pass.NextStage()
	if err != nil {
		return err
	}
	if _, ok := r.pipelines.Lookup(stage.Pipeline); !ok {
		return violation(ErrUnknownPipeline, "stage %d (%s) uses %v", r.pass.Index(), stage.Name, stage.Pipeline)
	}
	_, err = command.Submit(r.buffer, command.BindPipelineCommand{
		Stage:    uint32(r.pass.Index()),
		Pipeline: stage.Pipeline,
	})
	return err
}

// EndRenderPass finishes the pass and runs optimize, record and submit on
// the backend. The command buffer is reset whatever the outcome, except for
// protocol errors from the pass itself, which leave the session running.
func (r *Renderer) EndRenderPass() error {
	if r.session != SessionStarted {
		return violation(ErrSessionNotStarted, "end render pass")
	}
	if err := r.checkScratch(); err != nil {
		return err
	}
	if err := r.pass.FinishPass(); err != nil {
		return err
	}
	defer r.finish()

	if _, err := command.Submit(r.buffer, command.EndRenderPassCommand{}); err != nil {
		return err
	}
	if err := r.api.OptimizeCommands(r.buffer); err != nil {
		return fmt.Errorf("render: optimize: %w", err)
	}
	rec, err := r.api.RecordCommands(r.buffer)
	if err != nil {
		return fmt.Errorf("render: record: %w", err)
	}
	if err := r.api.SubmitRenderCommands(rec); err != nil {
		return fmt.Errorf("render: submit: %w", err)
	}

	st := r.buffer.Stats()
	r.stats.Passes++
	r.stats.Commands = r.buffer.Len()
	r.stats.CommandBytes = st.Used
	r.stats.PeakBytes = st.Peak
	r.logger.Debug("render: pass submitted",
		"backend", r.api.Name(),
		"commands", r.stats.Commands,
		"bytes", r.stats.CommandBytes)
	return nil
}

func (r *Renderer) finish() {
	r.buffer.Reset()
	r.session = SessionFinished
}

// Abort drops the current session without submitting it. The command
// buffer is emptied and the pass returns to idle. Scratch allocations are
// the caller's to release.
func (r *Renderer) Abort() {
	if r.session != SessionStarted {
		return
	}
	r.abort()
	r.logger.Warn("render: session aborted", "backend", r.api.Name())
}

// abort drops a half-built session after a failure inside BeginRenderPass.
func (r *Renderer) abort() {
	r.buffer.Reset()
	r.pass.Reset()
	r.session = SessionUndefined
}

func (r *Renderer) checkScratch() error {
	if n := r.scratch.AllocationCount(); n != 0 {
		return violation(ErrScratchInUse, "%d live scratch allocations", n)
	}
	return nil
}

// Draw enqueues the commands for obj. It is valid only while a session is
// started.
func (r *Renderer) Draw(obj Object) error {
	if r.session != SessionStarted {
		return violation(ErrSessionNotStarted, "draw %T", obj)
	}
	return obj.AcceptDraw(&r.drawer)
}

// CommandBuffer returns the active buffer for layers that submit commands
// directly. It is valid only while a session is started.
func (r *Renderer) CommandBuffer() (*command.Buffer, error) {
	if r.session != SessionStarted {
		return nil, violation(ErrSessionNotStarted, "command buffer")
	}
	return r.buffer, nil
}

// Close releases the command buffer, scratch stack and backend.
func (r *Renderer) Close() error {
	r.buffer.Close()
	r.scratch.Close()
	return r.api.Close()
}

// drawVisitor turns render objects into commands for the active stage.
type drawVisitor struct {
	r *Renderer
}

func (d *drawVisitor) DrawMesh(m *Mesh) error {
	r := d.r
	count := m.VertexCount
	if count == 0 {
		stage, _ := r.pass.CurrentStage()
		state, _ := r.pipelines.Lookup(stage.Pipeline)
		count = pipeline.VertexCount(state.Shader)
	}
	instances := m.InstanceCount
	if instances == 0 {
		instances = 1
	}
	_, err := command.Submit(r.buffer, command.DrawCommand{
		Mesh:          m.ID,
		VertexCount:   count,
		InstanceCount: instances,
		Transform:     r.viewProj.Mul4(m.Model),
		Color:         m.Color,
	})
	return err
}

func (d *drawVisitor) DrawOverlay(o *Overlay) error {
	span, err := d.r.buffer.Text(o.Text)
	if err != nil {
		return err
	}
	_, err = command.Submit(d.r.buffer, command.DrawOverlayCommand{
		Text:  span,
		X:     o.X,
		Y:     o.Y,
		Color: o.Color,
	})
	return err
}

func (d *drawVisitor) DrawClear(c *Clear) error {
	_, err := command.Submit(d.r.buffer, command.ClearCommand{Color: c.Color})
	return err
}
