// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gogpu/framecore/event"
	"github.com/gogpu/framecore/loop"
	"github.com/gogpu/framecore/queue"
)

// DefaultPollInterval is how often Run polls the window for events.
const DefaultPollInterval = time.Millisecond

// Stats is a snapshot of the application counters.
type Stats struct {
	Updates    uint64 // frames published by the update thread
	Rendered   uint64 // passes submitted by the render thread
	Fallbacks  uint64 // render iterations that reused the previous frame
	Failures   uint64 // frames whose pass failed
	EventDrops uint64 // input events lost to a full event queue
}

// Application owns the layer stack and runs the update and render threads.
//
// The goroutine calling Run pumps window events; the update thread turns
// them into frames; the render thread turns frames into passes.
type Application struct {
	ctx    *Context
	window Window
	layers LayerStack
	events *event.Queue
	frames *queue.Bounded[*Frame]

	// PollInterval overrides DefaultPollInterval when positive.
	PollInterval time.Duration

	running atomic.Bool
	closing loop.Signal
	update  atomic.Pointer[UpdateLoop]
	render  atomic.Pointer[RenderLoop]
}

// NewApplication creates an application rendering into window.
func NewApplication(ctx *Context, window Window) *Application {
	return &Application{
		ctx:    ctx,
		window: window,
		events: event.NewQueue(ctx.Config.Events.Capacity),
		frames: queue.NewBounded[*Frame](ctx.Config.Queue.FrameCapacity),
	}
}

// Context returns the engine context.
func (a *Application) Context() *Context { return a.ctx }

// Events returns the input queue filled by the window.
func (a *Application) Events() *event.Queue { return a.events }

// PushLayer adds a layer below all overlays. Layers must be pushed before
// Run.
func (a *Application) PushLayer(l Layer) { a.layers.PushLayer(l) }

// PushOverlay adds a layer above all others.
func (a *Application) PushOverlay(l Layer) { a.layers.PushOverlay(l) }

// SubmitFrame hands f to the render thread. It blocks while the frame
// queue is full and fails when ctx ends first.
func (a *Application) SubmitFrame(ctx context.Context, f *Frame) error {
	return a.frames.Push(ctx, f)
}

// Close asks Run to return. It is safe to call from any goroutine.
func (a *Application) Close() { a.closing.Set() }

// Stats returns the current counters.
func (a *Application) Stats() Stats {
	s := Stats{EventDrops: a.events.Drops()}
	if u := a.update.Load(); u != nil {
		s.Updates = u.Published()
	}
	if r := a.render.Load(); r != nil {
		s.Rendered = r.rendered.Load()
		s.Fallbacks = r.fallbacks.Load()
		s.Failures = r.failures.Load()
	}
	return s
}

// Run attaches the layers, starts both threads and pumps window events
// until the window asks to close, Close is called or ctx is done. It
// returns after both threads have stopped and the layers are detached.
func (a *Application) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return fmt.Errorf("engine: application already running")
	}
	defer a.running.Store(false)
	log := a.ctx.Logger

	if err := a.layers.Attach(a.ctx); err != nil {
		return err
	}
	defer a.layers.Detach()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	rl := newRenderLoop(a)
	a.render.Store(rl)
	renderThread := loop.NewThread("render", rl, loop.WithLockOSThread(), loop.WithLogger(log))
	renderThread.Spawn()
	if err := renderThread.WaitReady(); err != nil {
		renderThread.Join()
		return fmt.Errorf("engine: render thread: %w", err)
	}

	ul := newUpdateLoop(a, runCtx)
	a.update.Store(ul)
	updateThread := loop.NewThread("update", ul, loop.WithLogger(log))
	updateThread.Spawn()
	if err := updateThread.WaitReady(); err != nil {
		renderThread.Close()
		renderThread.Join()
		updateThread.Join()
		return fmt.Errorf("engine: update thread: %w", err)
	}

	renderThread.Start()
	updateThread.Start()
	log.Info("engine: running",
		"backend", a.ctx.Config.Renderer.Backend,
		"layers", a.layers.Len())

	a.pump(ctx, renderThread)

	updateThread.Close()
	cancel()
	renderThread.Close()
	updateThread.Join()
	renderThread.Join()

	st := a.Stats()
	log.Info("engine: stopped",
		"updates", st.Updates,
		"rendered", st.Rendered,
		"fallbacks", st.Fallbacks,
		"event_drops", st.EventDrops)
	return nil
}

func (a *Application) pump(ctx context.Context, renderThread *loop.Thread) {
	interval := a.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		a.window.PollEvents(a.events)
		if a.window.ShouldClose() || a.closing.IsSet() {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-a.closing.Done():
			return
		case <-renderThread.Done():
			return
		case <-ticker.C:
		}
	}
}
