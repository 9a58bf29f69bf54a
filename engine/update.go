// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gogpu/framecore/event"
	"github.com/gogpu/framecore/loop"
)

// UpdateLoop is the loop.Body of the update thread.
type UpdateLoop struct {
	ctx     *Context
	layers  *LayerStack
	events  *event.Queue
	submit  func(context.Context, *Frame) error
	onClose func()
	run     context.Context

	step   *loop.FixedStep
	start  time.Time
	last   time.Time
	tick   uint64
	evbuf  []event.Event
	width  int
	height int

	published atomic.Uint64
}

func newUpdateLoop(a *Application, run context.Context) *UpdateLoop {
	cfg := a.ctx.Config.Update
	w, h := a.window.Size()
	step := loop.NewFixedStep(cfg.Timestep)
	step.MaxSteps = cfg.MaxSteps
	return &UpdateLoop{
		ctx:     a.ctx,
		layers:  &a.layers,
		events:  a.events,
		submit:  a.SubmitFrame,
		onClose: a.Close,
		run:     run,
		step:    step,
		width:   w,
		height:  h,
	}
}

// Init starts the simulation clock.
func (u *UpdateLoop) Init() error {
	u.start = u.ctx.Clock.Now()
	u.last = u.start
	return nil
}

// MainLoopBody runs one update iteration and publishes its frame. It
// blocks while the frame queue is full.
func (u *UpdateLoop) MainLoopBody() {
	now := u.ctx.Clock.Now()
	delta := now.Sub(u.last)
	u.last = now

	u.evbuf = u.events.Drain(u.evbuf[:0])
	for _, ev := range u.evbuf {
		switch ev.Type {
		case event.TypeResize:
			u.width, u.height = ev.Width, ev.Height
		case event.TypeClose:
			u.onClose()
		}
		u.layers.Dispatch(ev)
	}

	steps := u.step.Advance(delta, u.fixedUpdate)

	u.tick++
	f := NewFrame(u.tick)
	f.Steps = steps
	f.Alpha = u.step.Alpha()
	f.Delta = delta
	f.Elapsed = now.Sub(u.start)
	f.Width, f.Height = u.width, u.height
	u.layers.Each(func(l Layer) bool {
		l.OnUpdate(f)
		return true
	})

	if err := u.submit(u.run, f); err != nil {
		return // shutting down
	}
	u.published.Add(1)
}

func (u *UpdateLoop) fixedUpdate(dt time.Duration) {
	u.layers.Each(func(l Layer) bool {
		l.OnFixedUpdate(dt)
		return true
	})
}

// Shutdown logs the loop totals.
func (u *UpdateLoop) Shutdown() {
	u.ctx.Logger.Info("engine: update loop stopped",
		"frames", u.published.Load(),
		"dropped_time", u.step.Dropped())
}

// Published returns the number of frames handed to the render thread.
func (u *UpdateLoop) Published() uint64 { return u.published.Load() }

var _ loop.Body = (*UpdateLoop)(nil)
