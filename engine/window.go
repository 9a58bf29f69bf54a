// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/framecore/event"
	"github.com/gogpu/framecore/renderpass"
)

// Window is the narrow windowing contract the engine needs.
//
// PollEvents and ShouldClose are called on the goroutine running
// Application.Run; Present is called on the render thread.
type Window interface {
	// PollEvents pushes pending input into q.
	PollEvents(q *event.Queue)
	// Present shows fb after the backend has finished it.
	Present(fb *renderpass.Framebuffer) error
	ShouldClose() bool
	Size() (width, height int)
}

// HeadlessWindow is a Window without a display. Tests and the demo use it
// to inject events and to stop after a number of presented frames.
type HeadlessWindow struct {
	mu      sync.Mutex
	pending []event.Event
	width   int
	height  int

	maxFrames uint64
	presented atomic.Uint64
	lastFB    atomic.Uint32
	closed    atomic.Bool
}

// NewHeadlessWindow creates a window of the given size. A positive
// maxFrames makes ShouldClose report true after that many presents.
func NewHeadlessWindow(width, height int, maxFrames uint64) *HeadlessWindow {
	return &HeadlessWindow{width: width, height: height, maxFrames: maxFrames}
}

// Inject queues ev for the next PollEvents. A resize event also updates
// Size.
func (w *HeadlessWindow) Inject(ev event.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ev.Type == event.TypeResize {
		w.width, w.height = ev.Width, ev.Height
	}
	w.pending = append(w.pending, ev)
}

// PollEvents moves injected events into q.
func (w *HeadlessWindow) PollEvents(q *event.Queue) {
	w.mu.Lock()
	pending := w.pending
	w.pending = nil
	w.mu.Unlock()
	for _, ev := range pending {
		q.Push(ev)
	}
}

// Present counts fb as shown.
func (w *HeadlessWindow) Present(fb *renderpass.Framebuffer) error {
	w.lastFB.Store(fb.ID)
	w.presented.Add(1)
	return nil
}

// RequestClose makes ShouldClose report true.
func (w *HeadlessWindow) RequestClose() { w.closed.Store(true) }

// ShouldClose reports whether the window was closed or reached its frame
// limit.
func (w *HeadlessWindow) ShouldClose() bool {
	if w.closed.Load() {
		return true
	}
	return w.maxFrames > 0 && w.presented.Load() >= w.maxFrames
}

// Size returns the current size.
func (w *HeadlessWindow) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// Presented returns the number of presented frames.
func (w *HeadlessWindow) Presented() uint64 { return w.presented.Load() }

// LastFramebuffer returns the ID of the last presented framebuffer.
func (w *HeadlessWindow) LastFramebuffer() uint32 { return w.lastFB.Load() }

var _ Window = (*HeadlessWindow)(nil)
