// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"sync"
	"time"

	"github.com/gogpu/framecore/event"
	"github.com/gogpu/framecore/render"
)

// Layer is a unit of application behavior.
//
// OnEvent, OnFixedUpdate and OnUpdate run on the update thread; OnRender
// and OnOverlayRender run on the render thread and must only read the
// Frame they are given.
type Layer interface {
	Name() string
	OnAttach(ctx *Context) error
	OnDetach()

	// OnEvent reports whether the event was handled, which stops
	// propagation to lower layers.
	OnEvent(ev event.Event) bool
	OnFixedUpdate(dt time.Duration)
	OnUpdate(f *Frame)

	// OnRender draws into the scene stage.
	OnRender(r *render.Renderer, f *Frame) error
	// OnOverlayRender draws into the overlay stage.
	OnOverlayRender(r *render.Renderer, f *Frame) error
}

// BaseLayer implements every Layer callback as a no-op.
// Embed it and override what you need.
type BaseLayer struct {
	LayerName string
}

func (b BaseLayer) Name() string                                 { return b.LayerName }
func (BaseLayer) OnAttach(*Context) error                        { return nil }
func (BaseLayer) OnDetach()                                      {}
func (BaseLayer) OnEvent(event.Event) bool                       { return false }
func (BaseLayer) OnFixedUpdate(time.Duration)                    {}
func (BaseLayer) OnUpdate(*Frame)                                {}
func (BaseLayer) OnRender(*render.Renderer, *Frame) error        { return nil }
func (BaseLayer) OnOverlayRender(*render.Renderer, *Frame) error { return nil }

// LayerStack holds layers and overlays. Iteration visits layers then
// overlays, each in push order; events travel the other way.
//
// The stack may be read from both loops but should only be modified
// before Run.
type LayerStack struct {
	mu       sync.RWMutex
	layers   []Layer
	overlays []Layer
}

// PushLayer appends a layer below all overlays.
func (s *LayerStack) PushLayer(l Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers = append(s.layers, l)
}

// PushOverlay appends an overlay above all layers.
func (s *LayerStack) PushOverlay(l Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlays = append(s.overlays, l)
}

// Len returns the total number of layers and overlays.
func (s *LayerStack) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.layers) + len(s.overlays)
}

// snapshot returns layers followed by overlays.
func (s *LayerStack) snapshot() []Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]Layer, 0, len(s.layers)+len(s.overlays))
	all = append(all, s.layers...)
	return append(all, s.overlays...)
}

// Each calls fn for every layer bottom-up until fn returns false.
func (s *LayerStack) Each(fn func(Layer) bool) {
	for _, l := range s.snapshot() {
		if !fn(l) {
			return
		}
	}
}

// Dispatch delivers ev top-down and reports whether a layer handled it.
func (s *LayerStack) Dispatch(ev event.Event) bool {
	all := s.snapshot()
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].OnEvent(ev) {
			return true
		}
	}
	return false
}

// Attach calls OnAttach bottom-up. On failure the layers already attached
// are detached and the error is returned.
func (s *LayerStack) Attach(ctx *Context) error {
	all := s.snapshot()
	for i, l := range all {
		if err := l.OnAttach(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				all[j].OnDetach()
			}
			return &LayerError{Layer: l.Name(), Op: "attach", Err: err}
		}
	}
	return nil
}

// Detach calls OnDetach top-down.
func (s *LayerStack) Detach() {
	all := s.snapshot()
	for i := len(all) - 1; i >= 0; i-- {
		all[i].OnDetach()
	}
}

// LayerError reports a failing layer callback.
type LayerError struct {
	Layer string
	Op    string
	Err   error
}

func (e *LayerError) Error() string {
	return "engine: layer " + e.Layer + ": " + e.Op + ": " + e.Err.Error()
}

func (e *LayerError) Unwrap() error { return e.Err }
