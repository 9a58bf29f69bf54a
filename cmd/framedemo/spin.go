// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"image"
	"math"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/framecore/backend/opengl"
	"github.com/gogpu/framecore/engine"
	"github.com/gogpu/framecore/event"
	"github.com/gogpu/framecore/render"
)

const angleKey = "spin.angle"

// spinLayer rotates a row of quads at a fixed rate. Space pauses it.
type spinLayer struct {
	engine.BaseLayer

	speed  float64 // radians per second
	angle  float64 // simulated at the fixed timestep
	prev   float64
	paused atomic.Bool

	api atomic.Value // render.API, set on the render thread
}

func newSpinLayer() *spinLayer {
	return &spinLayer{BaseLayer: engine.BaseLayer{LayerName: "spin"}, speed: math.Pi / 2}
}

func (l *spinLayer) OnEvent(ev event.Event) bool {
	if ev.Type == event.TypeKeyDown && ev.Key == gpucontext.KeySpace {
		l.paused.Store(!l.paused.Load())
		return true
	}
	return false
}

func (l *spinLayer) OnFixedUpdate(dt time.Duration) {
	l.prev = l.angle
	if !l.paused.Load() {
		l.angle += l.speed * dt.Seconds()
	}
}

func (l *spinLayer) OnUpdate(f *engine.Frame) {
	f.Set(angleKey, l.prev+(l.angle-l.prev)*f.Alpha)
}

func (l *spinLayer) OnRender(r *render.Renderer, f *engine.Frame) error {
	l.api.Store(r.API())
	angle, _ := f.Value(angleKey)
	a, _ := angle.(float64)

	aspect := float32(1)
	if f.Height > 0 {
		aspect = float32(f.Width) / float32(f.Height)
	}
	r.SetViewProjection(mgl32.Ortho2D(-2*aspect, 2*aspect, -2, 2))
	model := mgl32.Translate3D(-1.1, 0, 0).
		Mul4(mgl32.HomogRotate3DZ(float32(a))).
		Mul4(mgl32.Scale3D(0.8, 0.8, 1))
	return r.Draw(&render.Mesh{
		ID:            1,
		InstanceCount: 3,
		Model:         model,
		Color:         gputypes.Color{R: 0.9, G: 0.5, B: 0.1, A: 1},
	})
}

func (l *spinLayer) OnOverlayRender(r *render.Renderer, _ *engine.Frame) error {
	return r.Draw(&render.Mesh{
		ID:    2,
		Model: mgl32.Translate3D(0, -1.5, 0).Mul4(mgl32.Scale3D(0.3, 0.3, 1)),
		Color: gputypes.Color{R: 0.2, G: 0.6, B: 1, A: 0.7},
	})
}

// frontImage returns the last presented image when the software GL
// implementation rendered the frames.
func (l *spinLayer) frontImage() *image.RGBA {
	b, ok := l.api.Load().(*opengl.Backend)
	if !ok {
		return nil
	}
	soft, ok := b.GL().(*opengl.SoftGL)
	if !ok {
		return nil
	}
	return soft.Front()
}
