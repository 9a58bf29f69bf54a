// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/framecore/loop"
	"github.com/gogpu/framecore/pipeline"
	"github.com/gogpu/framecore/queue"
	"github.com/gogpu/framecore/render"
	"github.com/gogpu/framecore/renderpass"
)

// Stage names of the engine's render pass.
const (
	StageScene   = "scene"
	StageOverlay = "overlay"
)

// ClearColor is the default framebuffer clear color.
var ClearColor = gputypes.Color{R: 0.08, G: 0.08, B: 0.1, A: 1}

// sinkSetter is implemented by backends that stream frame traces.
type sinkSetter interface {
	SetSink(w io.Writer)
}

// RenderLoop is the loop.Body of the render thread.
type RenderLoop struct {
	ctx     *Context
	layers  *LayerStack
	window  Window
	frames  *queue.Bounded[*Frame]
	timeout time.Duration
	pacer   *loop.Pacer

	renderer  *render.Renderer
	pipelines *pipeline.Cache
	template  *renderpass.Template
	pass      *renderpass.Pass
	fb        *renderpass.Framebuffer
	sink      *os.File
	prev      *Frame

	rendered  atomic.Uint64
	fallbacks atomic.Uint64
	failures  atomic.Uint64
}

func newRenderLoop(a *Application) *RenderLoop {
	cfg := a.ctx.Config
	return &RenderLoop{
		ctx:     a.ctx,
		layers:  &a.layers,
		window:  a.window,
		frames:  a.frames,
		timeout: cfg.Queue.PopTimeout,
		pacer:   &loop.Pacer{Timestep: cfg.Renderer.FrameTime(), SpinThreshold: cfg.Renderer.SpinThreshold, Clock: a.ctx.Clock},
	}
}

// Init creates the backend, the renderer and the engine render pass on
// the render thread.
func (rl *RenderLoop) Init() error {
	cfg := rl.ctx.Config
	opt, err := render.OptimizerByName(cfg.Renderer.Optimizer)
	if err != nil {
		return err
	}
	rl.pipelines = pipeline.NewCache()
	api, err := render.NewAPI(cfg.Renderer.Backend, render.Config{
		Device:    rl.ctx.Device,
		Pipelines: rl.pipelines,
		Optimizer: opt,
		Logger:    rl.ctx.Logger,
	})
	if err != nil {
		return err
	}
	if s, ok := api.(sinkSetter); ok && cfg.Renderer.CapturePath != "" {
		f, err := os.Create(cfg.Renderer.CapturePath)
		if err != nil {
			_ = api.Close()
			return fmt.Errorf("engine: capture sink: %w", err)
		}
		rl.sink = f
		s.SetSink(f)
	}

	rl.renderer, err = render.NewRenderer(api, rl.ctx.Memory, rl.pipelines, render.Options{
		CommandBufferSize: cfg.Memory.CommandBufferSize,
		ScratchSize:       cfg.Memory.RenderQueueSize,
		Logger:            rl.ctx.Logger,
	})
	if err != nil {
		_ = api.Close()
		rl.closeSink()
		return err
	}
	if err := rl.buildPass(); err != nil {
		_ = rl.renderer.Close()
		rl.closeSink()
		return err
	}
	rl.ctx.Logger.Info("engine: render loop ready",
		"backend", api.Name(),
		"frame_time", rl.pacer.Timestep,
		"width", rl.fb.Width,
		"height", rl.fb.Height)
	return nil
}

func (rl *RenderLoop) buildPass() error {
	format := render.SurfaceFormatOr(rl.ctx.Device, gputypes.TextureFormatRGBA8Unorm)
	scene := pipeline.DefaultState(pipeline.ShaderQuad)
	scene.ColorFormat = format
	overlay := pipeline.DefaultState(pipeline.ShaderTriangle)
	overlay.ColorFormat = format
	overlay.Blend = true

	sh, err := rl.pipelines.Get(scene)
	if err != nil {
		return err
	}
	oh, err := rl.pipelines.Get(overlay)
	if err != nil {
		return err
	}
	fbTmpl := renderpass.ColorTemplate(format)
	color := []renderpass.AttachmentRef{{Attachment: 0, Load: gputypes.LoadOpLoad, Store: gputypes.StoreOpStore}}
	rl.template, err = renderpass.NewTemplate(fbTmpl, ClearColor,
		renderpass.Stage{Name: StageScene, Pipeline: sh, Attachments: color},
		renderpass.Stage{Name: StageOverlay, Pipeline: oh, Attachments: color},
	)
	if err != nil {
		return err
	}
	rl.pass = rl.renderer.NewPass(rl.template)
	w, h := rl.window.Size()
	if err := rl.bindFramebuffer(w, h); err != nil {
		return err
	}
	return rl.renderer.SetRenderPass(rl.pass)
}

func (rl *RenderLoop) bindFramebuffer(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("engine: invalid framebuffer size %dx%d", w, h)
	}
	fb := renderpass.NewFramebuffer(rl.template.Framebuffer(), uint32(w), uint32(h))
	if err := rl.pass.BindFramebuffer(fb); err != nil {
		return err
	}
	prev := rl.fb
	rl.fb = fb
	if prev == nil {
		return nil
	}
	if err := rl.renderer.API().DetachFramebuffer(prev); err != nil {
		return fmt.Errorf("engine: release framebuffer %d: %w", prev.ID, err)
	}
	return nil
}

// MainLoopBody renders one frame: it takes the newest frame from the
// queue, or reuses the previous one when none arrives within the pop
// timeout, then paces to the configured frame time.
func (rl *RenderLoop) MainLoopBody() {
	rl.pacer.Begin()

	f, ok := rl.frames.Pop(rl.timeout)
	if ok {
		rl.prev = f
	} else {
		f = rl.prev
		rl.fallbacks.Add(1)
		rl.ctx.Logger.Warn("engine: no frame within pop timeout, reusing previous",
			"timeout", rl.timeout, "have_previous", f != nil)
	}

	if err := rl.renderFrame(f); err != nil {
		rl.failures.Add(1)
		rl.ctx.Logger.Error("engine: frame failed", "err", err)
	}
	rl.pacer.Wait()
}

// renderFrame records f through the layer stack. A nil f renders a
// clear-only pass.
func (rl *RenderLoop) renderFrame(f *Frame) error {
	if f != nil && f.Width > 0 && f.Height > 0 &&
		(uint32(f.Width) != rl.fb.Width || uint32(f.Height) != rl.fb.Height) {
		if err := rl.bindFramebuffer(f.Width, f.Height); err != nil {
			return err
		}
	}

	r := rl.renderer
	if err := r.BeginRenderPass(); err != nil {
		return err
	}
	if err := rl.drawStage(f, Layer.OnRender); err != nil {
		r.Abort()
		return err
	}
	if err := r.NextRenderStage(); err != nil {
		r.Abort()
		return err
	}
	if err := rl.drawStage(f, Layer.OnOverlayRender); err != nil {
		r.Abort()
		return err
	}
	if err := r.EndRenderPass(); err != nil {
		r.Abort()
		return err
	}
	rl.rendered.Add(1)

	if p, ok := r.API().(render.Presenter); ok {
		if err := p.Present(rl.fb); err != nil {
			return fmt.Errorf("engine: backend present: %w", err)
		}
	}
	return rl.window.Present(rl.fb)
}

func (rl *RenderLoop) drawStage(f *Frame, draw func(Layer, *render.Renderer, *Frame) error) error {
	if f == nil {
		return nil
	}
	var err error
	rl.layers.Each(func(l Layer) bool {
		if e := draw(l, rl.renderer, f); e != nil {
			err = &LayerError{Layer: l.Name(), Op: "render", Err: e}
			return false
		}
		return true
	})
	return err
}

// Shutdown closes the renderer and its backend.
func (rl *RenderLoop) Shutdown() {
	if err := rl.renderer.Close(); err != nil {
		rl.ctx.Logger.Error("engine: close renderer", "err", err)
	}
	rl.closeSink()
	rl.ctx.Logger.Info("engine: render loop stopped",
		"frames", rl.rendered.Load(),
		"fallbacks", rl.fallbacks.Load(),
		"failures", rl.failures.Load())
}

func (rl *RenderLoop) closeSink() {
	if rl.sink == nil {
		return
	}
	if err := rl.sink.Close(); err != nil {
		rl.ctx.Logger.Error("engine: close capture sink", "err", err)
	}
	rl.sink = nil
}

// Renderer returns the render-thread renderer. It is nil before Init.
func (rl *RenderLoop) Renderer() *render.Renderer { return rl.renderer }

var _ loop.Body = (*RenderLoop)(nil)
