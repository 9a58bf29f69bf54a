// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package opengl

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/framecore/backend"
	"github.com/gogpu/framecore/command"
	"github.com/gogpu/framecore/memory"
	"github.com/gogpu/framecore/pipeline"
	"github.com/gogpu/framecore/render"
	"github.com/gogpu/framecore/renderpass"
)

var (
	red  = gputypes.Color{R: 1, A: 1}
	blue = gputypes.Color{B: 1, A: 1}

	redPixel  = color.RGBA{R: 0xff, A: 0xff}
	bluePixel = color.RGBA{B: 0xff, A: 0xff}
)

type fixture struct {
	gl       *SoftGL
	backend  *Backend
	renderer *render.Renderer
	fb       *renderpass.Framebuffer
}

func newFixture(t *testing.T, gl GL, size uint32, shaders ...string) *fixture {
	t.Helper()
	cache := pipeline.NewCache()
	b, err := New(render.Config{Pipelines: cache}, gl)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r, err := render.NewRenderer(b, memory.NewService(), cache,
		render.Options{CommandBufferSize: 4096, ScratchSize: 256})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = r.Close() })

	fbTmpl := renderpass.ColorTemplate(gputypes.TextureFormatRGBA8Unorm)
	stages := make([]renderpass.Stage, len(shaders))
	for i, s := range shaders {
		stages[i] = renderpass.Stage{Name: s, Pipeline: cache.MustGet(pipeline.DefaultState(s))}
	}
	pass := r.NewPass(renderpass.MustTemplate(fbTmpl, blue, stages...))
	fb := renderpass.NewFramebuffer(fbTmpl, size, size)
	if err := pass.BindFramebuffer(fb); err != nil {
		t.Fatal(err)
	}
	if err := r.SetRenderPass(pass); err != nil {
		t.Fatal(err)
	}
	f := &fixture{backend: b, renderer: r, fb: fb}
	f.gl, _ = b.GL().(*SoftGL)
	return f
}

func (f *fixture) frame(t *testing.T, draws ...[]render.Object) {
	t.Helper()
	if err := f.renderer.BeginRenderPass(); err != nil {
		t.Fatalf("BeginRenderPass: %v", err)
	}
	for i, objs := range draws {
		if i > 0 {
			if err := f.renderer.NextRenderStage(); err != nil {
				t.Fatalf("NextRenderStage: %v", err)
			}
		}
		for _, o := range objs {
			if err := f.renderer.Draw(o); err != nil {
				t.Fatalf("Draw: %v", err)
			}
		}
	}
	if err := f.renderer.EndRenderPass(); err != nil {
		t.Fatalf("EndRenderPass: %v", err)
	}
}

func (f *fixture) image(t *testing.T) *image.RGBA {
	t.Helper()
	id, ok := f.backend.Target(f.fb.ID)
	if !ok {
		t.Fatal("framebuffer not attached")
	}
	img := f.gl.Image(id)
	if img == nil {
		t.Fatal("no image for target")
	}
	return img
}

func TestRegistered(t *testing.T) {
	if !render.IsRegistered(Name) {
		t.Fatalf("%q not registered", Name)
	}
	api, err := render.NewAPI(Name, render.Config{Pipelines: pipeline.NewCache()})
	if err != nil {
		t.Fatalf("NewAPI: %v", err)
	}
	defer api.Close()
	if api.Name() != Name {
		t.Errorf("Name() = %q", api.Name())
	}
}

func TestNewRequiresPipelines(t *testing.T) {
	_, err := New(render.Config{}, NewSoftGL())
	if !errors.Is(err, backend.ErrNotInitialized) {
		t.Fatalf("err = %v, want ErrNotInitialized", err)
	}
}

func TestClearAndQuad(t *testing.T) {
	f := newFixture(t, NewSoftGL(), 64, pipeline.ShaderQuad)
	f.frame(t, []render.Object{&render.Mesh{ID: 1, Model: mgl32.Ident4(), Color: red}})

	img := f.image(t)
	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"center", 32, 32, redPixel},
		{"inside corner", 18, 18, redPixel},
		{"top left", 2, 2, bluePixel},
		{"bottom right", 61, 61, bluePixel},
		{"left edge", 10, 32, bluePixel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
	if got := f.gl.Triangles(); got != 2 {
		t.Errorf("Triangles() = %d, want 2", got)
	}
	if got := f.backend.Draws(); got != 1 {
		t.Errorf("Draws() = %d, want 1", got)
	}
}

func TestInstancesAreOffset(t *testing.T) {
	f := newFixture(t, NewSoftGL(), 64, pipeline.ShaderTriangle)
	f.frame(t, []render.Object{&render.Mesh{
		ID:            2,
		InstanceCount: 2,
		Model:         mgl32.Scale3D(0.5, 0.5, 1),
		Color:         red,
	}})

	img := f.image(t)
	// Instance 1 sits 0.55 to the right in clip space, about 17.6 pixels.
	for _, x := range []int{32, 49} {
		if got := img.RGBAAt(x, 35); got != redPixel {
			t.Errorf("pixel (%d,35) = %v, want %v", x, got, redPixel)
		}
	}
	if got := img.RGBAAt(41, 35); got != bluePixel {
		t.Errorf("gap pixel = %v, want clear color", got)
	}
	if got := f.gl.Triangles(); got != 2 {
		t.Errorf("Triangles() = %d, want 2", got)
	}
}

func TestClearCommandInsidePass(t *testing.T) {
	f := newFixture(t, NewSoftGL(), 16, pipeline.ShaderQuad)
	f.frame(t, []render.Object{&render.Clear{Color: red}})
	if got := f.image(t).RGBAAt(0, 0); got != redPixel {
		t.Errorf("pixel = %v, want %v", got, redPixel)
	}
}

func TestOverlayText(t *testing.T) {
	f := newFixture(t, NewSoftGL(), 64, pipeline.ShaderQuad, pipeline.ShaderTriangle)
	f.frame(t, nil, []render.Object{&render.Overlay{Text: "Hi", X: 2, Y: 14, Color: gputypes.Color{R: 1, G: 1, B: 1, A: 1}}})

	img := f.image(t)
	touched := 0
	for y := 0; y < 16; y++ {
		for x := 0; x < 24; x++ {
			if img.RGBAAt(x, y) != bluePixel {
				touched++
			}
		}
	}
	if touched == 0 {
		t.Fatal("overlay text left the clear color untouched")
	}
}

func TestPresentBlitsToFront(t *testing.T) {
	f := newFixture(t, NewSoftGL(), 32, pipeline.ShaderQuad)
	f.frame(t, []render.Object{&render.Mesh{ID: 1, Model: mgl32.Ident4(), Color: red}})

	var p render.Presenter = f.backend
	if err := p.Present(f.fb); err != nil {
		t.Fatalf("Present: %v", err)
	}
	front := f.gl.Front()
	if front == nil {
		t.Fatal("no front image")
	}
	if got := front.RGBAAt(16, 16); got != redPixel {
		t.Errorf("front center = %v, want %v", got, redPixel)
	}

	other := renderpass.NewFramebuffer(f.fb.Template, 8, 8)
	if err := p.Present(other); !errors.Is(err, backend.ErrUnknownFramebuffer) {
		t.Errorf("Present(unattached) = %v, want ErrUnknownFramebuffer", err)
	}
}

// countingGL records calls on top of SoftGL.
type countingGL struct {
	*SoftGL
	programs int
	deleted  int
}

func (c *countingGL) CreateProgram(shader string) (uint32, error) {
	c.programs++
	return c.SoftGL.CreateProgram(shader)
}

func (c *countingGL) DeleteFramebuffer(fb uint32) {
	c.deleted++
	c.SoftGL.DeleteFramebuffer(fb)
}

func TestProgramsCompiledOnce(t *testing.T) {
	gl := &countingGL{SoftGL: NewSoftGL()}
	f := newFixture(t, gl, 16, pipeline.ShaderQuad, pipeline.ShaderTriangle)
	for range 3 {
		f.frame(t, nil, nil)
	}
	if gl.programs != 2 {
		t.Errorf("CreateProgram called %d times, want 2", gl.programs)
	}
	if err := f.backend.Close(); err != nil {
		t.Fatal(err)
	}
	if gl.deleted != 1 {
		t.Errorf("DeleteFramebuffer called %d times, want 1", gl.deleted)
	}
	if err := f.backend.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestSubmitRejectsForeignRecording(t *testing.T) {
	b, err := New(render.Config{Pipelines: pipeline.NewCache()}, NewSoftGL())
	if err != nil {
		t.Fatal(err)
	}
	err = b.SubmitRenderCommands(render.RecordedCommandBuffer{Backend: "capture"})
	if !errors.Is(err, backend.ErrForeignRecording) {
		t.Errorf("err = %v, want ErrForeignRecording", err)
	}
	err = b.SubmitRenderCommands(render.RecordedCommandBuffer{Backend: Name, Native: 42})
	if err == nil {
		t.Error("expected error for non-buffer recording")
	}
}

func TestDrawWithoutPipeline(t *testing.T) {
	cache := pipeline.NewCache()
	b, err := New(render.Config{Pipelines: cache}, NewSoftGL())
	if err != nil {
		t.Fatal(err)
	}
	buf, err := command.NewBuffer(memory.NewService(), 1024)
	if err != nil {
		t.Fatal(err)
	}
	defer buf.Close()
	if _, err := command.Submit(buf, command.DrawCommand{VertexCount: 3, InstanceCount: 1}); err != nil {
		t.Fatal(err)
	}
	rec, err := b.RecordCommands(buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SubmitRenderCommands(rec); err == nil {
		t.Error("draw without a bound pipeline succeeded")
	}
}

func TestSoftGLRejectsUnknownShader(t *testing.T) {
	if _, err := NewSoftGL().CreateProgram("teapot"); err == nil {
		t.Error("CreateProgram(teapot) succeeded")
	}
	if _, err := NewSoftGL().CreateFramebuffer(0, 10); err == nil {
		t.Error("CreateFramebuffer(0, 10) succeeded")
	}
}

func TestDetachFramebuffer(t *testing.T) {
	gl := &countingGL{SoftGL: NewSoftGL()}
	f := newFixture(t, gl, 16, pipeline.ShaderQuad)
	f.frame(t, nil)
	id, ok := f.backend.Target(f.fb.ID)
	if !ok {
		t.Fatal("framebuffer not attached after a frame")
	}
	if err := f.backend.DetachFramebuffer(f.fb); err != nil {
		t.Fatalf("DetachFramebuffer: %v", err)
	}
	if _, ok := f.backend.Target(f.fb.ID); ok {
		t.Error("target still present after detach")
	}
	if gl.Image(id) != nil {
		t.Error("native framebuffer still allocated after detach")
	}
	if n := f.backend.Framebuffers(); n != 0 {
		t.Errorf("Framebuffers() = %d, want 0", n)
	}
	if err := f.backend.DetachFramebuffer(f.fb); err != nil {
		t.Errorf("second detach: %v", err)
	}
	if gl.deleted != 1 {
		t.Errorf("DeleteFramebuffer called %d times, want 1", gl.deleted)
	}
	if err := f.backend.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.backend.DetachFramebuffer(f.fb); !errors.Is(err, backend.ErrClosed) {
		t.Errorf("detach after close: %v", err)
	}
}

func TestDrawHonoursFirstInstance(t *testing.T) {
	cache := pipeline.NewCache()
	gl := NewSoftGL()
	b, err := New(render.Config{Pipelines: cache}, gl)
	if err != nil {
		t.Fatal(err)
	}
	fb := renderpass.NewFramebuffer(renderpass.ColorTemplate(gputypes.TextureFormatRGBA8Unorm), 64, 64)
	if err := b.AttachFramebuffer(fb); err != nil {
		t.Fatal(err)
	}
	buf, err := command.NewBuffer(memory.NewService(), 1024)
	if err != nil {
		t.Fatal(err)
	}
	defer buf.Close()

	steps := []func() error{
		func() error {
			_, err := command.Submit(buf, command.BeginRenderPassCommand{Framebuffer: fb.ID, Width: 64, Height: 64, Clear: blue})
			return err
		},
		func() error {
			_, err := command.Submit(buf, command.BindPipelineCommand{Pipeline: cache.MustGet(pipeline.DefaultState(pipeline.ShaderTriangle))})
			return err
		},
		func() error {
			_, err := command.Submit(buf, command.DrawCommand{
				VertexCount:   3,
				InstanceCount: 1,
				FirstInstance: 1,
				Transform:     mgl32.Scale3D(0.5, 0.5, 1),
				Color:         red,
			})
			return err
		},
		func() error {
			_, err := command.Submit(buf, command.EndRenderPassCommand{})
			return err
		},
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	rec, err := b.RecordCommands(buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SubmitRenderCommands(rec); err != nil {
		t.Fatal(err)
	}

	id, _ := b.Target(fb.ID)
	img := gl.Image(id)
	// Only instance 1 is drawn: the slot of instance 0 stays clear.
	if got := img.RGBAAt(49, 35); got != redPixel {
		t.Errorf("instance 1 pixel = %v, want %v", got, redPixel)
	}
	if got := img.RGBAAt(32, 35); got != bluePixel {
		t.Errorf("instance 0 pixel = %v, want clear color", got)
	}
	if got := gl.Triangles(); got != 1 {
		t.Errorf("Triangles() = %d, want 1", got)
	}
}
