// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"bytes"
	"errors"
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

func newCaptureRenderer(t *testing.T) (*Backend, *render.Renderer) {
	t.Helper()
	cache := pipeline.NewCache()
	api, err := render.NewAPI(Name, render.Config{Pipelines: cache})
	if err != nil {
		t.Fatalf("NewAPI: %v", err)
	}
	b := api.(*Backend)

	r, err := render.NewRenderer(b, memory.NewService(), cache,
		render.Options{CommandBufferSize: 4096, ScratchSize: 256})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = r.Close() })

	fbTmpl := renderpass.ColorTemplate(gputypes.TextureFormatBGRA8Unorm)
	tmpl := renderpass.MustTemplate(fbTmpl, gputypes.Color{B: 1, A: 1},
		renderpass.Stage{Name: "scene", Pipeline: cache.MustGet(pipeline.DefaultState(pipeline.ShaderQuad))},
		renderpass.Stage{Name: "overlay", Pipeline: cache.MustGet(pipeline.DefaultState(pipeline.ShaderTriangle))},
	)
	pass := r.NewPass(tmpl)
	if err := pass.BindFramebuffer(renderpass.NewFramebuffer(fbTmpl, 640, 480)); err != nil {
		t.Fatal(err)
	}
	if err := r.SetRenderPass(pass); err != nil {
		t.Fatal(err)
	}
	return b, r
}

func drawFrame(t *testing.T, r *render.Renderer, label string) {
	t.Helper()
	steps := []func() error{
		r.BeginRenderPass,
		func() error { return r.Draw(&render.Mesh{ID: 5, Model: mgl32.Translate3D(1, 2, 3)}) },
		r.NextRenderStage,
		func() error { return r.Draw(&render.Overlay{Text: label, X: 8, Y: 16}) },
		r.EndRenderPass,
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

func TestCaptureRoundTrip(t *testing.T) {
	b, r := newCaptureRenderer(t)
	var sink bytes.Buffer
	b.SetSink(&sink)

	drawFrame(t, r, "first")
	drawFrame(t, r, "second")

	frames, err := ReadFrames(&sink)
	if err != nil {
		t.Fatalf("ReadFrames: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}

	f := frames[1]
	if f.Seq != 2 || f.Width != 640 || f.Height != 480 {
		t.Errorf("frame header = seq %d %dx%d", f.Seq, f.Width, f.Height)
	}
	wantKinds := []string{"BeginRenderPass", "BindPipeline", "Draw", "BindPipeline", "DrawOverlay", "EndRenderPass"}
	if len(f.Ops) != len(wantKinds) {
		t.Fatalf("got %d ops, want %d", len(f.Ops), len(wantKinds))
	}
	for i, k := range wantKinds {
		if f.Ops[i].Kind != k {
			t.Errorf("op %d = %s, want %s", i, f.Ops[i].Kind, k)
		}
	}
	if f.Ops[1].Shader != pipeline.ShaderQuad || f.Ops[3].Shader != pipeline.ShaderTriangle {
		t.Errorf("shaders = %q, %q", f.Ops[1].Shader, f.Ops[3].Shader)
	}
	draw := f.Ops[2]
	if draw.Mesh != 5 || draw.Vertices != 6 || draw.Instances != 1 {
		t.Errorf("draw op = %+v", draw)
	}
	if len(draw.Transform) != 16 || draw.Transform[12] != 1 || draw.Transform[13] != 2 {
		t.Errorf("transform = %v", draw.Transform)
	}
	if f.Ops[4].Text != "second" {
		t.Errorf("overlay text = %q", f.Ops[4].Text)
	}
	if f.Ops[0].Color != [4]float64{0, 0, 1, 1} {
		t.Errorf("clear color = %v", f.Ops[0].Color)
	}
}

func TestCaptureHistorySurvivesArenaReuse(t *testing.T) {
	b, r := newCaptureRenderer(t)
	drawFrame(t, r, "one")
	drawFrame(t, r, "two")

	frames := b.Frames()
	if len(frames) != 2 {
		t.Fatalf("history has %d frames", len(frames))
	}
	if got := frames[0].Ops[4].Text; got != "one" {
		t.Errorf("first frame overlay = %q", got)
	}
	if got := frames[0].Ops[2].Transform[14]; got != 3 {
		t.Errorf("first frame transform z = %v", got)
	}
}

func TestCaptureHistoryLimit(t *testing.T) {
	b, r := newCaptureRenderer(t)
	for range DefaultHistory + 3 {
		drawFrame(t, r, "x")
	}
	frames := b.Frames()
	if len(frames) != DefaultHistory {
		t.Fatalf("history has %d frames, want %d", len(frames), DefaultHistory)
	}
	if frames[0].Seq != 4 {
		t.Errorf("oldest kept frame = %d, want 4", frames[0].Seq)
	}
}

func TestCaptureRejectsForeignRecording(t *testing.T) {
	b, _ := newCaptureRenderer(t)
	err := b.SubmitRenderCommands(render.RecordedCommandBuffer{Backend: "opengl"})
	if !errors.Is(err, backend.ErrForeignRecording) {
		t.Errorf("err = %v", err)
	}
}

func TestReadFramesTruncated(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, &Frame{Seq: 1}); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	frames, err := ReadFrames(bytes.NewReader(data[:len(data)-1]))
	if err == nil {
		t.Fatal("expected error for truncated trace")
	}
	if len(frames) != 0 {
		t.Errorf("decoded %d frames", len(frames))
	}
}

func TestCaptureClose(t *testing.T) {
	b, err := New(render.Config{Pipelines: pipeline.NewCache()})
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	fb := renderpass.NewFramebuffer(renderpass.ColorTemplate(gputypes.TextureFormatBGRA8Unorm), 1, 1)
	if err := b.AttachFramebuffer(fb); !errors.Is(err, backend.ErrClosed) {
		t.Errorf("attach after close: %v", err)
	}
}

func TestCaptureDetach(t *testing.T) {
	b, r := newCaptureRenderer(t)
	drawFrame(t, r, "a")
	if b.Framebuffers() != 1 {
		t.Fatalf("Framebuffers() = %d, want 1", b.Framebuffers())
	}
	fb := r.RenderPass().Framebuffer()
	if err := b.DetachFramebuffer(fb); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Framebuffer(fb.ID); !errors.Is(err, backend.ErrUnknownFramebuffer) {
		t.Errorf("lookup after detach err = %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if err := b.DetachFramebuffer(fb); !errors.Is(err, backend.ErrClosed) {
		t.Errorf("detach after close: %v", err)
	}
}

func TestCaptureDrawRanges(t *testing.T) {
	b, err := New(render.Config{Pipelines: pipeline.NewCache()})
	if err != nil {
		t.Fatal(err)
	}
	var sink bytes.Buffer
	b.SetSink(&sink)

	buf, err := command.NewBuffer(memory.NewService(), 1024)
	if err != nil {
		t.Fatal(err)
	}
	defer buf.Close()
	if _, err := command.Submit(buf, command.DrawCommand{
		Mesh:          3,
		VertexCount:   3,
		InstanceCount: 4,
		FirstVertex:   3,
		FirstInstance: 2,
		Transform:     mgl32.Ident4(),
	}); err != nil {
		t.Fatal(err)
	}
	rec, err := b.RecordCommands(buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SubmitRenderCommands(rec); err != nil {
		t.Fatal(err)
	}

	frames, err := ReadFrames(&sink)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 1 || len(frames[0].Ops) != 1 {
		t.Fatalf("frames = %+v", frames)
	}
	op := frames[0].Ops[0]
	if op.FirstVertex != 3 || op.FirstInstance != 2 || op.Instances != 4 {
		t.Errorf("draw op = %+v", op)
	}
}
