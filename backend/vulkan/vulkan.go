// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package vulkan provides the deferred render backend on top of the
// gogpu/wgpu hardware abstraction layer.
//
// Recording translates commands into a native command buffer; submission
// queues it with a fence and waits for completion. The backend borrows the
// host's device: the render.Config Device must implement render.HalProvider
// (as gogpu windows do), or the device can be passed to NewWithDevice.
package vulkan

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/framecore/backend"
	"github.com/gogpu/framecore/command"
	"github.com/gogpu/framecore/pipeline"
	"github.com/gogpu/framecore/render"
	"github.com/gogpu/framecore/renderpass"
)

// Name is the registered backend name.
const Name = "vulkan"

// SubmitTimeout bounds the wait for a submitted frame.
const SubmitTimeout = 5 * time.Second

// ErrDepthUnsupported is returned for pipelines that request a depth format.
var ErrDepthUnsupported = errors.New("vulkan: depth attachments are not supported")

func init() {
	render.Register(Name, func(cfg render.Config) (render.API, error) {
		return New(cfg)
	})
}

// target is the native color attachment of a framebuffer.
type target struct {
	texture hal.Texture // nil when the view is borrowed
	view    hal.TextureView
	format  gputypes.TextureFormat
}

// Backend is the deferred HAL backend. It is not safe for concurrent use.
type Backend struct {
	backend.Base

	device hal.Device
	queue  hal.Queue

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipelines     map[pipeline.Handle]hal.RenderPipeline
	targets       map[uint32]*target

	overlay   render.OverlayRenderer
	submitted uint64
}

// New creates a backend on the device exposed by cfg.Device.
func New(cfg render.Config) (*Backend, error) {
	hp, ok := cfg.Device.(render.HalProvider)
	if !ok {
		return nil, fmt.Errorf("vulkan: %w: device does not expose a HAL device", backend.ErrNotInitialized)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok {
		return nil, fmt.Errorf("vulkan: %w: HalDevice is %T", backend.ErrNotInitialized, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok {
		return nil, fmt.Errorf("vulkan: %w: HalQueue is %T", backend.ErrNotInitialized, hp.HalQueue())
	}
	return NewWithDevice(cfg, device, queue)
}

// NewWithDevice creates a backend on an explicit device and queue.
func NewWithDevice(cfg render.Config, device hal.Device, queue hal.Queue) (*Backend, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("vulkan: %w: nil device or queue", backend.ErrNotInitialized)
	}
	base, err := backend.NewBase(Name, cfg)
	if err != nil {
		return nil, err
	}
	b := &Backend{
		Base:      base,
		device:    device,
		queue:     queue,
		pipelines: make(map[pipeline.Handle]hal.RenderPipeline),
		targets:   make(map[uint32]*target),
	}
	if err := b.createLayouts(); err != nil {
		b.destroyShared()
		return nil, err
	}
	return b, nil
}

// SetOverlayRenderer sets the text renderer invoked after each submitted
// pass for its overlay commands. It receives framebuffer IDs.
func (b *Backend) SetOverlayRenderer(o render.OverlayRenderer) { b.overlay = o }

// Pipelines returns the number of native pipelines created so far.
func (b *Backend) Pipelines() int { return len(b.pipelines) }

// Submitted returns the number of submitted passes.
func (b *Backend) Submitted() uint64 { return b.submitted }

// AttachFramebuffer creates the color target for fb, or borrows
// fb.Views[0] when it holds a hal.TextureView.
func (b *Backend) AttachFramebuffer(fb *renderpass.Framebuffer) error {
	if b.Closed() {
		return backend.ErrClosed
	}
	if _, ok := b.targets[fb.ID]; ok {
		return nil
	}
	if len(fb.Template.Attachments) == 0 {
		return fmt.Errorf("vulkan: framebuffer %d has no attachments", fb.ID)
	}
	format := fb.Template.Attachments[0].Format

	if len(fb.Views) > 0 {
		view, ok := fb.Views[0].(hal.TextureView)
		if !ok {
			return fmt.Errorf("vulkan: framebuffer %d view is %T, want hal.TextureView", fb.ID, fb.Views[0])
		}
		b.targets[fb.ID] = &target{view: view, format: format}
		b.Remember(fb)
		return nil
	}

	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         fmt.Sprintf("framebuffer_%d", fb.ID),
		Size:          hal.Extent3D{Width: fb.Width, Height: fb.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("vulkan: create framebuffer %d texture: %w", fb.ID, err)
	}
	view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         fmt.Sprintf("framebuffer_%d_view", fb.ID),
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		b.device.DestroyTexture(tex)
		return fmt.Errorf("vulkan: create framebuffer %d view: %w", fb.ID, err)
	}
	b.targets[fb.ID] = &target{texture: tex, view: view, format: format}
	b.Remember(fb)
	b.Logger().Debug("vulkan: framebuffer attached", "id", fb.ID, "width", fb.Width, "height", fb.Height)
	return nil
}

// DetachFramebuffer destroys the texture and view owned for fb. Borrowed
// views are left to their owner.
func (b *Backend) DetachFramebuffer(fb *renderpass.Framebuffer) error {
	if b.Closed() {
		return backend.ErrClosed
	}
	t, ok := b.targets[fb.ID]
	if !ok {
		return nil
	}
	if t.texture != nil {
		b.device.DestroyTextureView(t.view)
		b.device.DestroyTexture(t.texture)
	}
	delete(b.targets, fb.ID)
	b.Forget(fb.ID)
	return nil
}

// Targets returns the number of attached color targets.
func (b *Backend) Targets() int { return len(b.targets) }

// RecordCommands encodes buf into a native command buffer.
func (b *Backend) RecordCommands(buf *command.Buffer) (render.RecordedCommandBuffer, error) {
	if b.Closed() {
		return render.RecordedCommandBuffer{}, backend.ErrClosed
	}
	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "frame_encoder"})
	if err != nil {
		return render.RecordedCommandBuffer{}, fmt.Errorf("vulkan: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("frame"); err != nil {
		return render.RecordedCommandBuffer{}, fmt.Errorf("vulkan: begin encoding: %w", err)
	}

	rec := &recording{}
	v := &recordVisitor{b: b, buf: buf, encoder: encoder, rec: rec}
	if err := buf.Walk(v); err != nil {
		v.endPass()
		encoder.DiscardEncoding()
		b.release(rec)
		return render.RecordedCommandBuffer{}, fmt.Errorf("vulkan: record: %w", err)
	}
	v.endPass()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		b.release(rec)
		return render.RecordedCommandBuffer{}, fmt.Errorf("vulkan: end encoding: %w", err)
	}
	rec.cmdBuf = cmdBuf
	return render.RecordedCommandBuffer{Backend: Name, Native: rec, Commands: buf.Len()}, nil
}

// SubmitRenderCommands submits a recording and waits for the GPU.
func (b *Backend) SubmitRenderCommands(r render.RecordedCommandBuffer) error {
	if err := b.CheckRecording(r); err != nil {
		return err
	}
	rec, ok := r.Native.(*recording)
	if !ok {
		return fmt.Errorf("vulkan: unexpected native recording %T", r.Native)
	}
	defer b.release(rec)

	fence, err := b.device.CreateFence()
	if err != nil {
		return fmt.Errorf("vulkan: create fence: %w", err)
	}
	defer b.device.DestroyFence(fence)

	if err := b.queue.Submit([]hal.CommandBuffer{rec.cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("vulkan: submit: %w", err)
	}
	fenceOK, err := b.device.Wait(fence, 1, SubmitTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("vulkan: wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	b.submitted++

	if b.overlay == nil {
		return nil
	}
	for _, o := range rec.overlays {
		if err := b.overlay.DrawText(o.framebuffer, o.text, o.x, o.y, o.color); err != nil {
			return fmt.Errorf("vulkan: overlay: %w", err)
		}
	}
	return nil
}

// Close destroys native pipelines, layouts and owned framebuffer textures.
func (b *Backend) Close() error {
	if !b.MarkClosed() {
		return nil
	}
	for h, p := range b.pipelines {
		b.device.DestroyRenderPipeline(p)
		delete(b.pipelines, h)
	}
	for id, t := range b.targets {
		if t.texture != nil {
			b.device.DestroyTextureView(t.view)
			b.device.DestroyTexture(t.texture)
		}
		delete(b.targets, id)
	}
	b.destroyShared()
	b.Logger().Info("vulkan: closed", "submitted", b.submitted)
	return nil
}

// createLayouts compiles the built-in shader module and creates the
// uniform layout shared by every pipeline.
func (b *Backend) createLayouts() error {
	spirv, err := compileSPIRV(builtinShaderWGSL)
	if err != nil {
		return fmt.Errorf("vulkan: %w", err)
	}
	b.shader, err = b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "builtin_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("vulkan: create shader module: %w", err)
	}

	b.uniformLayout, err = b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "draw_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("vulkan: create uniform layout: %w", err)
	}

	b.pipeLayout, err = b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "draw_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{b.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("vulkan: create pipeline layout: %w", err)
	}
	return nil
}

// destroyShared releases shared resources in reverse creation order.
func (b *Backend) destroyShared() {
	if b.pipeLayout != nil {
		b.device.DestroyPipelineLayout(b.pipeLayout)
		b.pipeLayout = nil
	}
	if b.uniformLayout != nil {
		b.device.DestroyBindGroupLayout(b.uniformLayout)
		b.uniformLayout = nil
	}
	if b.shader != nil {
		b.device.DestroyShaderModule(b.shader)
		b.shader = nil
	}
}

// pipeline returns the native pipeline for h, creating it on first use.
func (b *Backend) pipeline(h pipeline.Handle) (hal.RenderPipeline, error) {
	if p, ok := b.pipelines[h]; ok {
		return p, nil
	}
	state, err := b.Pipeline(h)
	if err != nil {
		return nil, err
	}
	entry, ok := vertexEntryPoints[state.Shader]
	if !ok {
		return nil, fmt.Errorf("vulkan: %v: unknown shader %q", h, state.Shader)
	}
	if state.DepthFormat != gputypes.TextureFormatUndefined {
		return nil, fmt.Errorf("%w (%v)", ErrDepthUnsupported, h)
	}

	ct := gputypes.ColorTargetState{
		Format:    state.ColorFormat,
		WriteMask: gputypes.ColorWriteMaskAll,
	}
	if state.Blend {
		premul := gputypes.BlendStatePremultiplied()
		ct.Blend = &premul
	}
	p, err := b.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  h.String(),
		Layout: b.pipeLayout,
		Vertex: hal.VertexState{
			Module:     b.shader,
			EntryPoint: entry,
		},
		Fragment: &hal.FragmentState{
			Module:     b.shader,
			EntryPoint: fragmentEntryPoint,
			Targets:    []gputypes.ColorTargetState{ct},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: state.Topology,
			CullMode: state.CullMode,
		},
		Multisample: gputypes.MultisampleState{
			Count: max(state.Samples, 1),
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vulkan: create pipeline %v: %w", h, err)
	}
	b.pipelines[h] = p
	b.Logger().Debug("vulkan: pipeline created", "handle", h, "shader", state.Shader)
	return p, nil
}

// release frees the per-recording resources.
func (b *Backend) release(rec *recording) {
	for _, bg := range rec.bindGroups {
		b.device.DestroyBindGroup(bg)
	}
	for _, buf := range rec.buffers {
		b.device.DestroyBuffer(buf)
	}
	rec.bindGroups, rec.buffers = nil, nil
	if rec.cmdBuf != nil {
		b.device.FreeCommandBuffer(rec.cmdBuf)
		rec.cmdBuf = nil
	}
}

var _ render.API = (*Backend)(nil)
