// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vulkan

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/framecore/command"
)

// recording is the native result of RecordCommands. Per-draw resources
// live until the submission completes.
type recording struct {
	cmdBuf     hal.CommandBuffer
	buffers    []hal.Buffer
	bindGroups []hal.BindGroup
	overlays   []overlayText
}

type overlayText struct {
	framebuffer uint32
	text        string
	x, y        float32
	color       gputypes.Color
}

// recordVisitor translates commands into render pass calls.
type recordVisitor struct {
	b       *Backend
	buf     *command.Buffer
	encoder hal.CommandEncoder
	rec     *recording

	fb       uint32
	target   *target
	pass     hal.RenderPassEncoder
	pipeline hal.RenderPipeline
}

func (v *recordVisitor) VisitNop(*command.NopCommand) error { return nil }

// VisitClear restarts the pass with a clear load op; attachments are
// cleared as a whole.
func (v *recordVisitor) VisitClear(c *command.ClearCommand) error {
	if v.pass == nil {
		return fmt.Errorf("clear outside a render pass")
	}
	v.endPass()
	v.beginPass(c.Color)
	if v.pipeline != nil {
		v.pass.SetPipeline(v.pipeline)
	}
	return nil
}

func (v *recordVisitor) VisitBeginRenderPass(c *command.BeginRenderPassCommand) error {
	t, ok := v.b.targets[c.Framebuffer]
	if !ok {
		_, err := v.b.Framebuffer(c.Framebuffer)
		return err
	}
	v.endPass()
	v.fb, v.target = c.Framebuffer, t
	v.beginPass(c.Clear)
	return nil
}

func (v *recordVisitor) VisitBindPipeline(c *command.BindPipelineCommand) error {
	if v.pass == nil {
		return fmt.Errorf("bind %v outside a render pass", c.Pipeline)
	}
	p, err := v.b.pipeline(c.Pipeline)
	if err != nil {
		return err
	}
	v.pipeline = p
	v.pass.SetPipeline(p)
	return nil
}

func (v *recordVisitor) VisitDraw(c *command.DrawCommand) error {
	if v.pass == nil || v.pipeline == nil {
		return fmt.Errorf("draw mesh %d: no pipeline bound", c.Mesh)
	}
	dev := v.b.device
	ubuf, err := dev.CreateBuffer(&hal.BufferDescriptor{
		Label: "draw_uniform",
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	v.rec.buffers = append(v.rec.buffers, ubuf)
	v.b.queue.WriteBuffer(ubuf, 0, drawUniforms(c.Transform, c.Color))

	bg, err := dev.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "draw_bind",
		Layout: v.b.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: ubuf.NativeHandle(), Offset: 0, Size: uniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	v.rec.bindGroups = append(v.rec.bindGroups, bg)

	v.pass.SetBindGroup(0, bg, nil)
	v.pass.Draw(c.VertexCount, c.InstanceCount, c.FirstVertex, c.FirstInstance)
	return nil
}

// VisitDrawOverlay defers text until the pass has been executed.
func (v *recordVisitor) VisitDrawOverlay(c *command.DrawOverlayCommand) error {
	v.rec.overlays = append(v.rec.overlays, overlayText{
		framebuffer: v.fb,
		text:        v.buf.String(c.Text),
		x:           c.X,
		y:           c.Y,
		color:       c.Color,
	})
	return nil
}

func (v *recordVisitor) VisitEndRenderPass(*command.EndRenderPassCommand) error {
	v.endPass()
	v.pipeline = nil
	return nil
}

func (v *recordVisitor) beginPass(c gputypes.Color) {
	v.pass = v.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: fmt.Sprintf("framebuffer_%d_pass", v.fb),
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       v.target.view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: c,
		}},
	})
}

func (v *recordVisitor) endPass() {
	if v.pass != nil {
		v.pass.End()
		v.pass = nil
	}
}

var _ command.Visitor = (*recordVisitor)(nil)
