// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package opengl

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/framecore/command"
)

// executeVisitor issues GL calls for each command.
type executeVisitor struct {
	b     *Backend
	buf   *command.Buffer
	fb    uint32 // framecore framebuffer ID of the open pass
	bound bool   // a program is in use
}

func (v *executeVisitor) VisitNop(*command.NopCommand) error { return nil }

func (v *executeVisitor) VisitClear(c *command.ClearCommand) error {
	v.clear(c.Color)
	return nil
}

func (v *executeVisitor) VisitBeginRenderPass(c *command.BeginRenderPassCommand) error {
	t, ok := v.b.targets[c.Framebuffer]
	if !ok {
		_, err := v.b.Framebuffer(c.Framebuffer)
		return err
	}
	v.fb = c.Framebuffer
	v.b.gl.BindFramebuffer(t)
	v.b.gl.Viewport(0, 0, int32(c.Width), int32(c.Height))
	v.clear(c.Clear)
	return nil
}

func (v *executeVisitor) VisitBindPipeline(c *command.BindPipelineCommand) error {
	p, err := v.b.program(c.Pipeline)
	if err != nil {
		return err
	}
	v.b.gl.UseProgram(p)
	v.bound = true
	return nil
}

func (v *executeVisitor) VisitDraw(c *command.DrawCommand) error {
	if !v.bound {
		return fmt.Errorf("draw mesh %d: no pipeline bound", c.Mesh)
	}
	v.b.gl.UniformTransform(c.Transform)
	v.b.gl.UniformColor(float32(c.Color.R), float32(c.Color.G), float32(c.Color.B), float32(c.Color.A))
	v.b.gl.DrawArrays(int32(c.FirstVertex), int32(c.VertexCount), int32(c.InstanceCount), int32(c.FirstInstance))
	v.b.draws++
	return nil
}

func (v *executeVisitor) VisitDrawOverlay(c *command.DrawOverlayCommand) error {
	if v.b.overlay == nil {
		return nil
	}
	t := v.b.targets[v.fb]
	return v.b.overlay.DrawText(t, v.buf.String(c.Text), c.X, c.Y, c.Color)
}

func (v *executeVisitor) VisitEndRenderPass(*command.EndRenderPassCommand) error {
	v.b.gl.UseProgram(0)
	v.b.gl.BindFramebuffer(0)
	v.bound = false
	return nil
}

func (v *executeVisitor) clear(c gputypes.Color) {
	v.b.gl.ClearColor(float32(c.R), float32(c.G), float32(c.B), float32(c.A))
	v.b.gl.Clear()
}

var _ command.Visitor = (*executeVisitor)(nil)
