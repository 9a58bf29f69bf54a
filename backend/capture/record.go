// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package capture

import (
	"slices"

	"github.com/gogpu/framecore/backend"
	"github.com/gogpu/framecore/command"
)

// recordVisitor appends one Op per command.
type recordVisitor struct {
	b     *Backend
	buf   *command.Buffer
	frame *Frame
}

func (v *recordVisitor) add(op Op) {
	v.frame.Ops = append(v.frame.Ops, op)
}

func (v *recordVisitor) VisitNop(c *command.NopCommand) error {
	v.add(Op{Kind: c.Kind().String()})
	return nil
}

func (v *recordVisitor) VisitClear(c *command.ClearCommand) error {
	v.add(Op{Kind: c.Kind().String(), Color: backend.RGBA(c.Color)})
	return nil
}

func (v *recordVisitor) VisitBeginRenderPass(c *command.BeginRenderPassCommand) error {
	if _, err := v.b.Framebuffer(c.Framebuffer); err != nil {
		return err
	}
	v.frame.Width, v.frame.Height = c.Width, c.Height
	v.add(Op{Kind: c.Kind().String(), Framebuffer: c.Framebuffer, Color: backend.RGBA(c.Clear)})
	return nil
}

func (v *recordVisitor) VisitBindPipeline(c *command.BindPipelineCommand) error {
	state, err := v.b.Pipeline(c.Pipeline)
	if err != nil {
		return err
	}
	v.add(Op{Kind: c.Kind().String(), Stage: c.Stage, Pipeline: uint32(c.Pipeline), Shader: state.Shader})
	return nil
}

func (v *recordVisitor) VisitDraw(c *command.DrawCommand) error {
	v.add(Op{
		Kind:          c.Kind().String(),
		Mesh:          uint32(c.Mesh),
		Vertices:      c.VertexCount,
		Instances:     c.InstanceCount,
		FirstVertex:   c.FirstVertex,
		FirstInstance: c.FirstInstance,
		Transform:     slices.Clone(c.Transform[:]), // arena memory is reused
		Color:         backend.RGBA(c.Color),
	})
	return nil
}

func (v *recordVisitor) VisitDrawOverlay(c *command.DrawOverlayCommand) error {
	v.add(Op{
		Kind:  c.Kind().String(),
		Text:  v.buf.String(c.Text),
		X:     c.X,
		Y:     c.Y,
		Color: backend.RGBA(c.Color),
	})
	return nil
}

func (v *recordVisitor) VisitEndRenderPass(c *command.EndRenderPassCommand) error {
	v.add(Op{Kind: c.Kind().String()})
	return nil
}

var _ command.Visitor = (*recordVisitor)(nil)
