// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package command

// Visitor has one method per command type.
// Returning an error stops a Walk.
type Visitor interface {
	VisitNop(*NopCommand) error
	VisitClear(*ClearCommand) error
	VisitBeginRenderPass(*BeginRenderPassCommand) error
	VisitBindPipeline(*BindPipelineCommand) error
	VisitDraw(*DrawCommand) error
	VisitDrawOverlay(*DrawOverlayCommand) error
	VisitEndRenderPass(*EndRenderPassCommand) error
}

// BaseVisitor ignores every command. Embed it to implement only the
// methods a visitor cares about.
type BaseVisitor struct{}

func (BaseVisitor) VisitNop(*NopCommand) error                         { return nil }
func (BaseVisitor) VisitClear(*ClearCommand) error                     { return nil }
func (BaseVisitor) VisitBeginRenderPass(*BeginRenderPassCommand) error { return nil }
func (BaseVisitor) VisitBindPipeline(*BindPipelineCommand) error       { return nil }
func (BaseVisitor) VisitDraw(*DrawCommand) error                       { return nil }
func (BaseVisitor) VisitDrawOverlay(*DrawOverlayCommand) error         { return nil }
func (BaseVisitor) VisitEndRenderPass(*EndRenderPassCommand) error     { return nil }

var _ Visitor = BaseVisitor{}
