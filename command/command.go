// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package command

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/framecore/pipeline"
)

// Command is implemented by every command type.
// Implementations are pointer receivers on arena-resident values.
type Command interface {
	// Kind returns the command's kind.
	Kind() Kind

	// Accept dispatches to the visitor method for the concrete type.
	Accept(v Visitor) error
}

// MeshID identifies mesh geometry known to the backend.
// Zero means the geometry is generated entirely by the shader.
type MeshID uint32

// NopCommand does nothing.
type NopCommand struct{}

// ClearCommand clears the current color attachment.
type ClearCommand struct {
	Color gputypes.Color
}

// BeginRenderPassCommand begins rendering into a framebuffer.
type BeginRenderPassCommand struct {
	Framebuffer uint32 // renderpass.Framebuffer ID
	Width       uint32
	Height      uint32
	Clear       gputypes.Color
}

// BindPipelineCommand binds the pipeline of a render stage.
type BindPipelineCommand struct {
	Stage    uint32
	Pipeline pipeline.Handle
}

// DrawCommand draws instances of a mesh with the bound pipeline.
type DrawCommand struct {
	Mesh          MeshID
	VertexCount   uint32
	InstanceCount uint32
	FirstVertex   uint32
	FirstInstance uint32
	Transform     mgl32.Mat4
	Color         gputypes.Color
}

// DrawOverlayCommand draws a line of overlay text in framebuffer pixels.
type DrawOverlayCommand struct {
	Text  Span
	X, Y  float32
	Color gputypes.Color
}

// EndRenderPassCommand ends the current render pass.
type EndRenderPassCommand struct{}

func (*NopCommand) Kind() Kind             { return KindNop }
func (*ClearCommand) Kind() Kind           { return KindClear }
func (*BeginRenderPassCommand) Kind() Kind { return KindBeginRenderPass }
func (*BindPipelineCommand) Kind() Kind    { return KindBindPipeline }
func (*DrawCommand) Kind() Kind            { return KindDraw }
func (*DrawOverlayCommand) Kind() Kind     { return KindDrawOverlay }
func (*EndRenderPassCommand) Kind() Kind   { return KindEndRenderPass }

func (c *NopCommand) Accept(v Visitor) error             { return v.VisitNop(c) }
func (c *ClearCommand) Accept(v Visitor) error           { return v.VisitClear(c) }
func (c *BeginRenderPassCommand) Accept(v Visitor) error { return v.VisitBeginRenderPass(c) }
func (c *BindPipelineCommand) Accept(v Visitor) error    { return v.VisitBindPipeline(c) }
func (c *DrawCommand) Accept(v Visitor) error            { return v.VisitDraw(c) }
func (c *DrawOverlayCommand) Accept(v Visitor) error     { return v.VisitDrawOverlay(c) }
func (c *EndRenderPassCommand) Accept(v Visitor) error   { return v.VisitEndRenderPass(c) }

// Compile-time interface checks.
var (
	_ Command = (*NopCommand)(nil)
	_ Command = (*ClearCommand)(nil)
	_ Command = (*BeginRenderPassCommand)(nil)
	_ Command = (*BindPipelineCommand)(nil)
	_ Command = (*DrawCommand)(nil)
	_ Command = (*DrawOverlayCommand)(nil)
	_ Command = (*EndRenderPassCommand)(nil)
)
