// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/framecore/command"
)

// Object is a render object that can be drawn by a Renderer.
type Object interface {
	AcceptDraw(v ObjectVisitor) error
}

// ObjectVisitor turns render objects into commands.
type ObjectVisitor interface {
	DrawMesh(m *Mesh) error
	DrawOverlay(o *Overlay) error
	DrawClear(c *Clear) error
}

// Mesh draws instances of geometry with the current stage's pipeline.
type Mesh struct {
	ID command.MeshID

	// VertexCount of zero uses the built-in count of the stage's shader.
	VertexCount uint32

	// InstanceCount of zero draws one instance.
	InstanceCount uint32

	Model mgl32.Mat4
	Color gputypes.Color
}

// Overlay is a line of debug text in framebuffer pixels.
type Overlay struct {
	Text  string
	X, Y  float32
	Color gputypes.Color
}

// Clear clears the color attachment mid-pass.
type Clear struct {
	Color gputypes.Color
}

// AcceptDraw implements Object.
func (m *Mesh) AcceptDraw(v ObjectVisitor) error { return v.DrawMesh(m) }

// AcceptDraw implements Object.
func (o *Overlay) AcceptDraw(v ObjectVisitor) error { return v.DrawOverlay(o) }

// AcceptDraw implements Object.
func (c *Clear) AcceptDraw(v ObjectVisitor) error { return v.DrawClear(c) }
