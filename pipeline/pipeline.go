// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pipeline describes render pipeline states and caches them behind
// small integer handles.
//
// Render stages and draw commands never hold a pipeline description
// directly; they hold a [Handle] obtained from a [Cache]. Backends resolve
// handles back to a [State] and realize native pipelines lazily.
package pipeline

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
)

// Built-in shader programs. Each backend ships an implementation of every
// name listed here. Geometry is generated from the vertex index; instance i
// is offset by i*InstanceSpacing along model-space +X.
const (
	// ShaderTriangle draws a single triangle per instance (3 vertices).
	ShaderTriangle = "triangle"
	// ShaderQuad draws a unit quad as two triangles (6 vertices).
	ShaderQuad = "quad"
)

// InstanceSpacing is the model-space X offset between built-in instances.
const InstanceSpacing = 1.1

// geometry holds the model-space positions generated by built-in shaders.
var geometry = map[string][]mgl32.Vec2{
	ShaderTriangle: {{0, 0.5}, {-0.5, -0.5}, {0.5, -0.5}},
	ShaderQuad: {
		{-0.5, -0.5}, {0.5, -0.5}, {0.5, 0.5},
		{-0.5, -0.5}, {0.5, 0.5}, {-0.5, 0.5},
	},
}

// Geometry returns the vertex positions of a built-in shader, or nil.
// The slice must not be modified.
func Geometry(shader string) []mgl32.Vec2 {
	return geometry[shader]
}

// VertexCount returns the vertex count a built-in shader expects per
// instance, or 0 for unknown shaders.
func VertexCount(shader string) uint32 {
	return uint32(len(geometry[shader]))
}

// State is the complete, comparable description of a render pipeline.
type State struct {
	Shader      string
	Topology    gputypes.PrimitiveTopology
	CullMode    gputypes.CullMode
	ColorFormat gputypes.TextureFormat
	DepthFormat gputypes.TextureFormat // TextureFormatUndefined when depth is off
	Blend       bool                   // premultiplied alpha blending
	Samples     uint32
}

// DefaultState returns a triangle-list state for shader rendering into
// BGRA8 without depth, blending or multisampling.
func DefaultState(shader string) State {
	return State{
		Shader:      shader,
		Topology:    gputypes.PrimitiveTopologyTriangleList,
		CullMode:    gputypes.CullModeNone,
		ColorFormat: gputypes.TextureFormatBGRA8Unorm,
		Samples:     1,
	}
}

// Validate reports whether s can be realized by a backend.
func (s State) Validate() error {
	if s.Shader == "" {
		return fmt.Errorf("pipeline: empty shader name")
	}
	if s.Samples == 0 || s.Samples&(s.Samples-1) != 0 {
		return fmt.Errorf("pipeline: sample count %d is not a power of two", s.Samples)
	}
	if s.ColorFormat == gputypes.TextureFormatUndefined {
		return fmt.Errorf("pipeline: %q has no color format", s.Shader)
	}
	return nil
}

// Handle identifies a cached pipeline state. The zero Handle is invalid.
type Handle uint32

// InvalidHandle is the zero Handle.
const InvalidHandle Handle = 0

// IsValid reports whether h refers to a cached state.
func (h Handle) IsValid() bool { return h != InvalidHandle }

// String returns a short form such as "pipeline#3".
func (h Handle) String() string {
	if !h.IsValid() {
		return "pipeline#invalid"
	}
	return fmt.Sprintf("pipeline#%d", uint32(h))
}
