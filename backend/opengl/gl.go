// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package opengl provides the immediate-mode render backend.
//
// Recording keeps the command view as is; submission interprets every
// command against the narrow [GL] contract. Two GL implementations exist:
//
//   - [SoftGL]: a software rasterizer over *image.RGBA targets, used by
//     default and in tests
//   - GoGL: go-gl/gl v4.1 core bindings, built with the gogl tag. It needs
//     a current GL context on the render thread.
package opengl

import "github.com/go-gl/mathgl/mgl32"

// GL is the subset of OpenGL the backend uses.
//
// Framebuffer 0 is the default framebuffer. Programs are created from
// built-in shader names (see pipeline.ShaderTriangle and friends).
type GL interface {
	CreateFramebuffer(width, height int) (uint32, error)
	DeleteFramebuffer(fb uint32)
	BindFramebuffer(fb uint32)
	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear()
	CreateProgram(shader string) (uint32, error)
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	UniformTransform(m mgl32.Mat4)
	UniformColor(r, g, b, a float32)
	DrawArrays(first, count, instances, baseInstance int32)

	// BlitFramebuffer copies fb onto the default framebuffer.
	BlitFramebuffer(fb uint32, width, height int32)
}
