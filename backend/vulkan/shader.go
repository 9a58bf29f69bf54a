// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vulkan

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"

	"github.com/gogpu/framecore/pipeline"
)

//go:embed shaders/builtin.wgsl
var builtinShaderWGSL string

// vertexEntryPoints maps built-in shader names to WGSL entry points.
var vertexEntryPoints = map[string]string{
	pipeline.ShaderTriangle: "vs_triangle",
	pipeline.ShaderQuad:     "vs_quad",
}

const fragmentEntryPoint = "fs_main"

// uniformSize is sizeof(DrawUniforms): mat4x4<f32> + vec4<f32>.
const uniformSize = 64 + 16

// compileSPIRV compiles WGSL to little-endian SPIR-V words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	spirv, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirv)%4 != 0 {
		return nil, fmt.Errorf("compile shader: SPIR-V length %d is not word aligned", len(spirv))
	}
	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirv[i*4:])
	}
	return words, nil
}

// drawUniforms packs a transform and a color in DrawUniforms layout.
// mgl32 matrices are column-major like WGSL.
func drawUniforms(m mgl32.Mat4, c gputypes.Color) []byte {
	data := make([]byte, uniformSize)
	for i, v := range m {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	rgba := [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
	for i, v := range rgba {
		binary.LittleEndian.PutUint32(data[64+i*4:], math.Float32bits(v))
	}
	return data
}
