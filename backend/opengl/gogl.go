// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build gogl

package opengl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/framecore/pipeline"
)

func defaultGL() (GL, error) {
	return NewGoGL()
}

// GoGL implements GL with OpenGL 4.1 core bindings.
//
// A GL context must be current on the calling thread for the lifetime of
// the value.
type GoGL struct {
	vao       uint32
	textures  map[uint32]uint32 // framebuffer -> color texture
	transform int32
	color     int32
	base      int32
	current   uint32
	locations map[uint32][3]int32
}

// NewGoGL loads GL function pointers for the current context.
func NewGoGL() (*GoGL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}
	g := &GoGL{
		textures:  make(map[uint32]uint32),
		locations: make(map[uint32][3]int32),
	}
	// Core profile requires a bound VAO even without vertex attributes.
	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)
	return g, nil
}

// CreateFramebuffer creates a framebuffer with an RGBA8 color texture.
func (g *GoGL) CreateFramebuffer(width, height int) (uint32, error) {
	var tex, fbo uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &fbo)
		gl.DeleteTextures(1, &tex)
		return 0, fmt.Errorf("gl framebuffer incomplete: 0x%x", status)
	}
	g.textures[fbo] = tex
	return fbo, nil
}

// DeleteFramebuffer deletes fb and its color texture.
func (g *GoGL) DeleteFramebuffer(fb uint32) {
	if tex, ok := g.textures[fb]; ok {
		gl.DeleteTextures(1, &tex)
		delete(g.textures, fb)
	}
	gl.DeleteFramebuffers(1, &fb)
}

func (g *GoGL) BindFramebuffer(fb uint32) { gl.BindFramebuffer(gl.FRAMEBUFFER, fb) }

func (g *GoGL) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (g *GoGL) ClearColor(r, gr, b, a float32) { gl.ClearColor(r, gr, b, a) }

func (g *GoGL) Clear() { gl.Clear(gl.COLOR_BUFFER_BIT) }

// CreateProgram compiles and links the program for a built-in shader.
func (g *GoGL) CreateProgram(shader string) (uint32, error) {
	vs, err := vertexSource(shader)
	if err != nil {
		return 0, err
	}
	v, err := compileShader(vs, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("%s vertex shader: %w", shader, err)
	}
	defer gl.DeleteShader(v)
	f, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("%s fragment shader: %w", shader, err)
	}
	defer gl.DeleteShader(f)

	p := gl.CreateProgram()
	gl.AttachShader(p, v)
	gl.AttachShader(p, f)
	gl.LinkProgram(p)
	var status int32
	gl.GetProgramiv(p, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		msg := programLog(p)
		gl.DeleteProgram(p)
		return 0, fmt.Errorf("%s link: %s", shader, msg)
	}
	g.locations[p] = [3]int32{
		gl.GetUniformLocation(p, gl.Str("u_transform\x00")),
		gl.GetUniformLocation(p, gl.Str("u_color\x00")),
		gl.GetUniformLocation(p, gl.Str("u_base_instance\x00")),
	}
	return p, nil
}

func (g *GoGL) DeleteProgram(program uint32) {
	delete(g.locations, program)
	gl.DeleteProgram(program)
}

func (g *GoGL) UseProgram(program uint32) {
	g.current = program
	loc := g.locations[program]
	g.transform, g.color, g.base = loc[0], loc[1], loc[2]
	gl.UseProgram(program)
}

func (g *GoGL) UniformTransform(m mgl32.Mat4) {
	gl.UniformMatrix4fv(g.transform, 1, false, &m[0])
}

func (g *GoGL) UniformColor(r, gr, b, a float32) {
	gl.Uniform4f(g.color, r, gr, b, a)
}

// DrawArrays passes baseInstance as a uniform; 4.1 core has no
// glDrawArraysInstancedBaseInstance.
func (g *GoGL) DrawArrays(first, count, instances, baseInstance int32) {
	gl.Uniform1i(g.base, baseInstance)
	gl.DrawArraysInstanced(gl.TRIANGLES, first, count, instances)
}

// BlitFramebuffer copies fb onto framebuffer 0.
func (g *GoGL) BlitFramebuffer(fb uint32, width, height int32) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, width, height, 0, 0, width, height, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

const fragmentSource = `#version 410 core
uniform vec4 u_color;
out vec4 frag;
void main() {
	frag = vec4(u_color.rgb * u_color.a, u_color.a);
}
` + "\x00"

// vertexSource emits a shader that indexes the built-in geometry by
// gl_VertexID and offsets instances along X.
func vertexSource(shader string) (string, error) {
	g := pipeline.Geometry(shader)
	if g == nil {
		return "", fmt.Errorf("unknown shader %q", shader)
	}
	var sb strings.Builder
	sb.WriteString("#version 410 core\nuniform mat4 u_transform;\nuniform int u_base_instance;\n")
	fmt.Fprintf(&sb, "const vec2 positions[%d] = vec2[](", len(g))
	for i, p := range g {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "vec2(%g, %g)", p.X(), p.Y())
	}
	sb.WriteString(");\n")
	fmt.Fprintf(&sb, "void main() {\n\tvec2 p = positions[gl_VertexID %% %d];\n", len(g))
	fmt.Fprintf(&sb, "\tp.x += float(gl_InstanceID + u_base_instance) * %g;\n", pipeline.InstanceSpacing)
	sb.WriteString("\tgl_Position = u_transform * vec4(p, 0.0, 1.0);\n}\n\x00")
	return sb.String(), nil
}

func compileShader(source string, kind uint32) (uint32, error) {
	s := gl.CreateShader(kind)
	src, free := gl.Strs(source)
	gl.ShaderSource(s, 1, src, nil)
	free()
	gl.CompileShader(s)

	var status int32
	gl.GetShaderiv(s, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetShaderiv(s, gl.INFO_LOG_LENGTH, &n)
		msg := strings.Repeat("\x00", int(n+1))
		gl.GetShaderInfoLog(s, n, nil, gl.Str(msg))
		gl.DeleteShader(s)
		return 0, errors.New(strings.TrimRight(msg, "\x00"))
	}
	return s, nil
}

func programLog(p uint32) string {
	var n int32
	gl.GetProgramiv(p, gl.INFO_LOG_LENGTH, &n)
	msg := strings.Repeat("\x00", int(n+1))
	gl.GetProgramInfoLog(p, n, nil, gl.Str(msg))
	return strings.TrimRight(msg, "\x00")
}

var _ GL = (*GoGL)(nil)
