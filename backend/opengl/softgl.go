// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package opengl

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/framecore/pipeline"
)

// OverlayFontSize is the point size of overlay text at 72 DPI.
const OverlayFontSize = 13

// SoftGL implements GL on the CPU.
//
// Targets are *image.RGBA in premultiplied alpha. Triangles are filled
// with golang.org/x/image/vector; overlay text is drawn with the Go Regular
// font. SoftGL also implements render.OverlayRenderer.
//
// SoftGL is NOT thread-safe.
type SoftGL struct {
	targets  map[uint32]*image.RGBA
	nextFB   uint32
	bound    *image.RGBA
	viewport image.Rectangle
	clear    color.RGBA

	programs  map[uint32][]mgl32.Vec2
	nextProg  uint32
	current   []mgl32.Vec2
	transform mgl32.Mat4
	color     color.RGBA

	raster    *vector.Rasterizer
	triangles int

	front *image.RGBA
}

// NewSoftGL creates an empty software GL.
func NewSoftGL() *SoftGL {
	return &SoftGL{
		targets:   make(map[uint32]*image.RGBA),
		programs:  make(map[uint32][]mgl32.Vec2),
		transform: mgl32.Ident4(),
		color:     color.RGBA{A: 0xff},
	}
}

// CreateFramebuffer allocates a width x height RGBA target.
func (s *SoftGL) CreateFramebuffer(width, height int) (uint32, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("softgl: invalid framebuffer size %dx%d", width, height)
	}
	s.nextFB++
	s.targets[s.nextFB] = image.NewRGBA(image.Rect(0, 0, width, height))
	return s.nextFB, nil
}

// DeleteFramebuffer frees a target.
func (s *SoftGL) DeleteFramebuffer(fb uint32) {
	if t := s.targets[fb]; t != nil && t == s.bound {
		s.bound = nil
	}
	delete(s.targets, fb)
}

// BindFramebuffer selects the draw target. Unknown IDs, including 0,
// unbind.
func (s *SoftGL) BindFramebuffer(fb uint32) {
	s.bound = s.targets[fb]
	if s.bound != nil {
		s.viewport = s.bound.Bounds()
	}
}

// Viewport sets the draw rectangle in target pixels, origin top-left.
func (s *SoftGL) Viewport(x, y, width, height int32) {
	s.viewport = image.Rect(int(x), int(y), int(x+width), int(y+height))
}

// ClearColor sets the straight-alpha clear color.
func (s *SoftGL) ClearColor(r, g, b, a float32) {
	s.clear = premultiply(r, g, b, a)
}

// Clear fills the viewport with the clear color.
func (s *SoftGL) Clear() {
	if s.bound == nil {
		return
	}
	draw.Draw(s.bound, s.viewport.Intersect(s.bound.Bounds()), image.NewUniform(s.clear), image.Point{}, draw.Src)
}

// CreateProgram returns a program for a built-in shader.
func (s *SoftGL) CreateProgram(shader string) (uint32, error) {
	g := pipeline.Geometry(shader)
	if g == nil {
		return 0, fmt.Errorf("softgl: unknown shader %q", shader)
	}
	s.nextProg++
	s.programs[s.nextProg] = g
	return s.nextProg, nil
}

// DeleteProgram forgets a program.
func (s *SoftGL) DeleteProgram(program uint32) {
	delete(s.programs, program)
}

// UseProgram selects the program for DrawArrays. Unknown IDs unbind.
func (s *SoftGL) UseProgram(program uint32) {
	s.current = s.programs[program]
}

// UniformTransform sets the clip-space transform.
func (s *SoftGL) UniformTransform(m mgl32.Mat4) {
	s.transform = m
}

// UniformColor sets the straight-alpha fill color.
func (s *SoftGL) UniformColor(r, g, b, a float32) {
	s.color = premultiply(r, g, b, a)
}

// DrawArrays fills count vertices starting at first as a triangle list,
// once per instance. Instance IDs start at baseInstance.
func (s *SoftGL) DrawArrays(first, count, instances, baseInstance int32) {
	if s.bound == nil || s.current == nil || count < 3 {
		return
	}
	vp := s.viewport.Intersect(s.bound.Bounds())
	if vp.Empty() {
		return
	}
	w, h := vp.Dx(), vp.Dy()
	if s.raster == nil {
		s.raster = vector.NewRasterizer(w, h)
	} else {
		s.raster.Reset(w, h)
	}
	s.raster.DrawOp = draw.Over

	n := int32(len(s.current))
	for inst := range instances {
		offset := float32(baseInstance+inst) * pipeline.InstanceSpacing
		for v := first; v+2 < first+count; v += 3 {
			for k := range int32(3) {
				p := s.current[(v+k)%n]
				clip := s.transform.Mul4x1(mgl32.Vec4{p.X() + offset, p.Y(), 0, 1})
				if clip.W() == 0 {
					continue
				}
				x := (clip.X()/clip.W() + 1) / 2 * float32(w)
				y := (1 - clip.Y()/clip.W()) / 2 * float32(h)
				if k == 0 {
					s.raster.MoveTo(x, y)
				} else {
					s.raster.LineTo(x, y)
				}
			}
			s.raster.ClosePath()
			s.triangles++
		}
	}
	s.raster.Draw(s.bound, vp, image.NewUniform(s.color), image.Point{})
}

// BlitFramebuffer copies fb into the front image, resizing it as needed.
func (s *SoftGL) BlitFramebuffer(fb uint32, width, height int32) {
	src := s.targets[fb]
	if src == nil {
		return
	}
	r := image.Rect(0, 0, int(width), int(height))
	if s.front == nil || s.front.Bounds() != r {
		s.front = image.NewRGBA(r)
	}
	draw.Draw(s.front, r, src, image.Point{}, draw.Src)
}

// Front returns the last image blitted to the default framebuffer.
func (s *SoftGL) Front() *image.RGBA { return s.front }

// Triangles returns the number of triangles rasterized so far.
func (s *SoftGL) Triangles() int { return s.triangles }

// Image returns the target behind fb, or nil.
func (s *SoftGL) Image(fb uint32) *image.RGBA {
	return s.targets[fb]
}

var (
	overlayFaceOnce sync.Once
	overlayFace     font.Face
	overlayFaceErr  error
)

func loadOverlayFace() (font.Face, error) {
	overlayFaceOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			overlayFaceErr = fmt.Errorf("softgl: parse overlay font: %w", err)
			return
		}
		overlayFace, overlayFaceErr = opentype.NewFace(f, &opentype.FaceOptions{
			Size:    OverlayFontSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	})
	return overlayFace, overlayFaceErr
}

// errNoTarget is returned by DrawText for an unknown framebuffer.
var errNoTarget = errors.New("softgl: unknown framebuffer")

// DrawText draws text with its baseline starting at (x, y).
func (s *SoftGL) DrawText(framebuffer uint32, text string, x, y float32, c gputypes.Color) error {
	dst := s.targets[framebuffer]
	if dst == nil {
		return fmt.Errorf("%w %d", errNoTarget, framebuffer)
	}
	face, err := loadOverlayFace()
	if err != nil {
		return err
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(premultiply(float32(c.R), float32(c.G), float32(c.B), float32(c.A))),
		Face: face,
		Dot:  fixed.P(int(x), int(y)),
	}
	d.DrawString(text)
	return nil
}

func premultiply(r, g, b, a float32) color.RGBA {
	a = clamp01(a)
	return color.RGBA{
		R: uint8(clamp01(r)*a*255 + 0.5),
		G: uint8(clamp01(g)*a*255 + 0.5),
		B: uint8(clamp01(b)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

var _ GL = (*SoftGL)(nil)
