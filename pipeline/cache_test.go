// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import (
	"sync"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestCacheDedup(t *testing.T) {
	c := NewCache()

	a, err := c.Get(DefaultState(ShaderTriangle))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	b, err := c.Get(DefaultState(ShaderTriangle))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a != b {
		t.Errorf("equal states got different handles: %v, %v", a, b)
	}

	blended := DefaultState(ShaderTriangle)
	blended.Blend = true
	d := c.MustGet(blended)
	if d == a {
		t.Error("different states share a handle")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCacheLookup(t *testing.T) {
	c := NewCache()
	s := DefaultState(ShaderQuad)
	h := c.MustGet(s)

	got, ok := c.Lookup(h)
	if !ok {
		t.Fatal("Lookup of cached handle failed")
	}
	if got != s {
		t.Errorf("Lookup = %+v, want %+v", got, s)
	}

	for _, bad := range []Handle{InvalidHandle, h + 1, 99} {
		if _, ok := c.Lookup(bad); ok {
			t.Errorf("Lookup(%v) succeeded", bad)
		}
	}
}

func TestCacheRejectsInvalidState(t *testing.T) {
	tests := []struct {
		name  string
		state State
	}{
		{"no shader", State{ColorFormat: gputypes.TextureFormatBGRA8Unorm, Samples: 1}},
		{"zero samples", State{Shader: ShaderQuad, ColorFormat: gputypes.TextureFormatBGRA8Unorm}},
		{"three samples", State{Shader: ShaderQuad, ColorFormat: gputypes.TextureFormatBGRA8Unorm, Samples: 3}},
		{"no color format", State{Shader: ShaderQuad, Samples: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCache()
			if _, err := c.Get(tt.state); err == nil {
				t.Error("expected error")
			}
			if c.Len() != 0 {
				t.Errorf("invalid state was cached")
			}
		})
	}
}

func TestCacheEachOrder(t *testing.T) {
	c := NewCache()
	shaders := []string{ShaderTriangle, ShaderQuad, "custom"}
	for _, s := range shaders {
		c.MustGet(DefaultState(s))
	}

	var seen []string
	c.Each(func(h Handle, s State) {
		if int(h) != len(seen)+1 {
			t.Errorf("handle %v out of order", h)
		}
		seen = append(seen, s.Shader)
	})
	if len(seen) != len(shaders) {
		t.Fatalf("Each visited %d states, want %d", len(seen), len(shaders))
	}
	for i := range shaders {
		if seen[i] != shaders[i] {
			t.Errorf("seen[%d] = %q, want %q", i, seen[i], shaders[i])
		}
	}
}

func TestCacheConcurrentGet(t *testing.T) {
	c := NewCache()
	const workers = 8
	handles := make([]Handle, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Go(func() {
			handles[i] = c.MustGet(DefaultState(ShaderQuad))
		})
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if handles[i] != handles[0] {
			t.Errorf("worker %d got %v, want %v", i, handles[i], handles[0])
		}
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestHandleString(t *testing.T) {
	if got := InvalidHandle.String(); got != "pipeline#invalid" {
		t.Errorf("InvalidHandle.String() = %q", got)
	}
	if got := Handle(4).String(); got != "pipeline#4" {
		t.Errorf("Handle(4).String() = %q", got)
	}
}

func TestVertexCount(t *testing.T) {
	if VertexCount(ShaderTriangle) != 3 || VertexCount(ShaderQuad) != 6 || VertexCount("x") != 0 {
		t.Error("unexpected built-in vertex counts")
	}
}

func TestGeometryMatchesVertexCount(t *testing.T) {
	for _, s := range []string{ShaderTriangle, ShaderQuad} {
		if got := uint32(len(Geometry(s))); got != VertexCount(s) {
			t.Errorf("%s: %d positions, VertexCount %d", s, got, VertexCount(s))
		}
	}
	if Geometry("unknown") != nil {
		t.Error("unknown shader has geometry")
	}
}
