// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"time"

	"github.com/google/uuid"
)

// Frame is the unit of work handed from the update thread to the render
// thread. After SubmitFrame the update thread must not touch it again.
type Frame struct {
	ID      uuid.UUID
	Tick    uint64        // update iteration that produced the frame
	Steps   int           // fixed steps run in that iteration
	Alpha   float64       // fixed-step interpolation factor
	Delta   time.Duration // wall time since the previous iteration
	Elapsed time.Duration // wall time since the update loop started
	Width   int           // window size when the frame was built
	Height  int

	values map[string]any
}

// NewFrame returns an empty frame with a fresh ID.
func NewFrame(tick uint64) *Frame {
	return &Frame{ID: uuid.New(), Tick: tick}
}

// Set stores a layer's render data under key.
func (f *Frame) Set(key string, v any) {
	if f.values == nil {
		f.values = make(map[string]any)
	}
	f.values[key] = v
}

// Value returns the data stored under key.
func (f *Frame) Value(key string) (any, bool) {
	v, ok := f.values[key]
	return v, ok
}
