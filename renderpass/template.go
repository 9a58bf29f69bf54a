// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderpass

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/framecore/pipeline"
)

// AttachmentRef references a framebuffer attachment from a stage.
type AttachmentRef struct {
	Attachment uint32
	Load       gputypes.LoadOp
	Store      gputypes.StoreOp
}

// Stage is one step of a render pass: a cached pipeline and the
// attachments it writes.
type Stage struct {
	Name        string
	Pipeline    pipeline.Handle
	Attachments []AttachmentRef
}

// Template is an immutable ordered list of stages.
type Template struct {
	framebuffer FramebufferTemplate
	clear       gputypes.Color
	stages      []Stage
}

// NewTemplate validates and builds a template. The stages and framebuffer
// template are copied.
func NewTemplate(fb FramebufferTemplate, clear gputypes.Color, stages ...Stage) (*Template, error) {
	if len(stages) == 0 {
		return nil, ErrNoStages
	}
	t := &Template{
		framebuffer: FramebufferTemplate{Attachments: slices.Clone(fb.Attachments)},
		clear:       clear,
		stages:      make([]Stage, len(stages)),
	}
	for i, s := range stages {
		if !s.Pipeline.IsValid() {
			return nil, errors.Newf("renderpass: stage %d (%s) has no pipeline", i, s.Name)
		}
		for _, ref := range s.Attachments {
			if int(ref.Attachment) >= len(fb.Attachments) {
				return nil, errors.Wrapf(ErrBadAttachment, "stage %d (%s) attachment %d of %d",
					i, s.Name, ref.Attachment, len(fb.Attachments))
			}
		}
		s.Attachments = slices.Clone(s.Attachments)
		t.stages[i] = s
	}
	return t, nil
}

// MustTemplate is like NewTemplate but panics on error.
func MustTemplate(fb FramebufferTemplate, clear gputypes.Color, stages ...Stage) *Template {
	t, err := NewTemplate(fb, clear, stages...)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of stages.
func (t *Template) Len() int { return len(t.stages) }

// Stage returns the i-th stage.
func (t *Template) Stage(i int) Stage { return t.stages[i] }

// Framebuffer returns the framebuffer template.
func (t *Template) Framebuffer() FramebufferTemplate { return t.framebuffer }

// ClearColor returns the default clear color.
func (t *Template) ClearColor() gputypes.Color { return t.clear }
