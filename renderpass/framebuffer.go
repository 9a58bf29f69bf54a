// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderpass

import (
	"sync/atomic"

	"github.com/gogpu/gputypes"
)

// AttachmentDesc describes one framebuffer attachment.
type AttachmentDesc struct {
	Format  gputypes.TextureFormat
	Samples uint32
	Usage   gputypes.TextureUsage
}

// FramebufferTemplate is the structural shape framebuffers must have.
type FramebufferTemplate struct {
	Attachments []AttachmentDesc
}

// ColorTemplate returns a single-attachment template.
func ColorTemplate(format gputypes.TextureFormat) FramebufferTemplate {
	return FramebufferTemplate{Attachments: []AttachmentDesc{{
		Format:  format,
		Samples: 1,
		Usage:   gputypes.TextureUsageRenderAttachment,
	}}}
}

// Matches reports whether o has the same attachment count, formats and
// sample counts. Usage flags are not compared.
func (t FramebufferTemplate) Matches(o FramebufferTemplate) bool {
	if len(t.Attachments) != len(o.Attachments) {
		return false
	}
	for i, a := range t.Attachments {
		b := o.Attachments[i]
		if a.Format != b.Format || a.Samples != b.Samples {
			return false
		}
	}
	return true
}

var nextFramebufferID atomic.Uint32

// Framebuffer is a concrete render target.
//
// Views optionally carries backend-native attachment views, one per
// template attachment. Backends that own their targets leave it empty.
type Framebuffer struct {
	ID       uint32
	Template FramebufferTemplate
	Width    uint32
	Height   uint32
	Views    []any
}

// NewFramebuffer creates a framebuffer with a process-unique ID.
func NewFramebuffer(t FramebufferTemplate, width, height uint32, views ...any) *Framebuffer {
	return &Framebuffer{
		ID:       nextFramebufferID.Add(1),
		Template: t,
		Width:    width,
		Height:   height,
		Views:    views,
	}
}
