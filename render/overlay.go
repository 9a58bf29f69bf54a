// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/gputypes"

// OverlayRenderer draws UI overlay text into a backend framebuffer.
//
// Overlay rendering is an external collaborator: backends without one
// skip DrawOverlay commands.
type OverlayRenderer interface {
	DrawText(framebuffer uint32, text string, x, y float32, c gputypes.Color) error
}
