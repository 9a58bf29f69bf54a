// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/framecore/command"
	"github.com/gogpu/framecore/renderpass"
)

// RecordedCommandBuffer wraps the native result of the record phase.
//
// Deferred backends store a native command list in Native; immediate
// backends store whatever their execute phase needs to interpret.
type RecordedCommandBuffer struct {
	Backend  string
	Native   any
	Commands int
}

// API is the contract a graphics backend implements.
//
// The renderer calls OptimizeCommands, RecordCommands and
// SubmitRenderCommands in that order for every finished pass. All methods
// run on the render goroutine.
type API interface {
	// Name returns the registered backend name.
	Name() string

	// AttachFramebuffer prepares native targets for fb. Called once per
	// framebuffer before its first pass.
	AttachFramebuffer(fb *renderpass.Framebuffer) error

	// DetachFramebuffer releases the native targets of fb. Detaching a
	// framebuffer that is not attached is a no-op.
	DetachFramebuffer(fb *renderpass.Framebuffer) error

	// OptimizeCommands may reorder or blank commands in place.
	OptimizeCommands(buf *command.Buffer) error

	// RecordCommands walks buf with the backend's record visitor.
	RecordCommands(buf *command.Buffer) (RecordedCommandBuffer, error)

	// SubmitRenderCommands executes or submits a recorded buffer.
	SubmitRenderCommands(rec RecordedCommandBuffer) error

	// Close releases backend resources.
	Close() error
}

// Presenter is implemented by backends that can show the last submitted
// framebuffer on a window surface.
type Presenter interface {
	Present(fb *renderpass.Framebuffer) error
}

// Ensure API satisfies the render pass attach hook.
var _ renderpass.Attacher = API(nil)
