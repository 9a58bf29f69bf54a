// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderpass

import "github.com/cockroachdb/errors"

// Render pass protocol errors.
var (
	// ErrNoStages is returned when a template is built without stages.
	ErrNoStages = errors.New("renderpass: template has no stages")

	// ErrBadAttachment is returned when a stage references a missing attachment.
	ErrBadAttachment = errors.New("renderpass: stage references unknown attachment")

	// ErrNoFramebuffer is returned by StartPass without a bound framebuffer.
	ErrNoFramebuffer = errors.New("renderpass: no framebuffer bound")

	// ErrFramebufferMismatch is returned when a framebuffer does not match
	// the template's framebuffer template.
	ErrFramebufferMismatch = errors.New("renderpass: framebuffer does not match template")

	// ErrPassActive is returned when the pass is restarted or rebound mid-flight.
	ErrPassActive = errors.New("renderpass: pass is in progress")

	// ErrNotStarted is returned by NextStage or FinishPass before StartPass.
	ErrNotStarted = errors.New("renderpass: pass not started")

	// ErrStageOverflow is returned by NextStage past the last stage.
	ErrStageOverflow = errors.New("renderpass: no stages remaining")

	// ErrStagesRemaining is returned by FinishPass before the last stage.
	ErrStagesRemaining = errors.New("renderpass: stages remaining")

	// ErrNotImplemented is returned by extension points without behavior.
	ErrNotImplemented = errors.New("renderpass: not implemented")
)

// violation marks a protocol error as an assertion failure.
func violation(sentinel error, format string, args ...any) error {
	return errors.WithAssertionFailure(errors.Wrapf(sentinel, format, args...))
}
