// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package renderpass implements render pass templates and the per-frame
// pass state machine.
//
// A [Template] is an immutable, ordered list of [Stage]s plus the
// [FramebufferTemplate] its framebuffers must match. Many [Pass] instances
// share one template, typically one per frame or per render target.
//
// State Machine:
//
//	Idle -> BindFramebuffer -> StartPass -> NotStarted(-1)
//	     -> NextStage -> Stage(0) -> ... -> Stage(N-1) -> FinishPass -> Finished
//
// Every stage is visited exactly once, in order. Protocol violations
// (missing framebuffer, skipped or repeated stages, template mismatch) are
// authoring bugs: they are returned as assertion-failure errors for which
// errors.HasAssertionFailure reports true, and the pass state is unchanged.
package renderpass
