// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/cockroachdb/errors"

// Renderer session errors.
var (
	// ErrSessionNotStarted is returned by drawing calls outside a session.
	ErrSessionNotStarted = errors.New("render: session not started")

	// ErrSessionActive is returned when a session is started twice or the
	// render pass is swapped mid-session.
	ErrSessionActive = errors.New("render: session already started")

	// ErrNoRenderPass is returned by BeginRenderPass without SetRenderPass.
	ErrNoRenderPass = errors.New("render: no render pass set")

	// ErrScratchInUse is returned when a stage ends with live scratch allocations.
	ErrScratchInUse = errors.New("render: scratch allocations outlive stage")

	// ErrUnknownPipeline is returned when a stage references an uncached pipeline.
	ErrUnknownPipeline = errors.New("render: unknown pipeline handle")
)

func violation(sentinel error, format string, args ...any) error {
	return errors.WithAssertionFailure(errors.Wrapf(sentinel, format, args...))
}
