// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package engine wires the frame-production core into an application.
//
// An [Application] runs three goroutines:
//
//   - the caller's goroutine pumps the [Window] and pushes input into the
//     event ring
//   - the update thread drains events, advances the fixed-step simulation
//     and publishes one [Frame] per iteration with backpressure
//   - the render thread pops frames (reusing the previous one when none
//     arrives in time), records them through the layer stack and presents
//
// Everything the loops share is passed explicitly through a [Context];
// there are no package-level singletons besides the logger.
package engine
