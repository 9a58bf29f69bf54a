// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package loop provides the building blocks of the engine's independently
// clocked loops.
//
// A [Thread] runs a [Body] on its own goroutine (optionally locked to an OS
// thread, as GPU contexts require) through a fixed lifecycle:
//
//	Spawn -> Init -> ready -> Start -> MainLoopBody... -> Close -> Shutdown -> Join
//
// [FixedStep] turns variable frame deltas into a whole number of fixed
// simulation steps. [Pacer] caps the frame rate with a coarse sleep
// followed by a short busy-wait.
package loop
