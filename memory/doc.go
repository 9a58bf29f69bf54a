// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package memory provides fixed-range arena allocators.
//
// Two policies are available over a pre-reserved byte range:
//
//   - [LinearAllocator]: bump allocation, no individual frees, O(1) [LinearAllocator.Clear].
//     Used for one-frame data such as command buffers.
//   - [StackAllocator]: LIFO allocation with a small header before each
//     payload. Frees must happen in exact reverse order. Used for scoped
//     scratch data released within a single render stage.
//
// Neither allocator grows, moves or compacts live allocations. Exhaustion is
// reported as [ErrOutOfMemory]; out-of-order frees and closing an allocator
// with live allocations are programming errors and panic.
//
// Arena memory is a []byte and is not scanned by the garbage collector, so
// only pointer-free values may be placed in it. [New] and [NewSlice] enforce
// this at runtime.
//
// Backing ranges come from a [Service], the process-wide chunk provider.
// A Service is created once per engine and passed explicitly.
//
// Allocators are not safe for concurrent use: an arena is created, filled
// and reset by the same goroutine.
package memory
