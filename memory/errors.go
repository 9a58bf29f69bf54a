// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package memory

import "github.com/cockroachdb/errors"

var (
	// ErrOutOfMemory is returned when an allocation does not fit in the arena.
	ErrOutOfMemory = errors.New("memory: arena exhausted")

	// ErrBadAlignment is returned when the alignment is not a power of two.
	ErrBadAlignment = errors.New("memory: alignment must be a non-zero power of two")

	// ErrInvalidBacking is returned when an allocator is built over a nil or
	// empty range.
	ErrInvalidBacking = errors.New("memory: backing range is nil or empty")

	// ErrClosed is returned by allocations on a closed allocator.
	ErrClosed = errors.New("memory: allocator is closed")

	// ErrBudgetExceeded is returned by Service.Reserve when the reservation
	// would exceed the configured budget.
	ErrBudgetExceeded = errors.New("memory: service budget exceeded")
)
