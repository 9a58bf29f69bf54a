// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package memory

import (
	"unsafe"

	"github.com/cockroachdb/errors"
)

// Allocator is the contract shared by the arena allocators.
type Allocator interface {
	// Allocate returns size bytes aligned to alignment, or ErrOutOfMemory.
	Allocate(size, alignment uintptr) (unsafe.Pointer, error)

	// Deallocate releases p according to the allocator's policy.
	Deallocate(p unsafe.Pointer)

	// Size returns the arena capacity in bytes.
	Size() uintptr

	// UsedBytes returns the bytes consumed, alignment padding included.
	UsedBytes() uintptr

	// AllocationCount returns the number of live allocations.
	AllocationCount() int

	// Close asserts that nothing is live and returns the backing range.
	Close()
}

// arena is the bookkeeping shared by both allocators.
type arena struct {
	buf     []byte
	size    uintptr
	used    uintptr
	peak    uintptr
	count   int
	release func([]byte)
}

func newArena(buf []byte, release func([]byte)) (arena, error) {
	if len(buf) == 0 {
		return arena{}, ErrInvalidBacking
	}
	return arena{
		buf:     buf,
		size:    uintptr(len(buf)),
		release: release,
	}, nil
}

// base returns the first byte of the range.
func (a *arena) base() unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(a.buf))
}

// start returns the numeric base address.
func (a *arena) start() uintptr {
	return uintptr(a.base())
}

// Size returns the arena capacity in bytes.
func (a *arena) Size() uintptr { return a.size }

// UsedBytes returns the bytes consumed, alignment padding included.
func (a *arena) UsedBytes() uintptr { return a.used }

// AllocationCount returns the number of live allocations.
func (a *arena) AllocationCount() int { return a.count }

// Contains reports whether p lies inside the arena range.
func (a *arena) Contains(p unsafe.Pointer) bool {
	if a.buf == nil || p == nil {
		return false
	}
	addr := uintptr(p)
	return addr >= a.start() && addr < a.start()+a.size
}

func (a *arena) closed() bool { return a.buf == nil }

func (a *arena) grow(n uintptr) {
	a.used += n
	if a.used > a.peak {
		a.peak = a.used
	}
}

// fit checks that adjustment+size bytes are free past offset.
func (a *arena) fit(kind string, offset, adjustment, size uintptr) error {
	avail := a.size - offset
	if adjustment > avail || size > avail-adjustment {
		return errors.Wrapf(ErrOutOfMemory, "%s: %d bytes requested, %d of %d in use",
			kind, size, offset, a.size)
	}
	return nil
}

func (a *arena) close(kind string) {
	if a.closed() {
		return
	}
	if a.used != 0 || a.count != 0 {
		panic(errors.AssertionFailedf("%s: closed with %d bytes in %d live allocations",
			kind, a.used, a.count))
	}
	buf := a.buf
	a.buf = nil
	if a.release != nil {
		a.release(buf)
	}
}

// Offset returns the distance of p from the arena base.
func (a *arena) Offset(p unsafe.Pointer) (uintptr, bool) {
	if !a.Contains(p) {
		return 0, false
	}
	return uintptr(p) - a.start(), true
}

// Bytes returns n bytes of the arena starting at offset, or nil if the range
// is out of bounds.
func (a *arena) Bytes(offset, n uintptr) []byte {
	if a.buf == nil || offset > a.size || n > a.size-offset {
		return nil
	}
	return a.buf[offset : offset+n : offset+n]
}
