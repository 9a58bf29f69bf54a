// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package memory

import "unsafe"

// LinearAllocator hands out memory by bumping a cursor.
// Individual frees are not supported; Clear reclaims everything at once.
type LinearAllocator struct {
	arena
	cursor uintptr
}

// NewLinearAllocator creates a linear allocator over buf.
// The caller keeps ownership of buf; Close does not return it anywhere.
func NewLinearAllocator(buf []byte) (*LinearAllocator, error) {
	return newLinear(buf, nil)
}

func newLinear(buf []byte, release func([]byte)) (*LinearAllocator, error) {
	a, err := newArena(buf, release)
	if err != nil {
		return nil, err
	}
	return &LinearAllocator{arena: a}, nil
}

// Allocate returns size bytes aligned to alignment.
// A zero size is treated as one byte so every allocation has a distinct address.
func (l *LinearAllocator) Allocate(size, alignment uintptr) (unsafe.Pointer, error) {
	if l.closed() {
		return nil, ErrClosed
	}
	if !IsPowerOfTwo(alignment) {
		return nil, ErrBadAlignment
	}
	if size == 0 {
		size = 1
	}
	adjustment := AlignForwardAdjustment(l.start()+l.cursor, alignment)
	if err := l.fit("linear", l.cursor, adjustment, size); err != nil {
		return nil, err
	}
	p := unsafe.Add(l.base(), l.cursor+adjustment)
	l.cursor += adjustment + size
	l.grow(adjustment + size)
	l.count++
	return p, nil
}

// Deallocate is a no-op. Use Clear.
func (l *LinearAllocator) Deallocate(unsafe.Pointer) {}

// Clear resets the cursor to the arena base. Previously returned pointers
// must not be used afterwards.
func (l *LinearAllocator) Clear() {
	l.cursor = 0
	l.used = 0
	l.count = 0
}

// Close panics if allocations are live and releases the backing range.
func (l *LinearAllocator) Close() {
	l.close("linear")
}

// Stats returns a snapshot of the allocator counters.
func (l *LinearAllocator) Stats() Stats {
	return Stats{Kind: "linear", Size: l.size, Used: l.used, Peak: l.peak, Allocations: l.count}
}
