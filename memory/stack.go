// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package memory

import (
	"unsafe"

	"github.com/cockroachdb/errors"
)

// stackHeader sits directly in front of every stack payload.
type stackHeader struct {
	// adjustment is the distance from the previous top to the payload.
	adjustment uintptr
	// previous is the offset+1 of the allocation below this one, 0 if none.
	previous uintptr
}

const (
	headerSize  = unsafe.Sizeof(stackHeader{})
	headerAlign = unsafe.Alignof(stackHeader{})
)

// StackAllocator is a LIFO allocator. Each allocation is preceded by a header
// recording how to restore the previous top, so Deallocate must be called in
// exact reverse allocation order.
//
// Payloads are aligned to at least the platform word size so headers stay
// naturally aligned.
type StackAllocator struct {
	arena
	top    uintptr // offset of the first free byte
	latest uintptr // offset+1 of the most recent live payload
}

// NewStackAllocator creates a stack allocator over buf.
func NewStackAllocator(buf []byte) (*StackAllocator, error) {
	return newStack(buf, nil)
}

func newStack(buf []byte, release func([]byte)) (*StackAllocator, error) {
	a, err := newArena(buf, release)
	if err != nil {
		return nil, err
	}
	return &StackAllocator{arena: a}, nil
}

// Allocate pushes a header and size bytes aligned to alignment.
func (s *StackAllocator) Allocate(size, alignment uintptr) (unsafe.Pointer, error) {
	if s.closed() {
		return nil, ErrClosed
	}
	if !IsPowerOfTwo(alignment) {
		return nil, ErrBadAlignment
	}
	if size == 0 {
		size = 1
	}
	alignment = max(alignment, headerAlign)
	adjustment := alignForwardAdjustmentWithHeader(s.start()+s.top, alignment, headerSize)
	if err := s.fit("stack", s.top, adjustment, size); err != nil {
		return nil, err
	}

	payload := s.top + adjustment
	hdr := (*stackHeader)(unsafe.Add(s.base(), payload-headerSize))
	hdr.adjustment = adjustment
	hdr.previous = s.latest

	s.top = payload + size
	s.latest = payload + 1
	s.grow(adjustment + size)
	s.count++
	return unsafe.Add(s.base(), payload), nil
}

// Deallocate pops p, which must be the most recent live allocation.
// Any other pointer is a programming error and panics without changing state.
func (s *StackAllocator) Deallocate(p unsafe.Pointer) {
	if !s.Contains(p) {
		panic(errors.AssertionFailedf("stack: deallocate %p outside arena", p))
	}
	offset := uintptr(p) - s.start()
	if s.latest == 0 || offset != s.latest-1 {
		panic(errors.AssertionFailedf("stack: deallocate %p out of order (top allocation at offset %d)",
			p, int64(s.latest)-1))
	}
	hdr := (*stackHeader)(unsafe.Add(s.base(), offset-headerSize))
	prevTop := offset - hdr.adjustment

	s.used -= s.top - prevTop
	s.top = prevTop
	s.latest = hdr.previous
	s.count--
}

// Top returns the current top offset.
func (s *StackAllocator) Top() uintptr { return s.top }

// Close panics if allocations are live and releases the backing range.
func (s *StackAllocator) Close() {
	s.close("stack")
}

// Stats returns a snapshot of the allocator counters.
func (s *StackAllocator) Stats() Stats {
	return Stats{Kind: "stack", Size: s.size, Used: s.used, Peak: s.peak, Allocations: s.count}
}
