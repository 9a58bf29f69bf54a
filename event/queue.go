// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package event

import (
	"math/bits"
	"sync/atomic"
)

// DefaultCapacity is the ring size used when none is configured.
const DefaultCapacity = 1024

// cell is one ring slot. seq tells producers and the consumer whose turn
// the slot is.
type cell struct {
	seq atomic.Uint64
	ev  Event
}

// Queue is a bounded lock-free ring of events.
//
// Push is safe for any number of producers; Drain must only be called from
// a single consumer (the update loop). When the ring is full Push drops the
// new event and counts it.
type Queue struct {
	cells []cell
	mask  uint64
	_     [56]byte
	tail  atomic.Uint64 // next write position
	_     [56]byte
	head  atomic.Uint64 // next read position, consumer only
	drops atomic.Uint64
}

// NewQueue creates a queue with capacity rounded up to a power of two.
// A capacity < 2 selects DefaultCapacity.
func NewQueue(capacity int) *Queue {
	if capacity < 2 {
		capacity = DefaultCapacity
	}
	n := uint64(1) << bits.Len64(uint64(capacity-1))
	q := &Queue{cells: make([]cell, n), mask: n - 1}
	for i := range q.cells {
		q.cells[i].seq.Store(uint64(i))
	}
	return q
}

// Push enqueues ev. It reports false if the ring was full and ev was
// dropped.
func (q *Queue) Push(ev Event) bool {
	for {
		pos := q.tail.Load()
		c := &q.cells[pos&q.mask]
		seq := c.seq.Load()
		switch {
		case seq == pos:
			if q.tail.CompareAndSwap(pos, pos+1) {
				c.ev = ev
				c.seq.Store(pos + 1) // publish
				return true
			}
		case seq < pos:
			q.drops.Add(1)
			return false
		}
	}
}

// Drain appends every published event to dst in FIFO order and returns it.
func (q *Queue) Drain(dst []Event) []Event {
	pos := q.head.Load()
	for {
		c := &q.cells[pos&q.mask]
		if c.seq.Load() != pos+1 {
			break
		}
		dst = append(dst, c.ev)
		c.ev = Event{}
		c.seq.Store(pos + q.mask + 1)
		pos++
	}
	q.head.Store(pos)
	return dst
}

// Len returns an approximate count of pending events.
func (q *Queue) Len() int {
	n := q.tail.Load() - q.head.Load()
	if int64(n) < 0 {
		return 0
	}
	return int(n)
}

// Cap returns the ring size.
func (q *Queue) Cap() int { return len(q.cells) }

// Drops returns the number of events dropped because the ring was full.
func (q *Queue) Drops() uint64 { return q.drops.Load() }
