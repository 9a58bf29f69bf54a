// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package queue provides the bounded blocking queue that hands frames from
// the update loop to the render loop.
//
// Producers block while the queue is full, which is how backpressure
// reaches the update loop; the consumer polls with a timeout so the render
// loop never stalls on a slow producer.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrFull is returned by TryPush when no slot is free.
var ErrFull = errors.New("queue: full")

// Bounded is a fixed-capacity FIFO safe for any number of producers and
// consumers.
//
// Two counting semaphores, built from buffered channels, track open slots
// and filled items; a mutex guards the ring itself. Every pushed value is
// delivered to exactly one Pop.
type Bounded[T any] struct {
	slots chan struct{} // one token per open slot
	items chan struct{} // one token per filled slot

	mu   sync.Mutex
	ring []T
	head int
	n    int
}

// NewBounded creates a queue holding at most capacity values.
// It panics if capacity < 1.
func NewBounded[T any](capacity int) *Bounded[T] {
	if capacity < 1 {
		panic(errors.AssertionFailedf("queue: capacity %d < 1", capacity))
	}
	q := &Bounded[T]{
		slots: make(chan struct{}, capacity),
		items: make(chan struct{}, capacity),
		ring:  make([]T, capacity),
	}
	for range capacity {
		q.slots <- struct{}{}
	}
	return q
}

// Push appends v, blocking while the queue is full. It returns ctx.Err()
// if ctx is done first; v is then not enqueued.
func (q *Bounded[T]) Push(ctx context.Context, v T) error {
	select {
	case <-q.slots:
	case <-ctx.Done():
		return ctx.Err()
	}
	q.put(v)
	return nil
}

// TryPush appends v without blocking, or returns ErrFull.
func (q *Bounded[T]) TryPush(v T) error {
	select {
	case <-q.slots:
	default:
		return ErrFull
	}
	q.put(v)
	return nil
}

// Pop removes the oldest value, waiting at most timeout for one to arrive.
// A zero timeout polls. On expiry Pop returns the zero value and false.
func (q *Bounded[T]) Pop(timeout time.Duration) (T, bool) {
	if timeout <= 0 {
		select {
		case <-q.items:
			return q.take(), true
		default:
			var zero T
			return zero, false
		}
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-q.items:
		return q.take(), true
	case <-t.C:
		var zero T
		return zero, false
	}
}

// PopContext removes the oldest value, waiting until ctx is done.
func (q *Bounded[T]) PopContext(ctx context.Context) (T, error) {
	select {
	case <-q.items:
		return q.take(), nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Len returns the number of queued values.
func (q *Bounded[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.n
}

// Cap returns the queue capacity.
func (q *Bounded[T]) Cap() int { return len(q.ring) }

func (q *Bounded[T]) put(v T) {
	q.mu.Lock()
	q.ring[(q.head+q.n)%len(q.ring)] = v
	q.n++
	q.mu.Unlock()
	q.items <- struct{}{}
}

func (q *Bounded[T]) take() T {
	var zero T
	q.mu.Lock()
	v := q.ring[q.head]
	q.ring[q.head] = zero
	q.head = (q.head + 1) % len(q.ring)
	q.n--
	q.mu.Unlock()
	q.slots <- struct{}{}
	return v
}
