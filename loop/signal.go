// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package loop

import (
	"sync"
	"time"
)

// Signal is a set-once flag that goroutines can wait on.
// The zero value is ready to use.
type Signal struct {
	once sync.Once
	mu   sync.Mutex
	ch   chan struct{}
}

func (s *Signal) done() chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// Set raises the signal. Subsequent calls are no-ops.
func (s *Signal) Set() {
	s.once.Do(func() { close(s.done()) })
}

// IsSet reports whether Set was called.
func (s *Signal) IsSet() bool {
	select {
	case <-s.done():
		return true
	default:
		return false
	}
}

// Done returns a channel closed by Set.
func (s *Signal) Done() <-chan struct{} { return s.done() }

// Wait blocks until Set is called.
func (s *Signal) Wait() { <-s.done() }

// WaitTimeout waits at most d and reports whether the signal was set.
func (s *Signal) WaitTimeout(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-s.done():
		return true
	case <-t.C:
		return false
	}
}
