// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package memory

import (
	"log/slog"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/gogpu/framecore"
)

// Block is a backing range reserved from a Service.
type Block struct {
	buf []byte
}

// Bytes returns the reserved range.
func (b Block) Bytes() []byte { return b.buf }

// Len returns the block size in bytes.
func (b Block) Len() int { return len(b.buf) }

// Service is the process-wide provider of backing ranges.
//
// It is created once and passed to every subsystem that needs arenas.
// Released blocks are kept on a per-size free list and handed out again,
// zeroed, on the next Reserve of the same size. Service is safe for
// concurrent use.
type Service struct {
	mu          sync.Mutex
	free        map[int][][]byte
	outstanding int
	peak        int
	budget      int
	logger      *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithBudget caps the total bytes outstanding at once. Zero means unlimited.
func WithBudget(bytes int) ServiceOption {
	return func(s *Service) { s.budget = bytes }
}

// WithLogger sets the logger used for reservation diagnostics.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// NewService creates a memory service.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{free: make(map[int][][]byte)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) log() *slog.Logger {
	return framecore.LoggerOr(s.logger)
}

// Reserve returns a zeroed block of exactly size bytes.
func (s *Service) Reserve(size int) (Block, error) {
	if size <= 0 {
		return Block{}, errors.Wrapf(ErrInvalidBacking, "reserve %d bytes", size)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.budget > 0 && s.outstanding+size > s.budget {
		return Block{}, errors.Wrapf(ErrBudgetExceeded, "reserve %d bytes with %d of %d outstanding",
			size, s.outstanding, s.budget)
	}

	var buf []byte
	if list := s.free[size]; len(list) > 0 {
		buf = list[len(list)-1]
		s.free[size] = list[:len(list)-1]
		clear(buf)
	} else {
		buf = make([]byte, size)
	}
	s.outstanding += size
	s.peak = max(s.peak, s.outstanding)
	s.log().Debug("memory: block reserved", "size", size, "outstanding", s.outstanding)
	return Block{buf: buf}, nil
}

// Release returns a block to the service. Releasing a zero Block is a no-op.
func (s *Service) Release(b Block) {
	s.release(b.buf)
}

func (s *Service) release(buf []byte) {
	if len(buf) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outstanding -= len(buf)
	s.free[len(buf)] = append(s.free[len(buf)], buf)
}

// Outstanding returns the bytes currently reserved and not released.
func (s *Service) Outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outstanding
}

// Peak returns the high-water mark of outstanding bytes.
func (s *Service) Peak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peak
}

// NewLinearAllocator reserves size bytes and builds a linear allocator over
// them. Closing the allocator returns the block to the service.
func (s *Service) NewLinearAllocator(size int) (*LinearAllocator, error) {
	b, err := s.Reserve(size)
	if err != nil {
		return nil, err
	}
	return newLinear(b.buf, s.release)
}

// NewStackAllocator reserves size bytes and builds a stack allocator over
// them. Closing the allocator returns the block to the service.
func (s *Service) NewStackAllocator(size int) (*StackAllocator, error) {
	b, err := s.Reserve(size)
	if err != nil {
		return nil, err
	}
	return newStack(b.buf, s.release)
}
