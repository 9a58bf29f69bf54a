// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package loop

import (
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/gogpu/framecore"
)

// Body is the work a Thread runs.
type Body interface {
	// Init runs first on the loop goroutine. An error aborts the thread
	// and is reported by WaitReady.
	Init() error

	// MainLoopBody runs once per iteration while the thread is running.
	MainLoopBody()

	// Shutdown runs last on the loop goroutine, after Init succeeded.
	Shutdown()
}

// Option configures a Thread.
type Option func(*Thread)

// WithLockOSThread pins the loop goroutine to its OS thread. Required
// for bodies that own a GL context.
func WithLockOSThread() Option {
	return func(t *Thread) { t.lockOS = true }
}

// WithLogger sets the thread logger. The default is framecore.Logger().
func WithLogger(l *slog.Logger) Option {
	return func(t *Thread) { t.logger = l }
}

// Thread runs a Body on a dedicated goroutine.
//
// Shutdown is cooperative: Close clears the running flag and the loop exits
// after the current MainLoopBody returns.
type Thread struct {
	name   string
	body   Body
	lockOS bool
	logger *slog.Logger

	spawned atomic.Bool
	closed  atomic.Bool
	running atomic.Bool
	ready   Signal
	start   Signal
	done    Signal
	initErr error // written before ready is set
	iters   atomic.Uint64
}

// NewThread creates a thread named name running body.
func NewThread(name string, body Body, opts ...Option) *Thread {
	t := &Thread{name: name, body: body}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = framecore.LoggerOr(t.logger)
	return t
}

// Name returns the thread name.
func (t *Thread) Name() string { return t.name }

// Spawn starts the loop goroutine. It runs Init, signals readiness and
// waits for Start. A thread closed before Spawn runs Init and Shutdown
// without iterating. Spawn panics if called twice.
func (t *Thread) Spawn() {
	if !t.spawned.CompareAndSwap(false, true) {
		panic("loop: thread " + t.name + " spawned twice")
	}
	t.running.Store(true)
	// Re-check after the store so a concurrent Close is not overwritten.
	if t.closed.Load() {
		t.running.Store(false)
	}
	go t.run()
}

func (t *Thread) run() {
	defer t.done.Set()
	if t.lockOS {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	if err := t.body.Init(); err != nil {
		t.initErr = err
		t.running.Store(false)
		t.ready.Set()
		t.logger.Error("loop: init failed", "thread", t.name, "err", err)
		return
	}
	t.ready.Set()
	t.start.Wait()

	t.logger.Info("loop: thread started", "thread", t.name)
	for t.running.Load() {
		t.body.MainLoopBody()
		t.iters.Add(1)
	}
	t.body.Shutdown()
	t.logger.Info("loop: thread stopped", "thread", t.name, "iterations", t.iters.Load())
}

// WaitReady blocks until Init has finished and returns its error.
func (t *Thread) WaitReady() error {
	t.ready.Wait()
	return t.initErr
}

// Start releases the loop after Init. Calling Start more than once is a
// no-op.
func (t *Thread) Start() { t.start.Set() }

// Close asks the loop to stop after the current iteration. A thread that
// was never started skips its loop and runs Shutdown. Close is sticky: a
// later Spawn does not reset it.
func (t *Thread) Close() {
	t.closed.Store(true)
	t.running.Store(false)
	t.start.Set()
}

// Join blocks until the loop goroutine has exited. Join on a thread that
// was never spawned returns immediately.
func (t *Thread) Join() {
	if !t.spawned.Load() {
		return
	}
	t.done.Wait()
}

// Running reports whether the loop is still iterating.
func (t *Thread) Running() bool { return t.running.Load() }

// Iterations returns the number of completed MainLoopBody calls.
func (t *Thread) Iterations() uint64 { return t.iters.Load() }

// Done returns a channel closed when the loop goroutine exits.
func (t *Thread) Done() <-chan struct{} { return t.done.Done() }
