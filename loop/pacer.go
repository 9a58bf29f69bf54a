// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package loop

import (
	"runtime"
	"time"
)

// DefaultSpinThreshold is the busy-wait slice at the end of a frame.
const DefaultSpinThreshold = time.Millisecond

// Pacer caps a loop to a target frame time.
//
// Wait sleeps until SpinThreshold before the deadline, then busy-waits the
// rest. The spin costs CPU time; a zero threshold disables it.
type Pacer struct {
	Timestep      time.Duration // zero disables pacing (vsync or uncapped)
	SpinThreshold time.Duration
	Clock         Clock

	deadline time.Time
}

// NewPacer returns a pacer for fps frames per second. fps <= 0 disables
// pacing.
func NewPacer(fps int, spin time.Duration, clock Clock) *Pacer {
	p := &Pacer{SpinThreshold: spin, Clock: ClockOr(clock)}
	if fps > 0 {
		p.Timestep = time.Second / time.Duration(fps)
	}
	return p
}

// Begin marks the start of a frame and returns it.
func (p *Pacer) Begin() time.Time {
	now := ClockOr(p.Clock).Now()
	p.deadline = now.Add(p.Timestep)
	return now
}

// Deadline returns the end of the current frame.
func (p *Pacer) Deadline() time.Time { return p.deadline }

// Wait blocks until the frame deadline and returns how long it waited.
// It returns 0 when pacing is disabled or the frame overran.
func (p *Pacer) Wait() time.Duration {
	if p.Timestep <= 0 || p.deadline.IsZero() {
		return 0
	}
	clock := ClockOr(p.Clock)
	start := clock.Now()
	remaining := p.deadline.Sub(start)
	if remaining <= 0 {
		return 0
	}
	if coarse := remaining - p.SpinThreshold; coarse > 0 {
		clock.Sleep(coarse)
	}
	for clock.Now().Before(p.deadline) {
		runtime.Gosched()
	}
	return clock.Now().Sub(start)
}
