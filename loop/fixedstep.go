// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package loop

import "time"

// FixedStep accumulates frame deltas and releases them as fixed steps.
//
// A step runs only while the accumulator is strictly greater than the
// timestep, so an accumulator equal to the timestep waits for the next
// delta.
type FixedStep struct {
	// Timestep is the simulated duration of one step.
	Timestep time.Duration

	// MaxSteps bounds the steps run by one Advance. Excess time is
	// discarded. Zero means no bound.
	MaxSteps int

	acc     time.Duration
	dropped time.Duration
}

// NewFixedStep returns a FixedStep with the given timestep.
func NewFixedStep(timestep time.Duration) *FixedStep {
	return &FixedStep{Timestep: timestep}
}

// Advance adds delta to the accumulator and calls step once per whole
// timestep. It returns the number of steps taken.
func (f *FixedStep) Advance(delta time.Duration, step func(time.Duration)) int {
	if f.Timestep <= 0 {
		return 0
	}
	f.acc += delta
	n := 0
	for f.acc > f.Timestep {
		if f.MaxSteps > 0 && n == f.MaxSteps {
			// Keep the fractional part.
			keep := f.acc % f.Timestep
			f.dropped += f.acc - keep
			f.acc = keep
			break
		}
		if step != nil {
			step(f.Timestep)
		}
		f.acc -= f.Timestep
		n++
	}
	return n
}

// Remainder returns the time left in the accumulator.
func (f *FixedStep) Remainder() time.Duration { return f.acc }

// Alpha returns the accumulator as a fraction of the timestep, for
// interpolating between the last two simulated states.
func (f *FixedStep) Alpha() float64 {
	if f.Timestep <= 0 {
		return 0
	}
	return float64(f.acc) / float64(f.Timestep)
}

// Dropped returns the total time discarded because of MaxSteps.
func (f *FixedStep) Dropped() time.Duration { return f.dropped }

// Reset empties the accumulator.
func (f *FixedStep) Reset() { f.acc = 0 }
