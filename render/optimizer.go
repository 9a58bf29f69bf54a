// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/framecore/command"
	"github.com/gogpu/framecore/pipeline"
)

// Optimizer rewrites a finished command buffer before recording.
// It may replace commands in place but must preserve draw order semantics.
type Optimizer interface {
	Optimize(buf *command.Buffer) error
}

// ForwardOptimizer leaves the buffer untouched.
type ForwardOptimizer struct{}

// Optimize does nothing.
func (ForwardOptimizer) Optimize(*command.Buffer) error { return nil }

// BindDedupOptimizer blanks BindPipeline commands that rebind the pipeline
// already bound in the same render pass.
type BindDedupOptimizer struct {
	// Removed counts commands blanked over the optimizer's lifetime.
	Removed int
}

// Optimize replaces redundant binds with Nop commands.
func (o *BindDedupOptimizer) Optimize(buf *command.Buffer) error {
	bound := pipeline.InvalidHandle
	for i, c := range buf.Commands() {
		switch c := c.(type) {
		case *command.BeginRenderPassCommand, *command.EndRenderPassCommand:
			bound = pipeline.InvalidHandle
		case *command.BindPipelineCommand:
			if c.Pipeline != bound {
				bound = c.Pipeline
				continue
			}
			if err := command.Replace(buf, i, command.NopCommand{}); err != nil {
				return fmt.Errorf("render: dedup bind %d: %w", i, err)
			}
			o.Removed++
		}
	}
	return nil
}

var (
	_ Optimizer = ForwardOptimizer{}
	_ Optimizer = (*BindDedupOptimizer)(nil)
)

// OptimizerByName returns the optimizer for a configuration name:
// "forward" (or empty) and "dedup".
func OptimizerByName(name string) (Optimizer, error) {
	switch name {
	case "", "forward":
		return ForwardOptimizer{}, nil
	case "dedup":
		return &BindDedupOptimizer{}, nil
	}
	return nil, fmt.Errorf("render: unknown optimizer %q", name)
}
