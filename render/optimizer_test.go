// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"testing"

	"github.com/gogpu/framecore/command"
	"github.com/gogpu/framecore/memory"
)

func newOptimizerBuffer(t *testing.T) *command.Buffer {
	t.Helper()
	buf, err := command.NewBuffer(memory.NewService(), 4096)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(buf.Close)
	return buf
}

func kinds(buf *command.Buffer) []command.Kind {
	out := make([]command.Kind, 0, buf.Len())
	for _, c := range buf.Commands() {
		out = append(out, c.Kind())
	}
	return out
}

func TestBindDedupOptimizer(t *testing.T) {
	buf := newOptimizerBuffer(t)
	submit := func(idx int, err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}

	submit(command.Submit(buf, command.BeginRenderPassCommand{}))
	submit(command.Submit(buf, command.BindPipelineCommand{Pipeline: 1}))
	submit(command.Submit(buf, command.DrawCommand{}))
	submit(command.Submit(buf, command.BindPipelineCommand{Stage: 1, Pipeline: 1}))
	submit(command.Submit(buf, command.DrawCommand{}))
	submit(command.Submit(buf, command.BindPipelineCommand{Stage: 2, Pipeline: 2}))
	submit(command.Submit(buf, command.EndRenderPassCommand{}))
	submit(command.Submit(buf, command.BeginRenderPassCommand{}))
	submit(command.Submit(buf, command.BindPipelineCommand{Pipeline: 2}))
	submit(command.Submit(buf, command.EndRenderPassCommand{}))

	opt := &BindDedupOptimizer{}
	if err := opt.Optimize(buf); err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	want := []command.Kind{
		command.KindBeginRenderPass,
		command.KindBindPipeline,
		command.KindDraw,
		command.KindNop, // same pipeline rebound
		command.KindDraw,
		command.KindBindPipeline,
		command.KindEndRenderPass,
		command.KindBeginRenderPass,
		command.KindBindPipeline, // new pass forgets bindings
		command.KindEndRenderPass,
	}
	got := kinds(buf)
	if len(got) != len(want) {
		t.Fatalf("got %d commands, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("command %d = %v, want %v", i, got[i], want[i])
		}
	}
	if opt.Removed != 1 {
		t.Errorf("Removed = %d, want 1", opt.Removed)
	}
}

func TestForwardOptimizerKeepsBuffer(t *testing.T) {
	buf := newOptimizerBuffer(t)
	for range 2 {
		if _, err := command.Submit(buf, command.BindPipelineCommand{Pipeline: 1}); err != nil {
			t.Fatal(err)
		}
	}
	if err := (ForwardOptimizer{}).Optimize(buf); err != nil {
		t.Fatal(err)
	}
	for i, k := range kinds(buf) {
		if k != command.KindBindPipeline {
			t.Errorf("command %d = %v", i, k)
		}
	}
}

func TestOptimizerByName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"", false},
		{"forward", false},
		{"dedup", false},
		{"sort", true},
	}
	for _, tt := range tests {
		_, err := OptimizerByName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("OptimizerByName(%q) err = %v", tt.name, err)
		}
	}
}
