// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"slices"

	"github.com/gogpu/framecore/command"
	"github.com/gogpu/framecore/renderpass"
)

// mockAPI records the backend calls made by the renderer.
type mockAPI struct {
	name      string
	optimizer Optimizer
	calls     []string
	attached  []uint32
	recorded  [][]command.Kind
	submitted int
	recordErr error
	closed    bool
}

func newMockAPI() *mockAPI {
	return &mockAPI{name: "mock", optimizer: ForwardOptimizer{}}
}

func (m *mockAPI) Name() string { return m.name }

func (m *mockAPI) AttachFramebuffer(fb *renderpass.Framebuffer) error {
	m.calls = append(m.calls, "attach")
	m.attached = append(m.attached, fb.ID)
	return nil
}

func (m *mockAPI) DetachFramebuffer(fb *renderpass.Framebuffer) error {
	m.calls = append(m.calls, "detach")
	m.attached = slices.DeleteFunc(m.attached, func(id uint32) bool { return id == fb.ID })
	return nil
}

func (m *mockAPI) OptimizeCommands(buf *command.Buffer) error {
	m.calls = append(m.calls, "optimize")
	return m.optimizer.Optimize(buf)
}

func (m *mockAPI) RecordCommands(buf *command.Buffer) (RecordedCommandBuffer, error) {
	m.calls = append(m.calls, "record")
	if m.recordErr != nil {
		return RecordedCommandBuffer{}, m.recordErr
	}
	kinds := make([]command.Kind, 0, buf.Len())
	for _, c := range buf.Commands() {
		kinds = append(kinds, c.Kind())
	}
	m.recorded = append(m.recorded, kinds)
	return RecordedCommandBuffer{Backend: m.name, Native: kinds, Commands: len(kinds)}, nil
}

func (m *mockAPI) SubmitRenderCommands(rec RecordedCommandBuffer) error {
	m.calls = append(m.calls, "submit")
	m.submitted += rec.Commands
	return nil
}

func (m *mockAPI) Close() error {
	m.closed = true
	return nil
}

var _ API = (*mockAPI)(nil)
