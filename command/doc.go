// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package command provides the backend-agnostic render command set and the
// arena-backed command buffer that layer code records into.
//
// # Architecture
//
// Commands form a closed set of small value types:
//   - Pass commands (BeginRenderPass, EndRenderPass)
//   - State commands (Clear, BindPipeline)
//   - Drawing commands (Draw, DrawOverlay)
//   - Nop, used by optimizers to blank out a slot in place
//
// A [Buffer] constructs each command directly in its linear arena and keeps
// an ordered list of handles. Commands reference resources (pipelines,
// framebuffers, meshes) by integer handle and overlay text by [Span], so
// they never hold Go pointers.
//
// Backends consume a buffer through a [Visitor]: each command's Accept
// dispatches to the matching Visit method. Adding a command means adding a
// Visit method to every backend, not changing the buffer.
//
// # Example
//
//	buf, _ := command.NewBuffer(svc, 1<<20)
//	command.Submit(buf, command.ClearCommand{Color: black})
//	command.Submit(buf, command.DrawCommand{Pipeline: h, VertexCount: 3, InstanceCount: 1})
//	err := buf.Walk(recordVisitor)
//	buf.Reset()
//
// A Buffer is owned by a single goroutine between Reset calls.
package command
