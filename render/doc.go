// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render drives render passes and hands finished command buffers to
// a graphics backend.
//
// # Core Types
//
//   - Renderer: session guard and render pass driver used by layer code
//   - API: the backend contract (attach, optimize, record, submit)
//   - Optimizer: the swappable command reordering/culling step
//   - Object: render objects accepted by Renderer.Draw (Mesh, Overlay, Clear)
//
// # Frame Flow
//
//	r.BeginRenderPass()          // session Started, stage 0 bound
//	r.Draw(&render.Mesh{...})    // enqueue commands
//	r.NextRenderStage()          // stage 1 bound
//	r.Draw(&render.Overlay{...})
//	r.EndRenderPass()            // optimize -> record -> submit, then reset
//
// # Backends
//
// Backends register a factory by name from init(), following the
// database/sql driver pattern:
//
//	import _ "github.com/gogpu/framecore/backend/opengl"
//
//	api, err := render.NewAPI("opengl", render.Config{Pipelines: cache})
//
// The GPU device is RECEIVED from the host through a DeviceHandle; backends
// never create their own device.
//
// Thread Safety: a Renderer and its API belong to the render goroutine.
package render
