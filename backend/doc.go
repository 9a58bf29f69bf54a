// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend holds the pieces shared by the render.API implementations.
//
// Available backends:
//
//   - opengl: immediate mode, interprets commands against a GL contract
//     (software rasterizer by default, go-gl with the gogl build tag)
//   - vulkan: deferred mode, records into wgpu HAL command buffers and
//     submits them to the host device queue
//   - capture: records every pass into a msgpack trace
//
// Backends register themselves on import:
//
//	import _ "github.com/gogpu/framecore/backend/opengl"
package backend
