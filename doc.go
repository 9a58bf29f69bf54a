// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package framecore is the frame-production core of a real-time renderer.
//
// It turns per-frame drawing intent into GPU-submittable command sequences
// while an update thread and a render thread, each on its own clock, hand
// work to each other through bounded queues.
//
// # Packages
//
//   - memory: linear (bump) and stack (LIFO) arena allocators
//   - command: arena-backed command buffers and visitor dispatch
//   - pipeline: pipeline-state descriptors and the handle cache
//   - renderpass: render pass templates and the stage state machine
//   - render: the renderer session and the optimize/record/submit pipeline
//   - backend/vulkan, backend/opengl, backend/capture: renderer APIs
//   - queue: the bounded frame handoff queue
//   - event: the window/input event queue
//   - loop: the thread loop template, fixed timestep and frame pacing
//   - engine: the application that wires layers, loops and backends
//   - config: YAML configuration
//
// # Logging
//
// framecore is silent by default. Call [SetLogger] to route diagnostics to
// any [log/slog] handler.
package framecore

// Version is the framecore release.
const Version = "0.4.0"
