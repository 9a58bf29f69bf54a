// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads engine configuration from YAML.
//
// Values from a file are merged over Default(); keys that are absent keep
// their defaults. Durations are written as Go duration strings ("20ms").
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete engine configuration.
type Config struct {
	Renderer RendererConfig `yaml:"renderer"`
	Window   WindowConfig   `yaml:"window"`
	Memory   MemoryConfig   `yaml:"memory"`
	Update   UpdateConfig   `yaml:"update"`
	Queue    QueueConfig    `yaml:"queue"`
	Events   EventsConfig   `yaml:"events"`
}

// RendererConfig selects and paces the render loop.
type RendererConfig struct {
	Backend   string `yaml:"backend"`   // opengl, vulkan, capture
	Optimizer string `yaml:"optimizer"` // forward, dedup
	VSync     bool   `yaml:"vsync"`     // presentation paces the loop; no software cap
	FPSCap    int    `yaml:"fps_cap"`   // 0 = uncapped

	// SpinThreshold is the busy-wait slice before each frame deadline.
	// Larger values improve pacing precision and burn more CPU.
	SpinThreshold time.Duration `yaml:"spin_threshold"`

	// CapturePath receives msgpack frame traces when Backend is capture.
	CapturePath string `yaml:"capture_path,omitempty"`
}

// WindowConfig describes the initial window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// MemoryConfig sizes the frame arenas.
type MemoryConfig struct {
	CommandBufferSize int `yaml:"command_buffer_size"` // bytes per command buffer arena
	RenderQueueSize   int `yaml:"render_queue_size"`   // bytes of per-stage scratch stack
	Budget            int `yaml:"budget"`              // bytes outstanding across arenas; 0 = unlimited
}

// UpdateConfig drives the simulation loop.
type UpdateConfig struct {
	Timestep time.Duration `yaml:"timestep"`
	MaxSteps int           `yaml:"max_steps"` // 0 = unbounded catch-up
}

// QueueConfig sizes the frame handoff.
type QueueConfig struct {
	FrameCapacity int           `yaml:"frame_capacity"`
	PopTimeout    time.Duration `yaml:"pop_timeout"`
}

// EventsConfig sizes the input event ring.
type EventsConfig struct {
	Capacity int `yaml:"capacity"`
}

// Backends lists the accepted renderer.backend values.
var Backends = []string{"opengl", "vulkan", "capture"}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Renderer: RendererConfig{
			Backend:       "opengl",
			Optimizer:     "forward",
			FPSCap:        60,
			SpinThreshold: time.Millisecond,
		},
		Window: WindowConfig{
			Title:  "framecore",
			Width:  800,
			Height: 600,
		},
		Memory: MemoryConfig{
			CommandBufferSize: 1 << 20,
			RenderQueueSize:   256 << 10,
		},
		Update: UpdateConfig{
			Timestep: 20 * time.Millisecond,
			MaxSteps: 5,
		},
		Queue: QueueConfig{
			FrameCapacity: 1,
			PopTimeout:    8 * time.Millisecond,
		},
		Events: EventsConfig{
			Capacity: 1024,
		},
	}
}

// Load reads, parses and validates a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default() and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if len(data) > 0 {
		if err := decodeStrict(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeStrict(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate reports every invalid value.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if !slices.Contains(Backends, c.Renderer.Backend) {
		add("renderer.backend %q: want one of %v", c.Renderer.Backend, Backends)
	}
	switch c.Renderer.Optimizer {
	case "", "forward", "dedup":
	default:
		add("renderer.optimizer %q: want forward or dedup", c.Renderer.Optimizer)
	}
	if c.Renderer.FPSCap < 0 {
		add("renderer.fps_cap %d: must be >= 0", c.Renderer.FPSCap)
	}
	if c.Renderer.SpinThreshold < 0 {
		add("renderer.spin_threshold %v: must be >= 0", c.Renderer.SpinThreshold)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		add("window size %dx%d: must be positive", c.Window.Width, c.Window.Height)
	}
	switch {
	case c.Memory.CommandBufferSize <= 0:
		add("memory.command_buffer_size %d: must be positive", c.Memory.CommandBufferSize)
	case uint64(c.Memory.CommandBufferSize) > math.MaxUint32:
		add("memory.command_buffer_size %d: must be <= %d", c.Memory.CommandBufferSize, uint64(math.MaxUint32))
	}
	if c.Memory.RenderQueueSize <= 0 {
		add("memory.render_queue_size %d: must be positive", c.Memory.RenderQueueSize)
	}
	if c.Memory.Budget < 0 {
		add("memory.budget %d: must be >= 0", c.Memory.Budget)
	}
	if c.Update.Timestep <= 0 {
		add("update.timestep %v: must be positive", c.Update.Timestep)
	}
	if c.Update.MaxSteps < 0 {
		add("update.max_steps %d: must be >= 0", c.Update.MaxSteps)
	}
	if c.Queue.FrameCapacity < 1 {
		add("queue.frame_capacity %d: must be >= 1", c.Queue.FrameCapacity)
	}
	if c.Queue.PopTimeout < 0 {
		add("queue.pop_timeout %v: must be >= 0", c.Queue.PopTimeout)
	}
	if c.Events.Capacity < 2 {
		add("events.capacity %d: must be >= 2", c.Events.Capacity)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// FrameTime returns the render frame budget implied by FPSCap, or zero
// when the loop is uncapped or vsync paces it.
func (r RendererConfig) FrameTime() time.Duration {
	if r.VSync || r.FPSCap <= 0 {
		return 0
	}
	return time.Second / time.Duration(r.FPSCap)
}

// Marshal encodes c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
