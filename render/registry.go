// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/gogpu/framecore/pipeline"
)

// Config is passed to backend factories.
type Config struct {
	// Device is the host's GPU device. CPU backends ignore it.
	Device DeviceHandle

	// Pipelines resolves pipeline handles found in commands.
	Pipelines *pipeline.Cache

	// Optimizer runs before recording. Nil means ForwardOptimizer.
	Optimizer Optimizer

	// Logger receives backend diagnostics. Nil means framecore.Logger().
	Logger *slog.Logger
}

// OptimizerOr returns c.Optimizer, or ForwardOptimizer when unset.
func (c Config) OptimizerOr() Optimizer {
	if c.Optimizer == nil {
		return ForwardOptimizer{}
	}
	return c.Optimizer
}

// Factory creates a backend instance.
type Factory func(cfg Config) (API, error)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
)

// Register registers a backend factory with the given name.
// It is typically called from init() in backend packages:
//
//	func init() {
//	    render.Register("opengl", func(cfg render.Config) (render.API, error) {
//	        return New(cfg)
//	    })
//	}
//
// Register panics if factory is nil or the name is already registered.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("render: Register factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("render: Register called twice for " + name)
	}
	factories[name] = factory
}

// Unregister removes a backend from the registry.
// If the backend is not registered, this is a no-op.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// NewAPI creates a backend by name.
// The error mentions a forgotten import when the name is unknown.
func NewAPI(name string, cfg Config) (API, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("render: unknown backend %q (forgotten import?)", name)
	}
	api, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("render: create %s backend: %w", name, err)
	}
	return api, nil
}

// MustAPI is like NewAPI but panics on error.
func MustAPI(name string, cfg Config) API {
	api, err := NewAPI(name, cfg)
	if err != nil {
		panic(err)
	}
	return api
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Count returns the number of registered backends.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(factories)
}
