// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import "sync"

// Cache deduplicates pipeline states and hands out stable handles.
//
// Equal states always map to the same handle. Handles are never reused for
// the lifetime of the cache. Cache is safe for concurrent use: the update
// thread may prebuild states while the render thread resolves them.
type Cache struct {
	mu      sync.RWMutex
	handles map[State]Handle
	states  []State // states[h-1]
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{handles: make(map[State]Handle)}
}

// Get returns the handle for s, adding it to the cache if needed.
func (c *Cache) Get(s State) (Handle, error) {
	c.mu.RLock()
	h, ok := c.handles[s]
	c.mu.RUnlock()
	if ok {
		return h, nil
	}
	if err := s.Validate(); err != nil {
		return InvalidHandle, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if h, ok := c.handles[s]; ok {
		return h, nil
	}
	c.states = append(c.states, s)
	h = Handle(len(c.states))
	c.handles[s] = h
	return h, nil
}

// MustGet is like Get but panics on an invalid state.
func (c *Cache) MustGet(s State) Handle {
	h, err := c.Get(s)
	if err != nil {
		panic(err)
	}
	return h
}

// Lookup resolves a handle to its state.
func (c *Cache) Lookup(h Handle) (State, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !h.IsValid() || int(h) > len(c.states) {
		return State{}, false
	}
	return c.states[h-1], true
}

// Len returns the number of cached states.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.states)
}

// Each calls fn for every cached state in handle order.
// fn must not call back into the cache.
func (c *Cache) Each(fn func(Handle, State)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i, s := range c.states {
		fn(Handle(i+1), s)
	}
}
