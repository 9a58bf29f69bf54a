// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package event carries window and input events from the main goroutine to
// the update loop.
package event

import (
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"
)

// Type identifies an event.
type Type uint8

const (
	// TypeNone is the zero event.
	TypeNone Type = iota
	// TypeKeyDown reports a key press.
	TypeKeyDown
	// TypeKeyUp reports a key release.
	TypeKeyUp
	// TypeResize reports a new framebuffer size in Width and Height.
	TypeResize
	// TypeClose reports a request to close the window.
	TypeClose
	// TypeFocus reports focus gain.
	TypeFocus
	// TypeBlur reports focus loss.
	TypeBlur
)

var typeNames = [...]string{
	TypeNone:    "None",
	TypeKeyDown: "KeyDown",
	TypeKeyUp:   "KeyUp",
	TypeResize:  "Resize",
	TypeClose:   "Close",
	TypeFocus:   "Focus",
	TypeBlur:    "Blur",
}

// String returns the string representation of Type.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Event is a window or input event. It is a plain value and may be copied.
type Event struct {
	Type   Type
	Key    gpucontext.Key
	Mods   gpucontext.Modifiers
	Width  int
	Height int
	At     time.Time
}

// KeyDown returns a key press event stamped with now.
func KeyDown(key gpucontext.Key, mods gpucontext.Modifiers, now time.Time) Event {
	return Event{Type: TypeKeyDown, Key: key, Mods: mods, At: now}
}

// Resize returns a resize event stamped with now.
func Resize(width, height int, now time.Time) Event {
	return Event{Type: TypeResize, Width: width, Height: height, At: now}
}
