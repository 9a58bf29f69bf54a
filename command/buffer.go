// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package command

import (
	"math"
	"unsafe"

	"github.com/cockroachdb/errors"

	"github.com/gogpu/framecore/memory"
)

var (
	// ErrIndexOutOfRange is returned by Replace for a slot that does not exist.
	ErrIndexOutOfRange = errors.New("command: index out of range")

	// ErrBufferTooLarge is returned by NewBuffer for an arena that Span
	// offsets cannot address.
	ErrBufferTooLarge = errors.New("command: buffer exceeds 4 GiB")
)

// Span locates a byte string inside a buffer's arena.
type Span struct {
	Offset uint32
	Len    uint32
}

// Buffer is an ordered, arena-backed list of commands.
//
// Commands are valid until the next Reset. Submission order is execution
// order. Buffer is not safe for concurrent use.
type Buffer struct {
	arena    *memory.LinearAllocator
	commands []Command
}

// NewBuffer reserves size bytes from svc for a new buffer. size must fit
// in a uint32.
func NewBuffer(svc *memory.Service, size int) (*Buffer, error) {
	if size > 0 && uint64(size) > math.MaxUint32 {
		return nil, errors.Wrapf(ErrBufferTooLarge, "size %d", size)
	}
	a, err := svc.NewLinearAllocator(size)
	if err != nil {
		return nil, errors.Wrap(err, "command: new buffer")
	}
	return &Buffer{arena: a, commands: make([]Command, 0, 64)}, nil
}

// Submit constructs cmd in b's arena and appends it. It returns the index
// of the new command.
func Submit[C any, P interface {
	*C
	Command
}](b *Buffer, cmd C) (int, error) {
	p, err := memory.New[C](b.arena)
	if err != nil {
		return -1, errors.Wrapf(err, "command: submit %T", cmd)
	}
	*p = cmd
	b.commands = append(b.commands, P(p))
	return len(b.commands) - 1, nil
}

// Replace constructs cmd in b's arena and stores it at index. The previous
// command stays in the arena until Reset; the list is not compacted.
func Replace[C any, P interface {
	*C
	Command
}](b *Buffer, index int, cmd C) error {
	if index < 0 || index >= len(b.commands) {
		return errors.Wrapf(ErrIndexOutOfRange, "replace %d of %d", index, len(b.commands))
	}
	p, err := memory.New[C](b.arena)
	if err != nil {
		return errors.Wrapf(err, "command: replace %T", cmd)
	}
	*p = cmd
	b.commands[index] = P(p)
	return nil
}

// Text copies s into the arena for use by a DrawOverlayCommand.
func (b *Buffer) Text(s string) (Span, error) {
	if s == "" {
		return Span{}, nil
	}
	dst, err := memory.NewSlice[byte](b.arena, len(s))
	if err != nil {
		return Span{}, errors.Wrap(err, "command: text")
	}
	copy(dst, s)
	off, _ := b.arena.Offset(unsafe.Pointer(unsafe.SliceData(dst)))
	return Span{Offset: uint32(off), Len: uint32(len(s))}, nil
}

// String returns the text stored at span.
func (b *Buffer) String(span Span) string {
	if span.Len == 0 {
		return ""
	}
	return string(b.arena.Bytes(uintptr(span.Offset), uintptr(span.Len)))
}

// Commands returns the commands in submission order.
// The slice is owned by the buffer and invalidated by Reset.
func (b *Buffer) Commands() []Command {
	return b.commands
}

// At returns the command at index i.
func (b *Buffer) At(i int) Command {
	return b.commands[i]
}

// Len returns the number of commands.
func (b *Buffer) Len() int {
	return len(b.commands)
}

// UsedBytes returns the arena bytes consumed by commands and text.
func (b *Buffer) UsedBytes() uintptr {
	return b.arena.UsedBytes()
}

// Capacity returns the arena size in bytes.
func (b *Buffer) Capacity() uintptr {
	return b.arena.Size()
}

// Stats returns the arena counters.
func (b *Buffer) Stats() memory.Stats {
	return b.arena.Stats()
}

// Walk visits every command in order and stops at the first error.
func (b *Buffer) Walk(v Visitor) error {
	for i, c := range b.commands {
		if err := c.Accept(v); err != nil {
			return errors.Wrapf(err, "command %d (%s)", i, c.Kind())
		}
	}
	return nil
}

// Reset drops all commands and empties the arena.
func (b *Buffer) Reset() {
	clear(b.commands)
	b.commands = b.commands[:0]
	b.arena.Clear()
}

// Close resets the buffer and returns its arena to the memory service.
func (b *Buffer) Close() {
	b.Reset()
	b.arena.Close()
}
