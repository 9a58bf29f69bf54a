// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package capture provides a render backend that records every submitted
// pass as a msgpack frame trace instead of drawing it.
//
// Traces are written to a sink as length-prefixed msgpack records
// (4-byte big-endian length, then the encoded Frame) and can be read back
// with ReadFrames. The most recent frames are also kept in memory.
package capture

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/gogpu/framecore/backend"
	"github.com/gogpu/framecore/command"
	"github.com/gogpu/framecore/render"
	"github.com/gogpu/framecore/renderpass"
)

// Name is the registered backend name.
const Name = "capture"

// DefaultHistory is the number of frames kept in memory.
const DefaultHistory = 8

func init() {
	render.Register(Name, func(cfg render.Config) (render.API, error) {
		return New(cfg)
	})
}

// Op is one recorded command.
type Op struct {
	Kind          string     `msgpack:"kind"`
	Framebuffer   uint32     `msgpack:"fb,omitempty"`
	Stage         uint32     `msgpack:"stage,omitempty"`
	Pipeline      uint32     `msgpack:"pipeline,omitempty"`
	Shader        string     `msgpack:"shader,omitempty"`
	Mesh          uint32     `msgpack:"mesh,omitempty"`
	Vertices      uint32     `msgpack:"vertices,omitempty"`
	Instances     uint32     `msgpack:"instances,omitempty"`
	FirstVertex   uint32     `msgpack:"first_vertex,omitempty"`
	FirstInstance uint32     `msgpack:"first_instance,omitempty"`
	Transform     []float32  `msgpack:"transform,omitempty"`
	Color         [4]float64 `msgpack:"color"`
	Text          string     `msgpack:"text,omitempty"`
	X             float32    `msgpack:"x,omitempty"`
	Y             float32    `msgpack:"y,omitempty"`
}

// Frame is the trace of one render pass.
type Frame struct {
	Seq    uint64 `msgpack:"seq"`
	Width  uint32 `msgpack:"width"`
	Height uint32 `msgpack:"height"`
	Ops    []Op   `msgpack:"ops"`
}

// Backend records passes into frames.
type Backend struct {
	backend.Base

	mu      sync.Mutex
	sink    io.Writer
	history []Frame
	limit   int
	seq     uint64
}

// New creates a capture backend with no sink.
func New(cfg render.Config) (*Backend, error) {
	base, err := backend.NewBase(Name, cfg)
	if err != nil {
		return nil, err
	}
	return &Backend{Base: base, limit: DefaultHistory}, nil
}

// SetSink directs encoded frames to w. A nil w keeps frames in memory only.
func (b *Backend) SetSink(w io.Writer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sink = w
}

// Frames returns copies of the frames kept in memory, oldest first.
func (b *Backend) Frames() []Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Frame, len(b.history))
	copy(out, b.history)
	return out
}

// AttachFramebuffer records fb so passes can report its size.
func (b *Backend) AttachFramebuffer(fb *renderpass.Framebuffer) error {
	if b.Closed() {
		return backend.ErrClosed
	}
	b.Remember(fb)
	return nil
}

// DetachFramebuffer forgets fb.
func (b *Backend) DetachFramebuffer(fb *renderpass.Framebuffer) error {
	if b.Closed() {
		return backend.ErrClosed
	}
	b.Forget(fb.ID)
	return nil
}

// RecordCommands converts the buffer into a Frame.
func (b *Backend) RecordCommands(buf *command.Buffer) (render.RecordedCommandBuffer, error) {
	if b.Closed() {
		return render.RecordedCommandBuffer{}, backend.ErrClosed
	}
	v := &recordVisitor{b: b, buf: buf, frame: &Frame{Ops: make([]Op, 0, buf.Len())}}
	if err := buf.Walk(v); err != nil {
		return render.RecordedCommandBuffer{}, fmt.Errorf("capture: record: %w", err)
	}
	return render.RecordedCommandBuffer{Backend: Name, Native: v.frame, Commands: len(v.frame.Ops)}, nil
}

// SubmitRenderCommands stores the frame and writes it to the sink.
func (b *Backend) SubmitRenderCommands(rec render.RecordedCommandBuffer) error {
	if err := b.CheckRecording(rec); err != nil {
		return err
	}
	frame, ok := rec.Native.(*Frame)
	if !ok {
		return fmt.Errorf("capture: unexpected native recording %T", rec.Native)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	frame.Seq = b.seq
	if len(b.history) == b.limit {
		b.history = append(b.history[:0], b.history[1:]...)
	}
	b.history = append(b.history, *frame)

	if b.sink == nil {
		return nil
	}
	if err := WriteFrame(b.sink, frame); err != nil {
		return fmt.Errorf("capture: frame %d: %w", frame.Seq, err)
	}
	return nil
}

// Close flushes nothing and forgets attached framebuffers.
func (b *Backend) Close() error {
	if b.MarkClosed() {
		b.Logger().Info("capture: closed", "frames", b.seq)
	}
	return nil
}

// WriteFrame writes one length-prefixed msgpack record.
func WriteFrame(w io.Writer, f *Frame) error {
	data, err := msgpack.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(data)))
	if _, err := w.Write(prefix[:]); err != nil {
		return fmt.Errorf("write length: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// ReadFrames decodes every record in r until EOF.
func ReadFrames(r io.Reader) ([]Frame, error) {
	var frames []Frame
	var prefix [4]byte
	for {
		if _, err := io.ReadFull(r, prefix[:]); err != nil {
			if err == io.EOF {
				return frames, nil
			}
			return frames, fmt.Errorf("capture: read length: %w", err)
		}
		data := make([]byte, binary.BigEndian.Uint32(prefix[:]))
		if _, err := io.ReadFull(r, data); err != nil {
			return frames, fmt.Errorf("capture: read frame %d: %w", len(frames), err)
		}
		var f Frame
		if err := msgpack.Unmarshal(data, &f); err != nil {
			return frames, fmt.Errorf("capture: decode frame %d: %w", len(frames), err)
		}
		frames = append(frames, f)
	}
}

var _ render.API = (*Backend)(nil)
