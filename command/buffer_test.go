// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package command

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/framecore/memory"
	"github.com/gogpu/framecore/pipeline"
)

func newTestBuffer(t *testing.T, size int) *Buffer {
	t.Helper()
	svc := memory.NewService()
	b, err := NewBuffer(svc, size)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	t.Cleanup(func() {
		b.Close()
		if n := svc.Outstanding(); n != 0 {
			t.Errorf("service has %d bytes outstanding after Close", n)
		}
	})
	return b
}

// kindRecorder records the order commands are visited in.
type kindRecorder struct {
	kinds []Kind
	draws []uint32
}

func (r *kindRecorder) VisitNop(*NopCommand) error {
	r.kinds = append(r.kinds, KindNop)
	return nil
}

func (r *kindRecorder) VisitClear(*ClearCommand) error {
	r.kinds = append(r.kinds, KindClear)
	return nil
}

func (r *kindRecorder) VisitBeginRenderPass(*BeginRenderPassCommand) error {
	r.kinds = append(r.kinds, KindBeginRenderPass)
	return nil
}

func (r *kindRecorder) VisitBindPipeline(*BindPipelineCommand) error {
	r.kinds = append(r.kinds, KindBindPipeline)
	return nil
}

func (r *kindRecorder) VisitDraw(c *DrawCommand) error {
	r.kinds = append(r.kinds, KindDraw)
	r.draws = append(r.draws, c.VertexCount)
	return nil
}

func (r *kindRecorder) VisitDrawOverlay(*DrawOverlayCommand) error {
	r.kinds = append(r.kinds, KindDrawOverlay)
	return nil
}

func (r *kindRecorder) VisitEndRenderPass(*EndRenderPassCommand) error {
	r.kinds = append(r.kinds, KindEndRenderPass)
	return nil
}

func TestBufferVisitsInSubmissionOrder(t *testing.T) {
	b := newTestBuffer(t, 4096)

	mustSubmit(t, b, BeginRenderPassCommand{Framebuffer: 1, Width: 64, Height: 64})
	mustSubmit(t, b, ClearCommand{Color: gputypes.Color{A: 1}})
	mustSubmit(t, b, BindPipelineCommand{Pipeline: pipeline.Handle(1)})
	for i := range uint32(5) {
		mustSubmit(t, b, DrawCommand{VertexCount: i + 1, InstanceCount: 1, Transform: mgl32.Ident4()})
	}
	mustSubmit(t, b, EndRenderPassCommand{})

	var r kindRecorder
	if err := b.Walk(&r); err != nil {
		t.Fatalf("Walk: %v", err)
	}

	want := []Kind{KindBeginRenderPass, KindClear, KindBindPipeline,
		KindDraw, KindDraw, KindDraw, KindDraw, KindDraw, KindEndRenderPass}
	if len(r.kinds) != len(want) {
		t.Fatalf("visited %d commands, want %d", len(r.kinds), len(want))
	}
	for i := range want {
		if r.kinds[i] != want[i] {
			t.Errorf("command %d = %v, want %v", i, r.kinds[i], want[i])
		}
	}
	for i, n := range r.draws {
		if n != uint32(i+1) {
			t.Errorf("draw %d vertex count = %d, want %d", i, n, i+1)
		}
	}
}

func TestBufferResetEmpties(t *testing.T) {
	b := newTestBuffer(t, 1024)
	mustSubmit(t, b, ClearCommand{})
	mustSubmit(t, b, DrawCommand{VertexCount: 3})
	if b.UsedBytes() == 0 {
		t.Fatal("arena reports zero used bytes after submits")
	}

	b.Reset()
	if got := len(b.Commands()); got != 0 {
		t.Errorf("len(Commands()) = %d after Reset", got)
	}
	if got := b.UsedBytes(); got != 0 {
		t.Errorf("UsedBytes() = %d after Reset", got)
	}

	// The buffer is reusable.
	mustSubmit(t, b, EndRenderPassCommand{})
	if b.Len() != 1 {
		t.Errorf("Len() = %d, want 1", b.Len())
	}
}

func TestBufferOutOfMemory(t *testing.T) {
	b := newTestBuffer(t, 128)

	var err error
	for range 64 {
		if _, err = Submit(b, DrawCommand{}); err != nil {
			break
		}
	}
	if !errors.Is(err, memory.ErrOutOfMemory) {
		t.Fatalf("expected ErrOutOfMemory, got %v", err)
	}
	if b.UsedBytes() > b.Capacity() {
		t.Errorf("used %d exceeds capacity %d", b.UsedBytes(), b.Capacity())
	}
	b.Reset()
}

func TestNewBufferRejectsOversizedArena(t *testing.T) {
	if strconv.IntSize < 64 {
		t.Skip("int cannot exceed 4 GiB")
	}
	svc := memory.NewService()
	limit := uint64(math.MaxUint32)
	if _, err := NewBuffer(svc, int(limit+1)); !errors.Is(err, ErrBufferTooLarge) {
		t.Errorf("NewBuffer(4 GiB) err = %v, want ErrBufferTooLarge", err)
	}
	if n := svc.Outstanding(); n != 0 {
		t.Errorf("Outstanding() = %d after rejected buffer", n)
	}
}

func TestReplace(t *testing.T) {
	b := newTestBuffer(t, 1024)
	mustSubmit(t, b, BindPipelineCommand{Pipeline: 1})
	idx := mustSubmit(t, b, BindPipelineCommand{Pipeline: 1})
	mustSubmit(t, b, DrawCommand{VertexCount: 3})

	if err := Replace(b, idx, NopCommand{}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if b.Len() != 3 {
		t.Fatalf("Replace changed the length to %d", b.Len())
	}
	if k := b.At(idx).Kind(); k != KindNop {
		t.Errorf("slot %d kind = %v, want Nop", idx, k)
	}

	if err := Replace(b, 3, NopCommand{}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Replace(3) err = %v, want ErrIndexOutOfRange", err)
	}
	if err := Replace(b, -1, NopCommand{}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Replace(-1) err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestSubmittedValuesLiveInArena(t *testing.T) {
	b := newTestBuffer(t, 1024)
	m := mgl32.Translate3D(1, 2, 3)
	mustSubmit(t, b, DrawCommand{Mesh: 7, Transform: m})

	d, ok := b.At(0).(*DrawCommand)
	if !ok {
		t.Fatalf("At(0) is %T", b.At(0))
	}
	if d.Mesh != 7 || d.Transform != m {
		t.Errorf("stored command = %+v", *d)
	}
}

func TestText(t *testing.T) {
	b := newTestBuffer(t, 256)

	span, err := b.Text("fps 60")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	mustSubmit(t, b, DrawOverlayCommand{Text: span, X: 4, Y: 12})

	o := b.At(0).(*DrawOverlayCommand)
	if got := b.String(o.Text); got != "fps 60" {
		t.Errorf("String() = %q", got)
	}

	empty, err := b.Text("")
	if err != nil || empty.Len != 0 || b.String(empty) != "" {
		t.Errorf("empty text = %+v, %v", empty, err)
	}
}

type failingVisitor struct {
	BaseVisitor
	visited int
}

func (v *failingVisitor) VisitDraw(*DrawCommand) error {
	v.visited++
	return errors.New("boom")
}

func TestWalkStopsAtFirstError(t *testing.T) {
	b := newTestBuffer(t, 1024)
	mustSubmit(t, b, ClearCommand{})
	mustSubmit(t, b, DrawCommand{})
	mustSubmit(t, b, DrawCommand{})

	v := &failingVisitor{}
	err := b.Walk(v)
	if err == nil {
		t.Fatal("expected error")
	}
	if v.visited != 1 {
		t.Errorf("visited %d draws after failure, want 1", v.visited)
	}
	if got := err.Error(); got != "command 1 (Draw): boom" {
		t.Errorf("error = %q", got)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNop, "Nop"},
		{KindClear, "Clear"},
		{KindBeginRenderPass, "BeginRenderPass"},
		{KindBindPipeline, "BindPipeline"},
		{KindDraw, "Draw"},
		{KindDrawOverlay, "DrawOverlay"},
		{KindEndRenderPass, "EndRenderPass"},
		{Kind(200), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func mustSubmit[C any, P interface {
	*C
	Command
}](t *testing.T, b *Buffer, cmd C) int {
	t.Helper()
	idx, err := Submit[C, P](b, cmd)
	if err != nil {
		t.Fatalf("Submit(%T): %v", cmd, err)
	}
	return idx
}

func BenchmarkSubmitDraw(b *testing.B) {
	svc := memory.NewService()
	buf, err := NewBuffer(svc, 1<<20)
	if err != nil {
		b.Fatal(err)
	}
	defer buf.Close()

	cmd := DrawCommand{VertexCount: 6, InstanceCount: 1, Transform: mgl32.Ident4()}
	for b.Loop() {
		for range 1000 {
			if _, err := Submit(buf, cmd); err != nil {
				b.Fatal(err)
			}
		}
		buf.Reset()
	}
}
