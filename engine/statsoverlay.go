// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"strconv"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/framecore/memory"
	"github.com/gogpu/framecore/render"
)

const statsLineSize = 96

// StatsOverlay draws the last pass statistics as a line of overlay text
// formatted in the renderer's scratch stack.
type StatsOverlay struct {
	BaseLayer
	X, Y  float32
	Color gputypes.Color
}

// NewStatsOverlay returns an overlay layer drawing at the top-left corner.
func NewStatsOverlay() *StatsOverlay {
	return &StatsOverlay{
		BaseLayer: BaseLayer{LayerName: "stats"},
		X:         4,
		Y:         14,
		Color:     gputypes.Color{R: 1, G: 1, B: 1, A: 1},
	}
}

// OnOverlayRender implements Layer.
func (s *StatsOverlay) OnOverlayRender(r *render.Renderer, f *Frame) error {
	scratch := r.Scratch()
	buf, err := memory.NewSlice[byte](scratch, statsLineSize)
	if err != nil {
		return err
	}
	defer memory.Delete(scratch, &buf[0])

	st := r.Stats()
	line := buf[:0]
	line = append(line, "tick "...)
	line = strconv.AppendUint(line, f.Tick, 10)
	line = append(line, " passes "...)
	line = strconv.AppendUint(line, st.Passes, 10)
	line = append(line, " cmds "...)
	line = strconv.AppendInt(line, int64(st.Commands), 10)
	line = append(line, " bytes "...)
	line = strconv.AppendUint(line, uint64(st.CommandBytes), 10)
	line = append(line, " alpha "...)
	line = strconv.AppendFloat(line, f.Alpha, 'f', 2, 64)

	return r.Draw(&render.Overlay{Text: string(line), X: s.X, Y: s.Y, Color: s.Color})
}
