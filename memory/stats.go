// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package memory

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Stats is a snapshot of an allocator's counters.
type Stats struct {
	Kind        string
	Size        uintptr
	Used        uintptr
	Peak        uintptr
	Allocations int
}

// WriteJSON writes s as a JSON object.
func (s Stats) WriteJSON(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("kind").String(s.Kind)
	obj.Name("size").Int(int(s.Size))
	obj.Name("used").Int(int(s.Used))
	obj.Name("peak").Int(int(s.Peak))
	obj.Name("allocations").Int(s.Allocations)
	obj.End()
}

// StatsJSON encodes stats as a JSON array.
func StatsJSON(stats ...Stats) ([]byte, error) {
	w := jwriter.NewWriter()
	arr := w.Array()
	for _, s := range stats {
		s.WriteJSON(&w)
	}
	arr.End()
	return w.Bytes(), w.Error()
}
