// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !gogl

package opengl

func defaultGL() (GL, error) {
	return NewSoftGL(), nil
}
