// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package memory

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plainPoint struct {
	X, Y float32
	ID   uint32
	Tags [4]uint8
}

type withString struct {
	Name string
}

type withPointer struct {
	Next *withPointer
}

func TestPointerFree(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		want bool
	}{
		{"int", reflect.TypeFor[int](), true},
		{"float array", reflect.TypeFor[[16]float32](), true},
		{"plain struct", reflect.TypeFor[plainPoint](), true},
		{"empty struct", reflect.TypeFor[struct{}](), true},
		{"string", reflect.TypeFor[string](), false},
		{"slice", reflect.TypeFor[[]int](), false},
		{"pointer", reflect.TypeFor[*int](), false},
		{"struct with string", reflect.TypeFor[withString](), false},
		{"recursive pointer", reflect.TypeFor[withPointer](), false},
		{"interface", reflect.TypeFor[any](), false},
		{"zero-length pointer array", reflect.TypeFor[[0]*int](), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PointerFree(tt.typ))
		})
	}
}

func TestNew(t *testing.T) {
	a, err := NewLinearAllocator(make([]byte, 256))
	require.NoError(t, err)

	p, err := New[plainPoint](a)
	require.NoError(t, err)
	assert.Equal(t, plainPoint{}, *p)

	p.X, p.ID = 1.5, 7
	assert.Equal(t, uint32(7), p.ID)
	assert.Equal(t, 1, a.AllocationCount())
}

func TestNew_ZeroesRecycledMemory(t *testing.T) {
	a, err := NewLinearAllocator(make([]byte, 64))
	require.NoError(t, err)

	p, err := New[uint64](a)
	require.NoError(t, err)
	*p = 0xdeadbeef
	a.Clear()

	q, err := New[uint64](a)
	require.NoError(t, err)
	assert.Zero(t, *q)
}

func TestNew_RejectsPointerTypes(t *testing.T) {
	a, err := NewLinearAllocator(make([]byte, 64))
	require.NoError(t, err)
	assert.Panics(t, func() { _, _ = New[withString](a) })
	assert.Zero(t, a.AllocationCount())
}

func TestNewSlice(t *testing.T) {
	a, err := NewStackAllocator(make([]byte, 512))
	require.NoError(t, err)

	s, err := NewSlice[float32](a, 16)
	require.NoError(t, err)
	require.Len(t, s, 16)
	for i := range s {
		s[i] = float32(i)
	}
	assert.Equal(t, float32(15), s[15])

	empty, err := NewSlice[float32](a, 0)
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = NewSlice[float32](a, -1)
	assert.Error(t, err)

	Delete(a, &s[0])
	assert.Zero(t, a.UsedBytes())
}
