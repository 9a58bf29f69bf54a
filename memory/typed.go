// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package memory

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/cockroachdb/errors"
)

// pointerFree caches the pointer scan per type.
var pointerFree sync.Map // reflect.Type -> bool

// PointerFree reports whether values of type t contain no Go pointers
// and may therefore be stored in arena memory.
func PointerFree(t reflect.Type) bool {
	if v, ok := pointerFree.Load(t); ok {
		return v.(bool)
	}
	ok := !hasPointers(t)
	pointerFree.Store(t, ok)
	return ok
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

func mustBePointerFree[T any]() {
	t := reflect.TypeFor[T]()
	if !PointerFree(t) {
		panic(errors.AssertionFailedf("memory: %s holds Go pointers and cannot live in an arena", t))
	}
}

// New allocates a zeroed T from a. T must be pointer-free.
func New[T any](a Allocator) (*T, error) {
	mustBePointerFree[T]()
	var zero T
	p, err := a.Allocate(unsafe.Sizeof(zero), unsafe.Alignof(zero))
	if err != nil {
		return nil, err
	}
	v := (*T)(p)
	*v = zero
	return v, nil
}

// NewSlice allocates a zeroed slice of n elements from a. T must be pointer-free.
func NewSlice[T any](a Allocator, n int) ([]T, error) {
	mustBePointerFree[T]()
	if n < 0 {
		return nil, errors.Newf("memory: negative slice length %d", n)
	}
	if n == 0 {
		return nil, nil
	}
	var zero T
	p, err := a.Allocate(unsafe.Sizeof(zero)*uintptr(n), unsafe.Alignof(zero))
	if err != nil {
		return nil, err
	}
	s := unsafe.Slice((*T)(p), n)
	clear(s)
	return s, nil
}

// Delete releases v back to a. It is only meaningful for allocators with
// individual frees, such as StackAllocator.
func Delete[T any](a Allocator, v *T) {
	a.Deallocate(unsafe.Pointer(v))
}
