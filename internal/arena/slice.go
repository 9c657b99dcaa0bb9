// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package arena

import (
	"fmt"
	"math"
	"unsafe"
)

// MakeSlice carves a zeroed slice of n elements of T out of the arena.
//
// T must not contain pointers: the garbage collector does not scan arena
// memory. The element storage is aligned for T and the slice capacity is n.
func MakeSlice[T any](a *Arena, n int) ([]T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if n < 0 {
		return nil, fmt.Errorf("arena: negative slice length %d", n)
	}
	if n == 0 || size == 0 {
		return make([]T, n), nil
	}
	if n > math.MaxInt/size {
		return nil, fmt.Errorf("%w: %d elements of %d bytes", ErrOutOfMemory, n, size)
	}

	region, err := a.alloc(size*n, int(unsafe.Alignof(zero)))
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(region))), n), nil
}

// GrowSlice returns s with room for at least minCap elements.
//
// When s is already large enough it is returned unchanged. Otherwise a new
// arena slice of at least twice the old capacity is allocated, the elements
// are copied forward and the old storage is left for the next Reset.
func GrowSlice[T any](a *Arena, s []T, minCap int) ([]T, error) {
	if cap(s) >= minCap {
		return s, nil
	}

	newCap := max(2*cap(s), minCap, 16)
	grown, err := MakeSlice[T](a, newCap)
	if err != nil {
		return nil, err
	}
	copy(grown, s)
	return grown[:len(s)], nil
}
