// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package arena

import (
	"errors"
	"math"
	"testing"
	"unsafe"
)

func TestMakeSliceAlignment(t *testing.T) {
	a := New(1024)
	if _, err := a.Alloc(3); err != nil {
		t.Fatalf("Alloc(3): %v", err)
	}

	f64, err := MakeSlice[float64](a, 4)
	if err != nil {
		t.Fatalf("MakeSlice[float64]: %v", err)
	}
	if addr := uintptr(unsafe.Pointer(&f64[0])); addr%unsafe.Alignof(f64[0]) != 0 {
		t.Errorf("float64 slice at %#x is misaligned", addr)
	}
	if len(f64) != 4 || cap(f64) != 4 {
		t.Errorf("len=%d cap=%d, want 4/4", len(f64), cap(f64))
	}

	vecs, err := MakeSlice[[4]float32](a, 2)
	if err != nil {
		t.Fatalf("MakeSlice[[4]float32]: %v", err)
	}
	vecs[1] = [4]float32{1, 2, 3, 4}
	if vecs[0] != ([4]float32{}) {
		t.Errorf("vecs[0] = %v, want zero", vecs[0])
	}
}

func TestMakeSliceEmpty(t *testing.T) {
	a := New(8)
	s, err := MakeSlice[int32](a, 0)
	if err != nil || len(s) != 0 {
		t.Errorf("MakeSlice(0) = %v, %v", s, err)
	}
	if a.Used() != 0 {
		t.Errorf("Used() = %d, want 0", a.Used())
	}
}

func TestMakeSliceOutOfMemory(t *testing.T) {
	a := New(64)
	if _, err := MakeSlice[float32](a, 16); !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("MakeSlice 64 bytes in 64-byte arena: error = %v, want ErrOutOfMemory", err)
	}
	if _, err := MakeSlice[float32](a, math.MaxInt/2); !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("MakeSlice with overflowing byte size: error = %v, want ErrOutOfMemory", err)
	}
	if _, err := MakeSlice[float32](a, -1); err == nil {
		t.Error("MakeSlice with negative length succeeded")
	}
	if a.Used() != 0 {
		t.Errorf("Used() = %d after failed allocations, want 0", a.Used())
	}
}

func TestGrowSlice(t *testing.T) {
	a := New(4096)

	var s []float32
	for i := 0; i < 100; i++ {
		var err error
		s, err = GrowSlice(a, s, len(s)+1)
		if err != nil {
			t.Fatalf("GrowSlice at %d: %v", i, err)
		}
		s = append(s, float32(i))
	}

	for i, v := range s {
		if v != float32(i) {
			t.Fatalf("s[%d] = %v, want %d", i, v, i)
		}
	}

	same, err := GrowSlice(a, s, 1)
	if err != nil {
		t.Fatalf("GrowSlice no-op: %v", err)
	}
	if unsafe.SliceData(same) != unsafe.SliceData(s) {
		t.Error("GrowSlice moved a slice that already had room")
	}
}
