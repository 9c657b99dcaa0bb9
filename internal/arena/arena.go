// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package arena provides a fixed-capacity bump allocator.
//
// An Arena hands out regions of one pre-allocated byte buffer by advancing an
// offset. Regions are never freed individually: Reset reclaims everything at
// once and invalidates every region (and every string) previously returned.
// Callers must not keep arena-derived memory across a Reset.
//
// The arena hosts all transient allocations of one reload pass: file
// contents, resolved paths, parsed mesh attributes and decoded pixels.
package arena

import (
	"errors"
	"fmt"
	"unsafe"
)

// DefaultCapacity is the arena size used when New is given a non-positive
// capacity.
const DefaultCapacity = 1 * 1000 * 1000

// ErrOutOfMemory is returned when an allocation does not fit in the arena.
// It indicates a capacity misconfiguration rather than a bad asset.
var ErrOutOfMemory = errors.New("arena: out of memory")

// Arena is a bump allocator over a fixed byte buffer.
//
// The zero value is an arena of capacity zero; every allocation fails.
// Arena is not safe for concurrent use.
type Arena struct {
	buf  []byte
	used int
}

// New creates an arena that owns capacity bytes.
func New(capacity int) *Arena {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Arena{buf: make([]byte, capacity)}
}

// Cap returns the arena capacity in bytes.
func (a *Arena) Cap() int { return len(a.buf) }

// Used returns the number of bytes handed out since the last Reset.
func (a *Arena) Used() int { return a.used }

// Available returns the size of the largest allocation that would succeed.
func (a *Arena) Available() int {
	if n := len(a.buf) - a.used - 1; n > 0 {
		return n
	}
	return 0
}

// Alloc returns a zeroed region of size bytes.
//
// The check is strict: an allocation fails when used+size would reach the
// capacity, so at most Cap()-1 bytes can be handed out between resets.
// The returned slice has its capacity clipped to size, so appending to it
// never writes into a neighbouring region.
func (a *Arena) Alloc(size int) ([]byte, error) {
	return a.alloc(size, 1)
}

// alloc bumps the offset by size bytes after padding it to align.
func (a *Arena) alloc(size, align int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("arena: negative allocation size %d", size)
	}

	pad := 0
	if align > 1 && len(a.buf) > 0 {
		addr := uintptr(unsafe.Pointer(unsafe.SliceData(a.buf))) + uintptr(a.used)
		pad = int(-addr & uintptr(align-1))
	}

	// used+pad+size can overflow; compare against the space left instead.
	remaining := len(a.buf) - a.used
	if pad >= remaining || size >= remaining-pad {
		return nil, fmt.Errorf("%w: requested %d bytes with %d of %d in use",
			ErrOutOfMemory, size, a.used, len(a.buf))
	}

	start := a.used + pad
	region := a.buf[start : start+size : start+size]
	a.used = start + size
	clear(region)
	return region, nil
}

// Realloc moves old into a fresh region of newSize bytes.
//
// A bump allocator cannot grow in place: the new region is always freshly
// allocated and min(len(old), newSize) bytes are copied forward. The old
// region is not reclaimed until the next Reset.
func (a *Arena) Realloc(old []byte, newSize int) ([]byte, error) {
	region, err := a.Alloc(newSize)
	if err != nil {
		return nil, err
	}
	copy(region, old)
	return region, nil
}

// Reset reclaims the whole arena. Every region returned before the call
// becomes invalid.
func (a *Arena) Reset() {
	a.used = 0
}

// CString copies b into the arena followed by a NUL byte and returns the
// copy as a string. The string aliases arena memory and is only valid until
// the next Reset; use strings.Clone to keep it longer.
func (a *Arena) CString(b []byte) (string, error) {
	region, err := a.Alloc(len(b) + 1)
	if err != nil {
		return "", err
	}
	copy(region, b)
	region[len(b)] = 0
	return unsafe.String(unsafe.SliceData(region), len(b)), nil
}
