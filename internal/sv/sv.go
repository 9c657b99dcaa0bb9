// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package sv implements string views: non-owning windows into text.
//
// A View never allocates and never owns its bytes; it always aliases arena
// memory or a caller-owned buffer. Chopping and trimming only move the
// window bounds.
package sv

import (
	"bytes"
	"strconv"
)

// View is a window into existing text.
type View []byte

// Len returns the number of bytes in the view.
func (v View) Len() int { return len(v) }

// Empty reports whether the view has no bytes.
func (v View) Empty() bool { return len(v) == 0 }

// String returns a heap copy of the view. Use it only for values that must
// outlive the underlying buffer, such as diagnostics.
func (v View) String() string { return string(v) }

// Equal reports whether v holds exactly the bytes of lit.
func (v View) Equal(lit string) bool { return string(v) == lit }

// ChopByDelim returns the prefix of v before the first delim and advances v
// past the delimiter. When delim does not occur the whole view is returned
// and v becomes empty.
func (v *View) ChopByDelim(delim byte) View {
	i := bytes.IndexByte(*v, delim)
	if i < 0 {
		head := *v
		*v = (*v)[len(*v):]
		return head
	}
	head := (*v)[:i:i]
	*v = (*v)[i+1:]
	return head
}

// ChopWord skips leading spaces and chops the next space-delimited token.
func (v *View) ChopWord() View {
	*v = v.TrimLeft()
	return v.ChopByDelim(' ')
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// TrimLeft drops leading whitespace.
func (v View) TrimLeft() View {
	i := 0
	for i < len(v) && isSpace(v[i]) {
		i++
	}
	return v[i:]
}

// TrimRight drops trailing whitespace.
func (v View) TrimRight() View {
	i := len(v)
	for i > 0 && isSpace(v[i-1]) {
		i--
	}
	return v[:i]
}

// Trim drops leading and trailing whitespace.
func (v View) Trim() View { return v.TrimLeft().TrimRight() }

// ParseFloat32 parses the longest prefix of b that forms a decimal number,
// the way strtof does. Leading whitespace is skipped. When no prefix is
// numeric the result is 0; out-of-range values saturate to ±Inf.
func ParseFloat32(b []byte) float32 {
	b = View(b).TrimLeft()
	n := numberPrefix(b)
	if n == 0 {
		return 0
	}
	// Range errors still return ±Inf or 0 in f.
	f, _ := strconv.ParseFloat(string(b[:n]), 32)
	return float32(f)
}

// numberPrefix returns the length of the longest prefix of b matching
// [+-]? (digits [. digits?] | . digits) ([eE] [+-]? digits)?.
func numberPrefix(b []byte) int {
	i := 0
	if i < len(b) && (b[i] == '+' || b[i] == '-') {
		i++
	}

	intDigits := digits(b[i:])
	i += intDigits

	fracDigits := 0
	if i < len(b) && b[i] == '.' {
		fracDigits = digits(b[i+1:])
		if intDigits > 0 || fracDigits > 0 {
			i += 1 + fracDigits
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return 0
	}

	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		j := i + 1
		if j < len(b) && (b[j] == '+' || b[j] == '-') {
			j++
		}
		if d := digits(b[j:]); d > 0 {
			i = j + d
		}
	}
	return i
}

func digits(b []byte) int {
	n := 0
	for n < len(b) && b[n] >= '0' && b[n] <= '9' {
		n++
	}
	return n
}
