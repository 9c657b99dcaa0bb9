// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package mesh parses the text mesh format.
//
// The format is line oriented. '#' starts a comment, blank lines are
// ignored and every other line is a record:
//
//	v  x y z [w]   position, missing fields are 0
//	vt u v         texture coordinate
//
// The n-th position pairs with the n-th texture coordinate. Unknown record
// kinds and a position/uv count mismatch are warnings; a non-numeric field
// reads as 0. Attribute storage lives in an arena.
package mesh

import (
	"fmt"

	"github.com/gogpu/kidito/conf"
	"github.com/gogpu/kidito/geo"
	"github.com/gogpu/kidito/internal/arena"
	"github.com/gogpu/kidito/internal/sv"
)

// Mesh holds parsed vertex attributes. Its slices alias arena memory.
type Mesh struct {
	Positions []geo.Vec4
	UVs       []geo.Vec2
}

// Len returns the effective vertex count, the shorter of the two
// attribute lists.
func (m *Mesh) Len() int {
	return min(len(m.Positions), len(m.UVs))
}

// Vertices assembles the first Len() vertices into arena memory.
// Colors are white and normals zero.
func (m *Mesh) Vertices(a *arena.Arena) ([]geo.Vertex, error) {
	n := m.Len()
	vs, err := arena.MakeSlice[geo.Vertex](a, n)
	if err != nil {
		return nil, err
	}
	for i := range vs {
		vs[i] = geo.Vertex{
			Position: m.Positions[i],
			UV:       m.UVs[i],
			Color:    geo.White,
		}
	}
	return vs, nil
}

// Load reads the mesh file at path into a and parses it.
func Load(a *arena.Arena, path string) (*Mesh, []conf.Warning, error) {
	content, err := a.ReadText(path)
	if err != nil {
		return nil, nil, err
	}
	return Parse(a, path, content)
}

// Parse parses mesh file content. path is only used in diagnostics.
func Parse(a *arena.Arena, path string, content []byte) (*Mesh, []conf.Warning, error) {
	var (
		m        Mesh
		warnings []conf.Warning
		err      error
	)

	src := sv.View(content)
	for line := 1; !src.Empty(); line++ {
		text := src.ChopByDelim('\n')
		text = text.ChopByDelim('#').Trim()
		if text.Empty() {
			continue
		}

		kind := text.ChopWord()
		switch {
		case kind.Equal("v"):
			if m.Positions, err = arena.GrowSlice(a, m.Positions, len(m.Positions)+1); err != nil {
				return nil, warnings, fmt.Errorf("%s:%d: %w", path, line, err)
			}
			var p geo.Vec4
			parseFields(&text, p[:])
			m.Positions = append(m.Positions, p)
		case kind.Equal("vt"):
			if m.UVs, err = arena.GrowSlice(a, m.UVs, len(m.UVs)+1); err != nil {
				return nil, warnings, fmt.Errorf("%s:%d: %w", path, line, err)
			}
			var uv geo.Vec2
			parseFields(&text, uv[:])
			m.UVs = append(m.UVs, uv)
		default:
			warnings = append(warnings, conf.Warning{
				Path:    path,
				Line:    line,
				Message: fmt.Sprintf("unknown record kind %q", kind.String()),
			})
		}
	}

	if len(m.Positions) != len(m.UVs) {
		warnings = append(warnings, conf.Warning{
			Path: path,
			Message: fmt.Sprintf("%d positions but %d uvs, using the first %d vertices",
				len(m.Positions), len(m.UVs), m.Len()),
		})
	}
	return &m, warnings, nil
}

// parseFields fills dst from the space separated fields in text. Extra
// fields are ignored.
func parseFields(text *sv.View, dst []float32) {
	for i := range dst {
		field := text.ChopWord()
		if field.Empty() {
			return
		}
		dst[i] = sv.ParseFloat32(field)
	}
}
