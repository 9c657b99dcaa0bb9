// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package conf parses scene configuration files.
//
// A scene file is line oriented UTF-8 text. '#' starts a comment that runs
// to the end of the line, blank lines are ignored and every other line is a
// key = value pair:
//
//	vert_shader = shaders/scene.vert.wgsl
//	frag_shader = shaders/scene.frag.wgsl
//	texture     = textures/checker.png
//	mesh        = meshes/quad.mesh   # optional
//
// Recognized values are copied into an arena and are valid until the arena
// is reset. Unknown keys produce warnings, not errors.
package conf

import (
	"errors"
	"fmt"

	"github.com/gogpu/kidito/internal/arena"
	"github.com/gogpu/kidito/internal/sv"
)

// Recognized keys.
const (
	KeyVertShader = "vert_shader"
	KeyFragShader = "frag_shader"
	KeyTexture    = "texture"
	KeyMesh       = "mesh"
)

// ErrMissingKey is wrapped by a ParseError for a mandatory key that the
// file never sets.
var ErrMissingKey = errors.New("conf: missing mandatory key")

// Entry is one resolved value.
type Entry struct {
	// Path aliases arena memory.
	Path string

	// Line is the 1-based line that set the value, 0 if unset.
	Line int
}

// IsSet reports whether the file defined the entry.
func (e Entry) IsSet() bool { return e.Line > 0 }

// Scene is the parsed content of a scene file.
type Scene struct {
	VertShader Entry
	FragShader Entry
	Texture    Entry
	Mesh       Entry
}

func (s *Scene) entry(key sv.View) *Entry {
	switch {
	case key.Equal(KeyVertShader):
		return &s.VertShader
	case key.Equal(KeyFragShader):
		return &s.FragShader
	case key.Equal(KeyTexture):
		return &s.Texture
	case key.Equal(KeyMesh):
		return &s.Mesh
	}
	return nil
}

// Options controls which keys are mandatory.
type Options struct {
	// RequireMesh makes the mesh key mandatory.
	RequireMesh bool
}

// Warning is a non-fatal diagnostic. Its strings are heap owned.
// Line is 0 for file-level warnings.
type Warning struct {
	Path    string
	Line    int
	Message string
}

func (w Warning) String() string {
	if w.Line == 0 {
		return fmt.Sprintf("%s: WARNING: %s", w.Path, w.Message)
	}
	return fmt.Sprintf("%s:%d: WARNING: %s", w.Path, w.Line, w.Message)
}

// ParseError reports a fatal problem with a scene file.
// Line is 0 when the problem is an absence detected after the scan.
type ParseError struct {
	Path string
	Key  string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %v", e.Path, e.Line, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %v %q", e.Path, e.Err, e.Key)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load reads the scene file at path into a and parses it.
func Load(a *arena.Arena, path string, opts Options) (*Scene, []Warning, error) {
	content, err := a.ReadText(path)
	if err != nil {
		return nil, nil, err
	}
	return Parse(a, path, content, opts)
}

// Parse parses scene file content. path is only used in diagnostics.
//
// A key that appears more than once keeps its last value. A line without
// '=' is a key with an empty value.
func Parse(a *arena.Arena, path string, content []byte, opts Options) (*Scene, []Warning, error) {
	var (
		scene    Scene
		warnings []Warning
	)

	src := sv.View(content)
	for line := 1; !src.Empty(); line++ {
		text := src.ChopByDelim('\n')
		text = text.ChopByDelim('#').Trim()
		if text.Empty() {
			continue
		}

		key := text.ChopByDelim('=').Trim()
		value := text.Trim()

		e := scene.entry(key)
		if e == nil {
			warnings = append(warnings, Warning{
				Path:    path,
				Line:    line,
				Message: fmt.Sprintf("unknown key %q", key.String()),
			})
			continue
		}

		p, err := a.CString(value)
		if err != nil {
			return nil, warnings, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		*e = Entry{Path: p, Line: line}
	}

	required := []string{KeyVertShader, KeyFragShader, KeyTexture}
	if opts.RequireMesh {
		required = append(required, KeyMesh)
	}
	for _, key := range required {
		if !scene.entry(sv.View(key)).IsSet() {
			return nil, warnings, &ParseError{Path: path, Key: key, Err: ErrMissingKey}
		}
	}

	return &scene, warnings, nil
}
