package kidito

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/gogpu/kidito/internal/arena"
)

func TestStepError(t *testing.T) {
	cause := &fs.PathError{Op: "open", Path: "shaders/a.frag.wgsl", Err: fs.ErrNotExist}
	err := error(&StepError{
		Step:   StepShader,
		Source: "scene.conf",
		Line:   3,
		Path:   "shaders/a.frag.wgsl",
		Kind:   ErrIO,
		Err:    cause,
	})

	want := `scene.conf:3: shader: could not load "shaders/a.frag.wgsl": open shaders/a.frag.wgsl: file does not exist`
	if err.Error() != want {
		t.Errorf("Error() = %q\nwant      %q", err.Error(), want)
	}
	if !errors.Is(err, ErrIO) {
		t.Error("StepError does not unwrap to its kind")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("StepError does not unwrap to its cause")
	}
	var pe *fs.PathError
	if !errors.As(err, &pe) || pe != cause {
		t.Error("errors.As did not find the *fs.PathError")
	}
	if errors.Is(err, ErrParse) {
		t.Error("StepError matches an unrelated kind")
	}
}

func TestStepErrorWithoutLine(t *testing.T) {
	err := &StepError{
		Step:   StepConfig,
		Source: "scene.conf",
		Path:   "scene.conf",
		Kind:   ErrParse,
		Err:    errors.New(`missing "texture"`),
	}
	if got, want := err.Error(), `scene.conf: config: missing "texture"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIsOutOfMemory(t *testing.T) {
	_, allocErr := arena.New(4).Alloc(10)
	tests := []struct {
		err  error
		want bool
	}{
		{allocErr, true},
		{fmt.Errorf("read scene.conf: %w", allocErr), true},
		{&StepError{Kind: ErrOutOfMemory, Err: allocErr}, true},
		{ErrIO, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := IsOutOfMemory(tt.err); got != tt.want {
			t.Errorf("IsOutOfMemory(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestShaderError(t *testing.T) {
	err := error(&ShaderError{Path: "a.frag.wgsl", Kind: ErrShaderCompile, Log: "unknown identifier `colr`"})
	if !errors.Is(err, ErrShaderCompile) {
		t.Error("ShaderError does not unwrap to its kind")
	}
	if got, want := err.Error(), "a.frag.wgsl: kidito: shader compile error: unknown identifier `colr`"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestStepString(t *testing.T) {
	for step, want := range map[Step]string{
		StepConfig:  "config",
		StepShader:  "shader",
		StepTexture: "texture",
		StepMesh:    "mesh",
		Step(9):     "Step(9)",
	} {
		if got := step.String(); got != want {
			t.Errorf("Step(%d).String() = %q, want %q", int(step), got, want)
		}
	}
}
