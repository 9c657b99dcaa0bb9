package kidito

import (
	"errors"
	"fmt"

	"github.com/gogpu/kidito/internal/arena"
)

// Reload error kinds. A failed Reload returns a *StepError whose Kind is
// one of these, so errors.Is(err, ErrShaderCompile) identifies the class of
// failure.
var (
	// ErrIO means a file was missing or unreadable.
	ErrIO = errors.New("kidito: i/o error")

	// ErrOutOfMemory means the reload arena is too small for the scene.
	// It points at a capacity misconfiguration, not at a bad asset.
	ErrOutOfMemory = arena.ErrOutOfMemory

	// ErrParse means a scene or mesh file could not be used.
	ErrParse = errors.New("kidito: parse error")

	// ErrShaderCompile means a shader stage failed to compile.
	ErrShaderCompile = errors.New("kidito: shader compile error")

	// ErrShaderLink means the stages compiled but could not be combined
	// into a program.
	ErrShaderLink = errors.New("kidito: shader link error")

	// ErrImageDecode means the texture file is not a decodable image.
	ErrImageDecode = errors.New("kidito: image decode error")

	// ErrGPU means the GPU rejected an upload.
	ErrGPU = errors.New("kidito: gpu error")
)

// IsOutOfMemory reports whether err was caused by arena exhaustion.
func IsOutOfMemory(err error) bool {
	return errors.Is(err, ErrOutOfMemory)
}

// Step identifies a stage of the reload pipeline.
type Step int

// Reload steps in pipeline order.
const (
	StepConfig Step = iota
	StepShader
	StepTexture
	StepMesh
)

func (s Step) String() string {
	switch s {
	case StepConfig:
		return "config"
	case StepShader:
		return "shader"
	case StepTexture:
		return "texture"
	case StepMesh:
		return "mesh"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// StepError describes the failure that aborted a reload.
//
// Source and Line locate the scene file entry that led to the failure
// (Line is 0 when there is none). Path is the file that failed to load.
// StepError unwraps to both Kind and Err.
type StepError struct {
	Step   Step
	Source string
	Line   int
	Path   string
	Kind   error
	Err    error
}

func (e *StepError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Detail())
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Detail())
}

// Detail returns the message without the scene file location.
func (e *StepError) Detail() string {
	if e.Path != "" && e.Path != e.Source {
		return fmt.Sprintf("%s: could not load %q: %v", e.Step, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// ShaderError is returned by a GPU collaborator when a program cannot be
// built. Kind is ErrShaderCompile or ErrShaderLink; Path names the source
// file that failed, or is empty when the failure concerns both stages.
type ShaderError struct {
	Path string
	Kind error
	Log  string
}

func (e *ShaderError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Log)
	}
	return fmt.Sprintf("%s: %v: %s", e.Path, e.Kind, e.Log)
}

func (e *ShaderError) Unwrap() error { return e.Kind }
