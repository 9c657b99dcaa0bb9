package kidito

import (
	"math"

	"github.com/gogpu/kidito/geo"
)

// ManualTimeStep is the time step, in seconds, applied by StepTime.
const ManualTimeStep = 0.05

// Default clear colors.
var (
	// ErrorColor is shown while the last reload has failed.
	ErrorColor = geo.RGBA{0.5, 0, 0, 1}

	// BackgroundColor is shown behind a valid scene.
	BackgroundColor = geo.RGBA{0, 0, 0, 0}
)

// Status is the outcome of the most recent reload.
type Status int

const (
	// StatusFailed means nothing is drawn; the zero value, since no scene
	// has loaded yet.
	StatusFailed Status = iota

	// StatusValid means the GPU resources in State are drawable.
	StatusValid
)

func (s Status) String() string {
	if s == StatusValid {
		return "valid"
	}
	return "failed"
}

// State is the scene as seen by the renderer. Reload writes it; the frame
// loop reads it and advances Time.
type State struct {
	Status Status

	Program     ProgramID
	Texture     TextureID
	Vertices    BufferID
	VertexCount int

	ClearColor geo.RGBA

	// Time is the scene clock in seconds, passed to shaders.
	Time   float32
	Paused bool
}

// NewState returns a state that has not loaded a scene yet.
func NewState() *State {
	return &State{ClearColor: ErrorColor}
}

// Valid reports whether the scene should be drawn.
func (s *State) Valid() bool { return s.Status == StatusValid }

// TogglePause stops or resumes the scene clock.
func (s *State) TogglePause() { s.Paused = !s.Paused }

// StepTime moves the clock by one ManualTimeStep forward (dir > 0) or
// backward (dir < 0). It has no effect while the clock is running.
func (s *State) StepTime(dir int) {
	if !s.Paused {
		return
	}
	switch {
	case dir > 0:
		s.Time += ManualTimeStep
	case dir < 0:
		s.Time -= ManualTimeStep
	}
}

// Advance adds dt seconds to the clock unless it is paused.
func (s *State) Advance(dt float32) {
	if !s.Paused {
		s.Time += dt
	}
}

// Transform returns the model-view-projection matrix for a viewport of
// width x height pixels: the unit cube centered on the origin, spun around
// Y and Z by the scene clock and pushed in front of the camera.
func (s *State) Transform(width, height int) geo.Mat4 {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	proj := geo.Perspective(math.Pi/3, aspect, 0.1, 100)
	view := geo.Translate(0, 0, -2.5)
	model := geo.RotateY(s.Time).
		Mul(geo.RotateZ(s.Time * 0.5)).
		Mul(geo.Translate(-0.5, -0.5, -0.5))
	return proj.Mul(view).Mul(model)
}
