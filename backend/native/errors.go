package native

import "errors"

// Package errors for the HAL backend.
var (
	// ErrClosed is returned when operations are called after Close.
	ErrClosed = errors.New("native: device closed")

	// ErrNoGPU is returned when no GPU adapter is available.
	ErrNoGPU = errors.New("native: no GPU adapter available")

	// ErrBackendUnavailable is returned when the requested HAL backend is
	// not registered.
	ErrBackendUnavailable = errors.New("native: backend not available")

	// ErrInvalidProvider is returned when a device provider does not expose
	// HAL handles.
	ErrInvalidProvider = errors.New("native: provider does not expose HAL device and queue")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("native: invalid dimensions")

	// ErrTimeout is returned when the GPU does not finish a frame in time.
	ErrTimeout = errors.New("native: GPU wait timed out")
)
