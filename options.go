package kidito

import "github.com/gogpu/kidito/geo"

// DefaultConfigPath is the scene file a Reloader reads unless told otherwise.
const DefaultConfigPath = "./scene.conf"

// Option configures a Reloader during creation.
//
// Example:
//
//	r := kidito.NewReloader(gpu,
//	    kidito.WithConfigPath("demo/scene.conf"),
//	    kidito.WithRequireMesh(true),
//	)
type Option func(*options)

// options holds optional configuration for Reloader creation.
type options struct {
	configPath    string
	arenaCapacity int
	decoder       ImageDecoder
	requireMesh   bool
	background    geo.RGBA
	failure       geo.RGBA
}

// defaultOptions returns the default reloader options.
func defaultOptions() options {
	return options{
		configPath: DefaultConfigPath,
		decoder:    fileDecoder{},
		background: BackgroundColor,
		failure:    ErrorColor,
	}
}

// WithConfigPath sets the scene file to read on every reload.
func WithConfigPath(path string) Option {
	return func(o *options) {
		if path != "" {
			o.configPath = path
		}
	}
}

// WithArenaCapacity sets the size in bytes of the reload arena. Everything
// a reload reads or decodes must fit in it at once. Non-positive values
// select the default of one megabyte.
func WithArenaCapacity(n int) Option {
	return func(o *options) {
		o.arenaCapacity = n
	}
}

// WithImageDecoder replaces the texture decoder.
func WithImageDecoder(d ImageDecoder) Option {
	return func(o *options) {
		if d != nil {
			o.decoder = d
		}
	}
}

// WithRequireMesh makes the mesh key mandatory. Without it a scene that
// names no mesh is drawn as the generated cube.
func WithRequireMesh(require bool) Option {
	return func(o *options) {
		o.requireMesh = require
	}
}

// WithClearColors sets the clear color for a valid scene and for a failed
// reload.
func WithClearColors(background, failure geo.RGBA) Option {
	return func(o *options) {
		o.background = background
		o.failure = failure
	}
}
