// Package kidito is a hot-reloading scene harness.
//
// # Overview
//
// A scene is described by a small configuration file naming a vertex
// shader, a fragment shader, a texture and optionally a mesh. A [Reloader]
// loads all of it in one pass and swaps the result into a [State] that the
// frame renderer reads. Editing any asset on disk and triggering another
// reload picks up the change without restarting the program.
//
// # Quick Start
//
//	gpu, err := native.Open(native.BackendVulkan)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gpu.Close()
//
//	st := kidito.NewState()
//	r := kidito.NewReloader(gpu, kidito.WithConfigPath("scene.conf"))
//	if err := r.Reload(st); err != nil {
//	    // st stays Failed; fix the assets and reload again.
//	    log.Print(err)
//	}
//
// # Reload Cycle
//
// Every reload runs config, shader, texture and mesh loading in that order
// and stops at the first failure. All transient memory (file contents,
// resolved paths, decoded pixels, mesh attributes) comes from a bump arena
// that is reset when the cycle ends, whatever its outcome. GPU resources of
// the previous successful reload are released only after the new ones are
// ready, so a failed reload never leaves the renderer empty-handed.
//
// While the state is Failed the renderer clears to the error color and
// draws nothing.
//
// # Architecture
//
// The module is organized into:
//   - Core: Reloader, State, error taxonomy (this package)
//   - Parsing: conf (scene files), mesh (mesh files), internal/sv (string views)
//   - Geometry: geo (cube mesh, matrices)
//   - Memory: internal/arena (bump allocator)
//   - GPU: backend/native (gogpu/wgpu HAL)
//   - Presentation: integration/scenecanvas (gogpu windows)
package kidito
