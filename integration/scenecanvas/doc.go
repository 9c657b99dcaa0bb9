// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package scenecanvas presents rendered scene frames in a gogpu window.
//
// Frames come from native.Device.RenderFrame as premultiplied RGBA images.
// Canvas uploads each frame to a window texture and draws it:
//
//	native.Device (render + readback) -> *image.RGBA -> window texture -> Window
//
// The texture is created on the first Present and updated in place on
// later frames of the same size. A size change creates a new texture; the
// old one is destroyed only after its replacement exists, once the GPU has
// finished reading it.
//
// # Usage
//
//	canvas := scenecanvas.New()
//	defer canvas.Close()
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    frame, err := gpu.RenderFrame(state, dc.Width(), dc.Height())
//	    if err != nil {
//	        return
//	    }
//	    canvas.Present(dc.AsTextureDrawer(), frame)
//	})
//
// # Thread Safety
//
// Canvas is NOT safe for concurrent use. Call it from the draw callback only.
//
// # Integration Without Circular Imports
//
// This package only depends on gpucontext interfaces, not on gogpu itself.
package scenecanvas
