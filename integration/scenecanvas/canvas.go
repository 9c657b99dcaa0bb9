// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scenecanvas

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
)

// Common errors returned by Canvas operations.
var (
	// ErrCanvasClosed is returned when operations are attempted on a closed canvas.
	ErrCanvasClosed = errors.New("scenecanvas: canvas is closed")

	// ErrInvalidFrame is returned when a frame is nil or empty.
	ErrInvalidFrame = errors.New("scenecanvas: invalid frame")

	// ErrInvalidDrawContext is returned when the texture is not drawable.
	ErrInvalidDrawContext = errors.New("scenecanvas: texture is not a gpucontext.Texture")

	// ErrInvalidRenderer is returned when the draw context has no texture creator.
	ErrInvalidRenderer = errors.New("scenecanvas: draw context has no texture creator")
)

// textureDestroyer is the interface for destroying textures.
// This matches the gogpu.Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// dataUpdater matches gpucontext.TextureUpdater.
type dataUpdater interface {
	UpdateData(data []byte) error
}

// surface is the part of a window draw context a Canvas uses.
type surface interface {
	newTexture(width, height int, data []byte) (any, error)
	drawTexture(tex any, x, y float32) error
}

// drawerSurface adapts a gpucontext.TextureDrawer.
type drawerSurface struct {
	dc gpucontext.TextureDrawer
}

func (s drawerSurface) newTexture(width, height int, data []byte) (any, error) {
	creator := s.dc.TextureCreator()
	if creator == nil {
		return nil, ErrInvalidRenderer
	}
	tex, err := creator.NewTextureFromRGBA(width, height, data)
	if err != nil {
		return nil, err
	}
	return tex, nil
}

func (s drawerSurface) drawTexture(tex any, x, y float32) error {
	gpuTex, ok := tex.(gpucontext.Texture)
	if !ok {
		return ErrInvalidDrawContext
	}
	return s.dc.DrawTexture(gpuTex, x, y)
}

// Canvas keeps the window texture that displays scene frames.
type Canvas struct {
	texture    any
	oldTexture any // previous texture awaiting deferred destruction
	width      int
	height     int
	frames     int
	closed     bool
}

// New creates an empty Canvas. The texture is created by the first Present.
func New() *Canvas {
	return &Canvas{}
}

// Size returns the size of the current texture, or zero before the first
// Present.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// Frames returns the number of frames presented.
func (c *Canvas) Frames() int {
	return c.frames
}

// Present uploads frame and draws it at the window origin.
//
// The frame is copied; the caller may reuse it after Present returns.
func (c *Canvas) Present(dc gpucontext.TextureDrawer, frame *image.RGBA) error {
	return c.present(drawerSurface{dc: dc}, frame, 0, 0)
}

// PresentAt is like Present but draws the frame at (x, y).
func (c *Canvas) PresentAt(dc gpucontext.TextureDrawer, frame *image.RGBA, x, y float32) error {
	return c.present(drawerSurface{dc: dc}, frame, x, y)
}

func (c *Canvas) present(s surface, frame *image.RGBA, x, y float32) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if frame == nil || frame.Bounds().Empty() {
		return ErrInvalidFrame
	}
	w, h := frame.Bounds().Dx(), frame.Bounds().Dy()
	data := packed(frame)

	// A new size needs a new texture. The old one may still be read by
	// in-flight command buffers, so it is kept until the new one exists.
	if c.texture != nil && (w != c.width || h != c.height) {
		c.destroy(c.oldTexture)
		c.oldTexture = c.texture
		c.texture = nil
	}

	if c.texture == nil {
		tex, err := s.newTexture(w, h, data)
		if err != nil {
			return fmt.Errorf("scenecanvas: create texture: %w", err)
		}
		// Frames are premultiplied.
		if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
			pt.SetPremultiplied(true)
		}
		c.texture = tex
		c.width, c.height = w, h

		// Creating the texture waited for the GPU, so the old one is idle.
		c.destroy(c.oldTexture)
		c.oldTexture = nil
	} else if updater, ok := c.texture.(dataUpdater); ok {
		if err := updater.UpdateData(data); err != nil {
			return fmt.Errorf("scenecanvas: texture update failed: %w", err)
		}
	}

	if err := s.drawTexture(c.texture, x, y); err != nil {
		return err
	}
	c.frames++
	return nil
}

// packed returns the frame's pixels as back to back rows.
func packed(frame *image.RGBA) []byte {
	b := frame.Bounds()
	rowBytes := b.Dx() * 4
	if frame.Stride == rowBytes && frame.PixOffset(b.Min.X, b.Min.Y) == 0 {
		return frame.Pix[:rowBytes*b.Dy()]
	}
	out := make([]byte, 0, rowBytes*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := frame.PixOffset(b.Min.X, y)
		out = append(out, frame.Pix[off:off+rowBytes]...)
	}
	return out
}

func (c *Canvas) destroy(tex any) {
	if destroyer, ok := tex.(textureDestroyer); ok {
		destroyer.Destroy()
	}
}

// Close releases the textures. Close is idempotent.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.destroy(c.oldTexture)
	c.destroy(c.texture)
	c.oldTexture = nil
	c.texture = nil
	return nil
}
