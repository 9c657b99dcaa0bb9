// Package image decodes texture files into caller-supplied memory.
//
// Pixels are converted to premultiplied 8-bit RGBA and written into a
// region obtained from an Allocator, usually the reload arena, so decoding
// a texture does not touch the Go heap for pixel storage. The decoded
// image is only valid as long as that region is.
package image

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP
)

// Decode errors.
var (
	// ErrUnsupportedFormat is returned when no registered codec recognizes
	// the data.
	ErrUnsupportedFormat = errors.New("image: unsupported format")

	// ErrEmptyImage is returned for images with no pixels.
	ErrEmptyImage = errors.New("image: empty image")
)

// Allocator supplies scratch memory for decoded pixels.
type Allocator interface {
	Alloc(size int) ([]byte, error)
}

// Load decodes the image file at path into scratch memory.
//
// Open failures are returned wrapped around the *fs.PathError, so
// errors.Is(err, fs.ErrNotExist) works. Allocation failures are returned
// wrapped as the allocator reported them.
func Load(path string, scratch Allocator) (*image.RGBA, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f, scratch)
}

// Decode decodes an image from r, auto-detecting the format, and converts
// it to RGBA stored in scratch memory. Supported formats: PNG, JPEG, GIF,
// BMP, TIFF, WebP.
func Decode(r io.Reader, scratch Allocator) (*image.RGBA, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedFormat
		}
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	return ToRGBA(src, scratch)
}

// ToRGBA copies src into an RGBA image whose pixels live in scratch memory.
// The result has its origin at (0, 0).
func ToRGBA(src image.Image, scratch Allocator) (*image.RGBA, error) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyImage
	}

	pix, err := scratch.Alloc(w * h * 4)
	if err != nil {
		return nil, fmt.Errorf("image: allocate %dx%d pixels: %w", w, h, err)
	}

	dst := &image.RGBA{
		Pix:    pix,
		Stride: w * 4,
		Rect:   image.Rect(0, 0, w, h),
	}
	draw.Draw(dst, dst.Rect, src, bounds.Min, draw.Src)
	return dst, nil
}

// SavePNG saves img as a PNG file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}

	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("image: encode PNG: %w", err)
	}

	return f.Close()
}
