package native

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/kidito"
)

// texture is an uploaded RGBA image and its view.
type texture struct {
	tex    hal.Texture
	view   hal.TextureView
	width  uint32
	height uint32
}

func (t *texture) destroy(device hal.Device) {
	if t.view != nil {
		device.DestroyTextureView(t.view)
	}
	if t.tex != nil {
		device.DestroyTexture(t.tex)
	}
}

// tightPixels returns img's pixels with rows packed back to back. It
// returns img.Pix itself when it is already packed.
func tightPixels(img *image.RGBA) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	rowBytes := w * 4
	if img.Stride == rowBytes && img.PixOffset(b.Min.X, b.Min.Y) == 0 {
		return img.Pix[:rowBytes*h]
	}
	out := make([]byte, rowBytes*h)
	for y := 0; y < h; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out[y*rowBytes:(y+1)*rowBytes], img.Pix[off:off+rowBytes])
	}
	return out
}

// UploadTexture copies img into a new RGBA8 texture. The image is not
// retained.
func (d *Device) UploadTexture(img *image.RGBA) (kidito.TextureID, error) {
	if img == nil || img.Bounds().Empty() {
		return 0, ErrInvalidDimensions
	}
	b := img.Bounds()
	w, h := uint32(b.Dx()), uint32(b.Dy()) //nolint:gosec // image bounds are positive

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, ErrClosed
	}

	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "kidito_texture",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return 0, fmt.Errorf("create texture: %w", err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "kidito_texture_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return 0, fmt.Errorf("create texture view: %w", err)
	}

	err = d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		tightPixels(img),
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		d.device.DestroyTextureView(view)
		d.device.DestroyTexture(tex)
		return 0, fmt.Errorf("write texture: %w", err)
	}

	id := kidito.TextureID(d.newID())
	d.textures[id] = &texture{tex: tex, view: view, width: w, height: h}
	slogger().Debug("native: texture uploaded", "id", id, "width", w, "height", h)
	return id, nil
}

// DeleteTexture releases a texture. Unknown ids are ignored.
func (d *Device) DeleteTexture(id kidito.TextureID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.textures[id]; ok {
		delete(d.textures, id)
		t.destroy(d.device)
	}
}
