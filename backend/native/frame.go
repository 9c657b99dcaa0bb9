// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/kidito"
	"github.com/gogpu/kidito/geo"
)

// copyRowAlignment is the required BytesPerRow alignment for texture to
// buffer copies.
const copyRowAlignment = 256

// frameTimeout bounds the wait for a submitted frame.
const frameTimeout = 5 * time.Second

// renderTarget is the offscreen color and depth attachment pair.
type renderTarget struct {
	width, height uint32
	color         hal.Texture
	colorView     hal.TextureView
	depth         hal.Texture
	depthView     hal.TextureView
}

func (t *renderTarget) destroy(device hal.Device) {
	if t.depthView != nil {
		device.DestroyTextureView(t.depthView)
	}
	if t.depth != nil {
		device.DestroyTexture(t.depth)
	}
	if t.colorView != nil {
		device.DestroyTextureView(t.colorView)
	}
	if t.color != nil {
		device.DestroyTexture(t.color)
	}
}

// ensureTarget returns a render target of the given size, recreating it
// when the size changed. d.mu must be held.
func (d *Device) ensureTarget(w, h uint32) (*renderTarget, error) {
	if d.target != nil && d.target.width == w && d.target.height == h {
		return d.target, nil
	}
	if d.target != nil {
		d.target.destroy(d.device)
		d.target = nil
	}

	t := &renderTarget{width: w, height: h}
	var err error
	t.color, err = d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "kidito_color",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        colorFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create color texture: %w", err)
	}
	t.colorView, err = d.device.CreateTextureView(t.color, &hal.TextureViewDescriptor{
		Label:         "kidito_color_view",
		Format:        colorFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.destroy(d.device)
		return nil, fmt.Errorf("create color view: %w", err)
	}
	t.depth, err = d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "kidito_depth",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        depthFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.destroy(d.device)
		return nil, fmt.Errorf("create depth texture: %w", err)
	}
	t.depthView, err = d.device.CreateTextureView(t.depth, &hal.TextureViewDescriptor{
		Label:         "kidito_depth_view",
		Format:        depthFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.destroy(d.device)
		return nil, fmt.Errorf("create depth view: %w", err)
	}

	d.target = t
	return t, nil
}

// makeUniforms encodes the Uniforms block for st at the given size.
func makeUniforms(st *kidito.State, w, h int) []byte {
	buf := make([]byte, uniformSize)
	m := st.Transform(w, h).ColumnMajor()
	for i, f := range m {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	binary.LittleEndian.PutUint32(buf[64:68], math.Float32bits(float32(w)))
	binary.LittleEndian.PutUint32(buf[68:72], math.Float32bits(float32(h)))
	binary.LittleEndian.PutUint32(buf[72:76], math.Float32bits(st.Time))
	// Padding bytes 76..79 remain zero.
	return buf
}

// drawCall is the resolved state of a valid scene.
type drawCall struct {
	program  *program
	texture  *texture
	vertices *vertexBuffer
	count    uint32
}

// resolve looks up the resources st refers to. It returns nil when st is
// not valid or a resource is gone. d.mu must be held.
func (d *Device) resolve(st *kidito.State) *drawCall {
	if !st.Valid() {
		return nil
	}
	p, okP := d.programs[st.Program]
	t, okT := d.textures[st.Texture]
	b, okB := d.buffers[st.Vertices]
	if !okP || !okT || !okB {
		slogger().Warn("native: valid state refers to missing resources",
			"program", st.Program, "texture", st.Texture, "vertices", st.Vertices)
		return nil
	}
	count := min(st.VertexCount, b.count)
	return &drawCall{program: p, texture: t, vertices: b, count: uint32(count)} //nolint:gosec // vertex count fits uint32
}

// RenderFrame renders st into a width by height image. The target is
// cleared to st.ClearColor; the scene is drawn only when st is valid.
// The returned image is newly allocated and holds premultiplied RGBA.
func (d *Device) RenderFrame(st *kidito.State, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	w, h := uint32(width), uint32(height) //nolint:gosec // checked positive above

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrClosed
	}

	target, err := d.ensureTarget(w, h)
	if err != nil {
		return nil, err
	}

	var bindGroup hal.BindGroup
	call := d.resolve(st)
	if call != nil {
		shared, err := d.ensureShared()
		if err != nil {
			return nil, err
		}
		if err := d.queue.WriteBuffer(shared.uniforms, 0, makeUniforms(st, width, height)); err != nil {
			return nil, fmt.Errorf("write uniforms: %w", err)
		}

		bindGroup, err = d.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  "kidito_bind",
			Layout: shared.bindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{
					Buffer: shared.uniforms.NativeHandle(), Offset: 0, Size: uniformSize,
				}},
				{Binding: 1, Resource: gputypes.TextureViewBinding{
					TextureView: call.texture.view.NativeHandle(),
				}},
				{Binding: 2, Resource: gputypes.SamplerBinding{
					Sampler: shared.sampler.NativeHandle(),
				}},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("create bind group: %w", err)
		}
		defer d.device.DestroyBindGroup(bindGroup)
	}

	pixels, err := d.encodeAndReadback(target, st.ClearColor, call, bindGroup)
	if err != nil {
		return nil, err
	}
	return &image.RGBA{
		Pix:    pixels,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

// encodeAndReadback records the frame, submits it, waits for completion
// and returns the color target as tightly packed RGBA rows.
func (d *Device) encodeAndReadback(
	target *renderTarget, clearColor geo.RGBA, call *drawCall, bindGroup hal.BindGroup,
) ([]byte, error) {
	w, h := target.width, target.height

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "kidito_frame_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("kidito_frame"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "kidito_frame_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:    target.colorView,
				LoadOp:  gputypes.LoadOpClear,
				StoreOp: gputypes.StoreOpStore,
				ClearValue: gputypes.Color{
					R: float64(clearColor[0]), G: float64(clearColor[1]),
					B: float64(clearColor[2]), A: float64(clearColor[3]),
				},
			},
		},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:              target.depthView,
			DepthLoadOp:       gputypes.LoadOpClear,
			DepthStoreOp:      gputypes.StoreOpDiscard,
			DepthClearValue:   1.0,
			StencilLoadOp:     gputypes.LoadOpClear,
			StencilStoreOp:    gputypes.StoreOpDiscard,
			StencilClearValue: 0,
		},
	})
	if call != nil && call.count > 0 {
		rp.SetPipeline(call.program.pipeline)
		rp.SetBindGroup(0, bindGroup, nil)
		rp.SetVertexBuffer(0, call.vertices.buf, 0)
		rp.Draw(call.count, 1, 0, 0)
	}
	rp.End()

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: target.color,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	rowBytes := w * 4
	alignedRow := (rowBytes + copyRowAlignment - 1) / copyRowAlignment * copyRowAlignment
	stagingSize := uint64(alignedRow) * uint64(h)
	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "kidito_frame_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer d.device.DestroyBuffer(staging)

	encoder.CopyTextureToBuffer(target.color, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: target.color, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: target.color,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	index, err := d.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	if err := d.waitSubmission(index, frameTimeout); err != nil {
		return nil, err
	}

	mapping, err := d.device.MapBuffer(staging, 0, stagingSize)
	if err != nil {
		return nil, fmt.Errorf("map staging buffer: %w", err)
	}
	readback := make([]byte, stagingSize)
	copy(readback, unsafe.Slice((*byte)(mapping.Ptr), stagingSize))
	if err := d.device.UnmapBuffer(staging); err != nil {
		return nil, fmt.Errorf("unmap staging buffer: %w", err)
	}
	return stripRowPadding(readback, rowBytes, alignedRow, h), nil
}

// waitSubmission blocks until the queue reports index complete.
func (d *Device) waitSubmission(index uint64, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for d.queue.PollCompleted() < index {
		if time.Now().After(deadline) {
			return ErrTimeout
		}
		time.Sleep(100 * time.Microsecond)
	}
	return nil
}

// stripRowPadding removes the per-row alignment padding of a readback.
func stripRowPadding(data []byte, rowBytes, alignedRow, rows uint32) []byte {
	if rowBytes == alignedRow {
		return data[:rowBytes*rows]
	}
	out := make([]byte, rowBytes*rows)
	for y := uint32(0); y < rows; y++ {
		copy(out[y*rowBytes:(y+1)*rowBytes], data[y*alignedRow:y*alignedRow+rowBytes])
	}
	return out
}
