package native

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/kidito"
	"github.com/gogpu/kidito/geo"
)

// vertexStride is the size of one encoded geo.Vertex:
// position (4 floats), uv (2), color (4), normal (4).
const vertexStride = (4 + 2 + 4 + 4) * 4

func vertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 16, ShaderLocation: 1}, // uv
				{Format: gputypes.VertexFormatFloat32x4, Offset: 24, ShaderLocation: 2}, // color
				{Format: gputypes.VertexFormatFloat32x4, Offset: 40, ShaderLocation: 3}, // normal
			},
		},
	}
}

// vertexBuffer is an uploaded vertex array.
type vertexBuffer struct {
	buf   hal.Buffer
	count int
}

// encodeVertices packs vs in the layout described by vertexLayout.
func encodeVertices(vs []geo.Vertex) []byte {
	out := make([]byte, 0, len(vs)*vertexStride)
	put := func(fs ...float32) {
		for _, f := range fs {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(f))
		}
	}
	for i := range vs {
		v := &vs[i]
		put(v.Position[:]...)
		put(v.UV[:]...)
		put(v.Color[:]...)
		put(v.Normal[:]...)
	}
	return out
}

// UploadVertices copies vs into a new vertex buffer.
func (d *Device) UploadVertices(vs []geo.Vertex) (kidito.BufferID, error) {
	if len(vs) == 0 {
		return 0, fmt.Errorf("upload vertices: empty vertex array")
	}
	data := encodeVertices(vs)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, ErrClosed
	}

	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "kidito_vertices",
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return 0, fmt.Errorf("create vertex buffer: %w", err)
	}
	if err := d.queue.WriteBuffer(buf, 0, data); err != nil {
		d.device.DestroyBuffer(buf)
		return 0, fmt.Errorf("write vertex buffer: %w", err)
	}

	id := kidito.BufferID(d.newID())
	d.buffers[id] = &vertexBuffer{buf: buf, count: len(vs)}
	slogger().Debug("native: vertices uploaded", "id", id, "count", len(vs))
	return id, nil
}

// DeleteBuffer releases a vertex buffer. Unknown ids are ignored.
func (d *Device) DeleteBuffer(id kidito.BufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if b, ok := d.buffers[id]; ok {
		delete(d.buffers, id)
		d.device.DestroyBuffer(b.buf)
	}
}
