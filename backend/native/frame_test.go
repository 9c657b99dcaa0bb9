package native

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/gogpu/kidito"
	"github.com/gogpu/kidito/geo"
)

func float32At(buf []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
}

func TestMakeUniforms(t *testing.T) {
	st := kidito.NewState()
	st.Time = 1.25

	buf := makeUniforms(st, 640, 480)
	if len(buf) != uniformSize {
		t.Fatalf("len = %d, want %d", len(buf), uniformSize)
	}

	m := st.Transform(640, 480).ColumnMajor()
	for i := range m {
		if got := float32At(buf, i); got != m[i] {
			t.Errorf("transform[%d] = %v, want %v", i, got, m[i])
		}
	}
	if got := float32At(buf, 16); got != 640 {
		t.Errorf("resolution.x = %v, want 640", got)
	}
	if got := float32At(buf, 17); got != 480 {
		t.Errorf("resolution.y = %v, want 480", got)
	}
	if got := float32At(buf, 18); got != 1.25 {
		t.Errorf("time = %v, want 1.25", got)
	}
	if got := float32At(buf, 19); got != 0 {
		t.Errorf("padding = %v, want 0", got)
	}
}

func TestEncodeVertices(t *testing.T) {
	vs := []geo.Vertex{
		{
			Position: geo.Vec4{1, 2, 3, 1},
			UV:       geo.Vec2{0.5, 0.25},
			Color:    geo.Red,
			Normal:   geo.Vec4{0, 0, -1, 0},
		},
		{Position: geo.Vec4{4, 5, 6, 1}},
	}
	buf := encodeVertices(vs)
	if len(buf) != 2*vertexStride {
		t.Fatalf("len = %d, want %d", len(buf), 2*vertexStride)
	}

	want := []float32{1, 2, 3, 1, 0.5, 0.25, 1, 0, 0, 1, 0, 0, -1, 0}
	for i, w := range want {
		if got := float32At(buf, i); got != w {
			t.Errorf("float %d = %v, want %v", i, got, w)
		}
	}
	if got := float32At(buf[vertexStride:], 2); got != 6 {
		t.Errorf("second vertex z = %v, want 6", got)
	}

	// Attribute offsets must match the encoding.
	attrs := vertexLayout()[0].Attributes
	wantOffsets := []uint64{0, 16, 24, 40}
	for i, a := range attrs {
		if uint64(a.Offset) != wantOffsets[i] {
			t.Errorf("attribute %d offset = %d, want %d", i, a.Offset, wantOffsets[i])
		}
	}
}

func TestStripRowPadding(t *testing.T) {
	// Two rows of 2 pixels padded to 12 bytes.
	data := []byte{
		1, 2, 3, 4, 5, 6, 7, 8, 0, 0, 0, 0,
		9, 10, 11, 12, 13, 14, 15, 16, 0, 0, 0, 0,
	}
	got := stripRowPadding(data, 8, 12, 2)
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	if string(got) != string(want) {
		t.Errorf("stripRowPadding = %v, want %v", got, want)
	}

	packed := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if got := stripRowPadding(packed, 4, 4, 2); len(got) != 8 {
		t.Errorf("packed len = %d, want 8", len(got))
	}
}

func TestRenderFrameInvalidDimensions(t *testing.T) {
	d := openNoop(t)
	for _, size := range [][2]int{{0, 10}, {10, 0}, {-1, 5}} {
		if _, err := d.RenderFrame(kidito.NewState(), size[0], size[1]); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("RenderFrame(%d, %d) error = %v, want ErrInvalidDimensions", size[0], size[1], err)
		}
	}
}

func TestRenderFrameFailedState(t *testing.T) {
	d := openNoop(t)
	st := kidito.NewState()

	// A failed state only clears; no shared resources are needed.
	frame, err := d.RenderFrame(st, 33, 7)
	if err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	if frame.Stride != 33*4 || len(frame.Pix) != 33*7*4 {
		t.Errorf("frame stride %d len %d", frame.Stride, len(frame.Pix))
	}
	if d.shared != nil {
		t.Error("shared resources created for a failed state")
	}
}

func TestRenderFrameMissingResources(t *testing.T) {
	d := openNoop(t)
	st := kidito.NewState()
	st.Status = kidito.StatusValid
	st.Program, st.Texture, st.Vertices = 1, 2, 3
	st.VertexCount = 36

	if _, err := d.RenderFrame(st, 16, 16); err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	if d.resolve(st) != nil {
		t.Error("resolve found resources that do not exist")
	}
}

func TestRenderFrameResize(t *testing.T) {
	d := openNoop(t)
	st := kidito.NewState()

	if _, err := d.RenderFrame(st, 64, 64); err != nil {
		t.Fatal(err)
	}
	first := d.target
	if _, err := d.RenderFrame(st, 64, 64); err != nil {
		t.Fatal(err)
	}
	if d.target != first {
		t.Error("target recreated for the same size")
	}
	if _, err := d.RenderFrame(st, 80, 40); err != nil {
		t.Fatal(err)
	}
	if d.target == first || d.target.width != 80 || d.target.height != 40 {
		t.Errorf("target not resized: %+v", d.target)
	}
}
