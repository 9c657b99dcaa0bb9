// Package geo generates the harness geometry: vectors, the unit cube mesh
// and 4x4 transform matrices.
//
// Everything here is pure value arithmetic over float32, the precision the
// GPU vertex and uniform buffers use.
package geo

// Component indices.
const (
	X = iota
	Y
	Z
	W
)

// Vec2 is a two component vector, used for texture coordinates.
type Vec2 [2]float32

// Vec4 is a homogeneous vector.
type Vec4 [4]float32

// Add returns v+u on the xyz components; w is kept from v.
func (v Vec4) Add(u Vec4) Vec4 {
	return Vec4{v[X] + u[X], v[Y] + u[Y], v[Z] + u[Z], v[W]}
}

// Scale returns v with xyz multiplied by s; w is kept.
func (v Vec4) Scale(s float32) Vec4 {
	return Vec4{v[X] * s, v[Y] * s, v[Z] * s, v[W]}
}

// RGBA is a straight-alpha color with components in [0, 1].
type RGBA [4]float32

// Face colors.
var (
	Red    = RGBA{1, 0, 0, 1}
	Green  = RGBA{0, 1, 0, 1}
	Blue   = RGBA{0, 0, 1, 1}
	Yellow = RGBA{1, 1, 0, 1}
	Purple = RGBA{1, 0, 1, 1}
	Cyan   = RGBA{0, 1, 1, 1}
	White  = RGBA{1, 1, 1, 1}
)

// Vertex is one corner of a triangle as laid out in the vertex buffer.
type Vertex struct {
	Position Vec4
	UV       Vec2
	Color    RGBA
	Normal   Vec4
}

// Triangle is three vertices. Winding is not consistent across a mesh:
// the two halves of each cube face wind in opposite directions, so
// pipelines drawing CubeMesh must not cull back faces.
type Triangle [3]Vertex
