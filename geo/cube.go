package geo

import "fmt"

// TrisPerCube is the number of triangles in a cube mesh.
const TrisPerCube = 12

// facePermutations maps (A, B, C) for each pair of opposing faces: A and B
// span the face, C is the constant axis.
var facePermutations = [3][3]int{
	{X, Y, Z},
	{Z, Y, X},
	{X, Z, Y},
}

// faceColors is indexed by pair*2 + cv.
var faceColors = [6]RGBA{
	Red, Green,
	Blue, Yellow,
	Purple, Cyan,
}

// CubeMesh returns the unit cube spanning [0,1]^3.
//
// Each face is a quad split into two triangles sharing a diagonal. For
// triangle tri and corner vert the strip index tri+vert selects the corner:
// bit 0 goes to axis A and bit 1 to axis B, while the constant axis C holds
// cv. Texture coordinates use the same bits. Centering the cube is left to
// the transform.
func CubeMesh() [TrisPerCube]Triangle {
	var mesh [TrisPerCube]Triangle
	n := 0
	for pair, perm := range facePermutations {
		a, b, c := perm[0], perm[1], perm[2]
		for cv := 0; cv <= 1; cv++ {
			for tri := 0; tri <= 1; tri++ {
				for vert := 0; vert <= 2; vert++ {
					strip := tri + vert

					var v Vertex
					v.Position[a] = float32(strip & 1)
					v.Position[b] = float32(strip >> 1)
					v.Position[c] = float32(cv)
					v.Position[W] = 1
					v.UV = Vec2{float32(strip & 1), float32(strip >> 1)}
					v.Color = faceColors[pair*2+cv]
					v.Normal[c] = float32(2*cv - 1)

					mesh[n][vert] = v
				}
				n++
			}
		}
	}
	if n != TrisPerCube {
		panic(fmt.Sprintf("geo: cube mesh has %d triangles, want %d", n, TrisPerCube))
	}
	return mesh
}

// Flatten returns the vertices of tris in draw order.
func Flatten(tris []Triangle) []Vertex {
	out := make([]Vertex, 0, len(tris)*3)
	for _, t := range tris {
		out = append(out, t[:]...)
	}
	return out
}
