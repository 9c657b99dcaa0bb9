package geo

import (
	"bytes"
	"strings"
	"testing"
)

func TestCubeMeshTriangleCount(t *testing.T) {
	mesh := CubeMesh()
	if len(mesh) != 12 {
		t.Fatalf("len(CubeMesh()) = %d, want 12", len(mesh))
	}
	if got := len(Flatten(mesh[:])); got != 36 {
		t.Errorf("Flatten returned %d vertices, want 36", got)
	}
}

// faceAxis returns the constant axis of a triangle: the one component shared
// by all three positions.
func faceAxis(t *testing.T, tri Triangle) int {
	t.Helper()
	for axis := X; axis <= Z; axis++ {
		c := tri[0].Position[axis]
		if tri[1].Position[axis] == c && tri[2].Position[axis] == c {
			return axis
		}
	}
	t.Fatalf("triangle %v has no constant axis", tri)
	return -1
}

func TestCubeMeshPositions(t *testing.T) {
	for i, tri := range CubeMesh() {
		pair := i / 4
		cv := float32((i / 2) % 2)
		c := facePermutations[pair][2]

		if got := faceAxis(t, tri); got != c {
			t.Errorf("triangle %d: constant axis %d, want %d", i, got, c)
		}
		for j, v := range tri {
			for axis := X; axis <= Z; axis++ {
				p := v.Position[axis]
				if axis == c && p != cv {
					t.Errorf("triangle %d vertex %d: constant axis = %v, want %v", i, j, p, cv)
				}
				if p != 0 && p != 1 {
					t.Errorf("triangle %d vertex %d: component %d = %v, want 0 or 1", i, j, axis, p)
				}
			}
			if v.Position[W] != 1 {
				t.Errorf("triangle %d vertex %d: w = %v, want 1", i, j, v.Position[W])
			}
			for _, uv := range v.UV {
				if uv != 0 && uv != 1 {
					t.Errorf("triangle %d vertex %d: uv = %v", i, j, v.UV)
				}
			}
		}
	}
}

func TestCubeMeshStripLayout(t *testing.T) {
	// First pair is (X, Y, Z): strip 0..2 then 1..3 on the z=0 face.
	mesh := CubeMesh()
	want := [2][3]Vec4{
		{{0, 0, 0, 1}, {1, 0, 0, 1}, {0, 1, 0, 1}},
		{{1, 0, 0, 1}, {0, 1, 0, 1}, {1, 1, 0, 1}},
	}
	for tri := 0; tri < 2; tri++ {
		for vert := 0; vert < 3; vert++ {
			if got := mesh[tri][vert].Position; got != want[tri][vert] {
				t.Errorf("mesh[%d][%d].Position = %v, want %v", tri, vert, got, want[tri][vert])
			}
		}
	}
}

// facing returns the sign of the triangle's geometric normal along its
// vertex normal: +1 when it winds counter-clockwise seen from outside.
func facing(tri Triangle) int {
	p0, p1, p2 := tri[0].Position, tri[1].Position, tri[2].Position
	e1 := [3]float32{p1[X] - p0[X], p1[Y] - p0[Y], p1[Z] - p0[Z]}
	e2 := [3]float32{p2[X] - p0[X], p2[Y] - p0[Y], p2[Z] - p0[Z]}
	cross := [3]float32{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}
	n := tri[0].Normal
	d := cross[0]*n[X] + cross[1]*n[Y] + cross[2]*n[Z]
	switch {
	case d > 0:
		return 1
	case d < 0:
		return -1
	}
	return 0
}

func TestCubeMeshWinding(t *testing.T) {
	mesh := CubeMesh()
	for face := 0; face < TrisPerCube/2; face++ {
		first, second := facing(mesh[2*face]), facing(mesh[2*face+1])
		if first == 0 || second == 0 {
			t.Fatalf("face %d has a degenerate triangle", face)
		}
		if first == second {
			t.Errorf("face %d: both triangles wind the same way (%d)", face, first)
		}
	}
}

func TestCubeMeshNormals(t *testing.T) {
	for i, tri := range CubeMesh() {
		c := faceAxis(t, tri)
		for j, v := range tri {
			nonzero := 0
			for axis, n := range v.Normal {
				if n == 0 {
					continue
				}
				nonzero++
				if axis != c {
					t.Errorf("triangle %d vertex %d: normal %v points along axis %d, want %d", i, j, v.Normal, axis, c)
				}
				if n != 1 && n != -1 {
					t.Errorf("triangle %d vertex %d: normal component %v, want ±1", i, j, n)
				}
				if want := 2*v.Position[c] - 1; n != want {
					t.Errorf("triangle %d vertex %d: normal %v not outward", i, j, v.Normal)
				}
			}
			if nonzero != 1 {
				t.Errorf("triangle %d vertex %d: normal %v has %d non-zero components", i, j, v.Normal, nonzero)
			}
		}
	}
}

func TestCubeMeshColors(t *testing.T) {
	mesh := CubeMesh()

	faceColor := make(map[[2]int]RGBA) // (axis, cv) -> color
	for i, tri := range mesh {
		c := faceAxis(t, tri)
		cv := int(tri[0].Position[c])
		col := tri[0].Color
		for j, v := range tri {
			if v.Color != col {
				t.Errorf("triangle %d vertex %d: color %v differs within a triangle", i, j, v.Color)
			}
		}
		key := [2]int{c, cv}
		if prev, ok := faceColor[key]; ok && prev != col {
			t.Errorf("face %v has two colors %v and %v", key, prev, col)
		}
		faceColor[key] = col
	}

	if len(faceColor) != 6 {
		t.Fatalf("got %d faces, want 6", len(faceColor))
	}
	distinct := make(map[RGBA]bool)
	for _, col := range faceColor {
		distinct[col] = true
	}
	if len(distinct) != 6 {
		t.Errorf("got %d distinct face colors, want 6", len(distinct))
	}

	pairs := map[int][2]RGBA{
		Z: {Red, Green},
		X: {Blue, Yellow},
		Y: {Purple, Cyan},
	}
	for axis, want := range pairs {
		for cv := 0; cv <= 1; cv++ {
			if got := faceColor[[2]int{axis, cv}]; got != want[cv] {
				t.Errorf("face axis %d cv %d color = %v, want %v", axis, cv, got, want[cv])
			}
		}
	}
}

func TestWriteOBJ(t *testing.T) {
	mesh := CubeMesh()
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, mesh[:]); err != nil {
		t.Fatalf("WriteOBJ: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 72 {
		t.Fatalf("got %d lines, want 72", len(lines))
	}
	if lines[0] != "v 0.000000 0.000000 0.000000 1.000000" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "vt 0.000000 0.000000" {
		t.Errorf("line 1 = %q", lines[1])
	}
	if lines[3] != "vt 1.000000 0.000000" {
		t.Errorf("line 3 = %q", lines[3])
	}
}
