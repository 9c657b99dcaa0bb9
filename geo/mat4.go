package geo

import "math"

// Mat4 is a 4x4 matrix in row-major order, m[row][col].
//
// Vectors are columns: M.MulVec4(v) computes M*v, so in A.Mul(B) the
// transform B is applied first.
type Mat4 [4][4]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Translate returns a translation by (x, y, z).
func Translate(x, y, z float32) Mat4 {
	m := Identity()
	m[0][3] = x
	m[1][3] = y
	m[2][3] = z
	return m
}

// Scale returns a scaling by (x, y, z).
func Scale(x, y, z float32) Mat4 {
	m := Identity()
	m[0][0] = x
	m[1][1] = y
	m[2][2] = z
	return m
}

// RotateY returns a right-handed rotation about the Y axis (angle in radians).
func RotateY(angle float32) Mat4 {
	s, c := sincos(angle)
	return Mat4{
		{c, 0, s, 0},
		{0, 1, 0, 0},
		{-s, 0, c, 0},
		{0, 0, 0, 1},
	}
}

// RotateZ returns a right-handed rotation about the Z axis (angle in radians).
func RotateZ(angle float32) Mat4 {
	s, c := sincos(angle)
	return Mat4{
		{c, -s, 0, 0},
		{s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Perspective returns a right-handed projection with vertical field of view
// fovy (radians). The camera looks down -Z; view depth near maps to 0 and far
// to 1 in normalized device coordinates, the WebGPU clip convention.
func Perspective(fovy, aspect, near, far float32) Mat4 {
	f := 1 / float32(math.Tan(float64(fovy)/2))
	var m Mat4
	m[0][0] = f / aspect
	m[1][1] = f
	m[2][2] = far / (near - far)
	m[2][3] = -far * near / (far - near)
	m[3][2] = -1
	return m
}

// Mul returns m*n.
func (m Mat4) Mul(n Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[i][k] * n[k][j]
			}
			r[i][j] = sum
		}
	}
	return r
}

// MulVec4 returns m*v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	var r Vec4
	for i := 0; i < 4; i++ {
		r[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2] + m[i][3]*v[3]
	}
	return r
}

// ApproxEqual reports whether every element of m and n differs by at most eps.
func (m Mat4) ApproxEqual(n Mat4, eps float32) bool {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			d := m[i][j] - n[i][j]
			if d < -eps || d > eps {
				return false
			}
		}
	}
	return true
}

// ColumnMajor returns the elements column by column, the layout WGSL
// expects for a mat4x4<f32> uniform.
func (m Mat4) ColumnMajor() [16]float32 {
	var out [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			out[col*4+row] = m[row][col]
		}
	}
	return out
}

func sincos(angle float32) (float32, float32) {
	s, c := math.Sincos(float64(angle))
	return float32(s), float32(c)
}
