package geo

import (
	"math"
	"testing"
)

const eps = 1e-5

func sampleMatrices() []Mat4 {
	return []Mat4{
		Identity(),
		Translate(1, -2, 3),
		Scale(2, 3, 4),
		RotateY(0.7),
		RotateZ(-1.3),
		Perspective(math.Pi/2, 16.0/9, 0.1, 100),
		Translate(-0.5, -0.5, -0.5).Mul(RotateY(2)).Mul(Scale(0.5, 0.5, 0.5)),
	}
}

func TestIdentityLaw(t *testing.T) {
	id := Identity()
	for i, m := range sampleMatrices() {
		if got := id.Mul(m); got != m {
			t.Errorf("matrix %d: I*M = %v, want %v", i, got, m)
		}
		if got := m.Mul(id); got != m {
			t.Errorf("matrix %d: M*I = %v, want %v", i, got, m)
		}
	}
}

func TestRotateY(t *testing.T) {
	if got := RotateY(0); got != Identity() {
		t.Errorf("RotateY(0) = %v, want identity", got)
	}

	for _, theta := range []float32{0.1, 1, math.Pi / 3, math.Pi, -2.5, 10} {
		got := RotateY(theta).Mul(RotateY(-theta))
		if !got.ApproxEqual(Identity(), eps) {
			t.Errorf("RotateY(%v)*RotateY(%v) = %v, want identity", theta, -theta, got)
		}
	}

	// Right-handed: +X rotates towards -Z by a quarter turn.
	v := RotateY(math.Pi / 2).MulVec4(Vec4{1, 0, 0, 1})
	if !vecApprox(v, Vec4{0, 0, -1, 1}) {
		t.Errorf("RotateY(pi/2)*X = %v, want (0, 0, -1, 1)", v)
	}
}

func TestRotateZ(t *testing.T) {
	if got := RotateZ(0); got != Identity() {
		t.Errorf("RotateZ(0) = %v, want identity", got)
	}
	got := RotateZ(0.4).Mul(RotateZ(-0.4))
	if !got.ApproxEqual(Identity(), eps) {
		t.Errorf("RotateZ(0.4)*RotateZ(-0.4) = %v, want identity", got)
	}
	v := RotateZ(math.Pi / 2).MulVec4(Vec4{1, 0, 0, 1})
	if !vecApprox(v, Vec4{0, 1, 0, 1}) {
		t.Errorf("RotateZ(pi/2)*X = %v, want (0, 1, 0, 1)", v)
	}
}

func TestTranslateScale(t *testing.T) {
	p := Vec4{1, 2, 3, 1}
	if got, want := Translate(1, 1, 1).MulVec4(p), (Vec4{2, 3, 4, 1}); got != want {
		t.Errorf("Translate = %v, want %v", got, want)
	}
	if got, want := Scale(2, 0.5, -1).MulVec4(p), (Vec4{2, 1, -3, 1}); got != want {
		t.Errorf("Scale = %v, want %v", got, want)
	}
	// Directions ignore translation.
	d := Vec4{1, 0, 0, 0}
	if got := Translate(5, 5, 5).MulVec4(d); got != d {
		t.Errorf("Translate moved direction to %v", got)
	}
	// Scale applied first, then translate.
	m := Translate(1, 0, 0).Mul(Scale(2, 2, 2))
	if got, want := m.MulVec4(Vec4{1, 1, 1, 1}), (Vec4{3, 2, 2, 1}); got != want {
		t.Errorf("T*S = %v, want %v", got, want)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	const near, far = 0.5, 50
	m := Perspective(math.Pi/2, 1, near, far)

	ndcZ := func(z float32) float32 {
		v := m.MulVec4(Vec4{0, 0, z, 1})
		return v[Z] / v[W]
	}
	if got := ndcZ(-near); math.Abs(float64(got)) > eps {
		t.Errorf("near plane depth = %v, want 0", got)
	}
	if got := ndcZ(-far); math.Abs(float64(got-1)) > 1e-4 {
		t.Errorf("far plane depth = %v, want 1", got)
	}
	if mid := ndcZ(-5); mid <= 0 || mid >= 1 {
		t.Errorf("depth at z=-5 = %v, want in (0, 1)", mid)
	}
	if m[3][2] != -1 {
		t.Errorf("m[3][2] = %v, want -1", m[3][2])
	}

	// fovy = 90 degrees: a point at 45 degrees lands on the top edge.
	v := m.MulVec4(Vec4{0, 1, -1, 1})
	if got := v[Y] / v[W]; math.Abs(float64(got-1)) > eps {
		t.Errorf("top edge y = %v, want 1", got)
	}
}

func TestColumnMajor(t *testing.T) {
	m := Translate(7, 8, 9)
	cm := m.ColumnMajor()
	if cm[12] != 7 || cm[13] != 8 || cm[14] != 9 || cm[15] != 1 {
		t.Errorf("translation column = %v, want [7 8 9 1]", cm[12:])
	}
	if cm[0] != 1 || cm[5] != 1 || cm[10] != 1 {
		t.Errorf("diagonal = %v %v %v", cm[0], cm[5], cm[10])
	}
}

func vecApprox(a, b Vec4) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > eps {
			return false
		}
	}
	return true
}
