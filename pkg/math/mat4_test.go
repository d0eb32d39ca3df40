package math

import (
	"testing"

	"github.com/chewxy/math32"
)

func approx(a, b float32) bool {
	return math32.Abs(a-b) < 1e-4
}

func approxVec(a, b Vec3) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y) && approx(a.Z, b.Z)
}

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(Vec3{1, 2, 3})
	got := m.Mul(Identity())
	if got != m {
		t.Errorf("M * I = %v, want %v", got, m)
	}
}

func TestTranslateTransformPoint(t *testing.T) {
	m := Translate(Vec3{10, 20, 30})
	got := m.TransformPoint(Vec3{1, 2, 3})
	want := Vec3{11, 22, 33}
	if got != want {
		t.Errorf("TransformPoint: got %v, want %v", got, want)
	}
}

func TestScaleThenTranslate(t *testing.T) {
	m := Translate(Vec3{1, 0, 0}).Mul(Scale(Vec3{2, 2, 2}))
	got := m.TransformPoint(Vec3{1, 1, 1})
	want := Vec3{3, 2, 2}
	if got != want {
		t.Errorf("T*S point: got %v, want %v", got, want)
	}
}

func TestRotateY(t *testing.T) {
	m := RotateY(math32.Pi / 2)
	got := m.TransformPoint(Vec3{1, 0, 0})
	want := Vec3{0, 0, -1}
	if !approxVec(got, want) {
		t.Errorf("RotateY(90): got %v, want %v", got, want)
	}
}

func TestLookAtMapsCenterToNegativeZ(t *testing.T) {
	eye := Vec3{0, 0, 10}
	view := LookAt(eye, Vec3{}, Vec3{0, 1, 0})
	got := view.TransformPoint(Vec3{})
	want := Vec3{0, 0, -10}
	if !approxVec(got, want) {
		t.Errorf("LookAt center: got %v, want %v", got, want)
	}
}

func TestOrthoMapsBoxToClipCube(t *testing.T) {
	m := Ortho(-2, 2, -1, 1, 0.1, 100)
	got := m.TransformPoint(Vec3{2, 1, -0.1})
	want := Vec3{1, 1, -1}
	if !approxVec(got, want) {
		t.Errorf("Ortho corner: got %v, want %v", got, want)
	}
}

func TestPerspectiveNearPlane(t *testing.T) {
	m := Perspective(math32.Pi/2, 1, 1, 100)
	got := m.TransformPoint(Vec3{0, 0, -1})
	if !approx(got.Z, -1) {
		t.Errorf("near plane depth: got %v, want -1", got.Z)
	}
}
