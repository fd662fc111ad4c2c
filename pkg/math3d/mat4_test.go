package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func vecNear(a, b Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func TestMulOrder(t *testing.T) {
	// Right operand acts first: rotate then translate
	m := Translate(V3(10, 0, 0)).Mul(RotateZ(math.Pi / 2))
	got := m.MulVec3(V3(1, 0, 0))
	want := V3(10, 1, 0)
	if !vecNear(got, want, eps) {
		t.Errorf("translate*rotate applied to (1,0,0) = %v, want %v", got, want)
	}

	// Reversed order orbits the point around the origin instead
	m = RotateZ(math.Pi / 2).Mul(Translate(V3(10, 0, 0)))
	got = m.MulVec3(V3(1, 0, 0))
	want = V3(0, 11, 0)
	if !vecNear(got, want, eps) {
		t.Errorf("rotate*translate applied to (1,0,0) = %v, want %v", got, want)
	}
}

func TestRotationYawPitchRoll(t *testing.T) {
	tests := []struct {
		name             string
		yaw, pitch, roll float64
		in, want         Vec3
	}{
		{"identity", 0, 0, 0, V3(1, 2, 3), V3(1, 2, 3)},
		{"yaw quarter", math.Pi / 2, 0, 0, V3(1, 0, 0), V3(0, 0, -1)},
		{"pitch quarter", 0, math.Pi / 2, 0, V3(0, 1, 0), V3(0, 0, 1)},
		{"roll quarter", 0, 0, math.Pi / 2, V3(1, 0, 0), V3(0, 1, 0)},
		// roll first moves X onto Y, then yaw leaves Y untouched
		{"roll then yaw", math.Pi / 2, 0, math.Pi / 2, V3(1, 0, 0), V3(0, 1, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RotationYawPitchRoll(tc.yaw, tc.pitch, tc.roll).MulVec3(tc.in)
			if !vecNear(got, tc.want, 1e-9) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLookAtLH(t *testing.T) {
	view := LookAtLH(V3(0, 0, 10), Zero3(), Up())

	// Target sits straight ahead at positive view depth
	got := view.MulVec3(Zero3())
	if !vecNear(got, V3(0, 0, 10), eps) {
		t.Errorf("origin in view space = %v, want (0,0,10)", got)
	}

	// World up stays up
	got = view.MulVec3(V3(0, 1, 0))
	if math.Abs(got.Y-1) > eps {
		t.Errorf("world up in view space = %v, want Y=1", got)
	}

	// Looking down -Z in a left-handed frame puts world +X on the left
	got = view.MulVec3(V3(1, 0, 0))
	if got.X >= 0 {
		t.Errorf("world +X in view space = %v, want negative X", got)
	}
}

func TestPerspectiveLH(t *testing.T) {
	const near, far = 0.5, 50.0
	proj := PerspectiveLH(math.Pi/2, 2, near, far)

	tests := []struct {
		name  string
		depth float64
		want  float64
	}{
		{"near plane", near, 0},
		{"far plane", far, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := proj.MulVec3(V3(0, 0, tc.depth))
			if math.Abs(got.Z-tc.want) > 1e-9 {
				t.Errorf("depth %v -> %v, want %v", tc.depth, got.Z, tc.want)
			}
		})
	}

	// fov 90° puts y == z on the top edge; aspect 2 halves x
	got := proj.MulVec3(V3(4, 4, 4))
	if math.Abs(got.Y-1) > eps || math.Abs(got.X-0.5) > eps {
		t.Errorf("corner ray -> %v, want X=0.5 Y=1", got)
	}

	// Depth grows monotonically with view distance
	a := proj.MulVec3(V3(0, 0, 5)).Z
	b := proj.MulVec3(V3(0, 0, 6)).Z
	if a >= b {
		t.Errorf("depth not monotonic: z(5)=%v z(6)=%v", a, b)
	}
}

func TestMulVec3Dir(t *testing.T) {
	m := Translate(V3(5, 5, 5)).Mul(RotateY(math.Pi))
	got := m.MulVec3Dir(V3(0, 0, 1))
	if !vecNear(got, V3(0, 0, -1), eps) {
		t.Errorf("direction = %v, want (0,0,-1)", got)
	}
}

func TestTranspose(t *testing.T) {
	m := Translate(V3(1, 2, 3))
	if m.Transpose().Transpose() != m {
		t.Error("double transpose should be identity operation")
	}
	if m.Transpose().Get(0, 3) != 0 || m.Get(0, 3) != 1 {
		t.Error("transpose should move translation to the bottom row")
	}
}

func TestVec3Normalize(t *testing.T) {
	if n := V3(3, 0, 4).Normalize(); math.Abs(n.Len()-1) > eps {
		t.Errorf("normalized length = %v, want 1", n.Len())
	}
	if n := Zero3().Normalize(); n != Zero3() {
		t.Errorf("zero vector normalized = %v, want zero", n)
	}
}
