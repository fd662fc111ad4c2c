// Package math3d provides the vector and matrix primitives used by the
// software rasterizer.
package math3d

import "math"

// Vec3 is a point or direction in 3D space.
type Vec3 struct {
	X, Y, Z float64
}

// V3 is shorthand for Vec3{x, y, z}.
func V3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

// Zero3 returns (0, 0, 0).
func Zero3() Vec3 { return Vec3{} }

// Up returns +Y, the fixed camera up direction.
func Up() Vec3 { return Vec3{Y: 1} }

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Div(s float64) Vec3 { return Vec3{a.X / s, a.Y / s, a.Z / s} }
func (a Vec3) Negate() Vec3 { return Vec3{-a.X, -a.Y, -a.Z} }

// Dot returns a·b.
func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns a×b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

// LenSq returns |a|².
func (a Vec3) LenSq() float64 { return a.Dot(a) }

// Len returns |a|.
func (a Vec3) Len() float64 { return math.Sqrt(a.LenSq()) }

// Distance returns |a-b|.
func (a Vec3) Distance(b Vec3) float64 { return a.Sub(b).Len() }

// Normalize returns a scaled to unit length. The zero vector stays zero.
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l == 0 {
		return Vec3{}
	}
	return a.Div(l)
}

// Min returns the per-axis minimum of a and b.
func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{min(a.X, b.X), min(a.Y, b.Y), min(a.Z, b.Z)}
}

// Max returns the per-axis maximum of a and b.
func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{max(a.X, b.X), max(a.Y, b.Y), max(a.Z, b.Z)}
}

// MaxComponent returns the largest of X, Y and Z.
func (a Vec3) MaxComponent() float64 { return max(a.X, a.Y, a.Z) }
