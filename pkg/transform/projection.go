package transform

import "github.com/taigrr/softengine/pkg/math3d"

// Projection holds the perspective parameters for a frame.
type Projection struct {
	FovY   float64 // Vertical field of view in radians
	Aspect float64 // Width / height
	Near   float64
	Far    float64
}

// DefaultProjection returns a 0.78 rad (about 45°) projection for a
// width x height viewport with near 0.1 and far 100.
func DefaultProjection(width, height int) Projection {
	aspect := 1.0
	if height > 0 {
		aspect = float64(width) / float64(height)
	}
	return Projection{
		FovY:   0.78,
		Aspect: aspect,
		Near:   0.1,
		Far:    100,
	}
}

// Validate reports whether the parameters describe a usable frustum.
func (p Projection) Validate() error {
	return validateProjection(p.FovY, p.Aspect, p.Near, p.Far)
}

// Matrix builds the projection matrix with b.
func (p Projection) Matrix(b Builder) (math3d.Mat4, error) {
	return b.BuildProjectionMatrix(p.FovY, p.Aspect, p.Near, p.Far)
}
