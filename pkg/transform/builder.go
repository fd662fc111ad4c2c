// Package transform builds the view, projection and world matrices the
// rasterizer composes for every mesh.
package transform

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/scene"
)

// ErrInvalidProjection reports projection parameters that cannot produce a
// usable frustum.
var ErrInvalidProjection = errors.New("invalid projection")

// Builder produces the matrices for one coordinate-system convention.
type Builder interface {
	// BuildViewMatrix maps world space into the camera's view space.
	BuildViewMatrix(cam scene.Camera) math3d.Mat4
	// BuildProjectionMatrix maps view space into normalized device space.
	BuildProjectionMatrix(fovY, aspect, near, far float64) (math3d.Mat4, error)
	// BuildWorldMatrix maps a mesh's local space into world space.
	BuildWorldMatrix(m *scene.Mesh) math3d.Mat4
}

// LeftHanded builds matrices for a left-handed, Y-up world where view space
// +Z points into the screen.
type LeftHanded struct{}

var _ Builder = LeftHanded{}

// BuildViewMatrix returns a look-at matrix from the camera position towards
// its target with world +Y as up. A camera sitting on its target, or looking
// straight along Y, yields an undefined matrix.
func (LeftHanded) BuildViewMatrix(cam scene.Camera) math3d.Mat4 {
	return math3d.LookAtLH(cam.Position, cam.Target, math3d.Up())
}

// BuildProjectionMatrix returns a perspective projection mapping view depth
// near..far to 0..1.
func (LeftHanded) BuildProjectionMatrix(fovY, aspect, near, far float64) (math3d.Mat4, error) {
	if err := validateProjection(fovY, aspect, near, far); err != nil {
		return math3d.Mat4{}, err
	}
	return math3d.PerspectiveLH(fovY, aspect, near, far), nil
}

// BuildWorldMatrix rotates the mesh by yaw (Rotation.Y), pitch (Rotation.X)
// and roll (Rotation.Z), then translates it to its position.
func (LeftHanded) BuildWorldMatrix(m *scene.Mesh) math3d.Mat4 {
	rot := math3d.RotationYawPitchRoll(m.Rotation.Y, m.Rotation.X, m.Rotation.Z)
	return math3d.Translate(m.Position).Mul(rot)
}

func validateProjection(fovY, aspect, near, far float64) error {
	switch {
	case math.IsNaN(fovY) || fovY <= 0 || fovY >= math.Pi:
		return fmt.Errorf("fov %v outside (0, π): %w", fovY, ErrInvalidProjection)
	case math.IsNaN(aspect) || math.IsInf(aspect, 0) || aspect <= 0:
		return fmt.Errorf("aspect %v not positive: %w", aspect, ErrInvalidProjection)
	case math.IsNaN(near) || near <= 0:
		return fmt.Errorf("near plane %v not positive: %w", near, ErrInvalidProjection)
	case math.IsNaN(far) || near >= far:
		return fmt.Errorf("near plane %v not before far plane %v: %w", near, far, ErrInvalidProjection)
	}
	return nil
}
