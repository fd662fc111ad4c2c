package scene

import (
	"math"

	"github.com/taigrr/softengine/pkg/math3d"
)

// maxPitch keeps the view direction off the up axis, where look-at is undefined.
const maxPitch = math.Pi/2 - 0.01

// Camera is a look-at camera. Up is always world +Y.
type Camera struct {
	Position math3d.Vec3
	Target   math3d.Vec3
}

// NewCamera creates a camera at pos looking at target.
func NewCamera(pos, target math3d.Vec3) Camera {
	return Camera{Position: pos, Target: target}
}

// Forward returns the unit view direction.
func (c Camera) Forward() math3d.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// Distance returns the distance from the camera to its target.
func (c Camera) Distance() float64 {
	return c.Position.Distance(c.Target)
}

// Orbit places the camera on a sphere of the given radius around its target.
// Yaw rotates around world Y, pitch raises the camera above the horizon. Zero
// yaw and pitch put the camera on the target's +Z side.
func (c *Camera) Orbit(yaw, pitch, distance float64) {
	pitch = max(-maxPitch, min(maxPitch, pitch))
	offset := math3d.V3(
		math.Cos(pitch)*math.Sin(yaw),
		math.Sin(pitch),
		math.Cos(pitch)*math.Cos(yaw),
	)
	c.Position = c.Target.Add(offset.Scale(distance))
}

// Zoom moves the camera along its view direction, never closer to the target
// than minDistance.
func (c *Camera) Zoom(delta, minDistance float64) {
	dist := max(minDistance, c.Distance()-delta)
	c.Position = c.Target.Sub(c.Forward().Scale(dist))
}
