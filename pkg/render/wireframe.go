package render

import (
	"fmt"

	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/scene"
	"github.com/taigrr/softengine/pkg/transform"
)

// Axis colors used by DrawAxes.
var (
	AxisX = scene.RGBA(1, 0, 0, 1)
	AxisY = scene.RGBA(0, 1, 0, 1)
	AxisZ = scene.RGBA(0, 0, 1, 1)
)

// Guides draws world-space reference lines (axes, ground grid) for one
// camera and projection. Lines take part in the depth test, so meshes hide
// them where they are nearer.
type Guides struct {
	device *Device
	wvp    math3d.Mat4
}

// NewGuides prepares a guide drawer for the current frame.
func (d *Device) NewGuides(camera scene.Camera, proj transform.Projection) (*Guides, error) {
	projection, err := proj.Matrix(d.builder)
	if err != nil {
		return nil, fmt.Errorf("build projection: %w", err)
	}
	return &Guides{
		device: d,
		wvp:    projection.Mul(d.builder.BuildViewMatrix(camera)),
	}, nil
}

// DrawLine3D draws a world-space line.
func (g *Guides) DrawLine3D(p1, p2 math3d.Vec3, c scene.Color) {
	v1 := g.device.Project(scene.Vertex{Coordinates: p1}, g.wvp, math3d.Identity())
	v2 := g.device.Project(scene.Vertex{Coordinates: p2}, g.wvp, math3d.Identity())

	// Without clipping, a point behind the camera projects mirrored; skip
	// lines that leave the 0..1 depth range.
	if !inDepthRange(v1.ScreenCoordinates.Z) || !inDepthRange(v2.ScreenCoordinates.Z) {
		return
	}
	g.device.DrawBresenhamLine(v1.ScreenCoordinates, v2.ScreenCoordinates, c)
}

// DrawAxes draws the coordinate axes at the origin.
func (g *Guides) DrawAxes(length float64) {
	origin := math3d.Zero3()
	g.DrawLine3D(origin, math3d.V3(length, 0, 0), AxisX)
	g.DrawLine3D(origin, math3d.V3(0, length, 0), AxisY)
	g.DrawLine3D(origin, math3d.V3(0, 0, length), AxisZ)
}

// DrawGrid draws a size x size grid on the XZ plane at height y.
func (g *Guides) DrawGrid(y, size, step float64, c scene.Color) {
	if step <= 0 {
		return
	}
	half := size / 2
	for x := -half; x <= half; x += step {
		g.DrawLine3D(math3d.V3(x, y, -half), math3d.V3(x, y, half), c)
	}
	for z := -half; z <= half; z += step {
		g.DrawLine3D(math3d.V3(-half, y, z), math3d.V3(half, y, z), c)
	}
}

func inDepthRange(z float64) bool {
	return z >= 0 && z <= 1
}
