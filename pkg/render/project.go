package render

import (
	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/scene"
)

// Project maps v through the combined world-view-projection matrix into
// pixel space and through world alone for lighting. Screen X grows right and
// Y grows down from the top-left corner; Z is kept as the depth value. The
// input vertex is not modified.
//
// The normal goes through world as a direction (w=0) and ignores
// translation; see "Normals" in DESIGN.md.
func (d *Device) Project(v scene.Vertex, transform, world math3d.Mat4) scene.Vertex {
	p := transform.MulVec3(v.Coordinates)
	w, h := float64(d.width), float64(d.height)

	return scene.Vertex{
		Normal:           world.MulVec3Dir(v.Normal),
		Coordinates:      v.Coordinates,
		WorldCoordinates: world.MulVec3(v.Coordinates),
		ScreenCoordinates: math3d.V3(
			p.X*w+w/2,
			-p.Y*h+h/2,
			p.Z,
		),
	}
}
