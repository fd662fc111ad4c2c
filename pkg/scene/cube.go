package scene

import "github.com/taigrr/softengine/pkg/math3d"

// cubeFaces lists two triangles per side. Corner i has X set by bit 0,
// Y by bit 1 and Z by bit 2.
var cubeFaces = [12]Face{
	{0, 2, 3}, {0, 3, 1}, // -Z
	{4, 5, 7}, {4, 7, 6}, // +Z
	{0, 4, 6}, {0, 6, 2}, // -X
	{1, 3, 7}, {1, 7, 5}, // +X
	{0, 1, 5}, {0, 5, 4}, // -Y
	{2, 6, 7}, {2, 7, 3}, // +Y
}

// NewCube creates an axis-aligned cube with the given edge length centered on
// the origin. The 8 corners are shared between sides, so each normal points
// along the corner's diagonal and Gouraud shading rounds the edges.
func NewCube(name string, size float64, color Color) *Mesh {
	m := NewMesh(name, color)
	h := size / 2
	for i := range 8 {
		corner := math3d.V3(-1, -1, -1)
		if i&1 != 0 {
			corner.X = 1
		}
		if i&2 != 0 {
			corner.Y = 1
		}
		if i&4 != 0 {
			corner.Z = 1
		}
		m.AddVertex(corner.Scale(h), corner.Normalize())
	}
	m.Faces = append(m.Faces, cubeFaces[:]...)
	m.CalculateBounds()
	return m
}
