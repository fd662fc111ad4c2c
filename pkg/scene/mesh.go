// Package scene holds the data the rasterizer consumes: meshes with their pose,
// the camera, and colors. Importers for external mesh formats live here too
// and only ever produce a Mesh.
package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/softengine/pkg/math3d"
)

// ErrFaceIndex reports a face that references a vertex outside the mesh.
var ErrFaceIndex = errors.New("face index out of range")

// Vertex carries the object-space attributes of a mesh vertex and, once
// projected for a frame, its world and screen coordinates.
type Vertex struct {
	Normal            math3d.Vec3
	Coordinates       math3d.Vec3 // Mesh-local position
	WorldCoordinates  math3d.Vec3 // After the world transform
	ScreenCoordinates math3d.Vec3 // X,Y in pixels, Z is normalized depth
}

// Face is a triangle given by three indices into Mesh.Vertices.
type Face struct {
	A, B, C int
}

// Mesh is an indexed triangle mesh with a flat base color and a pose.
// Vertices and Faces are fixed after construction; Position and Rotation are
// updated frame to frame by whoever drives the scene.
type Mesh struct {
	Name     string
	Color    Color
	Vertices []Vertex
	Faces    []Face
	Position math3d.Vec3
	Rotation math3d.Vec3 // Euler angles in radians: X pitch, Y yaw, Z roll

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates an empty mesh.
func NewMesh(name string, color Color) *Mesh {
	return &Mesh{
		Name:     name,
		Color:    color,
		Vertices: make([]Vertex, 0),
		Faces:    make([]Face, 0),
	}
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(pos, normal math3d.Vec3) int {
	m.Vertices = append(m.Vertices, Vertex{Coordinates: pos, Normal: normal})
	return len(m.Vertices) - 1
}

// AddFace appends a triangle.
func (m *Mesh) AddFace(a, b, c int) {
	m.Faces = append(m.Faces, Face{A: a, B: b, C: c})
}

// Validate checks that every face references existing vertices.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, idx := range [3]int{f.A, f.B, f.C} {
			if idx < 0 || idx >= n {
				return fmt.Errorf("mesh %q face %d index %d (%d vertices): %w", m.Name, i, idx, n, ErrFaceIndex)
			}
		}
	}
	return nil
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Coordinates
	m.BoundsMax = m.Vertices[0].Coordinates

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Coordinates)
		m.BoundsMax = m.BoundsMax.Max(v.Coordinates)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// faceNormal returns the unnormalized normal of face f.
func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0 := m.Vertices[f.A].Coordinates
	v1 := m.Vertices[f.B].Coordinates
	v2 := m.Vertices[f.C].Coordinates
	return v1.Sub(v0).Cross(v2.Sub(v0))
}

// CalculateNormals assigns each face's normal to its vertices. Vertices shared
// between faces end up with the normal of the last face that touches them.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		normal := m.faceNormal(f).Normalize()
		m.Vertices[f.A].Normal = normal
		m.Vertices[f.B].Normal = normal
		m.Vertices[f.C].Normal = normal
	}
}

// CalculateSmoothNormals computes area-weighted averaged normals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	// Accumulate unnormalized face normals so larger faces weigh more
	for _, f := range m.Faces {
		normal := m.faceNormal(f)
		m.Vertices[f.A].Normal = m.Vertices[f.A].Normal.Add(normal)
		m.Vertices[f.B].Normal = m.Vertices[f.B].Normal.Add(normal)
		m.Vertices[f.C].Normal = m.Vertices[f.C].Normal.Add(normal)
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// hasNormals reports whether any vertex carries a usable normal.
func (m *Mesh) hasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.LenSq() > 1e-6 {
			return true
		}
	}
	return false
}

// Normalize recenters the mesh at the origin and scales it so its largest
// extent is 2 units.
func (m *Mesh) Normalize() {
	m.CalculateBounds()
	center := m.Center()
	maxDim := m.Size().MaxComponent()
	if maxDim <= 0 {
		return
	}
	s := 2.0 / maxDim
	transform := math3d.Scale(math3d.V3(s, s, s)).Mul(math3d.Translate(center.Negate()))
	for i := range m.Vertices {
		m.Vertices[i].Coordinates = transform.MulVec3(m.Vertices[i].Coordinates)
	}
	m.CalculateBounds()
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Color:     m.Color,
		Vertices:  make([]Vertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Position:  m.Position,
		Rotation:  m.Rotation,
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	return clone
}
