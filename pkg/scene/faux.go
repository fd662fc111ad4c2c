package scene

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fogleman/fauxgl"
	"github.com/taigrr/softengine/pkg/math3d"
)

// FauxLoader loads OBJ, STL, PLY and 3DS files through fauxgl. Those formats
// arrive as unindexed triangle soup, which is welded into shared vertices.
type FauxLoader struct {
	Color Color

	// SmoothNormals welds by position only and recomputes averaged normals.
	// Otherwise vertices are welded by position and normal, keeping hard edges.
	SmoothNormals bool

	// Axes maps a source position into the left-handed Y-up world.
	// Defaults to mirroring Z.
	Axes func(math3d.Vec3) math3d.Vec3
}

// NewFauxLoader creates a loader with default options.
func NewFauxLoader() *FauxLoader {
	return &FauxLoader{Color: White}
}

// LoadFaux loads a mesh file supported by fauxgl with the default loader.
func LoadFaux(path string) (*Mesh, error) {
	return NewFauxLoader().Load(path)
}

// Load reads the file at path and converts it to an indexed Mesh.
func (l *FauxLoader) Load(path string) (*Mesh, error) {
	src, err := fauxgl.LoadMesh(path)
	if err != nil {
		return nil, fmt.Errorf("load mesh %s: %w", path, err)
	}
	mesh, err := l.convert(filepath.Base(path), src)
	if err != nil {
		return nil, fmt.Errorf("load mesh %s: %w", path, err)
	}
	return mesh, nil
}

// weldKey identifies a vertex for welding; normal is zero when smoothing.
type weldKey struct {
	pos, normal math3d.Vec3
}

func (l *FauxLoader) convert(name string, src *fauxgl.Mesh) (*Mesh, error) {
	if len(src.Triangles) == 0 {
		return nil, errors.New("mesh has no triangles")
	}

	axes := l.Axes
	if axes == nil {
		axes = mirrorZ
	}

	mesh := NewMesh(name, l.Color)
	index := make(map[weldKey]int, len(src.Triangles))
	weld := func(v fauxgl.Vertex) int {
		key := weldKey{pos: axes(fromFaux(v.Position))}
		if !l.SmoothNormals {
			key.normal = axes(fromFaux(v.Normal)).Normalize()
		}
		if i, ok := index[key]; ok {
			return i
		}
		i := mesh.AddVertex(key.pos, key.normal)
		index[key] = i
		return i
	}

	for _, t := range src.Triangles {
		a, b, c := weld(t.V1), weld(t.V2), weld(t.V3)
		if a == b || b == c || a == c {
			// Degenerate after welding
			continue
		}
		// Axis maps are reflections, so swap to keep winding
		mesh.AddFace(a, c, b)
	}

	if l.SmoothNormals || !mesh.hasNormals() {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()

	return mesh, nil
}

func fromFaux(v fauxgl.Vector) math3d.Vec3 {
	return math3d.V3(v.X, v.Y, v.Z)
}

// mirrorZ converts a right-handed Y-up position into the left-handed world.
func mirrorZ(v math3d.Vec3) math3d.Vec3 {
	return math3d.V3(v.X, v.Y, -v.Z)
}

// zUpToYUp converts a right-handed Z-up position (CAD convention) into the
// left-handed Y-up world by swapping Y and Z.
func zUpToYUp(v math3d.Vec3) math3d.Vec3 {
	return math3d.V3(v.X, v.Z, v.Y)
}
