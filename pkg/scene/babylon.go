package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/taigrr/softengine/pkg/math3d"
)

// babylonFile is the subset of a .babylon scene export that carries geometry.
type babylonFile struct {
	Meshes []babylonMesh `json:"meshes"`
}

// babylonMesh covers both export layouts: the legacy interleaved "vertices"
// array strided by uvCount, and the split "positions"/"normals" arrays.
type babylonMesh struct {
	Name      string    `json:"name"`
	Position  []float64 `json:"position"`
	Rotation  []float64 `json:"rotation"`
	UVCount   int       `json:"uvCount"`
	Vertices  []float64 `json:"vertices"`
	Positions []float64 `json:"positions"`
	Normals   []float64 `json:"normals"`
	Indices   []int     `json:"indices"`
}

// LoadBabylon reads every mesh of a Babylon.js JSON scene. Babylon is already
// left-handed and Y-up, so coordinates are taken as-is. Mesh positions and
// rotations are kept as the mesh pose.
func LoadBabylon(path string, color Color) ([]*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read babylon: %w", err)
	}

	var file babylonFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode babylon: %w", err)
	}
	if len(file.Meshes) == 0 {
		return nil, errors.New("decode babylon: no meshes")
	}

	meshes := make([]*Mesh, 0, len(file.Meshes))
	for _, bm := range file.Meshes {
		m, err := bm.convert(color)
		if err != nil {
			return nil, fmt.Errorf("convert babylon mesh %q: %w", bm.Name, err)
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

func (bm babylonMesh) convert(color Color) (*Mesh, error) {
	m := NewMesh(bm.Name, color)
	m.Position = vec3At(bm.Position, 0)
	m.Rotation = vec3At(bm.Rotation, 0)

	switch {
	case len(bm.Positions) > 0:
		for i := 0; i+2 < len(bm.Positions); i += 3 {
			m.AddVertex(vec3At(bm.Positions, i), vec3At(bm.Normals, i))
		}
	case len(bm.Vertices) > 0:
		// position, normal, then two floats per UV set
		var step int
		switch bm.UVCount {
		case 0:
			step = 6
		case 1:
			step = 8
		case 2:
			step = 10
		default:
			return nil, fmt.Errorf("unsupported uvCount %d", bm.UVCount)
		}
		for i := 0; i+step <= len(bm.Vertices); i += step {
			m.AddVertex(vec3At(bm.Vertices, i), vec3At(bm.Vertices, i+3))
		}
	}

	for i := 0; i+2 < len(bm.Indices); i += 3 {
		m.AddFace(bm.Indices[i], bm.Indices[i+1], bm.Indices[i+2])
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	if !m.hasNormals() {
		m.CalculateSmoothNormals()
	}
	m.CalculateBounds()
	return m, nil
}

// vec3At reads three floats starting at i, or the zero vector when short.
func vec3At(s []float64, i int) math3d.Vec3 {
	if i+2 >= len(s) {
		return math3d.Zero3()
	}
	return math3d.V3(s[i], s[i+1], s[i+2])
}

// Merge bakes each mesh's pose into its vertices and concatenates them into
// a single mesh at the origin.
func Merge(name string, color Color, meshes ...*Mesh) *Mesh {
	out := NewMesh(name, color)
	for _, m := range meshes {
		world := math3d.Translate(m.Position).Mul(
			math3d.RotationYawPitchRoll(m.Rotation.Y, m.Rotation.X, m.Rotation.Z))
		base := len(out.Vertices)
		for _, v := range m.Vertices {
			out.AddVertex(world.MulVec3(v.Coordinates), world.MulVec3Dir(v.Normal))
		}
		for _, f := range m.Faces {
			out.AddFace(base+f.A, base+f.B, base+f.C)
		}
	}
	out.CalculateBounds()
	return out
}
