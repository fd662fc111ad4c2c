package scene

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/softengine/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into a Mesh.
type GLTFLoader struct {
	// Color assigned to the loaded mesh
	Color Color

	// Options
	CalculateNormals bool
	SmoothNormals    bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		Color:            White,
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// LoadGLTF loads a .gltf or .glb file with the default loader.
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh. All triangle primitives
// of all meshes in the document are merged into one Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path), l.Color)
	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	if l.CalculateNormals && !mesh.hasNormals() {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}

	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("load gltf: %w", err)
	}
	mesh.CalculateBounds()

	return mesh, nil
}

// processMesh appends the triangle primitives of m to mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			// Lines, points, strips and fans are not rasterized
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		acr, err := accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}
		positions, err := modeler.ReadPosition(doc, acr, nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			acr, err := accessor(doc, normIdx)
			if err == nil {
				normals, err = modeler.ReadNormal(doc, acr, nil)
			}
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		baseVertex := len(mesh.Vertices)

		// GLTF is right-handed; mirror Z into the left-handed world
		for i, p := range positions {
			var n math3d.Vec3
			if i < len(normals) {
				n = math3d.V3(float64(normals[i][0]), float64(normals[i][1]), -float64(normals[i][2]))
			}
			mesh.AddVertex(math3d.V3(float64(p[0]), float64(p[1]), -float64(p[2])), n)
		}

		var indices []uint32
		if prim.Indices != nil {
			acr, err := accessor(doc, *prim.Indices)
			if err == nil {
				indices, err = modeler.ReadIndices(doc, acr, nil)
			}
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		// Mirroring flips handedness, so swap the last two indices to keep winding
		for i := 0; i+2 < len(indices); i += 3 {
			mesh.AddFace(baseVertex+int(indices[i]), baseVertex+int(indices[i+2]), baseVertex+int(indices[i+1]))
		}
	}

	return nil
}

// accessor looks up an accessor by index. The modeler readers cover strides,
// interleaving and sparse overrides once the accessor is resolved.
func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return doc.Accessors[idx], nil
}
