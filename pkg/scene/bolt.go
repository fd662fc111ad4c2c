package scene

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/deadsy/sdfx/obj"
	sdfxrender "github.com/deadsy/sdfx/render"
)

// BoltCells is the marching cubes resolution along the bolt's longest axis.
const BoltCells = 80

// NewBolt builds a hex-head NPT bolt from a signed distance function, meshes it
// with marching cubes and returns it normalized to a 2-unit extent, standing
// along +Y.
func NewBolt(name string, color Color) (*Mesh, error) {
	bolt, err := obj.Bolt(&obj.BoltParms{
		Thread:      "npt_1/2",
		Style:       "hex",
		Tolerance:   0.1,
		TotalLength: 20,
		ShankLength: 10,
	})
	if err != nil {
		return nil, fmt.Errorf("build bolt sdf: %w", err)
	}

	dir, err := os.MkdirTemp("", "softengine-bolt")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	stl := filepath.Join(dir, "bolt.stl")
	sdfxrender.ToSTL(bolt, BoltCells, stl, &sdfxrender.MarchingCubesOctree{})

	loader := &FauxLoader{
		Color:         color,
		SmoothNormals: true,
		Axes:          zUpToYUp,
	}
	mesh, err := loader.Load(stl)
	if err != nil {
		return nil, fmt.Errorf("load bolt: %w", err)
	}
	mesh.Name = name
	mesh.Normalize()

	return mesh, nil
}
