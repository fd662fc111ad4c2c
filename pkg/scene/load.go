package scene

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// Builtin mesh names accepted by Load in place of a path.
const (
	BuiltinCube = "cube"
	BuiltinBolt = "bolt"
)

// Load resolves a builtin mesh name or loads a mesh file, picking the importer
// by extension. Loaded files are normalized to a 2-unit extent around the
// origin so every model fits the default camera.
func Load(path string, color Color) (*Mesh, error) {
	switch path {
	case BuiltinCube:
		return NewCube("Cube", 2, color), nil
	case BuiltinBolt:
		return NewBolt("Bolt", color)
	}

	var (
		mesh *Mesh
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".gltf", ".glb":
		loader := NewGLTFLoader()
		loader.Color = color
		mesh, err = loader.Load(path)
	case ".babylon":
		var meshes []*Mesh
		meshes, err = LoadBabylon(path, color)
		if err == nil {
			mesh = Merge(filepath.Base(path), color, meshes...)
		}
	case ".obj", ".stl", ".ply", ".3ds":
		loader := NewFauxLoader()
		loader.Color = color
		mesh, err = loader.Load(path)
	default:
		return nil, fmt.Errorf("load %s: %w %q", path, ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	mesh.Normalize()
	return mesh, nil
}
