package render

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/scene"
	"github.com/taigrr/softengine/pkg/transform"
)

// facesPerTask groups faces so each rasterization task does enough work to
// outweigh its scheduling.
const facesPerTask = 32

// ErrNilMesh is returned when a nil mesh is passed to Render.
var ErrNilMesh = errors.New("nil mesh")

// Render projects and fills every face of every mesh, lit by a point light.
// View and projection are built once; each mesh contributes its own world
// matrix. Faces are rasterized concurrently in no particular order, so
// overlapping surfaces are resolved only by the depth test. Render returns
// after every face has been drawn.
//
// All meshes are validated before anything is drawn: a mesh with an
// out-of-range face index or an invalid projection fails the whole call.
func (d *Device) Render(camera scene.Camera, light math3d.Vec3, proj transform.Projection, meshes ...*scene.Mesh) error {
	viewProj, err := d.prepare(camera, proj, meshes)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	d.debug("render frame",
		"meshes", len(meshes),
		"shading", d.Shading,
		"fov", proj.FovY,
		"aspect", proj.Aspect,
		"workers", d.workers(),
	)

	return d.rasterize(viewProj, meshes, func(m *scene.Mesh, a, b, c scene.Vertex, t *tally) {
		d.drawTriangle(a, b, c, light, m.Color, t)
	})
}

// LineMode selects the line algorithm used by RenderWireframe.
type LineMode int

const (
	// LineMidpoint subdivides each edge recursively (DrawLine).
	LineMidpoint LineMode = iota
	// LineBresenham steps each edge on the integer grid (DrawBresenhamLine).
	LineBresenham
)

// RenderWireframe projects every face and draws its three edges in the mesh
// color. Lighting is not applied.
func (d *Device) RenderWireframe(camera scene.Camera, proj transform.Projection, mode LineMode, meshes ...*scene.Mesh) error {
	viewProj, err := d.prepare(camera, proj, meshes)
	if err != nil {
		return fmt.Errorf("render wireframe: %w", err)
	}

	drawEdge := d.drawLine
	if mode == LineBresenham {
		drawEdge = d.drawBresenhamLine
	}

	return d.rasterize(viewProj, meshes, func(m *scene.Mesh, a, b, c scene.Vertex, t *tally) {
		pa, pb, pc := a.ScreenCoordinates, b.ScreenCoordinates, c.ScreenCoordinates
		drawEdge(pa, pb, m.Color, t)
		drawEdge(pb, pc, m.Color, t)
		drawEdge(pc, pa, m.Color, t)
	})
}

// prepare validates the frame inputs and returns projection * view.
func (d *Device) prepare(camera scene.Camera, proj transform.Projection, meshes []*scene.Mesh) (math3d.Mat4, error) {
	projection, err := proj.Matrix(d.builder)
	if err != nil {
		return math3d.Mat4{}, fmt.Errorf("build projection: %w", err)
	}
	for i, mesh := range meshes {
		if mesh == nil {
			return math3d.Mat4{}, fmt.Errorf("mesh %d: %w", i, ErrNilMesh)
		}
		if err := mesh.Validate(); err != nil {
			d.debug("rejecting mesh", "mesh", mesh.Name, "err", err)
			return math3d.Mat4{}, err
		}
	}
	return projection.Mul(d.builder.BuildViewMatrix(camera)), nil
}

// faceFunc draws one projected face of m.
type faceFunc func(m *scene.Mesh, a, b, c scene.Vertex, t *tally)

// rasterize projects every face and hands it to draw on a bounded pool of
// goroutines, then waits for all of them.
func (d *Device) rasterize(viewProj math3d.Mat4, meshes []*scene.Mesh, draw faceFunc) error {
	var g errgroup.Group
	g.SetLimit(d.workers())

	for _, mesh := range meshes {
		world := d.builder.BuildWorldMatrix(mesh)
		wvp := viewProj.Mul(world)

		for start := 0; start < len(mesh.Faces); start += facesPerTask {
			faces := mesh.Faces[start:min(start+facesPerTask, len(mesh.Faces))]
			g.Go(func() error {
				var t tally
				for _, f := range faces {
					a := d.Project(mesh.Vertices[f.A], wvp, world)
					b := d.Project(mesh.Vertices[f.B], wvp, world)
					c := d.Project(mesh.Vertices[f.C], wvp, world)
					draw(mesh, a, b, c, &t)
				}
				d.stats.faces.Add(int64(len(faces)))
				d.stats.add(t)
				return nil
			})
		}
	}

	return g.Wait()
}
