package main

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/render"
	"github.com/taigrr/softengine/pkg/scene"
	"github.com/taigrr/softengine/pkg/transform"
)

// viewer is one loaded mesh plus the device and view settings drawing it.
// It is shared by the terminal, window, snapshot and bench commands.
type viewer struct {
	device *render.Device
	mesh   *scene.Mesh
	camera scene.Camera
	light  math3d.Vec3
	proj   transform.Projection
	bg     [4]byte

	distance  float64
	wireframe bool
	lineMode  render.LineMode
	guides    bool
	logger    *log.Logger
}

// newViewer loads the model and creates a width x height device for it.
func (o *options) newViewer(model string, width, height int) (*viewer, error) {
	meshColor, err := scene.ParseColor(o.color)
	if err != nil {
		return nil, fmt.Errorf("parse --color: %w", err)
	}
	bgColor, err := scene.ParseColor(o.bg)
	if err != nil {
		return nil, fmt.Errorf("parse --bg: %w", err)
	}
	light, err := vec3Flag("light", o.light)
	if err != nil {
		return nil, err
	}

	mesh, err := scene.Load(model, meshColor)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	o.logger.Debug("loaded model",
		"name", mesh.Name,
		"vertices", mesh.VertexCount(),
		"faces", mesh.TriangleCount(),
	)

	r, g, b, a := bgColor.Bytes()
	v := &viewer{
		mesh:     mesh,
		light:    light,
		bg:       [4]byte{r, g, b, a},
		distance: o.distance,
		logger:   o.logger,
		proj: transform.Projection{
			FovY: o.fov,
			Near: o.near,
			Far:  o.far,
		},
	}
	v.resetCamera()
	if err := v.resize(width, height, o); err != nil {
		return nil, err
	}
	if err := v.proj.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// resize replaces the device with a width x height one, keeping its settings.
func (v *viewer) resize(width, height int, o *options) error {
	device, err := render.NewDevice(width, height, nil)
	if err != nil {
		return err
	}
	if v.device != nil {
		device.Shading = v.device.Shading
		device.Workers = v.device.Workers
		device.Logger = v.device.Logger
	} else {
		if o.flat {
			device.Shading = render.ShadingFlat
		}
		device.Workers = o.workers
		if o.debug {
			device.Logger = o.logger
		}
	}
	v.device = device
	v.proj.Aspect = float64(width) / float64(height)
	return nil
}

func (v *viewer) resetCamera() {
	v.camera = scene.NewCamera(math3d.V3(0, 0, v.distance), math3d.Zero3())
}

// zoom moves the camera delta units towards the model, staying between
// minDistance and maxDistance.
func (v *viewer) zoom(delta float64) {
	dist := v.camera.Distance()
	target := max(minDistance, min(maxDistance, dist-delta))
	v.camera.Zoom(dist-target, minDistance)
}

// toggleShading switches between Gouraud and flat shading.
func (v *viewer) toggleShading() {
	if v.device.Shading == render.ShadingFlat {
		v.device.Shading = render.ShadingGouraud
	} else {
		v.device.Shading = render.ShadingFlat
	}
}

func (v *viewer) toggleLineMode() {
	if v.lineMode == render.LineBresenham {
		v.lineMode = render.LineMidpoint
	} else {
		v.lineMode = render.LineBresenham
	}
}

// draw renders one complete frame into the device's back buffer.
func (v *viewer) draw() error {
	v.device.Clear(v.bg[0], v.bg[1], v.bg[2], v.bg[3])

	var err error
	if v.wireframe {
		err = v.device.RenderWireframe(v.camera, v.proj, v.lineMode, v.mesh)
	} else {
		err = v.device.Render(v.camera, v.light, v.proj, v.mesh)
	}
	if err != nil {
		return err
	}

	if v.guides {
		g, err := v.device.NewGuides(v.camera, v.proj)
		if err != nil {
			return err
		}
		g.DrawGrid(-1.5, 6, 0.5, scene.Gray(0.35))
		g.DrawAxes(1.5)
	}
	return nil
}

// vec3Flag converts a float slice flag into a vector.
func vec3Flag(name string, xyz []float64) (math3d.Vec3, error) {
	if len(xyz) != 3 {
		return math3d.Vec3{}, fmt.Errorf("--%s: want 3 values x,y,z, got %d", name, len(xyz))
	}
	return math3d.V3(xyz[0], xyz[1], xyz[2]), nil
}
