package render

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/scene"
	"github.com/taigrr/softengine/pkg/transform"
)

const frameSize = 64

func testCamera() scene.Camera {
	return scene.NewCamera(math3d.V3(0, 0, 10), math3d.Zero3())
}

// coveredBounds returns the bounding box of drawn pixels.
func coveredBounds(d *Device) (minX, minY, maxX, maxY int, ok bool) {
	minX, minY = d.Width(), d.Height()
	maxX, maxY = -1, -1
	for y := range d.Height() {
		for x := range d.Width() {
			if !covered(d, x, y) {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	return minX, minY, maxX, maxY, maxX >= 0
}

func TestRenderCube(t *testing.T) {
	d := newTestDevice(t, frameSize, frameSize)
	d.Clear(9, 9, 9, 255)
	cube := scene.NewCube("cube", 2, scene.White)

	// A light at the cube's center sits behind every face
	if err := d.Render(testCamera(), math3d.Zero3(), transform.DefaultProjection(frameSize, frameSize), cube); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	minX, minY, maxX, maxY, ok := coveredBounds(d)
	if !ok {
		t.Fatal("cube drew nothing")
	}
	cx, cy := float64(minX+maxX)/2, float64(minY+maxY)/2
	if math.Abs(cx-frameSize/2) > 2 || math.Abs(cy-frameSize/2) > 2 {
		t.Errorf("cube centered at (%.1f, %.1f), want near (32, 32)", cx, cy)
	}
	if w := maxX - minX + 1; w < 30 || w > 38 {
		t.Errorf("cube spans %d columns, want about 35", w)
	}
	if h := maxY - minY + 1; h < 30 || h > 38 {
		t.Errorf("cube spans %d rows, want about 35", h)
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if !covered(d, x, y) {
				continue
			}
			if r, g, b, a := d.Pixel(x, y); r != 0 || g != 0 || b != 0 || a != 255 {
				t.Fatalf("unlit pixel (%d,%d) = %d,%d,%d,%d, want 0,0,0,255", x, y, r, g, b, a)
			}
		}
	}

	if s := d.Stats(); s.Faces != 12 || s.PixelsWritten == 0 {
		t.Errorf("stats = %+v, want 12 faces and some pixels", s)
	}
}

func TestRenderCubeLit(t *testing.T) {
	d := newTestDevice(t, frameSize, frameSize)
	cam := testCamera()
	color := scene.RGBA(1, 0.5, 0.25, 1)

	if err := d.Render(cam, cam.Position, transform.DefaultProjection(frameSize, frameSize), scene.NewCube("cube", 2, color)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	r, g, b, _ := d.Pixel(32, 32)
	if r == 0 {
		t.Fatal("center pixel is unlit with the light at the camera")
	}
	if r < g || g < b {
		t.Errorf("center pixel %d,%d,%d does not keep the base color's channel order", r, g, b)
	}
	for y := range frameSize {
		for x := range frameSize {
			pr, pg, pb, _ := d.Pixel(x, y)
			if covered(d, x, y) && (pg > 127 || pb > 63) {
				t.Fatalf("pixel (%d,%d) = %d,%d,%d brighter than the base color", x, y, pr, pg, pb)
			}
		}
	}
}

func TestRenderErrors(t *testing.T) {
	bad := scene.NewMesh("bad", scene.White)
	bad.AddVertex(math3d.V3(0, 0, 0), math3d.V3(0, 0, -1))
	bad.AddVertex(math3d.V3(1, 0, 0), math3d.V3(0, 0, -1))
	bad.AddVertex(math3d.V3(0, 1, 0), math3d.V3(0, 0, -1))
	bad.AddFace(0, 1, 5)

	cube := scene.NewCube("cube", 2, scene.White)
	proj := transform.DefaultProjection(frameSize, frameSize)

	tests := []struct {
		name   string
		proj   transform.Projection
		meshes []*scene.Mesh
		want   error
	}{
		{"bad face index", proj, []*scene.Mesh{cube, bad}, scene.ErrFaceIndex},
		{"nil mesh", proj, []*scene.Mesh{cube, nil}, ErrNilMesh},
		{"zero fov", transform.Projection{FovY: 0, Aspect: 1, Near: 0.1, Far: 100}, []*scene.Mesh{cube}, transform.ErrInvalidProjection},
		{"near past far", transform.Projection{FovY: 0.78, Aspect: 1, Near: 10, Far: 1}, []*scene.Mesh{cube}, transform.ErrInvalidProjection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDevice(t, frameSize, frameSize)
			err := d.Render(testCamera(), testCamera().Position, tt.proj, tt.meshes...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Render error = %v, want %v", err, tt.want)
			}
			if n := coveredCount(d); n != 0 {
				t.Errorf("failed Render drew %d pixels, want 0", n)
			}
			if s := d.Stats(); s.Faces != 0 {
				t.Errorf("failed Render counted %d faces", s.Faces)
			}
		})
	}
}

func TestRenderNoMeshes(t *testing.T) {
	d := newTestDevice(t, 8, 8)
	if err := d.Render(testCamera(), math3d.Zero3(), transform.DefaultProjection(8, 8)); err != nil {
		t.Fatalf("Render with no meshes failed: %v", err)
	}
	if n := coveredCount(d); n != 0 {
		t.Errorf("empty Render drew %d pixels", n)
	}
}

func TestRenderDepthIndependentOfWorkers(t *testing.T) {
	scene1 := func() []*scene.Mesh {
		a := scene.NewCube("a", 2, scene.RGBA(1, 0, 0, 1))
		a.Rotation = math3d.V3(0.5, 0.3, 0.1)
		b := scene.NewCube("b", 1.5, scene.RGBA(0, 1, 0, 1))
		b.Position = math3d.V3(0.6, 0.2, 0.4)
		b.Rotation = math3d.V3(-0.2, 0.9, 0)
		return []*scene.Mesh{a, b}
	}
	cam := scene.NewCamera(math3d.V3(1, 2, 8), math3d.Zero3())
	proj := transform.DefaultProjection(frameSize, frameSize)

	serial := newTestDevice(t, frameSize, frameSize)
	serial.Workers = 1
	parallel := newTestDevice(t, frameSize, frameSize)
	parallel.Workers = 8

	for _, d := range []*Device{serial, parallel} {
		if err := d.Render(cam, cam.Position, proj, scene1()...); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
	}

	for y := range frameSize {
		for x := range frameSize {
			if a, b := serial.Depth(x, y), parallel.Depth(x, y); a != b {
				t.Fatalf("depth at (%d,%d): %v with 1 worker, %v with 8", x, y, a, b)
			}
		}
	}
	if a, b := serial.Stats().Faces, parallel.Stats().Faces; a != 24 || b != 24 {
		t.Errorf("faces = %d and %d, want 24", a, b)
	}
}

func TestRenderManyFacesBatches(t *testing.T) {
	mesh := scene.NewMesh("strip", scene.White)
	const quads = 50
	for i := range quads + 1 {
		x := -2 + 4*float64(i)/quads
		mesh.AddVertex(math3d.V3(x, -1, 0), math3d.V3(0, 0, 1))
		mesh.AddVertex(math3d.V3(x, 1, 0), math3d.V3(0, 0, 1))
	}
	for i := range quads {
		a := 2 * i
		mesh.AddFace(a, a+1, a+3)
		mesh.AddFace(a, a+3, a+2)
	}

	d := newTestDevice(t, frameSize, frameSize)
	if err := d.Render(testCamera(), testCamera().Position, transform.DefaultProjection(frameSize, frameSize), mesh); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := d.Stats().Faces; got != 2*quads {
		t.Errorf("faces = %d, want %d", got, 2*quads)
	}
	if !covered(d, 32, 32) {
		t.Error("strip should cover the center pixel")
	}
}

func TestRenderWireframe(t *testing.T) {
	for _, mode := range []LineMode{LineMidpoint, LineBresenham} {
		d := newTestDevice(t, frameSize, frameSize)
		cube := scene.NewCube("cube", 2, scene.RGBA(0, 1, 0, 1))
		if err := d.RenderWireframe(testCamera(), transform.DefaultProjection(frameSize, frameSize), mode, cube); err != nil {
			t.Fatalf("RenderWireframe(%d) failed: %v", mode, err)
		}

		minX, minY, maxX, maxY, ok := coveredBounds(d)
		if !ok {
			t.Fatalf("mode %d drew nothing", mode)
		}
		if minX < 12 || maxX > 51 || minY < 12 || maxY > 51 {
			t.Errorf("mode %d drew outside the cube: %d,%d..%d,%d", mode, minX, minY, maxX, maxY)
		}
		// Off every edge and face diagonal of the front face
		if covered(d, 40, 28) {
			t.Errorf("mode %d filled the cube interior", mode)
		}
		// Outlined faces count like filled ones
		if s := d.Stats(); s.Faces != 12 {
			t.Errorf("mode %d counted %d faces, want 12", mode, s.Faces)
		}
	}
}

func TestRenderWireframeRejectsBadMesh(t *testing.T) {
	d := newTestDevice(t, 8, 8)
	err := d.RenderWireframe(testCamera(), transform.DefaultProjection(8, 8), LineMidpoint, nil)
	if !errors.Is(err, ErrNilMesh) {
		t.Errorf("error = %v, want ErrNilMesh", err)
	}
}

func TestGuides(t *testing.T) {
	d := newTestDevice(t, frameSize, frameSize)
	g, err := d.NewGuides(testCamera(), transform.DefaultProjection(frameSize, frameSize))
	if err != nil {
		t.Fatalf("NewGuides failed: %v", err)
	}
	g.DrawAxes(1)

	// Looking down -Z, world +X points to screen left
	if r, gr, b, _ := d.Pixel(24, 32); r != 255 || gr != 0 || b != 0 {
		t.Errorf("x axis pixel = %d,%d,%d, want red", r, gr, b)
	}
	if r, gr, b, _ := d.Pixel(32, 24); r != 0 || gr != 255 || b != 0 {
		t.Errorf("y axis pixel = %d,%d,%d, want green", r, gr, b)
	}
	if covered(d, 40, 32) {
		t.Error("x axis drawn on the wrong side")
	}
}

func TestGuidesSkipLinesBehindCamera(t *testing.T) {
	d := newTestDevice(t, frameSize, frameSize)
	g, err := d.NewGuides(testCamera(), transform.DefaultProjection(frameSize, frameSize))
	if err != nil {
		t.Fatalf("NewGuides failed: %v", err)
	}
	g.DrawLine3D(math3d.V3(0, 0, 20), math3d.V3(0, 0, -20), scene.White)
	g.DrawGrid(0, 4, 0, scene.White)
	if n := coveredCount(d); n != 0 {
		t.Errorf("drew %d pixels, want 0", n)
	}

	g.DrawGrid(-1, 4, 1, scene.White)
	if coveredCount(d) == 0 {
		t.Error("grid in front of the camera drew nothing")
	}
}

func TestNewGuidesInvalidProjection(t *testing.T) {
	d := newTestDevice(t, 8, 8)
	_, err := d.NewGuides(testCamera(), transform.Projection{})
	if !errors.Is(err, transform.ErrInvalidProjection) {
		t.Errorf("error = %v, want ErrInvalidProjection", err)
	}
}
