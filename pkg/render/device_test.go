package render

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"

	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/scene"
)

func newTestDevice(t *testing.T, width, height int) *Device {
	t.Helper()
	d, err := NewDevice(width, height, nil)
	if err != nil {
		t.Fatalf("NewDevice(%d, %d) failed: %v", width, height, err)
	}
	return d
}

// covered reports whether anything was drawn at (x, y) this frame.
func covered(d *Device, x, y int) bool {
	return !math32.IsInf(d.Depth(x, y), 1)
}

func coveredCount(d *Device) int {
	n := 0
	for y := range d.Height() {
		for x := range d.Width() {
			if covered(d, x, y) {
				n++
			}
		}
	}
	return n
}

func TestNewDeviceInvalidSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 10},
		{"zero height", 10, 0},
		{"negative", -1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDevice(tt.width, tt.height, nil)
			if !errors.Is(err, ErrInvalidSize) {
				t.Errorf("NewDevice(%d, %d) error = %v, want ErrInvalidSize", tt.width, tt.height, err)
			}
			if d != nil {
				t.Error("NewDevice returned a device on error")
			}
		})
	}
}

func TestNewDeviceStartsCleared(t *testing.T) {
	d := newTestDevice(t, 3, 2)
	if len(d.BackBuffer()) != 3*2*4 {
		t.Fatalf("back buffer len = %d, want 24", len(d.BackBuffer()))
	}
	if r, g, b, a := d.Pixel(2, 1); r != 0 || g != 0 || b != 0 || a != 255 {
		t.Errorf("initial pixel = %d,%d,%d,%d, want 0,0,0,255", r, g, b, a)
	}
	if covered(d, 0, 0) {
		t.Error("initial depth should be +Inf")
	}
}

func TestClear(t *testing.T) {
	d := newTestDevice(t, 5, 3)
	d.PutPixel(1, 1, 0.5, scene.White)
	d.Clear(10, 20, 30, 40)

	buf := d.BackBuffer()
	for i := 0; i < len(buf); i += 4 {
		if buf[i] != 30 || buf[i+1] != 20 || buf[i+2] != 10 || buf[i+3] != 40 {
			t.Fatalf("byte quartet %d = %v, want [30 20 10 40]", i/4, buf[i:i+4])
		}
	}
	for y := range 3 {
		for x := range 5 {
			if covered(d, x, y) {
				t.Errorf("depth at (%d,%d) = %v after Clear, want +Inf", x, y, d.Depth(x, y))
			}
		}
	}
	if s := d.Stats(); s != (FrameStats{}) {
		t.Errorf("stats after Clear = %+v, want zero", s)
	}
}

func TestPutPixelDepthTest(t *testing.T) {
	d := newTestDevice(t, 4, 4)
	red := scene.RGBA(1, 0, 0, 1)
	green := scene.RGBA(0, 1, 0, 1)
	blue := scene.RGBA(0, 0, 1, 1)

	d.PutPixel(2, 1, 0.5, red)
	d.PutPixel(2, 1, 0.7, green) // farther, rejected
	if r, g, _, _ := d.Pixel(2, 1); r != 255 || g != 0 {
		t.Errorf("farther write replaced nearer pixel: r=%d g=%d", r, g)
	}

	d.PutPixel(2, 1, 0.5, blue) // equal depth wins
	if r, _, b, _ := d.Pixel(2, 1); r != 0 || b != 255 {
		t.Errorf("equal-depth write did not replace pixel: r=%d b=%d", r, b)
	}

	d.PutPixel(2, 1, 0.2, green)
	if d.Depth(2, 1) != 0.2 {
		t.Errorf("depth = %v, want 0.2", d.Depth(2, 1))
	}

	want := FrameStats{PixelsWritten: 3, PixelsRejected: 1}
	if s := d.Stats(); s != want {
		t.Errorf("stats = %+v, want %+v", s, want)
	}
}

func TestPutPixelBGRALayout(t *testing.T) {
	d := newTestDevice(t, 2, 2)
	d.PutPixel(1, 1, 0, scene.RGBA(1, 0.5, 0.25, 1))

	o := (1*2 + 1) * 4
	got := d.BackBuffer()[o : o+4]
	want := []byte{63, 127, 255, 255}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stored bytes = %v, want %v", got, want)
		}
	}
}

func TestDrawPointClipping(t *testing.T) {
	const w, h = 8, 6
	tests := []struct {
		name   string
		x, y   float32
		drawn  bool
		px, py int
	}{
		{"origin", 0, 0, true, 0, 0},
		{"truncated", 3.9, 2.5, true, 3, 2},
		{"last pixel", w - 0.01, h - 0.01, true, w - 1, h - 1},
		{"negative x", -0.5, 1, false, 0, 0},
		{"negative y", 1, -0.5, false, 0, 0},
		{"x at width", w, 1, false, 0, 0},
		{"y at height", 1, h, false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDevice(t, w, h)
			d.DrawPoint(tt.x, tt.y, 0.5, scene.White)

			n := coveredCount(d)
			if !tt.drawn {
				if n != 0 {
					t.Errorf("DrawPoint(%v, %v) wrote %d pixels, want 0", tt.x, tt.y, n)
				}
				return
			}
			if n != 1 || !covered(d, tt.px, tt.py) {
				t.Errorf("DrawPoint(%v, %v) should write only (%d,%d), wrote %d pixels", tt.x, tt.y, tt.px, tt.py, n)
			}
		})
	}
}

func TestDeviceAccessorsOutOfRange(t *testing.T) {
	d := newTestDevice(t, 2, 2)
	if !math32.IsInf(d.Depth(-1, 0), 1) || !math32.IsInf(d.Depth(0, 2), 1) {
		t.Error("Depth outside the buffer should be +Inf")
	}
	if r, g, b, a := d.Pixel(2, 0); r|g|b|a != 0 {
		t.Errorf("Pixel outside the buffer = %d,%d,%d,%d, want zeros", r, g, b, a)
	}
}

func TestProject(t *testing.T) {
	d := newTestDevice(t, 2, 2)
	id := math3d.Identity()

	tests := []struct {
		name string
		in   math3d.Vec3
		want math3d.Vec3
	}{
		{"origin maps to center", math3d.V3(0, 0, 0), math3d.V3(1, 1, 0)},
		{"y grows down", math3d.V3(0.5, 0.5, 0.25), math3d.V3(2, 0, 0.25)},
		{"negative quadrant", math3d.V3(-0.5, -0.5, 1), math3d.V3(0, 2, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Project(scene.Vertex{Coordinates: tt.in}, id, id).ScreenCoordinates
			if got.Distance(tt.want) > 1e-12 {
				t.Errorf("Project(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestProjectTransformsNormalAsDirection(t *testing.T) {
	d := newTestDevice(t, 10, 10)
	world := math3d.Translate(math3d.V3(5, 0, 0))
	in := scene.Vertex{Coordinates: math3d.V3(1, 0, 0), Normal: math3d.V3(0, 0, -1)}

	out := d.Project(in, math3d.Identity(), world)

	if out.Normal != math3d.V3(0, 0, -1) {
		t.Errorf("normal = %v, want (0,0,-1) untouched by translation", out.Normal)
	}
	if out.WorldCoordinates != math3d.V3(6, 0, 0) {
		t.Errorf("world coordinates = %v, want (6,0,0)", out.WorldCoordinates)
	}
	if out.Coordinates != in.Coordinates || in.ScreenCoordinates != (math3d.Vec3{}) {
		t.Error("Project modified its input")
	}
}
