// Package render implements the software rasterizer: a device owning a BGRA
// back buffer and depth buffer that projects, shades and scan-converts
// triangle meshes, plus presenters that hand finished frames to a host.
package render

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/chewxy/math32"

	"github.com/taigrr/softengine/pkg/scene"
	"github.com/taigrr/softengine/pkg/transform"
)

// bytesPerPixel is the size of one B,G,R,A quartet in the back buffer.
const bytesPerPixel = 4

// ErrInvalidSize is returned by NewDevice for non-positive dimensions.
var ErrInvalidSize = errors.New("invalid device size")

// Shading selects how light intensity is spread across a triangle.
type Shading int

const (
	// ShadingGouraud lights each vertex and interpolates across the face.
	ShadingGouraud Shading = iota
	// ShadingFlat lights the face once from its averaged normal and centroid.
	ShadingFlat
)

func (s Shading) String() string {
	switch s {
	case ShadingGouraud:
		return "gouraud"
	case ShadingFlat:
		return "flat"
	default:
		return fmt.Sprintf("Shading(%d)", int(s))
	}
}

// Device is a fixed-size render target. One frame is Clear, then any number
// of Render/Draw calls, then Present. Draw calls may run concurrently; every
// pixel write is serialized by that pixel's lock and resolved by depth.
type Device struct {
	Shading Shading     // Lighting mode used by DrawTriangle
	Workers int         // Max concurrent rasterization tasks; <= 0 means GOMAXPROCS
	Logger  *log.Logger // Optional; nil disables logging

	width, height int
	builder       transform.Builder

	backBuffer  []byte       // BGRA, top-left origin, row-major
	depthBuffer []float32    // Nearest depth seen per pixel this frame
	locks       []sync.Mutex // One per pixel

	stats counters
}

// NewDevice allocates a width x height device. A nil builder selects the
// left-handed convention.
func NewDevice(width, height int, builder transform.Builder) (*Device, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("new device %dx%d: %w", width, height, ErrInvalidSize)
	}
	if builder == nil {
		builder = transform.LeftHanded{}
	}

	n := width * height
	d := &Device{
		width:       width,
		height:      height,
		builder:     builder,
		backBuffer:  make([]byte, n*bytesPerPixel),
		depthBuffer: make([]float32, n),
		locks:       make([]sync.Mutex, n),
	}
	d.Clear(0, 0, 0, 255)
	return d, nil
}

// Width returns the device width in pixels.
func (d *Device) Width() int {
	return d.width
}

// Height returns the device height in pixels.
func (d *Device) Height() int {
	return d.height
}

// BackBuffer returns the live BGRA buffer. It is only stable between frames.
func (d *Device) BackBuffer() []byte {
	return d.backBuffer
}

// Depth returns the stored depth at (x, y), or +Inf outside the buffer.
func (d *Device) Depth(x, y int) float32 {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return math32.Inf(1)
	}
	i := y*d.width + x
	d.locks[i].Lock()
	defer d.locks[i].Unlock()
	return d.depthBuffer[i]
}

// Pixel returns the stored color bytes at (x, y) in R,G,B,A order.
func (d *Device) Pixel(x, y int) (r, g, b, a byte) {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return 0, 0, 0, 0
	}
	i := y*d.width + x
	d.locks[i].Lock()
	defer d.locks[i].Unlock()
	o := i * bytesPerPixel
	return d.backBuffer[o+2], d.backBuffer[o+1], d.backBuffer[o], d.backBuffer[o+3]
}

// Clear fills every pixel with the given color, resets every depth to +Inf
// and zeroes the frame statistics. It must not overlap a Render call.
func (d *Device) Clear(r, g, b, a byte) {
	// Seed one pixel, then double the filled prefix.
	copy(d.backBuffer, []byte{b, g, r, a})
	for i := bytesPerPixel; i < len(d.backBuffer); i *= 2 {
		copy(d.backBuffer[i:], d.backBuffer[:i])
	}

	d.depthBuffer[0] = math32.Inf(1)
	for i := 1; i < len(d.depthBuffer); i *= 2 {
		copy(d.depthBuffer[i:], d.depthBuffer[:i])
	}

	d.stats.reset()
}

// PutPixel writes c at (x, y) unless a nearer depth is already stored.
// x and y must lie inside the buffer; use DrawPoint for clipped writes.
func (d *Device) PutPixel(x, y int, z float32, c scene.Color) {
	if d.putPixel(x, y, z, c) {
		d.stats.written.Add(1)
	} else {
		d.stats.rejected.Add(1)
	}
}

// putPixel is the depth test and write. It reports whether c was stored.
func (d *Device) putPixel(x, y int, z float32, c scene.Color) bool {
	i := x + y*d.width
	r, g, b, a := c.Bytes()

	d.locks[i].Lock()
	defer d.locks[i].Unlock()

	if d.depthBuffer[i] < z {
		return false
	}
	d.depthBuffer[i] = z

	o := i * bytesPerPixel
	d.backBuffer[o] = b
	d.backBuffer[o+1] = g
	d.backBuffer[o+2] = r
	d.backBuffer[o+3] = a
	return true
}

// inBounds reports whether a screen point lies in [0,width) x [0,height).
func (d *Device) inBounds(x, y float32) bool {
	return x >= 0 && y >= 0 && x < float32(d.width) && y < float32(d.height)
}

func (d *Device) workers() int {
	if d.Workers > 0 {
		return d.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (d *Device) debug(msg string, keyvals ...any) {
	if d.Logger != nil {
		d.Logger.Debug(msg, keyvals...)
	}
}
