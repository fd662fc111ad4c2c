package render

import (
	"math"

	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/scene"
)

// DrawPoint writes c at (x, y) with depth z. Points outside
// [0,width) x [0,height) are dropped; this is the only clipping the device
// performs.
func (d *Device) DrawPoint(x, y, z float32, c scene.Color) {
	var t tally
	d.drawPoint(x, y, z, c, &t)
	d.stats.add(t)
}

func (d *Device) drawPoint(x, y, z float32, c scene.Color, t *tally) {
	if !d.inBounds(x, y) {
		return
	}
	t.record(d.putPixel(int(x), int(y), z, c))
}

// segment is a pending piece of a midpoint-subdivided line.
type segment struct {
	a, b math3d.Vec3
}

// DrawLine draws the line between two screen-space points by plotting the
// midpoint and subdividing until pieces are shorter than 2 pixels. Depth is
// interpolated along with position. Endpoints themselves are not plotted.
func (d *Device) DrawLine(p1, p2 math3d.Vec3, c scene.Color) {
	var t tally
	d.drawLine(p1, p2, c, &t)
	d.stats.add(t)
}

func (d *Device) drawLine(p1, p2 math3d.Vec3, c scene.Color, t *tally) {
	if !finite(p1) || !finite(p2) {
		return
	}

	stack := []segment{{p1, p2}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if s.a.Distance(s.b) < 2 || d.offscreenSameSide(s.a, s.b) {
			continue
		}

		mid := s.a.Add(s.b.Sub(s.a).Scale(0.5))
		d.drawPoint(float32(mid.X), float32(mid.Y), float32(mid.Z), c, t)

		// Right half pushed first so the left half is drawn first
		stack = append(stack, segment{mid, s.b}, segment{s.a, mid})
	}
}

// maxBresenhamSpan bounds the steps of one Bresenham line. Longer lines come
// from vertices projected from behind the camera.
const maxBresenhamSpan = 1 << 16

// DrawBresenhamLine draws the integer Bresenham line between two screen-space
// points, endpoints included. Every pixel uses p1's depth.
func (d *Device) DrawBresenhamLine(p1, p2 math3d.Vec3, c scene.Color) {
	var t tally
	d.drawBresenhamLine(p1, p2, c, &t)
	d.stats.add(t)
}

func (d *Device) drawBresenhamLine(p1, p2 math3d.Vec3, c scene.Color, t *tally) {
	if !finite(p1) || !finite(p2) || d.offscreenSameSide(p1, p2) {
		return
	}
	if math.Max(math.Abs(p1.X-p2.X), math.Abs(p1.Y-p2.Y)) > maxBresenhamSpan {
		return
	}

	x1, y1 := int(p1.X), int(p1.Y)
	x2, y2 := int(p2.X), int(p2.Y)
	z := float32(p1.Z)

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx := 1
	if x1 >= x2 {
		sx = -1
	}
	sy := 1
	if y1 >= y2 {
		sy = -1
	}
	err := dx - dy

	for {
		d.drawPoint(float32(x1), float32(y1), z, c, t)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// offscreenSameSide reports whether both points lie beyond the same viewport
// edge. No point between them can then be visible.
func (d *Device) offscreenSameSide(a, b math3d.Vec3) bool {
	w, h := float64(d.width), float64(d.height)
	return (a.X < 0 && b.X < 0) || (a.Y < 0 && b.Y < 0) ||
		(a.X >= w && b.X >= w) || (a.Y >= h && b.Y >= h)
}

func finite(v math3d.Vec3) bool {
	for _, f := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
