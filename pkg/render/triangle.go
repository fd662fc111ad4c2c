package render

import (
	"github.com/chewxy/math32"

	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/scene"
)

// ScanLine carries one row of a triangle fill: the row index and the light
// intensities at the ends of the two edges bounding it. LightA..LightB belong
// to the left edge, LightC..LightD to the right edge.
type ScanLine struct {
	CurrentY int
	LightA   float32
	LightB   float32
	LightC   float32
	LightD   float32
}

// screenPoint is a projected vertex in the float32 raster stage.
type screenPoint struct {
	x, y, z float32
}

func toScreen(v scene.Vertex) screenPoint {
	p := v.ScreenCoordinates
	return screenPoint{float32(p.X), float32(p.Y), float32(p.Z)}
}

func (p screenPoint) finite() bool {
	return !math32.IsNaN(p.x) && !math32.IsNaN(p.y) && !math32.IsNaN(p.z) &&
		!math32.IsInf(p.x, 0) && !math32.IsInf(p.y, 0) && !math32.IsInf(p.z, 0)
}

// DrawTriangle fills the triangle between three projected vertices with c
// scaled by the diffuse intensity of a point light at light. Rows are filled
// top to bottom between the two edges that bound each row.
func (d *Device) DrawTriangle(v1, v2, v3 scene.Vertex, light math3d.Vec3, c scene.Color) {
	var t tally
	d.drawTriangle(v1, v2, v3, light, c, &t)
	d.stats.faces.Add(1)
	d.stats.add(t)
}

func (d *Device) drawTriangle(v1, v2, v3 scene.Vertex, light math3d.Vec3, c scene.Color, t *tally) {
	// Sort so that v1 is the topmost and v3 the bottommost vertex
	if v1.ScreenCoordinates.Y > v2.ScreenCoordinates.Y {
		v1, v2 = v2, v1
	}
	if v2.ScreenCoordinates.Y > v3.ScreenCoordinates.Y {
		v2, v3 = v3, v2
	}
	if v1.ScreenCoordinates.Y > v2.ScreenCoordinates.Y {
		v1, v2 = v2, v1
	}

	p1, p2, p3 := toScreen(v1), toScreen(v2), toScreen(v3)
	if !p1.finite() || !p2.finite() || !p3.finite() {
		return
	}

	var l1, l2, l3 float32
	switch d.Shading {
	case ShadingFlat:
		normal := v1.Normal.Add(v2.Normal).Add(v3.Normal).Div(3)
		center := v1.WorldCoordinates.Add(v2.WorldCoordinates).Add(v3.WorldCoordinates).Div(3)
		l := normalDotLight(center, normal, light)
		l1, l2, l3 = l, l, l
	default:
		l1 = normalDotLight(v1.WorldCoordinates, v1.Normal, light)
		l2 = normalDotLight(v2.WorldCoordinates, v2.Normal, light)
		l3 = normalDotLight(v3.WorldCoordinates, v3.Normal, light)
	}

	// Inverse slopes of the edges leaving the top vertex
	var slope12, slope13 float32
	if p2.y-p1.y > 0 {
		slope12 = (p2.x - p1.x) / (p2.y - p1.y)
	}
	if p3.y-p1.y > 0 {
		slope13 = (p3.x - p1.x) / (p3.y - p1.y)
	}

	// p2 lies right of the long edge p1-p3. A flat top has no slope12, so
	// the x order of its two top vertices decides.
	right := slope12 > slope13
	if p2.y == p1.y {
		right = p2.x > p1.x
	}

	// A flat bottom has no lower half; its last row belongs to the upper edges
	flatBottom := p3.y == p2.y

	// Rows outside the buffer would be dropped by DrawPoint
	h := float32(d.height)
	yStart := max(int(math32.Round(clamp(p1.y, -1, h))), 0)
	yEnd := min(int(math32.Round(clamp(p3.y, -1, h))), d.height-1)

	for y := yStart; y <= yEnd; y++ {
		upper := float32(y) < p2.y || flatBottom
		switch {
		case right && upper:
			line := ScanLine{CurrentY: y, LightA: l1, LightB: l3, LightC: l1, LightD: l2}
			d.processScanLine(line, p1, p3, p1, p2, c, t)
		case right:
			line := ScanLine{CurrentY: y, LightA: l1, LightB: l3, LightC: l2, LightD: l3}
			d.processScanLine(line, p1, p3, p2, p3, c, t)
		case upper:
			line := ScanLine{CurrentY: y, LightA: l1, LightB: l2, LightC: l1, LightD: l3}
			d.processScanLine(line, p1, p2, p1, p3, c, t)
		default:
			line := ScanLine{CurrentY: y, LightA: l2, LightB: l3, LightC: l1, LightD: l3}
			d.processScanLine(line, p2, p3, p1, p3, c, t)
		}
	}
}

// processScanLine fills row line.CurrentY from the left edge pa-pb to the
// right edge pc-pd, interpolating depth and light along the row. The span
// covers [startX, endX) with both ends truncated towards zero.
func (d *Device) processScanLine(line ScanLine, pa, pb, pc, pd screenPoint, c scene.Color, t *tally) {
	y := float32(line.CurrentY)

	// Horizontal edges have no slope to follow; take their far end
	gradient1 := float32(1)
	if pa.y != pb.y {
		gradient1 = (y - pa.y) / (pb.y - pa.y)
	}
	gradient2 := float32(1)
	if pc.y != pd.y {
		gradient2 = (y - pc.y) / (pd.y - pc.y)
	}

	startX := math32.Trunc(interpolate(pa.x, pb.x, gradient1))
	endX := math32.Trunc(interpolate(pc.x, pd.x, gradient2))
	startZ := interpolate(pa.z, pb.z, gradient1)
	endZ := interpolate(pc.z, pd.z, gradient2)
	startLight := interpolate(line.LightA, line.LightB, gradient1)
	endLight := interpolate(line.LightC, line.LightD, gradient2)

	// Pixels left of 0 or right of width would be dropped by DrawPoint
	first := max(startX, 0)
	last := min(endX, float32(d.width))
	if first >= last {
		return
	}

	span := endX - startX
	for x := int(first); float32(x) < last; x++ {
		gradientZ := (float32(x) - startX) / span
		z := interpolate(startZ, endZ, gradientZ)
		light := interpolate(startLight, endLight, gradientZ)
		d.drawPoint(float32(x), y, z, c.Scale(light), t)
	}
}

// normalDotLight is the diffuse intensity at a surface point: the cosine
// between its normal and the direction to the light, floored at 0.
func normalDotLight(point, normal, light math3d.Vec3) float32 {
	return float32(max(0, normal.Normalize().Dot(light.Sub(point).Normalize())))
}

// interpolate blends from start to end by gradient clamped to [0, 1].
func interpolate(start, end, gradient float32) float32 {
	return start + (end-start)*clamp01(gradient)
}

func clamp01(v float32) float32 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float32) float32 {
	return max(lo, min(v, hi))
}
