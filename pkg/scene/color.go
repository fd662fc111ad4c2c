package scene

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a linear RGBA color with channels in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Common colors.
var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
)

// RGBA creates a color from channel values.
func RGBA(r, g, b, a float32) Color {
	return Color{r, g, b, a}
}

// Gray creates an opaque gray of intensity v.
func Gray(v float32) Color {
	return Color{v, v, v, 1}
}

// Scale multiplies the RGB channels by s. Alpha is left unchanged.
func (c Color) Scale(s float32) Color {
	return Color{c.R * s, c.G * s, c.B * s, c.A}
}

// Bytes converts the color to 8-bit channels by truncation after
// clamping to [0, 1].
func (c Color) Bytes() (r, g, b, a byte) {
	return toByte(c.R), toByte(c.G), toByte(c.B), toByte(c.A)
}

// NRGBA converts the color to the standard library's 8-bit color.
func (c Color) NRGBA() color.NRGBA {
	r, g, b, a := c.Bytes()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

func toByte(v float32) byte {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return byte(v * 255)
	}
}

// ParseColor parses a color given as "#rgb", "#rrggbb", "#rrggbbaa" or as
// comma-separated floats "r,g,b" / "r,g,b,a" in [0, 1].
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("parse color %q: want 3 or 4 components", s)
	}
	ch := [4]float32{0, 0, 0, 1}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		if f < 0 || f > 1 {
			return Color{}, fmt.Errorf("parse color %q: component %d out of [0,1]", s, i)
		}
		ch[i] = float32(f)
	}
	return Color{ch[0], ch[1], ch[2], ch[3]}, nil
}

// parseHex reads the RGB part with colorful. colorful has no alpha, so a
// trailing "aa" pair is split off first.
func parseHex(s string) (Color, error) {
	alpha := float32(1)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		alpha = float32(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color: %w", err)
	}
	return Color{float32(c.R), float32(c.G), float32(c.B), alpha}, nil
}
