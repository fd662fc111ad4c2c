package render

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/nfnt/resize"
)

// TerminalPresenter draws frames on a terminal screen using half-block
// characters, two pixel rows per cell. Frames whose size does not match the
// area (columns x 2*rows) are resampled first.
type TerminalPresenter struct {
	Screen uv.Screen
	Area   uv.Rectangle

	frame ImagePresenter
}

// NewTerminalPresenter creates a presenter drawing into area of scr.
func NewTerminalPresenter(scr uv.Screen, area uv.Rectangle) *TerminalPresenter {
	return &TerminalPresenter{Screen: scr, Area: area}
}

// PixelSize returns the device size that maps one pixel to each half cell.
func (t *TerminalPresenter) PixelSize() (width, height int) {
	return t.Area.Dx(), t.Area.Dy() * 2
}

// Present converts the frame and sets one cell per column and row pair.
func (t *TerminalPresenter) Present(bgra []byte, width, height int) error {
	if err := t.frame.Present(bgra, width, height); err != nil {
		return err
	}

	cols, rows := t.Area.Dx(), t.Area.Dy()
	if cols <= 0 || rows <= 0 {
		return nil
	}

	var img image.Image = t.frame.Image()
	if width != cols || height != rows*2 {
		img = resize.Resize(uint(cols), uint(rows*2), img, resize.Bilinear)
	}
	bounds := img.Bounds()

	// We use ▀ (upper half block) with fg=top color and bg=bottom color
	for row := range rows {
		topY := bounds.Min.Y + row*2
		botY := topY + 1
		for col := range cols {
			x := bounds.Min.X + col
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: opaque(img.At(x, topY)),
					Bg: opaque(img.At(x, botY)),
				},
			}
			t.Screen.SetCell(t.Area.Min.X+col, t.Area.Min.Y+row, cell)
		}
	}
	return nil
}

// opaque drops alpha; terminals cannot blend cells.
func opaque(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
}
