package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// Presenter receives a finished frame: width*height BGRA quartets, top-left
// origin, row-major. The buffer is owned by the device and must not be kept
// past the call.
type Presenter interface {
	Present(bgra []byte, width, height int) error
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(bgra []byte, width, height int) error

// Present calls f.
func (f PresenterFunc) Present(bgra []byte, width, height int) error {
	return f(bgra, width, height)
}

// Present hands the back buffer to p. Calling it while a Render is in flight
// shows a partially drawn frame.
func (d *Device) Present(p Presenter) error {
	if err := p.Present(d.backBuffer, d.width, d.height); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}

// BGRAToRGBA swaps the red and blue channels of src into dst. dst must be at
// least len(src) bytes.
func BGRAToRGBA(dst, src []byte) {
	for i := 0; i+3 < len(src); i += bytesPerPixel {
		dst[i] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i]
		dst[i+3] = src[i+3]
	}
}

// ImagePresenter copies each presented frame into an *image.RGBA.
type ImagePresenter struct {
	img *image.RGBA
}

// Present converts the frame, reallocating the image if the size changed.
func (p *ImagePresenter) Present(bgra []byte, width, height int) error {
	if len(bgra) < width*height*bytesPerPixel {
		return fmt.Errorf("frame holds %d bytes, want %d", len(bgra), width*height*bytesPerPixel)
	}
	if p.img == nil || p.img.Rect.Dx() != width || p.img.Rect.Dy() != height {
		p.img = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	BGRAToRGBA(p.img.Pix, bgra[:width*height*bytesPerPixel])
	return nil
}

// Image returns the last presented frame, or nil before the first Present.
func (p *ImagePresenter) Image() *image.RGBA {
	return p.img
}

// SavePNG writes the last presented frame as a PNG file.
func (p *ImagePresenter) SavePNG(path string) error {
	if p.img == nil {
		return fmt.Errorf("save png %s: no frame presented", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, p.img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
