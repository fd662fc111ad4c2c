//go:build cgo

package main

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"

	"github.com/taigrr/softengine/pkg/render"
)

func newWindowCmd(opts *options) *cobra.Command {
	var scale int
	cmd := &cobra.Command{
		Use:   "window [model]",
		Short: "Show the model in a desktop window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindow(opts, modelArg(args), scale)
		},
	}
	cmd.Flags().IntVar(&scale, "scale", 1, "Window pixels per frame pixel")
	return cmd
}

// runWindow blocks until the window is closed or Esc is pressed.
func runWindow(o *options, model string, scale int) error {
	v, err := o.newViewer(model, o.width, o.height)
	if err != nil {
		return err
	}

	g := &windowGame{
		v:        v,
		rotation: NewRotationState(o.fps),
		rgba:     make([]byte, o.width*o.height*4),
	}

	ebiten.SetWindowTitle("softengine - " + v.mesh.Name)
	ebiten.SetWindowSize(o.width*max(scale, 1), o.height*max(scale, 1))
	ebiten.SetTPS(max(o.fps, 1))

	o.logger.Info("opening window", "width", o.width, "height", o.height, "faces", v.mesh.TriangleCount())
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}

// windowGame adapts a viewer to ebiten's game loop: Update advances the
// rotation and renders, Draw uploads the finished frame.
type windowGame struct {
	v        *viewer
	rotation *RotationState
	input    torque

	frame *ebiten.Image
	rgba  []byte
}

func (g *windowGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.handleKeys()

	g.input.apply(g.rotation, 1/float64(ebiten.TPS()))
	g.rotation.Update()
	g.v.mesh.Rotation = g.rotation.Angles()

	return g.v.draw()
}

func (g *windowGame) handleKeys() {
	held := func(keys ...ebiten.Key) bool {
		for _, k := range keys {
			if ebiten.IsKeyPressed(k) {
				return true
			}
		}
		return false
	}
	switch {
	case held(ebiten.KeyW, ebiten.KeyArrowUp):
		g.input.pitch = -torqueStrength
	case held(ebiten.KeyS, ebiten.KeyArrowDown):
		g.input.pitch = torqueStrength
	}
	switch {
	case held(ebiten.KeyA, ebiten.KeyArrowLeft):
		g.input.yaw = -torqueStrength
	case held(ebiten.KeyD, ebiten.KeyArrowRight):
		g.input.yaw = torqueStrength
	}
	switch {
	case held(ebiten.KeyQ):
		g.input.roll = -torqueStrength
	case held(ebiten.KeyE):
		g.input.roll = torqueStrength
	}

	pressed := inpututil.IsKeyJustPressed
	switch {
	case pressed(ebiten.KeySpace):
		g.rotation.ApplyImpulse(
			(rand.Float64()-0.5)*1.5,
			(rand.Float64()-0.5)*1.5,
			(rand.Float64()-0.5)*1.5,
		)
	case pressed(ebiten.KeyR):
		g.rotation.Reset()
		g.v.resetCamera()
	case pressed(ebiten.KeyF):
		g.v.toggleShading()
	case pressed(ebiten.KeyX):
		g.v.wireframe = !g.v.wireframe
	case pressed(ebiten.KeyB):
		g.v.toggleLineMode()
	case pressed(ebiten.KeyG):
		g.v.guides = !g.v.guides
	case pressed(ebiten.KeyEqual):
		g.v.zoom(zoomStep)
	case pressed(ebiten.KeyMinus):
		g.v.zoom(-zoomStep)
	}

	if _, dy := ebiten.Wheel(); dy != 0 {
		g.v.zoom(dy * zoomStep)
	}
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	w, h := g.v.device.Width(), g.v.device.Height()
	if g.frame == nil {
		g.frame = ebiten.NewImage(w, h)
	}

	if !g.blit() {
		return
	}
	g.frame.WritePixels(g.rgba)
	screen.DrawImage(g.frame, nil)
}

// blit copies the back buffer into g.rgba. Draw cannot return an error, so
// failures are logged and the previous frame stays on screen.
func (g *windowGame) blit() bool {
	// The back buffer is BGRA; ebiten wants RGBA
	err := g.v.device.Present(render.PresenterFunc(func(bgra []byte, w, h int) error {
		if len(g.rgba) < len(bgra) {
			return fmt.Errorf("window buffer holds %d bytes, frame %dx%d needs %d", len(g.rgba), w, h, len(bgra))
		}
		render.BGRAToRGBA(g.rgba, bgra)
		return nil
	}))
	if err != nil {
		g.v.logger.Error("draw frame", "err", err)
		return false
	}
	return true
}

func (g *windowGame) Layout(_, _ int) (int, int) {
	return g.v.device.Width(), g.v.device.Height()
}
