package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/softengine/pkg/render"
)

const (
	zoomStep    = 0.5
	minDistance = 2.5
	maxDistance = 40.0
)

// HUD renders an overlay with model info and the active modes.
type HUD struct {
	name      string
	faces     int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
	show      bool
}

func NewHUD(name string, faces int) *HUD {
	return &HUD{name: name, faces: faces, fpsTime: time.Now(), show: true}
}

// UpdateFPS counts a frame and refreshes the rate once per second.
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Render draws the HUD directly to the terminal after the frame is flushed.
func (h *HUD) Render(width, height int, v *viewer) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)
	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Clear first so toggling the HUD off erases it
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)
	if !h.show {
		return
	}

	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	titleCol := max((width-len(h.name)-2)/2, 1)
	fmt.Printf("%s%s%s%s %s %s", moveTo(1, titleCol), bold, bgBlack, fgWhite, h.name, reset)

	faces := fmt.Sprintf(" %d faces ", h.faces)
	fmt.Printf("%s%s%s%s%s%s", moveTo(1, max(width-len(faces), 1)), bgBlack, fgCyan, bold, faces, reset)

	stats := v.device.Stats()
	lines := "midpoint"
	if v.lineMode == render.LineBresenham {
		lines = "bresenham"
	}
	modes := fmt.Sprintf(" %s  %s Wireframe (%s)  %s Guides  %d px ",
		v.device.Shading, check(v.wireframe), lines, check(v.guides), stats.PixelsWritten)
	fmt.Print(moveTo(height, 1) + bgBlack + fgWhite + modes + reset)
}

func check(on bool) string {
	if on {
		return "[✓]"
	}
	return "[ ]"
}

// runView shows the model in the terminal until Esc, Ctrl+C or ctx is done.
func runView(ctx context.Context, o *options, model string) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	presenter := render.NewTerminalPresenter(term, uv.Rect(0, 0, width, height))
	pw, ph := presenter.PixelSize()
	v, err := o.newViewer(model, pw, ph)
	if err != nil {
		return err
	}
	// Per-frame debug output would scroll over the frame
	v.device.Logger = nil

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Any-event mouse tracking with SGR coordinates
	fmt.Fprint(os.Stdout, "\x1b[?1003h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	hud := NewHUD(v.mesh.Name, v.mesh.TriangleCount())
	rotation := NewRotationState(o.fps)
	var input torque

	var mouseDown bool
	var lastMouseX, lastMouseY int

	// handle applies one input event and reports whether to quit.
	handle := func(ev uv.Event) (quit bool, err error) {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			width, height = ev.Width, ev.Height
			term.Erase()
			term.Resize(width, height)
			presenter.Area = uv.Rect(0, 0, width, height)
			pw, ph := presenter.PixelSize()
			if pw > 0 && ph > 0 {
				if err := v.resize(pw, ph, o); err != nil {
					return false, err
				}
			}

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
				return true, nil
			case ev.MatchString("w", "up"):
				input.pitch = -torqueStrength
			case ev.MatchString("s", "down"):
				input.pitch = torqueStrength
			case ev.MatchString("a", "left"):
				input.yaw = -torqueStrength
			case ev.MatchString("d", "right"):
				input.yaw = torqueStrength
			case ev.MatchString("q"):
				input.roll = -torqueStrength
			case ev.MatchString("e"):
				input.roll = torqueStrength
			case ev.MatchString("space"):
				rotation.ApplyImpulse(
					(rand.Float64()-0.5)*1.5,
					(rand.Float64()-0.5)*1.5,
					(rand.Float64()-0.5)*1.5,
				)
			case ev.MatchString("r"):
				rotation.Reset()
				v.resetCamera()
			case ev.MatchString("f"):
				v.toggleShading()
			case ev.MatchString("x"):
				v.wireframe = !v.wireframe
			case ev.MatchString("b"):
				v.toggleLineMode()
			case ev.MatchString("g"):
				v.guides = !v.guides
			case ev.MatchString("?"), ev.MatchString("shift+/"):
				hud.show = !hud.show
			case ev.MatchString("+", "="):
				v.zoom(zoomStep)
			case ev.MatchString("-", "_"):
				v.zoom(-zoomStep)
			}

		case uv.KeyReleaseEvent:
			switch {
			case ev.MatchString("w"), ev.MatchString("up"), ev.MatchString("s"), ev.MatchString("down"):
				input.pitch = 0
			case ev.MatchString("a"), ev.MatchString("left"), ev.MatchString("d"), ev.MatchString("right"):
				input.yaw = 0
			case ev.MatchString("q"), ev.MatchString("e"):
				input.roll = 0
			}

		case uv.MouseClickEvent:
			mouseDown = true
			lastMouseX, lastMouseY = ev.X, ev.Y

		case uv.MouseReleaseEvent:
			mouseDown = false

		case uv.MouseMotionEvent:
			if mouseDown {
				dx := ev.X - lastMouseX
				dy := ev.Y - lastMouseY
				rotation.ApplyImpulse(float64(dy)*0.03, float64(dx)*0.03, 0)
				lastMouseX, lastMouseY = ev.X, ev.Y
			}

		case uv.MouseWheelEvent:
			switch ev.Button {
			case uv.MouseWheelUp:
				v.zoom(zoomStep)
			case uv.MouseWheelDown:
				v.zoom(-zoomStep)
			}
		}
		return false, nil
	}

	events := term.Events()
	targetDuration := time.Second / time.Duration(max(o.fps, 1))
	lastFrame := time.Now()

	for {
		// Drain pending input so state only changes between frames
	drain:
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				quit, err := handle(ev)
				if err != nil {
					return err
				}
				if quit {
					return nil
				}
			default:
				break drain
			}
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

		input.apply(rotation, dt)
		rotation.Update()
		v.mesh.Rotation = rotation.Angles()

		if err := v.draw(); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}
		if err := v.device.Present(presenter); err != nil {
			return err
		}
		if err := term.Display(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		hud.UpdateFPS()
		hud.Render(width, height, v)

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
