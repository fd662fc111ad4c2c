// softengine - software 3D rasterizer
// Renders meshes on the CPU into a BGRA back buffer and shows the frames in a
// terminal, a desktop window or a PNG file.
//
// Terminal controls:
//
//	Mouse drag  - Rotate model (yaw/pitch)
//	Scroll      - Zoom in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Q/E         - Roll left/right
//	Space       - Apply random impulse
//	R           - Reset rotation and zoom
//	F           - Toggle flat/Gouraud shading
//	X           - Toggle wireframe
//	B           - Toggle midpoint/Bresenham wireframe lines
//	G           - Toggle axes and ground grid
//	?           - Toggle HUD overlay
//	+/-         - Adjust zoom
//	Esc         - Quit
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

// options holds the flags shared by every command.
type options struct {
	width, height int
	fov           float64
	near, far     float64
	distance      float64
	light         []float64
	color         string
	bg            string
	flat          bool
	workers       int
	fps           int
	debug         bool

	logger *log.Logger
}

func (o *options) register(flags *pflag.FlagSet) {
	flags.IntVar(&o.width, "width", 640, "Frame width in pixels (window and snapshot)")
	flags.IntVar(&o.height, "height", 480, "Frame height in pixels (window and snapshot)")
	flags.Float64Var(&o.fov, "fov", 0.78, "Vertical field of view in radians")
	flags.Float64Var(&o.near, "near", 0.1, "Near clip plane")
	flags.Float64Var(&o.far, "far", 100, "Far clip plane")
	flags.Float64Var(&o.distance, "distance", 10, "Camera distance from the model")
	flags.Float64SliceVar(&o.light, "light", []float64{0, 10, 10}, "Point light position (X,Y,Z)")
	flags.StringVar(&o.color, "color", "#d0d0d0", "Mesh color (#rrggbb or R,G,B in 0..1)")
	flags.StringVar(&o.bg, "bg", "#1e1e28", "Background color (#rrggbb or R,G,B in 0..1)")
	flags.BoolVar(&o.flat, "flat", false, "Use flat shading instead of Gouraud")
	flags.IntVar(&o.workers, "workers", 0, "Rasterization workers (0 = GOMAXPROCS)")
	flags.IntVar(&o.fps, "fps", 60, "Target FPS for interactive views")
	flags.BoolVar(&o.debug, "debug", false, "Enable debug logging")
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "softengine [model]",
		Short: "Software 3D rasterizer",
		Long: `Render a mesh on the CPU and view it in the terminal.

The model is a .gltf, .glb, .babylon, .obj, .stl, .ply or .3ds file, or one
of the builtin meshes "cube" and "bolt". Without a model the cube is shown.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.logger = newLogger(opts.debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.Context(), opts, modelArg(args))
		},
	}
	opts.register(root.PersistentFlags())

	root.AddCommand(
		newWindowCmd(opts),
		newSnapshotCmd(opts),
		newBenchCmd(opts),
	)
	return root
}

// newLogger returns the command logger. Frames are drawn on stdout, so logs
// go to stderr.
func newLogger(debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "softengine",
		ReportTimestamp: true,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func modelArg(args []string) string {
	if len(args) == 0 {
		return "cube"
	}
	return args[0]
}
