package main

import (
	"github.com/spf13/cobra"

	"github.com/taigrr/softengine/pkg/render"
)

type snapshotOptions struct {
	output    string
	rotation  []float64
	wireframe bool
	bresenham bool
	guides    bool
}

func newSnapshotCmd(opts *options) *cobra.Command {
	var snap snapshotOptions
	cmd := &cobra.Command{
		Use:   "snapshot [model]",
		Short: "Render one frame to a PNG file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(opts, &snap, modelArg(args))
		},
	}
	cmd.Flags().StringVarP(&snap.output, "output", "o", "frame.png", "Output PNG path")
	cmd.Flags().Float64SliceVar(&snap.rotation, "rotation", []float64{0.4, 0.6, 0}, "Model rotation in radians (pitch,yaw,roll)")
	cmd.Flags().BoolVar(&snap.wireframe, "wireframe", false, "Draw edges instead of filled faces")
	cmd.Flags().BoolVar(&snap.bresenham, "bresenham", false, "Use Bresenham lines for the wireframe")
	cmd.Flags().BoolVar(&snap.guides, "guides", false, "Draw axes and a ground grid")
	return cmd
}

func runSnapshot(o *options, snap *snapshotOptions, model string) error {
	v, err := o.newViewer(model, o.width, o.height)
	if err != nil {
		return err
	}
	rot, err := vec3Flag("rotation", snap.rotation)
	if err != nil {
		return err
	}
	v.mesh.Rotation = rot
	v.wireframe = snap.wireframe
	v.guides = snap.guides
	if snap.bresenham {
		v.lineMode = render.LineBresenham
	}

	if err := v.draw(); err != nil {
		return err
	}

	var img render.ImagePresenter
	if err := v.device.Present(&img); err != nil {
		return err
	}
	if err := img.SavePNG(snap.output); err != nil {
		return err
	}

	stats := v.device.Stats()
	o.logger.Info("saved frame",
		"path", snap.output,
		"size", [2]int{o.width, o.height},
		"faces", stats.Faces,
		"written", stats.PixelsWritten,
		"rejected", stats.PixelsRejected,
	)
	return nil
}
