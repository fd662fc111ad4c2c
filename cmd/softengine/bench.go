package main

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

type benchOptions struct {
	frames int
	warmup int
	step   float64
	plot   string
}

func newBenchCmd(opts *options) *cobra.Command {
	var bench benchOptions
	cmd := &cobra.Command{
		Use:   "bench [model]",
		Short: "Render frames off-screen and report frame times",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd.Context(), opts, &bench, modelArg(args))
		},
	}
	cmd.Flags().IntVar(&bench.frames, "frames", 200, "Frames to measure")
	cmd.Flags().IntVar(&bench.warmup, "warmup", 10, "Frames rendered before measuring")
	cmd.Flags().Float64Var(&bench.step, "step", 0.02, "Yaw added per frame in radians")
	cmd.Flags().StringVar(&bench.plot, "plot", "", "Write a frame time histogram PNG to this path")
	return cmd
}

// frameSummary describes a set of frame times in milliseconds.
type frameSummary struct {
	Frames   int
	Mean     float64
	StdDev   float64
	Min, Max float64
	P50      float64
	P95      float64
	P99      float64
}

// summarize computes frame time statistics. samples is sorted in place.
func summarize(samples []float64) frameSummary {
	if len(samples) == 0 {
		return frameSummary{}
	}
	slices.Sort(samples)
	mean, std := stat.MeanStdDev(samples, nil)
	return frameSummary{
		Frames: len(samples),
		Mean:   mean,
		StdDev: std,
		Min:    samples[0],
		Max:    samples[len(samples)-1],
		P50:    stat.Quantile(0.50, stat.Empirical, samples, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, samples, nil),
		P99:    stat.Quantile(0.99, stat.Empirical, samples, nil),
	}
}

func runBench(ctx context.Context, o *options, bench *benchOptions, model string) error {
	if bench.frames <= 0 {
		return fmt.Errorf("bench: --frames must be positive, got %d", bench.frames)
	}
	v, err := o.newViewer(model, o.width, o.height)
	if err != nil {
		return err
	}

	samples := make([]float64, 0, bench.frames)
	var pixels int64
	for i := range bench.warmup + bench.frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		v.mesh.Rotation.Y += bench.step

		start := time.Now()
		if err := v.draw(); err != nil {
			return err
		}
		elapsed := time.Since(start)

		if i >= bench.warmup {
			samples = append(samples, float64(elapsed)/float64(time.Millisecond))
			pixels += v.device.Stats().PixelsWritten
		}
	}

	if bench.plot != "" {
		if err := saveHistogram(bench.plot, samples, v.mesh.Name); err != nil {
			return err
		}
		o.logger.Info("wrote histogram", "path", bench.plot)
	}

	s := summarize(samples)
	o.logger.Info("frame times (ms)",
		"model", v.mesh.Name,
		"faces", v.mesh.TriangleCount(),
		"size", fmt.Sprintf("%dx%d", o.width, o.height),
		"shading", v.device.Shading,
		"frames", s.Frames,
		"mean", fmt.Sprintf("%.3f", s.Mean),
		"stddev", fmt.Sprintf("%.3f", s.StdDev),
		"min", fmt.Sprintf("%.3f", s.Min),
		"p50", fmt.Sprintf("%.3f", s.P50),
		"p95", fmt.Sprintf("%.3f", s.P95),
		"p99", fmt.Sprintf("%.3f", s.P99),
		"max", fmt.Sprintf("%.3f", s.Max),
		"pixels/frame", pixels/int64(s.Frames),
	)
	return nil
}

// saveHistogram plots the distribution of frame times.
func saveHistogram(path string, samples []float64, title string) error {
	p := plot.New()
	p.Title.Text = "Frame times: " + title
	p.X.Label.Text = "ms"
	p.Y.Label.Text = "frames"

	h, err := plotter.NewHist(plotter.Values(samples), 30)
	if err != nil {
		return fmt.Errorf("build histogram: %w", err)
	}
	p.Add(h)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save histogram: %w", err)
	}
	return nil
}
