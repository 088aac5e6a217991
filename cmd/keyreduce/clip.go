package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	reducer "github.com/tphakala/go-keyframe-reducer"
	"github.com/tphakala/go-keyframe-reducer/internal/clipio"
	"github.com/tphakala/go-keyframe-reducer/internal/metrics"
)

var clipCmd = &cobra.Command{
	Use:   "clip <input> [output]",
	Short: "Reduce every channel of a YAML or JSON clip.",
	Long: `Resample every channel of a clip and reduce it to sparse keyframes.

Channels without an explicit mode get one from their property name:
m_IsActive is discrete, properties containing "Rotation" are radian and
everything else is smooth.

Without an output path the result is written next to the input as
<name>_reduced.<ext>; an existing file is never overwritten.

Examples:
  keyreduce clip walk.yaml
  keyreduce clip --threshold 1e-4 --sampling adaptive walk.json walk_small.json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := ""
		if len(args) == 2 {
			out = args[1]
		}
		return withSettings(cmd.Context(), func(ctx context.Context, s *settings) error {
			return runClip(ctx, s, args[0], out, cmd.OutOrStdout())
		})
	},
}

// runClip reduces the clip at in and writes the result to out.
func runClip(ctx context.Context, s *settings, in, out string, stdout io.Writer) error {
	clip, err := clipio.Load(in)
	if err != nil {
		return err
	}
	s.logger.Info("loaded clip", slog.String("name", clip.Name), slog.Int("channels", len(clip.Channels)))

	inputs := make([]reducer.ChannelInput, len(clip.Channels))
	modes := make([]reducer.Mode, len(clip.Channels))
	for i := range clip.Channels {
		ch := &clip.Channels[i]
		mode, err := ch.ResolveMode()
		if err != nil {
			return err
		}
		src, err := reducer.NewCurve(ch.Keys)
		if err != nil {
			return fmt.Errorf("channel %q: %w", ch.ID(), err)
		}
		modes[i] = mode
		inputs[i] = reducer.ChannelInput{
			Name:   ch.ID(),
			Config: s.config(mode, ch.ID()),
			Signal: reducer.Sampled{Curve: src, Policy: s.sampling, Step: s.step},
		}
	}

	rec, results, err := reduceAll(ctx, s, inputs)
	if err != nil {
		return err
	}

	reduced := &clipio.Clip{
		Name:       clip.Name,
		SampleStep: clip.SampleStep,
		Channels:   make([]clipio.Channel, len(clip.Channels)),
	}
	rows := make([]summaryRow, len(results))
	failed := 0
	for i, res := range results {
		ch := clip.Channels[i]
		rows[i] = newSummaryRow(res, modes[i], len(ch.Keys))
		if res.Err != nil {
			failed++
			s.logger.Error("channel failed, keeping source keys",
				slog.String("channel", res.Name), slog.Any("error", res.Err))
		} else {
			ch.Keys = res.Curve.Keys()
		}
		reduced.Channels[i] = ch
	}

	if out == "" {
		if out, err = clipio.UniquePath(clipio.ReducedPath(in)); err != nil {
			return err
		}
	}
	if err := clipio.Save(out, reduced); err != nil {
		return err
	}
	s.logger.Info("saved clip", slog.String("path", out))

	if err := writeSummary(stdout, rows, s.useColor); err != nil {
		return err
	}
	if err := writeMetrics(s, rec); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d channels failed", failed, len(results))
	}
	return nil
}

// reduceAll runs ReduceChannels with a metrics recorder when a metrics file
// is configured.
func reduceAll(ctx context.Context, s *settings, inputs []reducer.ChannelInput) (*metrics.Recorder, []reducer.ChannelResult, error) {
	opts := reducer.Options{Workers: s.workers}
	var rec *metrics.Recorder
	if s.metricsFile != "" {
		rec = metrics.NewRecorder()
		opts.Observer = rec
	}

	results, err := reducer.ReduceChannels(ctx, inputs, opts)
	if err != nil {
		return nil, nil, err
	}
	return rec, results, nil
}

func writeMetrics(s *settings, rec *metrics.Recorder) error {
	if rec == nil {
		return nil
	}
	if err := rec.WriteTextfile(s.metricsFile); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	s.logger.Debug("wrote metrics", slog.String("path", s.metricsFile))
	return nil
}
