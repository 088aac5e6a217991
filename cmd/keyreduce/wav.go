package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	reducer "github.com/tphakala/go-keyframe-reducer"
	"github.com/tphakala/go-keyframe-reducer/internal/clipio"
	"github.com/tphakala/go-keyframe-reducer/internal/wavio"
)

var wavCmd = &cobra.Command{
	Use:   "wav <input.wav> <output>",
	Short: "Reduce every channel of a WAV file to a keyframed clip.",
	Long: `Treat each channel of a PCM WAV file as a dense signal sampled at the
file's rate and reduce it to keyframes. The result is saved as a clip with
one channel per WAV channel (channel0, channel1, ...).

With --render the reduced curves are evaluated at the input sample rate and
written back to WAV, which makes the approximation audible.

Examples:
  keyreduce wav --mode linear envelope.wav envelope.yaml
  keyreduce wav --threshold 1e-3 --render approx.wav tone.wav tone.json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSettings(cmd.Context(), func(ctx context.Context, s *settings) error {
			return runWAV(ctx, s, args[0], args[1], cmd.OutOrStdout())
		})
	},
}

// runWAV reduces the WAV file at in, saves the clip to out and optionally
// renders the result.
func runWAV(ctx context.Context, s *settings, in, out string, stdout io.Writer) error {
	sig, err := wavio.Read(in)
	if err != nil {
		return err
	}
	s.logger.Info("loaded WAV",
		slog.Int("rate", sig.SampleRate),
		slog.Int("bits", sig.BitDepth),
		slog.Int("channels", len(sig.Channels)),
		slog.Int("frames", sig.Frames()))

	times := sig.Times()
	inputs := make([]reducer.ChannelInput, len(sig.Channels))
	for i, values := range sig.Channels {
		name := fmt.Sprintf("channel%d", i)
		inputs[i] = reducer.ChannelInput{
			Name:   name,
			Config: s.config(s.mode, name),
			Signal: reducer.Dense{Times: times, Values: values},
		}
	}

	rec, results, err := reduceAll(ctx, s, inputs)
	if err != nil {
		return err
	}

	clip := &clipio.Clip{
		Name:       strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)),
		SampleStep: float32(1 / float64(sig.SampleRate)),
		Channels:   make([]clipio.Channel, len(results)),
	}
	rows := make([]summaryRow, len(results))
	curves := make([]wavio.Evaluator, len(results))
	for i, res := range results {
		rows[i] = newSummaryRow(res, s.mode, sig.Frames())
		if res.Err != nil {
			return res.Err
		}
		clip.Channels[i] = clipio.Channel{
			Property: res.Name,
			Mode:     s.mode.String(),
			Keys:     res.Curve.Keys(),
		}
		curves[i] = res.Curve
	}

	if err := clipio.Save(out, clip); err != nil {
		return err
	}
	s.logger.Info("saved clip", slog.String("path", out))

	if s.render != "" {
		if err := wavio.Render(s.render, curves, sig.SampleRate, sig.BitDepth, sig.Frames()); err != nil {
			return err
		}
		s.logger.Info("rendered WAV", slog.String("path", s.render))
	}

	if err := writeSummary(stdout, rows, s.useColor); err != nil {
		return err
	}
	return writeMetrics(s, rec)
}
