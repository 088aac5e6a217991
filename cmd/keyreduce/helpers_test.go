package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reducer "github.com/tphakala/go-keyframe-reducer"
	"github.com/tphakala/go-keyframe-reducer/internal/clipio"
	"github.com/tphakala/go-keyframe-reducer/internal/engine"
	"github.com/tphakala/go-keyframe-reducer/internal/wavio"
)

func testSettings(t *testing.T, mutate func(*rawConfig)) *settings {
	t.Helper()
	raw := rawConfig{
		Threshold: 1e-4,
		DT:        1.0 / 30,
		Sampling:  "fixed",
		Color:     "no",
	}
	if mutate != nil {
		mutate(&raw)
	}
	s, err := raw.process(io.Discard)
	require.NoError(t, err)
	return s
}

// denseKeys keys f at every frame with matching tangents.
func denseKeys(frames int, step float64, f, df func(float64) float64) []engine.Keyframe {
	keys := make([]engine.Keyframe, frames)
	for i := range keys {
		x := float64(i) * step
		keys[i] = engine.Keyframe{
			Time:       float32(x),
			Value:      float32(f(x)),
			InTangent:  float32(df(x)),
			OutTangent: float32(df(x)),
		}
	}
	return keys
}

func writeTestClip(t *testing.T, dir string) string {
	t.Helper()
	clip := &clipio.Clip{
		Name:       "wave",
		SampleStep: 1.0 / 30,
		Channels: []clipio.Channel{
			{
				Path:     "Root/Arm",
				Property: "m_LocalPosition.y",
				Keys:     denseKeys(61, 1.0/30, math.Sin, math.Cos),
			},
			{
				Path:     "Root/Arm",
				Property: "m_IsActive",
				Keys: []engine.Keyframe{
					{Time: 0, Value: 1},
					{Time: 1, Value: 1},
					{Time: 1.5, Value: 0},
					{Time: 2, Value: 0},
				},
			},
		},
	}
	path := filepath.Join(dir, "wave.yaml")
	require.NoError(t, clipio.Save(path, clip))
	return path
}

func TestRawConfigProcess(t *testing.T) {
	s := testSettings(t, func(r *rawConfig) {
		r.Mode = "linear"
		r.Workers = 3
		r.Strict = true
	})
	assert.Equal(t, reducer.Linear, s.mode)
	assert.Equal(t, 3, s.workers)
	assert.Equal(t, reducer.SamplingFixed, s.sampling)
	assert.InDelta(t, 1.0/30, s.step, 1e-7)
	assert.False(t, s.useColor)

	cfg := s.config(reducer.Degree, "a/b")
	assert.Equal(t, reducer.Degree, cfg.Mode)
	assert.True(t, cfg.Strict)
	assert.NoError(t, cfg.Validate())

	tests := []struct {
		name   string
		mutate func(*rawConfig)
	}{
		{"negative threshold", func(r *rawConfig) { r.Threshold = -1 }},
		{"zero step", func(r *rawConfig) { r.DT = 0 }},
		{"negative workers", func(r *rawConfig) { r.Workers = -2 }},
		{"unknown sampling", func(r *rawConfig) { r.Sampling = "sparse" }},
		{"unknown mode", func(r *rawConfig) { r.Mode = "bezier" }},
		{"bad color", func(r *rawConfig) { r.Color = "sometimes" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawConfig{Threshold: 1e-4, DT: 0.1, Sampling: "fixed", Color: "no"}
			tt.mutate(&raw)
			_, err := raw.process(io.Discard)
			assert.Error(t, err)
		})
	}
}

func TestParseColor(t *testing.T) {
	for _, v := range []string{"yes", "Y", "on", "true", "1"} {
		got, err := parseColor(v)
		require.NoError(t, err, v)
		assert.True(t, got, v)
	}
	for _, v := range []string{"no", "off", "false", "0"} {
		got, err := parseColor(v)
		require.NoError(t, err, v)
		assert.False(t, got, v)
	}
}

func TestRunClip(t *testing.T) {
	dir := t.TempDir()
	in := writeTestClip(t, dir)
	s := testSettings(t, func(r *rawConfig) {
		r.MetricsFile = filepath.Join(dir, "keyreduce.prom")
	})

	var out bytes.Buffer
	require.NoError(t, runClip(context.Background(), s, in, "", &out))

	reducedPath := filepath.Join(dir, "wave_reduced.yaml")
	reduced, err := clipio.Load(reducedPath)
	require.NoError(t, err)
	require.Len(t, reduced.Channels, 2)
	assert.Equal(t, "wave", reduced.Name)

	pos := reduced.Channels[0]
	assert.Equal(t, "Root/Arm", pos.Path)
	assert.Less(t, len(pos.Keys), 61)
	assert.GreaterOrEqual(t, len(pos.Keys), 2)

	active := reduced.Channels[1]
	for _, k := range active.Keys {
		assert.Zero(t, k.InTangent)
		assert.Zero(t, k.OutTangent)
	}

	text := out.String()
	assert.Contains(t, text, "Root/Arm/m_LocalPosition.y")
	assert.Contains(t, text, "discrete")
	assert.Contains(t, text, "Reduced 2 channels")

	metricsText, err := os.ReadFile(s.metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metricsText), `keyreduce_channels_total{status="ok"} 2`)

	// A second run must not overwrite the first result.
	require.NoError(t, runClip(context.Background(), s, in, "", io.Discard))
	assert.FileExists(t, filepath.Join(dir, "wave_reduced_1.yaml"))
}

func TestRunClip_ExplicitOutputAndAdaptive(t *testing.T) {
	dir := t.TempDir()
	in := writeTestClip(t, dir)
	s := testSettings(t, func(r *rawConfig) { r.Sampling = "adaptive" })

	outPath := filepath.Join(dir, "small.json")
	require.NoError(t, runClip(context.Background(), s, in, outPath, io.Discard))

	reduced, err := clipio.Load(outPath)
	require.NoError(t, err)
	assert.Len(t, reduced.Channels, 2)
}

func TestRunClip_Errors(t *testing.T) {
	dir := t.TempDir()
	s := testSettings(t, nil)

	err := runClip(context.Background(), s, filepath.Join(dir, "missing.yaml"), "", io.Discard)
	assert.ErrorIs(t, err, os.ErrNotExist)

	in := writeTestClip(t, dir)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = runClip(ctx, s, in, "", io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(dir, "wave_reduced.yaml"))
}

type sineCurve struct{ freq, amp float64 }

func (c sineCurve) Evaluate(t float32) float32 {
	return float32(c.amp * math.Sin(2*math.Pi*c.freq*float64(t)))
}

func TestRunWAV(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tone.wav")
	require.NoError(t, wavio.Render(in, []wavio.Evaluator{sineCurve{2, 0.5}, sineCurve{3, 0.25}}, 400, 16, 400))

	rendered := filepath.Join(dir, "approx.wav")
	s := testSettings(t, func(r *rawConfig) {
		r.Render = rendered
		r.Mode = "smooth"
	})

	outPath := filepath.Join(dir, "tone.yaml")
	var out bytes.Buffer
	require.NoError(t, runWAV(context.Background(), s, in, outPath, &out))

	clip, err := clipio.Load(outPath)
	require.NoError(t, err)
	assert.Equal(t, "tone", clip.Name)
	require.Len(t, clip.Channels, 2)
	assert.Equal(t, "channel0", clip.Channels[0].Property)
	assert.Equal(t, "smooth", clip.Channels[0].Mode)
	assert.Less(t, len(clip.Channels[0].Keys), 400)

	sig, err := wavio.Read(rendered)
	require.NoError(t, err)
	assert.Equal(t, 400, sig.SampleRate)
	assert.Equal(t, 400, sig.Frames())
	assert.Len(t, sig.Channels, 2)

	assert.True(t, strings.Contains(out.String(), "channel1"))
}

func TestRunWAV_InvalidInput(t *testing.T) {
	dir := t.TempDir()
	junk := filepath.Join(dir, "junk.wav")
	require.NoError(t, os.WriteFile(junk, []byte("nope"), 0o600))

	err := runWAV(context.Background(), testSettings(t, nil), junk, filepath.Join(dir, "out.yaml"), io.Discard)
	assert.ErrorIs(t, err, wavio.ErrInvalidWAV)
}

func TestWriteSummary(t *testing.T) {
	rows := []summaryRow{
		{name: "a", mode: reducer.Smooth, sourceKeys: 100, samples: 100, keys: 5, elapsed: time.Millisecond},
		{name: "b", mode: reducer.Linear, sourceKeys: 10, samples: 10, keys: 8},
		{name: "c", mode: reducer.Discrete, err: errors.New("boom")},
	}

	var buf bytes.Buffer
	require.NoError(t, writeSummary(&buf, rows, false))

	text := buf.String()
	assert.Contains(t, text, "5.0%")
	assert.Contains(t, text, "80.0%")
	assert.Contains(t, text, "FAILED")
	assert.Contains(t, text, "Reduced 3 channels: 110 samples -> 13 keys (11.8% kept)")
	assert.Contains(t, text, "1 channels failed")
}

func TestSummaryRowRatio(t *testing.T) {
	assert.Zero(t, summaryRow{}.ratio())
	assert.InDelta(t, 0.25, summaryRow{samples: 8, keys: 2}.ratio(), 1e-12)
}
