package wavio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type evalFunc func(t float32) float32

func (f evalFunc) Evaluate(t float32) float32 { return f(t) }

func sine(freq float64) evalFunc {
	return func(t float32) float32 {
		return float32(0.8 * math.Sin(2*math.Pi*freq*float64(t)))
	}
}

func TestRenderRead_RoundTrip(t *testing.T) {
	const (
		rate   = 8000
		frames = 800
	)
	curves := []Evaluator{sine(5), evalFunc(func(t float32) float32 { return 0.5 - t })}

	for _, bitDepth := range []int{16, 24, 32} {
		t.Run(fmt.Sprintf("%dbit", bitDepth), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.wav")
			require.NoError(t, Render(path, curves, rate, bitDepth, frames))

			sig, err := Read(path)
			require.NoError(t, err)
			assert.Equal(t, rate, sig.SampleRate)
			assert.Equal(t, bitDepth, sig.BitDepth)
			require.Len(t, sig.Channels, 2)
			require.Equal(t, frames, sig.Frames())

			maxVal, err := maxValue(bitDepth)
			require.NoError(t, err)
			tol := 2/maxVal + 1e-6

			ts := sig.Times()
			for ch, c := range curves {
				for i, x := range ts {
					assert.InDelta(t, c.Evaluate(x), sig.Channels[ch][i], tol, "bits=%d ch=%d i=%d", bitDepth, ch, i)
				}
			}
		})
	}
}

func TestEncode_Clamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	loud := evalFunc(func(float32) float32 { return 3 })
	quiet := evalFunc(func(float32) float32 { return -3 })
	require.NoError(t, Render(path, []Evaluator{loud, quiet}, 1000, 16, 10))

	sig, err := Read(path)
	require.NoError(t, err)
	for i := range sig.Frames() {
		assert.InDelta(t, 1, sig.Channels[0][i], 1e-6)
		assert.InDelta(t, -1, sig.Channels[1][i], 1e-6)
	}
}

func TestSignal_Times(t *testing.T) {
	sig := &Signal{SampleRate: 4, Channels: [][]float32{make([]float32, 5)}}
	assert.Equal(t, []float32{0, 0.25, 0.5, 0.75, 1}, sig.Times())

	empty := &Signal{SampleRate: 4}
	assert.Zero(t, empty.Frames())
	assert.Empty(t, empty.Times())
}

func TestMaxDuration(t *testing.T) {
	tests := []struct {
		rate int
		want float64
	}{
		{8000, 2048},
		{44100, 256},
		{48000, 256},
		{96000, 128},
		{0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaxDuration(tt.rate), "rate=%d", tt.rate)
	}
}

func TestMaxDuration_FrameTimesAroundLimit(t *testing.T) {
	for _, rate := range []int{44100, 96000} {
		edge := int(MaxDuration(rate) * float64(rate))

		for i := edge - 2000; i < edge; i++ {
			require.Less(t, frameTime(i, rate), frameTime(i+1, rate), "rate=%d frame=%d", rate, i)
		}

		collided := false
		for i := edge; i < edge+2000 && !collided; i++ {
			collided = frameTime(i+1, rate) <= frameTime(i, rate)
		}
		assert.True(t, collided, "rate=%d: frame times past the limit should collide", rate)
	}
}

func TestCheckDuration(t *testing.T) {
	require.NoError(t, checkDuration(44100, 256*44100+1))
	require.NoError(t, checkDuration(44100, 1))

	err := checkDuration(44100, 300*44100)
	require.ErrorIs(t, err, ErrInvalidWAV)
	assert.Contains(t, err.Error(), "file too long for float32 key times")
	assert.Contains(t, err.Error(), "256s at 44100 Hz")

	assert.ErrorIs(t, checkDuration(0, 10), ErrInvalidWAV)
}

func TestRender_Errors(t *testing.T) {
	dir := t.TempDir()

	err := Render(filepath.Join(dir, "a.wav"), nil, 8000, 16, 10)
	assert.Error(t, err)

	err = Render(filepath.Join(dir, "b.wav"), []Evaluator{sine(1)}, 8000, 12, 10)
	assert.ErrorIs(t, err, ErrUnsupportedBitDepth)

	err = Render(filepath.Join(dir, "c.wav"), []Evaluator{sine(1)}, 0, 16, 10)
	assert.Error(t, err)
}

func TestRead_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Read(filepath.Join(dir, "missing.wav"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	junk := filepath.Join(dir, "junk.wav")
	require.NoError(t, os.WriteFile(junk, []byte("definitely not a riff header"), 0o600))
	_, err = Read(junk)
	assert.ErrorIs(t, err, ErrInvalidWAV)
}

func TestDeinterleave(t *testing.T) {
	got := deinterleave([]int{1, 2, 3, 4, 5, 6, 7}, 2)
	assert.Equal(t, [][]float32{{1, 3, 5}, {2, 4, 6}}, got)
}

func TestToPCM(t *testing.T) {
	assert.Equal(t, 32767, toPCM(1, maxInt16))
	assert.Equal(t, -32767, toPCM(-2, maxInt16))
	assert.Equal(t, 0, toPCM(0, maxInt16))
}
