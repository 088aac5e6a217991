// Package wavio treats the channels of a PCM WAV file as dense signals for
// reduction, and renders reduced curves back to WAV.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/tphakala/go-keyframe-reducer/internal/simdops"
)

// PCM constants.
const (
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	// audioFormatPCM is the WAVE_FORMAT_PCM tag.
	audioFormatPCM = 1

	// float32Mantissa is the number of fraction bits plus the implicit bit.
	float32Mantissa = 24
)

var (
	// ErrInvalidWAV indicates a file that is not a readable PCM WAV file.
	ErrInvalidWAV = errors.New("invalid WAV file")

	// ErrUnsupportedBitDepth indicates a bit depth other than 16, 24 or 32.
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
)

// Signal is a decoded WAV file with samples normalised to [-1, 1].
type Signal struct {
	SampleRate int
	BitDepth   int

	// Channels holds one dense series per channel, all of equal length.
	Channels [][]float32
}

// Frames returns the number of samples per channel.
func (s *Signal) Frames() int {
	if len(s.Channels) == 0 {
		return 0
	}
	return len(s.Channels[0])
}

// Times returns the time in seconds of every frame.
func (s *Signal) Times() []float32 {
	ts := make([]float32, s.Frames())
	for i := range ts {
		ts[i] = frameTime(i, s.SampleRate)
	}
	return ts
}

func frameTime(i, sampleRate int) float32 {
	return float32(float64(i) / float64(sampleRate))
}

// MaxDuration returns the longest span in seconds over which frame times at
// sampleRate stay strictly increasing once rounded to float32. It is a power
// of two: float32 spacing in [d/2, d) is d/2^24 and must stay below one frame.
func MaxDuration(sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	step := 1 / float64(sampleRate)
	limit := 1.0
	for math.Ldexp(limit, -float32Mantissa) >= step {
		limit /= 2
	}
	for math.Ldexp(2*limit, -float32Mantissa) < step {
		limit *= 2
	}
	return limit
}

// checkDuration rejects signals whose last frame lies beyond MaxDuration.
func checkDuration(sampleRate, frames int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidWAV, sampleRate)
	}
	if frames < 2 {
		return nil
	}
	limit := MaxDuration(sampleRate)
	if last := float64(frames-1) / float64(sampleRate); last > limit {
		return fmt.Errorf("%w: file too long for float32 key times: %.3fs exceeds %gs at %d Hz",
			ErrInvalidWAV, last, limit, sampleRate)
	}
	return nil
}

// Read decodes the WAV file at path.
func Read(path string) (*Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sig, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sig, nil
}

// Decode reads a whole PCM WAV stream and deinterleaves it.
func Decode(r io.ReadSeeker) (*Signal, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	bitDepth := int(decoder.BitDepth)
	maxVal, err := maxValue(bitDepth)
	if err != nil {
		return nil, err
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWAV, err)
	}
	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("%w: no channels", ErrInvalidWAV)
	}

	sig := &Signal{
		SampleRate: buf.Format.SampleRate,
		BitDepth:   bitDepth,
		Channels:   deinterleave(buf.Data, channels),
	}
	if err := checkDuration(sig.SampleRate, sig.Frames()); err != nil {
		return nil, err
	}

	scale := simdops.For[float32]().Scale
	inv := float32(1 / maxVal)
	for _, ch := range sig.Channels {
		scale(ch, ch, inv)
	}
	return sig, nil
}

// Evaluator is a curve that can be sampled at arbitrary times.
type Evaluator interface {
	Evaluate(t float32) float32
}

// Render writes frames samples of every curve to a new WAV file at path.
func Render(path string, curves []Evaluator, sampleRate, bitDepth, frames int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return Encode(f, curves, sampleRate, bitDepth, frames)
}

// Encode evaluates every curve at frame times i/sampleRate, clamps to
// [-1, 1] and writes the interleaved result as PCM WAV.
func Encode(w io.WriteSeeker, curves []Evaluator, sampleRate, bitDepth, frames int) error {
	if len(curves) == 0 {
		return errors.New("no curves to render")
	}
	if sampleRate <= 0 || frames < 0 {
		return fmt.Errorf("invalid render size: %d Hz, %d frames", sampleRate, frames)
	}
	maxVal, err := maxValue(bitDepth)
	if err != nil {
		return err
	}

	channels := len(curves)
	data := make([]int, frames*channels)
	rate := float64(sampleRate)
	for i := range frames {
		t := float32(float64(i) / rate)
		base := i * channels
		for ch, c := range curves {
			data[base+ch] = toPCM(c.Evaluate(t), maxVal)
		}
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, channels, audioFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	return enc.Close()
}

// deinterleave splits interleaved PCM into per-channel series. A trailing
// partial frame is dropped.
func deinterleave(data []int, numChannels int) [][]float32 {
	frames := len(data) / numChannels
	out := make([][]float32, numChannels)
	for ch := range out {
		out[ch] = make([]float32, frames)
	}

	for i := range frames {
		base := i * numChannels
		for ch := range numChannels {
			out[ch][i] = float32(data[base+ch])
		}
	}
	return out
}

func toPCM(v float32, maxVal float64) int {
	s := float64(v)
	if s > 1.0 {
		s = 1.0
	} else if s < -1.0 {
		s = -1.0
	}
	return int(s * maxVal)
}

func maxValue(bitDepth int) (float64, error) {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16, nil
	case bitsPerSample24:
		return maxInt24, nil
	case bitsPerSample32:
		return maxInt32, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
}
