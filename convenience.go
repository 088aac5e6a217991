package reducer

import (
	"context"
	"fmt"

	"github.com/tphakala/go-keyframe-reducer/internal/sampler"
)

// Sampling selects how a source curve is turned into samples.
type Sampling = sampler.Policy

// Sampling policies.
const (
	// SamplingFixed samples the whole source at a constant step.
	SamplingFixed = sampler.PolicyFixed

	// SamplingAdaptive only samples around the source's keys. Much faster on
	// sparse sources but may miss detail between keys.
	SamplingAdaptive = sampler.PolicyAdaptive
)

// ParseSampling converts "fixed" or "adaptive" to a Sampling.
func ParseSampling(s string) (Sampling, error) {
	return sampler.ParsePolicy(s)
}

// Sink receives samples in strictly increasing time order. *Reducer is a Sink.
type Sink = sampler.Sink

// Signal feeds the samples of one channel into a sink and reports how many it
// delivered.
type Signal interface {
	Feed(ctx context.Context, sink Sink) (int, error)
}

// Dense is a signal given as parallel slices of sample times and values.
type Dense struct {
	Times  []float32
	Values []float32
}

// Feed delivers every sample in order. ctx is checked once per sample.
func (d Dense) Feed(ctx context.Context, sink Sink) (int, error) {
	if len(d.Times) != len(d.Values) {
		return 0, fmt.Errorf("%w: %d times but %d values", ErrInvalidInput, len(d.Times), len(d.Values))
	}
	for i, t := range d.Times {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := sink.Tick(t, d.Values[i]); err != nil {
			return i, fmt.Errorf("sample %d: %w", i, err)
		}
	}
	return len(d.Times), nil
}

// Sampled is a signal obtained by sampling a source curve.
type Sampled struct {
	Curve  *Curve
	Policy Sampling
	Step   float32
}

// Feed samples the curve with the configured policy and step. A zero Step
// uses DefaultStep.
func (s Sampled) Feed(ctx context.Context, sink Sink) (int, error) {
	step := s.Step
	if step == 0 {
		step = DefaultStep
	}
	return sampler.Run(ctx, s.Policy, s.Curve, step, sink)
}

// Reduce runs a fresh Reducer over sig and returns the reduced curve together
// with the reducer's counters.
func Reduce(ctx context.Context, sig Signal, config *Config) (*Curve, Stats, error) {
	r, err := New(config)
	if err != nil {
		return nil, Stats{}, err
	}

	if _, err := sig.Feed(ctx, r); err != nil {
		return nil, r.Stats(), err
	}
	if err := r.Done(); err != nil {
		return nil, r.Stats(), err
	}
	return r.Curve(), r.Stats(), nil
}

// ReduceSamples is a convenience function for one-shot reduction of a dense
// signal.
func ReduceSamples(times, values []float32, config *Config) (*Curve, error) {
	curve, _, err := Reduce(context.Background(), Dense{Times: times, Values: values}, config)
	return curve, err
}

// ReduceCurve resamples src with the given policy and step and reduces the
// result.
func ReduceCurve(ctx context.Context, src *Curve, policy Sampling, step float32, config *Config) (*Curve, error) {
	curve, _, err := Reduce(ctx, Sampled{Curve: src, Policy: policy, Step: step}, config)
	return curve, err
}
