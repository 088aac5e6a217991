// Package sampler turns a keyframed source curve into a stream of samples for a
// reducer. Two policies are provided: FixedStep walks the whole curve at a
// constant interval, Adaptive only samples around the source's own keys.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-keyframe-reducer/internal/engine"
)

// ErrInvalidStep is returned when the sampling interval is not a positive,
// finite number.
var ErrInvalidStep = errors.New("invalid sampling step")

// endEpsilon is how far short of the last key a fixed-step walk may stop
// before the last key itself is sampled explicitly.
const endEpsilon = 1e-4

// Sink receives samples in strictly increasing time order.
type Sink interface {
	Tick(t, v float32) error
}

// Source is a curve that can be evaluated at arbitrary times.
type Source interface {
	Evaluate(t float32) float32
	Keys() []engine.Keyframe
}

// Policy selects a sampling function by name.
type Policy string

const (
	PolicyFixed    Policy = "fixed"
	PolicyAdaptive Policy = "adaptive"
)

// ParsePolicy maps a policy name to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyFixed, PolicyAdaptive:
		return p, nil
	default:
		return "", fmt.Errorf("unknown sampling policy %q (want %q or %q)", s, PolicyFixed, PolicyAdaptive)
	}
}

// Run samples src into sink using the given policy.
func Run(ctx context.Context, p Policy, src Source, dt float32, sink Sink) (int, error) {
	switch p {
	case PolicyAdaptive:
		return Adaptive(ctx, src, dt, sink)
	case PolicyFixed, "":
		return FixedStep(ctx, src, dt, sink)
	default:
		return 0, fmt.Errorf("unknown sampling policy %q", p)
	}
}

// FixedStep feeds sink with samples at 0, dt, 2dt, ... strictly before the
// time of the source's last key. If the last emitted sample falls short of the
// end by more than endEpsilon, the end itself is sampled. It returns the
// number of samples delivered.
func FixedStep(ctx context.Context, src Source, dt float32, sink Sink) (int, error) {
	if err := checkStep(dt); err != nil {
		return 0, err
	}
	keys := src.Keys()
	if len(keys) == 0 {
		return 0, nil
	}
	end := keys[len(keys)-1].Time

	n := 0
	last := float32(math.Inf(-1))
	for i := 0; ; i++ {
		t := float32(i) * dt
		if t >= end {
			break
		}
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := sink.Tick(t, src.Evaluate(t)); err != nil {
			return n, err
		}
		last = t
		n++
	}

	if last+endEpsilon < end {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := sink.Tick(end, src.Evaluate(end)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Adaptive samples two steps before each source key, the key itself, and one
// step after it (except after the last key). Candidates that would not move
// time strictly forward are dropped, so keys closer together than dt thin out
// instead of producing out-of-order samples. The key sample carries the key's
// stored value rather than an evaluated one. Sampling starts at time 0, so a
// curve whose first key lies later gets lead-in samples before that key.
func Adaptive(ctx context.Context, src Source, dt float32, sink Sink) (int, error) {
	if err := checkStep(dt); err != nil {
		return 0, err
	}
	keys := src.Keys()
	if len(keys) == 0 {
		return 0, nil
	}

	a := adaptive{ctx: ctx, sink: sink}
	for i, k := range keys {
		if err := a.emit(k.Time-2*dt, src.Evaluate); err != nil {
			return a.n, err
		}
		if err := a.emit(k.Time-dt, src.Evaluate); err != nil {
			return a.n, err
		}
		if err := a.key(k); err != nil {
			return a.n, err
		}
		if i == len(keys)-1 {
			break
		}
		if err := a.emit(k.Time+dt, src.Evaluate); err != nil {
			return a.n, err
		}
	}
	return a.n, nil
}

type adaptive struct {
	ctx     context.Context
	sink    Sink
	last    float32
	started bool
	n       int
}

func (a *adaptive) emit(t float32, eval func(float32) float32) error {
	if t <= a.last {
		return nil
	}
	return a.tick(t, eval(t))
}

func (a *adaptive) key(k engine.Keyframe) error {
	if a.started && k.Time <= a.last {
		return nil
	}
	return a.tick(k.Time, k.Value)
}

func (a *adaptive) tick(t, v float32) error {
	if err := a.ctx.Err(); err != nil {
		return err
	}
	if err := a.sink.Tick(t, v); err != nil {
		return err
	}
	a.last = t
	a.started = true
	a.n++
	return nil
}

func checkStep(dt float32) error {
	if !(dt > 0) || math.IsInf(float64(dt), 1) {
		return fmt.Errorf("%w: %v", ErrInvalidStep, dt)
	}
	return nil
}
