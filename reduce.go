package reducer

import (
	"fmt"
	"log/slog"

	"github.com/tphakala/go-keyframe-reducer/internal/engine"
	"github.com/tphakala/go-keyframe-reducer/internal/sampler"
)

// Keyframe is a spline control point. Tangents are slopes in value units per
// second.
type Keyframe = engine.Keyframe

// Mode selects the fit order and value preprocessing of a channel.
type Mode = engine.Mode

// Stats counts what a Reducer has consumed and produced.
type Stats = engine.Stats

// Channel modes.
const (
	Discrete = engine.Discrete
	Linear   = engine.Linear
	Smooth   = engine.Smooth
	Degree   = engine.Degree
	Radian   = engine.Radian
)

// Common errors returned by the reducer.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = engine.ErrInvalidConfig

	// ErrInvalidInput indicates a non-finite sample or a sample time that does
	// not strictly increase.
	ErrInvalidInput = engine.ErrInvalidInput

	// ErrCorruptSegment indicates an emitted keyframe that does not strictly
	// follow the previous one. Only returned in strict mode.
	ErrCorruptSegment = engine.ErrCorruptSegment

	// ErrFinished indicates Tick was called after Done.
	ErrFinished = engine.ErrFinished

	// ErrInvalidStep indicates a non-positive sampling interval.
	ErrInvalidStep = sampler.ErrInvalidStep
)

// ParseMode converts a mode name such as "smooth" or "degree" to a Mode.
func ParseMode(s string) (Mode, error) {
	return engine.ParseMode(s)
}

// Config holds reduction configuration for one channel.
type Config struct {
	// Threshold is the largest accepted sum of squared residuals over the
	// current window. Smaller values keep more keyframes.
	Threshold float64

	// Mode selects the segment order and unwrapping.
	Mode Mode

	// UnwrapRadian unwraps Radian channels modulo 2π. Degree channels are
	// always unwrapped modulo 360.
	UnwrapRadian bool

	// Strict turns a corrupt segment into an error that aborts the channel.
	// By default the offending keyframe is logged and skipped.
	Strict bool

	// Logger receives warnings. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Smooth configuration with the default threshold.
func DefaultConfig() *Config {
	return &Config{
		Threshold: DefaultThreshold,
		Mode:      DefaultMode,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	opts := c.options()
	return opts.Validate()
}

func (c *Config) options() engine.Options {
	return engine.Options{
		Threshold:    c.Threshold,
		Mode:         c.Mode,
		UnwrapRadian: c.UnwrapRadian,
		Strict:       c.Strict,
		Logger:       c.Logger,
	}
}

// Reducer reduces a single channel. Create one per channel.
type Reducer struct {
	engine *engine.Reducer
}

// New creates a Reducer from config.
func New(config *Config) (*Reducer, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	e, err := engine.NewReducer(config.options())
	if err != nil {
		return nil, err
	}
	return &Reducer{engine: e}, nil
}

// Tick feeds one sample. Times must be finite and strictly increasing; a
// rejected sample leaves the reducer unchanged and returns ErrInvalidInput.
func (r *Reducer) Tick(t, value float32) error {
	return r.engine.Tick(t, value)
}

// Done flushes the remaining window. It must be called once after the last
// Tick; further calls are no-ops.
func (r *Reducer) Done() error {
	return r.engine.Done()
}

// Keys returns a copy of the committed keyframes.
func (r *Reducer) Keys() []Keyframe {
	return r.engine.Keys()
}

// Curve returns the committed keyframes as a Curve. Call it after Done.
func (r *Reducer) Curve() *Curve {
	return &Curve{keys: r.engine.Keys()}
}

// Stats returns counters for the samples consumed so far.
func (r *Reducer) Stats() Stats {
	return r.engine.Stats()
}

// Err returns the sticky error of a strict reducer, if any.
func (r *Reducer) Err() error {
	return r.engine.Err()
}
