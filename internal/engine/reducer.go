// Package engine implements online keyframe reduction.
//
// A Reducer consumes one channel sample at a time, keeps a window of samples
// relative to the window head, and cuts a polynomial segment whenever the
// least-squares residual of the window exceeds the threshold.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/tphakala/go-keyframe-reducer/internal/polyfit"
)

// Errors returned by the engine.
var (
	// ErrInvalidConfig indicates invalid reducer options.
	ErrInvalidConfig = errors.New("invalid reducer configuration")

	// ErrInvalidInput indicates a non-finite sample or a sample time that
	// does not strictly increase.
	ErrInvalidInput = errors.New("invalid input sample")

	// ErrCorruptSegment indicates a keyframe that would not strictly follow
	// the previously committed one.
	ErrCorruptSegment = errors.New("corrupt segment")

	// ErrFinished indicates Tick was called after Done.
	ErrFinished = errors.New("reducer already finished")
)

// Options configures a Reducer.
type Options struct {
	// Threshold is the maximum residual (sum of squared errors over the
	// window) accepted before a segment is cut.
	Threshold float64

	// Mode selects the fit order and unwrapping.
	Mode Mode

	// UnwrapRadian enables 2π unwrapping in Radian mode.
	UnwrapRadian bool

	// Strict makes a corrupt segment abort the channel instead of being
	// logged and skipped.
	Strict bool

	// Logger receives warnings in permissive mode. Defaults to slog.Default().
	Logger *slog.Logger
}

// Validate checks the options.
func (o *Options) Validate() error {
	if math.IsNaN(o.Threshold) || math.IsInf(o.Threshold, 0) || o.Threshold < 0 {
		return fmt.Errorf("%w: threshold must be a finite non-negative number, got %v", ErrInvalidConfig, o.Threshold)
	}
	if !o.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidConfig, int(o.Mode))
	}
	return nil
}

// Stats counts what a Reducer has consumed and produced.
type Stats struct {
	Samples         int
	Segments        int
	Keyframes       int
	CorruptSegments int
}

// Reducer reduces a single channel. It is not safe for concurrent use;
// create one per channel.
type Reducer struct {
	order     int
	threshold float64
	strict    bool
	log       *slog.Logger

	unwrap unwrapper
	win    *window
	fit    polyfit.Fitter
	ts, vs []float64

	headTime  float64
	headValue float64

	hasLast  bool
	lastTime float32

	// pending is the end keyframe of the previous cubic segment, held back
	// until the next segment supplies its outgoing tangent.
	pending *Keyframe
	keys    []Keyframe

	stats Stats
	done  bool
	err   error
}

// NewReducer creates a Reducer for one channel.
func NewReducer(opts Options) (*Reducer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reducer{
		order:     opts.Mode.Order(),
		threshold: opts.Threshold,
		strict:    opts.Strict,
		log:       logger,
		unwrap:    newUnwrapper(opts.Mode, opts.UnwrapRadian),
		win:       newWindow(defaultWindowCapacity),
	}, nil
}

// Tick feeds the next sample. Samples must arrive in strictly increasing
// time order; a rejected sample leaves the reducer unchanged.
func (r *Reducer) Tick(t, value float32) error {
	if r.err != nil {
		return r.err
	}
	if r.done {
		return ErrFinished
	}
	if !finite(t) || !finite(value) {
		return fmt.Errorf("%w: non-finite sample (%v, %v)", ErrInvalidInput, t, value)
	}
	if r.hasLast && t <= r.lastTime {
		return fmt.Errorf("%w: time %v does not follow %v", ErrInvalidInput, t, r.lastTime)
	}
	r.hasLast = true
	r.lastTime = t
	r.stats.Samples++

	tt := float64(t)
	v := r.unwrap.apply(float64(value))
	if r.win.Len() == 0 {
		r.headTime = tt
		r.headValue = v
	}
	r.win.PushBack(tt-r.headTime, v-r.headValue)
	if r.win.Len() <= r.order+1 {
		return nil
	}

	r.ts, r.vs = r.win.Split(r.ts, r.vs)
	coeffs, err := r.fit.Fit(r.ts, r.vs, r.order)
	if err != nil {
		return fmt.Errorf("fit window: %w", err)
	}
	if r.fit.Residual(r.ts, r.vs, coeffs) > r.threshold {
		return r.flush(false)
	}
	return nil
}

// Done flushes the remaining window and commits the pending keyframe.
// Calling Done more than once is a no-op.
func (r *Reducer) Done() error {
	if r.err != nil {
		return r.err
	}
	if r.done {
		return nil
	}
	r.done = true

	if err := r.flush(true); err != nil {
		return err
	}
	if r.pending != nil {
		k := *r.pending
		r.pending = nil
		return r.commit(k)
	}
	return nil
}

// Keys returns a copy of the committed keyframes.
func (r *Reducer) Keys() []Keyframe {
	out := make([]Keyframe, len(r.keys))
	copy(out, r.keys)
	return out
}

// Stats returns the counters accumulated so far.
func (r *Reducer) Stats() Stats {
	return r.stats
}

// Err returns the error latched by a strict-mode corrupt segment, if any.
func (r *Reducer) Err() error {
	return r.err
}

// flush fits the window and emits it as a segment. A non-final flush keeps
// the trailing samples that seed the next window: in cubic mode the last two
// samples, the first of which also closes the emitted segment; otherwise the
// last sample only.
func (r *Reducer) flush(final bool) error {
	if r.win.Len() == 0 {
		return nil
	}

	var (
		seed          [2]offset
		seeds         int
		nextHeadTime  float64
		nextHeadValue float64
	)
	if !final {
		if r.order == cubicOrder {
			t1, v1 := r.win.PopBack()
			t0, v0 := r.win.Back()
			nextHeadTime, nextHeadValue = r.headTime+t0, r.headValue+v0
			seed[1] = offset{t: t1 - t0, v: v1 - v0}
			seeds = 2
		} else {
			t0, v0 := r.win.PopBack()
			nextHeadTime, nextHeadValue = r.headTime+t0, r.headValue+v0
			seeds = 1
		}
	}

	r.ts, r.vs = r.win.Split(r.ts, r.vs)
	coeffs, err := r.fit.FitPadded(r.ts, r.vs, r.order)
	if err != nil {
		return fmt.Errorf("fit segment: %w", err)
	}
	seg := newSegment(r.headTime, r.headValue, r.ts[len(r.ts)-1], coeffs, r.order)

	r.win.Reset()
	if !final {
		r.headTime, r.headValue = nextHeadTime, nextHeadValue
		for _, o := range seed[:seeds] {
			r.win.PushBack(o.t, o.v)
		}
	}

	return r.emit(seg, final)
}

// emit commits the keyframes of one segment. In cubic mode the segment's end
// keyframe is held as pending unless this is the final flush.
func (r *Reducer) emit(seg segment, final bool) error {
	r.stats.Segments++

	start := seg.start()
	if r.pending != nil {
		start = *r.pending
		start.OutTangent = float32(seg.startTangent)
		r.pending = nil
	}
	if err := r.commit(start); err != nil {
		return err
	}
	if seg.degenerate() {
		return nil
	}

	end := seg.end()
	if final || r.order != cubicOrder {
		return r.commit(end)
	}
	r.pending = &end
	return nil
}

// commit appends k to the output, enforcing strictly increasing times.
func (r *Reducer) commit(k Keyframe) error {
	if n := len(r.keys); n > 0 && k.Time <= r.keys[n-1].Time {
		r.stats.CorruptSegments++
		err := fmt.Errorf("%w: keyframe at t=%v does not follow t=%v", ErrCorruptSegment, k.Time, r.keys[n-1].Time)
		if r.strict {
			r.err = err
			return err
		}
		r.log.Warn("skipping keyframe",
			slog.Float64("time", float64(k.Time)),
			slog.Float64("previous", float64(r.keys[n-1].Time)),
			slog.Any("error", err))
		return nil
	}
	r.keys = append(r.keys, k)
	r.stats.Keyframes++
	return nil
}

func finite(f float32) bool {
	x := float64(f)
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
