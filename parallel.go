package reducer

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// ChannelInput is one channel of a multi-channel reduction.
type ChannelInput struct {
	// Name identifies the channel in results, logs and metrics.
	Name string

	// Config is the channel's reduction configuration.
	Config Config

	// Signal provides the channel's samples.
	Signal Signal
}

// ChannelResult is the outcome of reducing one channel.
type ChannelResult struct {
	Name    string
	Curve   *Curve
	Samples int
	Stats   Stats
	Elapsed time.Duration
	Err     error
}

// Observer receives one observation per finished channel. It is called from
// worker goroutines and must be safe for concurrent use.
type Observer interface {
	ObserveChannel(name string, stats Stats, elapsed time.Duration, err error)
}

// Options controls ReduceChannels.
type Options struct {
	// Workers bounds the number of channels reduced concurrently.
	// Zero or negative means runtime.GOMAXPROCS(0).
	Workers int

	// Observer, if set, is called once for every channel that ran.
	Observer Observer
}

// ReduceChannels reduces every channel with its own Reducer on a bounded pool
// of goroutines. Results are returned in input order. A channel that fails
// reports the error in its result and does not affect the others.
//
// When ctx is cancelled no further channels are started; the partial results
// are returned together with ctx.Err(). Channels that never ran carry the
// context error.
func ReduceChannels(ctx context.Context, inputs []ChannelInput, opts Options) ([]ChannelResult, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]ChannelResult, len(inputs))
	for i := range inputs {
		results[i].Name = inputs[i].Name
	}

	var g errgroup.Group
	g.SetLimit(workers)

	for i := range inputs {
		if err := ctx.Err(); err != nil {
			markSkipped(results[i:], err)
			break
		}
		g.Go(func() error {
			results[i] = reduceChannel(ctx, &inputs[i], opts.Observer)
			return nil
		})
	}

	// Workers never return errors; failures live in the results.
	_ = g.Wait()

	return results, ctx.Err()
}

func reduceChannel(ctx context.Context, in *ChannelInput, obs Observer) ChannelResult {
	res := ChannelResult{Name: in.Name}
	start := time.Now()

	r, err := New(&in.Config)
	if err != nil {
		res.Err = fmt.Errorf("channel %q: %w", in.Name, err)
		observe(obs, &res, start)
		return res
	}

	if in.Signal == nil {
		res.Err = fmt.Errorf("channel %q: %w: no signal", in.Name, ErrInvalidInput)
	} else if res.Samples, err = in.Signal.Feed(ctx, r); err != nil {
		res.Err = fmt.Errorf("channel %q: %w", in.Name, err)
	} else if err := r.Done(); err != nil {
		res.Err = fmt.Errorf("channel %q: %w", in.Name, err)
	} else {
		res.Curve = r.Curve()
	}

	res.Stats = r.Stats()
	observe(obs, &res, start)
	return res
}

func observe(obs Observer, res *ChannelResult, start time.Time) {
	res.Elapsed = time.Since(start)
	if obs != nil {
		obs.ObserveChannel(res.Name, res.Stats, res.Elapsed, res.Err)
	}
}

func markSkipped(results []ChannelResult, err error) {
	for i := range results {
		results[i].Err = err
	}
}
