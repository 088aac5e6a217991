// Package reducer compresses densely sampled animation channels into sparse
// cubic Hermite keyframes in a single online pass.
//
// A [Reducer] consumes one channel sample at a time. It keeps a window of the
// samples seen since the last cut, fits a polynomial to it by least squares and,
// once the sum of squared residuals exceeds the configured threshold, emits the
// fitted segment as keyframes and starts a new window. The result reproduces
// the input within an error bound governed by the threshold.
//
// # Quick Start
//
// For one-shot reduction of a dense signal:
//
//	curve, err := reducer.ReduceSamples(times, values, &reducer.Config{
//	    Threshold: 1e-6,
//	    Mode:      reducer.Smooth,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(curve.Len(), curve.Evaluate(0.5))
//
// For streaming reduction:
//
//	r, err := reducer.New(reducer.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, s := range samples {
//	    if err := r.Tick(s.T, s.V); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	if err := r.Done(); err != nil {
//	    log.Fatal(err)
//	}
//	keys := r.Keys()
//
// # Modes
//
// The [Mode] picks the polynomial order of each segment and how values are
// preprocessed:
//
//   - [Discrete]: order 0. Flat plateaus with zero tangents, for step signals
//     such as visibility flags.
//   - [Linear]: order 1.
//   - [Smooth]: order 3. Consecutive segments share a junction key so the
//     curve stays continuous.
//   - [Degree]: order 3 with unwrapping of angles in degrees, so a rotation
//     crossing ±180 stays continuous.
//   - [Radian]: order 3. Unwrapping modulo 2π is opt-in via
//     [Config.UnwrapRadian].
//
// # Multiple Channels
//
// Channels are independent. [ReduceChannels] runs one Reducer per channel on a
// bounded worker pool and returns results in input order. A failing channel
// records its error in its own [ChannelResult] and does not stop the others.
//
// # Thread Safety
//
// A [Reducer] is not safe for concurrent use. A [Curve] is immutable and can be
// evaluated from multiple goroutines.
package reducer
