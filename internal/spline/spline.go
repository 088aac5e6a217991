// Package spline evaluates keyframe curves as piecewise cubic Hermite splines.
//
// Between two keys k0 and k1 the curve is
//
//	p(s) = h00(s)*v0 + h10(s)*m0 + h01(s)*v1 + h11(s)*m1,  s = (t - t0) / (t1 - t0)
//
// with m0 = k0.OutTangent*(t1-t0) and m1 = k1.InTangent*(t1-t0). Tangents are
// slopes per second, so a key's outgoing tangent only shapes the span after it
// and its incoming tangent only the span before it. Outside the key range the
// curve holds the first or last value.
package spline

import (
	"sort"

	"github.com/tphakala/go-keyframe-reducer/internal/engine"
)

// Evaluate returns the curve value at t. An empty curve evaluates to 0.
func Evaluate(keys []engine.Keyframe, t float32) float32 {
	switch {
	case len(keys) == 0:
		return 0
	case t <= keys[0].Time:
		return keys[0].Value
	case t >= keys[len(keys)-1].Time:
		return keys[len(keys)-1].Value
	}

	// First key strictly after t; the span is [i-1, i].
	i := sort.Search(len(keys), func(i int) bool { return keys[i].Time > t })
	return hermite(keys[i-1], keys[i], t)
}

// Sample evaluates the curve at every time in ts. ts must be sorted in
// ascending order; the span cursor only moves forward.
func Sample(keys []engine.Keyframe, ts []float32) []float32 {
	out := make([]float32, len(ts))
	if len(keys) == 0 {
		return out
	}

	first, last := keys[0], keys[len(keys)-1]
	span := 1
	for i, t := range ts {
		switch {
		case t <= first.Time:
			out[i] = first.Value
		case t >= last.Time:
			out[i] = last.Value
		default:
			for keys[span].Time <= t {
				span++
			}
			out[i] = hermite(keys[span-1], keys[span], t)
		}
	}
	return out
}

// Duration returns the time of the last key, or 0 for an empty curve.
func Duration(keys []engine.Keyframe) float32 {
	if len(keys) == 0 {
		return 0
	}
	return keys[len(keys)-1].Time
}

// hermite interpolates between k0 and k1, which must satisfy k0.Time < k1.Time.
func hermite(k0, k1 engine.Keyframe, t float32) float32 {
	dt := float64(k1.Time) - float64(k0.Time)
	s := (float64(t) - float64(k0.Time)) / dt
	s2 := s * s
	s3 := s2 * s

	h00 := hermiteTwo*s3 - hermiteThree*s2 + 1
	h10 := s3 - hermiteTwo*s2 + s
	h01 := -hermiteTwo*s3 + hermiteThree*s2
	h11 := s3 - s2

	m0 := float64(k0.OutTangent) * dt
	m1 := float64(k1.InTangent) * dt

	return float32(h00*float64(k0.Value) + h10*m0 + h01*float64(k1.Value) + h11*m1)
}

// Hermite basis coefficients.
const (
	hermiteTwo   = 2.0
	hermiteThree = 3.0
)
