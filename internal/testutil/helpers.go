// Package testutil provides reusable test helpers for keyframe reduction tests.
package testutil

import (
	"fmt"
	"math"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/go-keyframe-reducer/internal/engine"
)

// FrameStep is one frame at 60 fps, the sampling step most tests use.
const FrameStep = float32(1.0 / 60.0)

type tHelper interface {
	Helper()
}

// AssertStrictlyIncreasing verifies that key times strictly increase.
func AssertStrictlyIncreasing(t assert.TestingT, keys []engine.Keyframe, msgAndArgs ...any) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	for i := 1; i < len(keys); i++ {
		if keys[i].Time <= keys[i-1].Time {
			return assert.Fail(t, fmt.Sprintf("key times not strictly increasing: keys[%d].Time=%v <= keys[%d].Time=%v",
				i, keys[i].Time, i-1, keys[i-1].Time), msgAndArgs...)
		}
	}
	return true
}

// AssertFiniteKeys verifies that no key field is NaN or Inf.
func AssertFiniteKeys(t assert.TestingT, keys []engine.Keyframe, msgAndArgs ...any) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	for i, k := range keys {
		for _, f := range [...]float32{k.Time, k.Value, k.InTangent, k.OutTangent} {
			v := float64(f)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return assert.Fail(t, fmt.Sprintf("non-finite key: keys[%d]=%+v", i, k), msgAndArgs...)
			}
		}
	}
	return true
}

// AssertMaxAbsError verifies that got stays within tolerance of want at every
// index and returns the largest deviation seen.
func AssertMaxAbsError(t assert.TestingT, want, got []float32, tolerance float64, msgAndArgs ...any) float64 {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if !assert.Len(t, got, len(want), msgAndArgs...) {
		return math.Inf(1)
	}
	var worst float64
	worstIdx := 0
	for i := range want {
		if d := math.Abs(float64(got[i]) - float64(want[i])); d > worst {
			worst, worstIdx = d, i
		}
	}
	if worst > tolerance {
		assert.Fail(t, fmt.Sprintf("max error %e at index %d exceeds %e (want=%v, got=%v)",
			worst, worstIdx, tolerance, want[worstIdx], got[worstIdx]), msgAndArgs...)
	}
	return worst
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t assert.TestingT, value, minVal, maxVal float64, msgAndArgs ...any) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if value < minVal || value > maxVal {
		return assert.Fail(t, fmt.Sprintf("value %f is outside range [%f, %f]", value, minVal, maxVal), msgAndArgs...)
	}
	return true
}

// Grid returns n sample times i*dt.
func Grid(n int, dt float32) []float32 {
	ts := make([]float32, n)
	for i := range ts {
		ts[i] = float32(i) * dt
	}
	return ts
}

// Signal evaluates f at every time in ts.
func Signal(ts []float32, f func(t float64) float64) []float32 {
	vs := make([]float32, len(ts))
	for i, t := range ts {
		vs[i] = float32(f(float64(t)))
	}
	return vs
}

// Wave is a smooth two-tone test signal with a period of about one second.
func Wave(t float64) float64 {
	return 1.5*math.Sin(2*math.Pi*t) + 0.4*math.Sin(5*t)
}
