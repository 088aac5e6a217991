package reducer

import (
	"fmt"
	"math"

	"github.com/tphakala/go-keyframe-reducer/internal/spline"
)

// Curve is an immutable keyframed curve evaluated as a cubic Hermite spline.
type Curve struct {
	keys []Keyframe
}

// NewCurve validates keys and wraps a copy of them. Key times must be finite
// and strictly increasing, and values and tangents finite.
func NewCurve(keys []Keyframe) (*Curve, error) {
	for i, k := range keys {
		if !finite(k.Time) || !finite(k.Value) || !finite(k.InTangent) || !finite(k.OutTangent) {
			return nil, fmt.Errorf("%w: key %d is not finite", ErrInvalidInput, i)
		}
		if i > 0 && k.Time <= keys[i-1].Time {
			return nil, fmt.Errorf("%w: key %d at t=%v does not follow t=%v",
				ErrInvalidInput, i, k.Time, keys[i-1].Time)
		}
	}
	return &Curve{keys: append([]Keyframe(nil), keys...)}, nil
}

// Evaluate returns the curve value at t. Before the first key and after the
// last the curve is constant; an empty curve evaluates to 0.
func (c *Curve) Evaluate(t float32) float32 {
	return spline.Evaluate(c.keys, t)
}

// Sample evaluates the curve at ascending times ts.
func (c *Curve) Sample(ts []float32) []float32 {
	return spline.Sample(c.keys, ts)
}

// Keys returns the keyframes. The slice is shared and must not be modified.
func (c *Curve) Keys() []Keyframe {
	return c.keys
}

// Duration returns the time of the last key.
func (c *Curve) Duration() float32 {
	return spline.Duration(c.keys)
}

// Len returns the number of keys.
func (c *Curve) Len() int {
	return len(c.keys)
}

func finite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}
