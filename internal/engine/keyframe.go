package engine

import "github.com/tphakala/go-keyframe-reducer/internal/polyfit"

// Keyframe is one emitted spline control point. Tangents are slopes in
// value units per second.
type Keyframe struct {
	Time       float32 `json:"time" yaml:"time"`
	Value      float32 `json:"value" yaml:"value"`
	InTangent  float32 `json:"in" yaml:"in"`
	OutTangent float32 `json:"out" yaml:"out"`
}

// segment is a fitted window projected to absolute time and value.
type segment struct {
	startTime, endTime       float64
	startValue, endValue     float64
	startTangent, endTangent float64
}

// newSegment builds the segment for coefficients fitted over a window whose
// last offset is t. Coefficients must have order+1 entries.
func newSegment(headTime, headValue, t float64, coeffs []float64, order int) segment {
	s := segment{
		startTime:  headTime,
		endTime:    headTime + t,
		startValue: headValue + coeffs[0],
		endValue:   headValue + polyfit.Eval(coeffs, t),
	}

	switch order {
	case linearOrder:
		s.startTangent = coeffs[1]
		s.endTangent = coeffs[1]
	case cubicOrder:
		s.startTangent = coeffs[1]
		s.endTangent = polyfit.Derivative(coeffs, t)
	}
	return s
}

// start returns the opening keyframe. Its incoming tangent is unknown and
// left at zero.
func (s segment) start() Keyframe {
	return Keyframe{
		Time:       float32(s.startTime),
		Value:      float32(s.startValue),
		OutTangent: float32(s.startTangent),
	}
}

// end returns the closing keyframe. Its outgoing tangent is filled in later
// when the next cubic segment is stitched on.
func (s segment) end() Keyframe {
	return Keyframe{
		Time:      float32(s.endTime),
		Value:     float32(s.endValue),
		InTangent: float32(s.endTangent),
	}
}

// degenerate reports whether the segment covers a single sample.
func (s segment) degenerate() bool {
	return s.endTime == s.startTime
}
