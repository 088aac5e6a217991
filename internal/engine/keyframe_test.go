package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSegment_Tangents(t *testing.T) {
	coeffs := []float64{1, 2, 3, 4}

	tests := []struct {
		name               string
		order              int
		coeffs             []float64
		wantStart, wantEnd float64
	}{
		{"discrete", discreteOrder, []float64{1}, 0, 0},
		{"linear", linearOrder, []float64{1, 2}, 2, 2},
		{"cubic", cubicOrder, coeffs, 2, 2 + 2*3*0.5 + 3*4*0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSegment(10, 100, 0.5, tt.coeffs, tt.order)
			assert.InDelta(t, tt.wantStart, s.startTangent, 1e-12)
			assert.InDelta(t, tt.wantEnd, s.endTangent, 1e-12)
			assert.Equal(t, 10.0, s.startTime)
			assert.Equal(t, 10.5, s.endTime)
			assert.Equal(t, 101.0, s.startValue)
		})
	}
}

func TestSegment_Keyframes(t *testing.T) {
	s := newSegment(1, 5, 2, []float64{0, 1, 0, 0}, cubicOrder)

	start := s.start()
	assert.Equal(t, Keyframe{Time: 1, Value: 5, OutTangent: 1}, start)

	end := s.end()
	assert.Equal(t, Keyframe{Time: 3, Value: 7, InTangent: 1}, end)
	assert.False(t, s.degenerate())

	single := newSegment(1, 5, 0, []float64{0, 0, 0, 0}, cubicOrder)
	assert.True(t, single.degenerate())
}
