package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func unwrapAll(u unwrapper, in []float64) []float64 {
	out := make([]float64, len(in))
	for i, c := range in {
		out[i] = u.apply(c)
	}
	return out
}

func TestUnwrapper_Degree(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{
			name: "oscillation across the seam",
			in:   []float64{170, -170, 170, -170},
			want: []float64{170, 190, 170, 190},
		},
		{
			name: "steady rotation through the seam",
			in:   []float64{170, -170, -150, -130},
			want: []float64{170, 190, 210, 230},
		},
		{
			name: "negative rotation",
			in:   []float64{-170, 170, 150},
			want: []float64{-170, -190, -210},
		},
		{
			name: "half turn maps to minus half",
			in:   []float64{0, 180},
			want: []float64{0, -180},
		},
		{
			name: "multiple turns in one step are folded",
			in:   []float64{10, 740},
			want: []float64{10, 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := unwrapAll(newUnwrapper(Degree, false), tt.in)
			assert.InDeltaSlice(t, tt.want, got, 1e-9)
		})
	}
}

func TestUnwrapper_Radian(t *testing.T) {
	in := []float64{3, -3, -2.5}
	want := []float64{3, 2*math.Pi - 3, 2*math.Pi - 2.5}

	got := unwrapAll(newUnwrapper(Radian, true), in)
	assert.InDeltaSlice(t, want, got, 1e-9)

	// Without the option Radian behaves like Smooth.
	assert.Equal(t, in, unwrapAll(newUnwrapper(Radian, false), in))
}

func TestUnwrapper_IdentityForOtherModes(t *testing.T) {
	in := []float64{170, -170, 170, -170}
	for _, mode := range []Mode{Discrete, Linear, Smooth} {
		assert.Equal(t, in, unwrapAll(newUnwrapper(mode, true), in), mode.String())
	}
}
