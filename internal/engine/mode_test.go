package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMode_Order(t *testing.T) {
	assert.Equal(t, 0, Discrete.Order())
	assert.Equal(t, 1, Linear.Order())
	assert.Equal(t, 3, Smooth.Order())
	assert.Equal(t, 3, Degree.Order())
	assert.Equal(t, 3, Radian.Order())
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{Discrete, Linear, Smooth, Degree, Radian} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseMode("  Degree ")
	require.NoError(t, err)
	assert.Equal(t, Degree, got)

	_, err = ParseMode("bezier")
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestMode_StringUnknown(t *testing.T) {
	assert.Equal(t, "Mode(9)", Mode(9).String())
	assert.False(t, Mode(-1).Valid())
}
