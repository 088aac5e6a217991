package testutil

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/go-keyframe-reducer/internal/engine"
)

// capture records failures instead of failing the enclosing test.
type capture struct {
	messages []string
}

func (c *capture) Errorf(format string, args ...any) {
	c.messages = append(c.messages, fmt.Sprintf(format, args...))
}

func (c *capture) output() string {
	return strings.Join(c.messages, "\n")
}

func TestAssertions_ForwardMessage(t *testing.T) {
	unordered := []engine.Keyframe{{Time: 1}, {Time: 1}}
	nan := []engine.Keyframe{{Time: 0, Value: float32(math.NaN())}}

	tests := []struct {
		name   string
		run    func(c *capture) bool
		detail string
	}{
		{
			name:   "strictly increasing",
			run:    func(c *capture) bool { return AssertStrictlyIncreasing(c, unordered, "%v at %g", "smooth", 1e-3) },
			detail: "keys[1].Time=1 <= keys[0].Time=1",
		},
		{
			name:   "finite keys",
			run:    func(c *capture) bool { return AssertFiniteKeys(c, nan, "%v at %g", "smooth", 1e-3) },
			detail: "non-finite key",
		},
		{
			name: "max abs error",
			run: func(c *capture) bool {
				worst := AssertMaxAbsError(c, []float32{0, 0}, []float32{0, 0.5}, 0.1, "%v at %g", "smooth", 1e-3)
				return worst <= 0.1
			},
			detail: "at index 1 exceeds",
		},
		{
			name:   "in range",
			run:    func(c *capture) bool { return AssertInRange(c, 2, 0, 1, "%v at %g", "smooth", 1e-3) },
			detail: "outside range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c capture
			assert.False(t, tt.run(&c))
			assert.Contains(t, c.output(), tt.detail)
			assert.Contains(t, c.output(), "smooth at 0.001")
		})
	}
}

func TestAssertions_Pass(t *testing.T) {
	var c capture
	keys := []engine.Keyframe{{Time: 0}, {Time: 1}}
	assert.True(t, AssertStrictlyIncreasing(&c, keys))
	assert.True(t, AssertFiniteKeys(&c, keys))
	assert.InDelta(t, 0.25, AssertMaxAbsError(&c, []float32{0, 1}, []float32{0.25, 1}, 0.5), 1e-9)
	assert.True(t, AssertInRange(&c, 0.5, 0, 1))
	assert.Empty(t, c.messages)
}
