package engine

import (
	"fmt"
	"strings"
)

// Mode selects how a channel is fitted.
type Mode int

const (
	// Discrete fits flat plateaus (order 0). Used for on/off style properties.
	Discrete Mode = iota

	// Linear fits straight segments (order 1).
	Linear

	// Smooth fits cubic segments joined at shared keys (order 3).
	Smooth

	// Degree is Smooth plus unwrapping of angles measured in degrees.
	Degree

	// Radian is Smooth for angles in radians. Unwrapping is opt-in,
	// see Options.UnwrapRadian.
	Radian
)

var modeNames = [...]string{
	Discrete: "discrete",
	Linear:   "linear",
	Smooth:   "smooth",
	Degree:   "degree",
	Radian:   "radian",
}

// Order returns the polynomial order used for fitting.
func (m Mode) Order() int {
	switch m {
	case Discrete:
		return discreteOrder
	case Linear:
		return linearOrder
	default:
		return cubicOrder
	}
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m >= Discrete && m <= Radian
}

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode converts a case-insensitive mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m, n := range modeNames {
		if n == name {
			return Mode(m), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
}
