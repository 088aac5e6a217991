package engine

import "math"

// Fit orders per mode.
const (
	discreteOrder = 0
	linearOrder   = 1
	cubicOrder    = 3
)

// Unwrap periods.
const (
	degreePeriod = 360.0
	radianPeriod = 2 * math.Pi
)

// defaultWindowCapacity is the initial window allocation in samples.
// Windows grow on demand; most segments at 60 Hz stay well below this.
const defaultWindowCapacity = 64
