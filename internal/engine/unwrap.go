package engine

import "math"

// unwrapper turns a periodic value stream into a continuous one by moving
// every sample to the representative closest to its predecessor.
// A zero period disables it.
type unwrapper struct {
	period float64
	last   float64
	primed bool
}

func newUnwrapper(mode Mode, unwrapRadian bool) unwrapper {
	switch {
	case mode == Degree:
		return unwrapper{period: degreePeriod}
	case mode == Radian && unwrapRadian:
		return unwrapper{period: radianPeriod}
	default:
		return unwrapper{}
	}
}

// apply returns the unwrapped value for c. The step from the previous value
// is reduced into [-period/2, period/2).
func (u *unwrapper) apply(c float64) float64 {
	if u.period == 0 {
		return c
	}
	if !u.primed {
		u.primed = true
		u.last = c
		return c
	}

	half := u.period / 2
	delta := c - u.last
	delta = math.Mod(math.Mod(delta+half, u.period)+u.period, u.period) - half
	u.last += delta
	return u.last
}
