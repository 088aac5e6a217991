// Package polyfit implements least-squares polynomial fitting over short
// sample windows.
//
// Coefficients are returned lowest order first, so a fit c describes
//
//	p(t) = c[0] + c[1]*t + c[2]*t² + ... + c[d]*t^d
//
// The normal equations are never formed. The Vandermonde system is solved
// through a QR factorization after normalizing t to [-1, 1], which keeps the
// cubic case well conditioned even for windows spanning several seconds.
package polyfit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/tphakala/go-keyframe-reducer/internal/simdops"
)

// Errors returned by the fitting functions.
var (
	// ErrLengthMismatch indicates ts and vs differ in length.
	ErrLengthMismatch = errors.New("polyfit: time and value slices differ in length")

	// ErrNoPoints indicates an empty input.
	ErrNoPoints = errors.New("polyfit: no points to fit")

	// ErrUnderdetermined indicates fewer points than degree+1.
	ErrUnderdetermined = errors.New("polyfit: fewer points than coefficients")

	// ErrInvalidDegree indicates a negative or too large degree.
	ErrInvalidDegree = errors.New("polyfit: invalid degree")
)

// Fitter fits polynomials while reusing its scratch buffers between calls.
// A zero Fitter is ready to use. It is not safe for concurrent use.
type Fitter struct {
	scaled []float64
	diff   []float64
}

// Fit computes the degree-d least-squares polynomial through (ts[i], vs[i]).
// It requires len(ts) >= degree+1.
func (f *Fitter) Fit(ts, vs []float64, degree int) ([]float64, error) {
	if len(ts) != len(vs) {
		return nil, ErrLengthMismatch
	}
	if len(ts) == 0 {
		return nil, ErrNoPoints
	}
	if degree < 0 || degree > MaxDegree {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDegree, degree)
	}
	if len(ts) < degree+1 {
		return nil, fmt.Errorf("%w: %d points for degree %d", ErrUnderdetermined, len(ts), degree)
	}

	n := len(ts)
	cols := degree + 1

	scale := 0.0
	for _, t := range ts {
		scale = math.Max(scale, math.Abs(t))
	}
	if scale == 0 || degree == 0 {
		// All samples share one time, or only the mean is wanted.
		coeffs := make([]float64, cols)
		coeffs[0] = mean(vs)
		return coeffs, nil
	}

	f.scaled = grow(f.scaled, n)
	simdops.For[float64]().Scale(f.scaled, ts, 1/scale)

	a := mat.NewDense(n, cols, nil)
	for i, u := range f.scaled {
		p := 1.0
		for j := range cols {
			a.Set(i, j, p)
			p *= u
		}
	}
	b := mat.NewVecDense(n, append([]float64(nil), vs...))

	var qr mat.QR
	qr.Factorize(a)

	var x mat.VecDense
	if err := qr.SolveVecTo(&x, false, b); err != nil {
		// A Condition error still carries a usable solution.
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("polyfit: solve failed: %w", err)
		}
	}

	coeffs := make([]float64, cols)
	div := 1.0
	for j := range cols {
		coeffs[j] = x.AtVec(j) / div
		div *= scale
	}
	return coeffs, nil
}

// FitPadded fits at the given order when enough points are available.
// With fewer than order+1 points it fits at len(ts)-1 and zero-pads the
// missing high-order coefficients, so the result always has order+1 entries.
func (f *Fitter) FitPadded(ts, vs []float64, order int) ([]float64, error) {
	if len(ts) == 0 {
		return nil, ErrNoPoints
	}
	degree := min(order, len(ts)-1)

	var (
		cs  []float64
		err error
	)
	for ; degree >= 0; degree-- {
		cs, err = f.Fit(ts, vs, degree)
		if err == nil {
			break
		}
		if errors.Is(err, ErrLengthMismatch) || errors.Is(err, ErrInvalidDegree) {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}

	coeffs := make([]float64, order+1)
	copy(coeffs, cs)
	return coeffs, nil
}

// Residual returns Σ (vs[i] - p(ts[i]))², the sum of squared fit errors.
// It is deliberately not normalized by the number of points.
func (f *Fitter) Residual(ts, vs, coeffs []float64) float64 {
	f.diff = grow(f.diff, len(ts))
	for i, t := range ts {
		f.diff[i] = vs[i] - Eval(coeffs, t)
	}
	return simdops.SumSquares(f.diff)
}

// Fit is a convenience wrapper around a throwaway Fitter.
func Fit(ts, vs []float64, degree int) ([]float64, error) {
	var f Fitter
	return f.Fit(ts, vs, degree)
}

// FitPadded is a convenience wrapper around a throwaway Fitter.
func FitPadded(ts, vs []float64, order int) ([]float64, error) {
	var f Fitter
	return f.FitPadded(ts, vs, order)
}

// Residual is a convenience wrapper around a throwaway Fitter.
func Residual(ts, vs, coeffs []float64) float64 {
	var f Fitter
	return f.Residual(ts, vs, coeffs)
}

// Eval evaluates the polynomial at t using Horner's method.
func Eval(coeffs []float64, t float64) float64 {
	y := 0.0
	for j := len(coeffs) - 1; j >= 0; j-- {
		y = y*t + coeffs[j]
	}
	return y
}

// Derivative evaluates the first derivative of the polynomial at t.
func Derivative(coeffs []float64, t float64) float64 {
	y := 0.0
	for j := len(coeffs) - 1; j >= 1; j-- {
		y = y*t + float64(j)*coeffs[j]
	}
	return y
}

func mean(vs []float64) float64 {
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func grow(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}
