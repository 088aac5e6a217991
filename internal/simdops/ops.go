// Package simdops binds the vector kernels of github.com/tphakala/simd to a
// single generic table. Fitting runs in float64 and PCM normalization in
// float32, so callers pick the table for their element type with For.
package simdops

import (
	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"
)

// Float is the element type constraint.
type Float interface {
	float32 | float64
}

// Ops holds the kernels for one element type.
type Ops[F Float] struct {
	// DotProductUnsafe returns Σ a[i]*b[i]. len(a) must equal len(b).
	DotProductUnsafe func(a, b []F) F

	// Scale writes a[i]*s to dst[i].
	Scale func(dst, a []F, s F)
}

var (
	table32 = &Ops[float32]{DotProductUnsafe: f32.DotProductUnsafe, Scale: f32.Scale}
	table64 = &Ops[float64]{DotProductUnsafe: f64.DotProductUnsafe, Scale: f64.Scale}
)

// For returns the kernel table for F.
func For[F Float]() *Ops[F] {
	var table any
	switch any(*new(F)).(type) {
	case float32:
		table = table32
	case float64:
		table = table64
	}
	ops, ok := table.(*Ops[F])
	if !ok {
		panic("simdops: no kernels for element type")
	}
	return ops
}

// SumSquares returns Σ a[i]², the squared Euclidean norm of a.
func SumSquares[F Float](a []F) F {
	if len(a) == 0 {
		return 0
	}
	return For[F]().DotProductUnsafe(a, a)
}
