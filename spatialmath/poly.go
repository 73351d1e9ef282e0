package spatialmath

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// Complex is spec.md's (re, im) complex scalar, kept as its own named type (rather than a bare
// complex128) so polynomial-solver call sites read the way the spec names them.
type Complex struct {
	Re, Im float64
}

func toComplex(c complex128) Complex { return Complex{Re: real(c), Im: imag(c)} }

// Quadratic holds a*x^2 + b*x + c coefficients.
type Quadratic struct {
	A, B, C float64
}

// Roots returns both roots via the closed-form quadratic formula.
func (q Quadratic) Roots() [2]Complex {
	disc := complex(q.B*q.B-4*q.A*q.C, 0)
	sq := cmplx.Sqrt(disc)
	a := complex(2*q.A, 0)
	r1 := (complex(-q.B, 0) + sq) / a
	r2 := (complex(-q.B, 0) - sq) / a
	return [2]Complex{toComplex(r1), toComplex(r2)}
}

// Cubic holds a*x^3 + b*x^2 + c*x + d coefficients.
type Cubic struct {
	A, B, C, D float64
}

// Roots returns all three roots, found via the companion-matrix eigenvalue method (gonum mat),
// matching spec.md §4.1's requirement that every returned root re-evaluates below tolerance.
func (cu Cubic) Roots() [3]Complex {
	return companionRoots3(cu.B/cu.A, cu.C/cu.A, cu.D/cu.A)
}

func companionRoots3(b, c, d float64) [3]Complex {
	// companion matrix of x^3 + b x^2 + c x + d
	m := mat.NewDense(3, 3, []float64{
		0, 0, -d,
		1, 0, -c,
		0, 1, -b,
	})
	var eig mat.Eigen
	eig.Factorize(m, mat.EigenNone)
	vals := eig.Values(nil)
	var out [3]Complex
	for i, v := range vals {
		out[i] = Complex{Re: real(v), Im: imag(v)}
	}
	return out
}

// Quartic holds a*x^4 + b*x^3 + c*x^2 + d*x + e coefficients.
type Quartic struct {
	A, B, C, D, E float64
}

// Roots returns all four roots via the companion-matrix eigenvalue method.
func (qu Quartic) Roots() [4]Complex {
	b, c, d, e := qu.B/qu.A, qu.C/qu.A, qu.D/qu.A, qu.E/qu.A
	m := mat.NewDense(4, 4, []float64{
		0, 0, 0, -e,
		1, 0, 0, -d,
		0, 1, 0, -c,
		0, 0, 1, -b,
	})
	var eig mat.Eigen
	eig.Factorize(m, mat.EigenNone)
	vals := eig.Values(nil)
	var out [4]Complex
	for i, v := range vals {
		out[i] = Complex{Re: real(v), Im: imag(v)}
	}
	return out
}

// Residual re-evaluates the cubic at root and returns the magnitude of the result, used by
// tests to verify roots within a tolerance that scales with coefficient magnitude (spec.md §8
// property 4).
func (cu Cubic) Residual(root Complex) float64 {
	x := complex(root.Re, root.Im)
	v := complex(cu.A, 0)*x*x*x + complex(cu.B, 0)*x*x + complex(cu.C, 0)*x + complex(cu.D, 0)
	return cmplx.Abs(v)
}

// Residual re-evaluates the quartic at root.
func (qu Quartic) Residual(root Complex) float64 {
	x := complex(root.Re, root.Im)
	v := complex(qu.A, 0)*x*x*x*x + complex(qu.B, 0)*x*x*x + complex(qu.C, 0)*x*x + complex(qu.D, 0)*x + complex(qu.E, 0)
	return cmplx.Abs(v)
}

// Residual re-evaluates the quadratic at root.
func (q Quadratic) Residual(root Complex) float64 {
	x := complex(root.Re, root.Im)
	v := complex(q.A, 0)*x*x + complex(q.B, 0)*x + complex(q.C, 0)
	return cmplx.Abs(v)
}

// CoeffMagnitude returns a scale used to size the residual tolerance in spec.md §8 property 4.
func (q Quadratic) CoeffMagnitude() float64 {
	return math.Max(1, math.Abs(q.A)+math.Abs(q.B)+math.Abs(q.C))
}

func (cu Cubic) CoeffMagnitude() float64 {
	return math.Max(1, math.Abs(cu.A)+math.Abs(cu.B)+math.Abs(cu.C)+math.Abs(cu.D))
}

func (qu Quartic) CoeffMagnitude() float64 {
	return math.Max(1, math.Abs(qu.A)+math.Abs(qu.B)+math.Abs(qu.C)+math.Abs(qu.D)+math.Abs(qu.E))
}
