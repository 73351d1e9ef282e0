// Package interp implements the polynomial interpolator family of spec.md §4.3: constant,
// linear, cubic, and quintic fits in point-fit, boundary, and differenced-boundary variants, each
// holding a rolling window of recent samples. Coefficients are stored lowest-order first so Eval
// can use direct Horner evaluation, per spec.md's "direct Horner evaluation" requirement.
package interp

// Order is the polynomial order of an interpolator.
type Order int

const (
	Constant Order = 0
	Linear   Order = 1
	Cubic    Order = 3
	Quintic  Order = 5
)

// Poly is a fitted polynomial a[0] + a[1]*tau + a[2]*tau^2 + ... evaluated over tau in [0,1].
type Poly struct {
	coeffs []float64
}

// Eval evaluates the polynomial at tau via Horner's method.
func (p Poly) Eval(tau float64) float64 {
	if len(p.coeffs) == 0 {
		return 0
	}
	v := p.coeffs[len(p.coeffs)-1]
	for i := len(p.coeffs) - 2; i >= 0; i-- {
		v = v*tau + p.coeffs[i]
	}
	return v
}

// Interpolator holds a rolling window of samples and the order it fits.
type Interpolator struct {
	order  Order
	window []float64 // most recent samples, newest last
}

func windowSize(o Order) int {
	switch o {
	case Constant:
		return 1
	case Linear:
		return 2
	case Cubic:
		return 4
	case Quintic:
		return 6
	default:
		return 1
	}
}

// New builds an interpolator of the given order with an empty window.
func New(order Order) *Interpolator {
	return &Interpolator{order: order}
}

// SetHere restarts the interpolator at value, clearing its window (spec.md §4.3).
func (it *Interpolator) SetHere(value float64) {
	it.window = []float64{value}
}

// PushSample appends a new positional sample, keeping only the last windowSize(order) samples
// needed for a point-fit polynomial of this order.
func (it *Interpolator) PushSample(v float64) {
	it.window = append(it.window, v)
	max := windowSize(it.order)
	if len(it.window) > max {
		it.window = it.window[len(it.window)-max:]
	}
}

// BoundaryFit fits a polynomial of it.order to match position/derivatives at both endpoints: p0
// (with derivatives d0) at tau=0 and p1 (with derivatives d1) at tau=1. Only as many derivatives
// as the order supports are used (order 1 uses none beyond positions, order 3 uses velocity,
// order 5 uses velocity+acceleration).
func BoundaryFit(order Order, p0 float64, d0 []float64, p1 float64, d1 []float64) Poly {
	switch order {
	case Constant:
		return Poly{coeffs: []float64{p0}}
	case Linear:
		return Poly{coeffs: []float64{p0, p1 - p0}}
	case Cubic:
		v0, v1 := deriv(d0, 0), deriv(d1, 0)
		// cubic Hermite basis for position+velocity boundary conditions over tau in [0,1].
		a0 := p0
		a1 := v0
		a2 := 3*(p1-p0) - 2*v0 - v1
		a3 := 2*(p0-p1) + v0 + v1
		return Poly{coeffs: []float64{a0, a1, a2, a3}}
	case Quintic:
		v0, v1 := deriv(d0, 0), deriv(d1, 0)
		acc0, acc1 := deriv(d0, 1), deriv(d1, 1)
		a0 := p0
		a1 := v0
		a2 := acc0 / 2
		a3 := (-20*p0 + 20*p1 - (8*v1+12*v0) - (3*acc0-acc1)) / 2
		a4 := (30*p0 - 30*p1 + (14*v1+16*v0) + (3*acc0-2*acc1)) / 2
		a5 := (-12*p0 + 12*p1 - 6*(v0+v1) - (acc0-acc1)) / 2
		return Poly{coeffs: []float64{a0, a1, a2, a3, a4, a5}}
	default:
		return Poly{coeffs: []float64{p0}}
	}
}

func deriv(d []float64, i int) float64 {
	if i < len(d) {
		return d[i]
	}
	return 0
}

// PointFit fits a polynomial of it.order over the most recent inter-sample interval (tau in
// [0,1] from the second-to-last sample to the last one). The polynomial passes through those two
// samples only: its end derivatives are backward differences of the window, and older samples
// feed only those estimates. No least-squares fit over the whole window is made.
func (it *Interpolator) PointFit() Poly {
	n := len(it.window)
	if n == 0 {
		return Poly{coeffs: []float64{0}}
	}
	if n == 1 {
		return Poly{coeffs: []float64{it.window[0]}}
	}
	// finite-difference estimate of derivatives from the window, then boundary-fit.
	last := it.window[n-1]
	prev := it.window[n-2]
	v1 := last - prev
	var v0 float64
	if n >= 3 {
		v0 = prev - it.window[n-3]
	} else {
		v0 = v1
	}
	d0 := []float64{v0}
	d1 := []float64{v1}
	if it.order == Quintic && n >= 4 {
		a1 := v1 - v0
		d0 = append(d0, a1)
		d1 = append(d1, a1)
	}
	return BoundaryFit(it.order, prev, d0, last, d1)
}

// DifferencedBoundaryFit fits a boundary polynomial where missing derivatives are estimated from
// backward differences of the interpolator's prior samples rather than supplied by the caller
// (spec.md §4.3's "differenced boundary" variant).
func (it *Interpolator) DifferencedBoundaryFit(p1 float64) Poly {
	n := len(it.window)
	if n == 0 {
		it.window = []float64{p1}
		return Poly{coeffs: []float64{p1}}
	}
	p0 := it.window[n-1]
	var v0 float64
	if n >= 2 {
		v0 = it.window[n-1] - it.window[n-2]
	}
	poly := BoundaryFit(it.order, p0, []float64{v0}, p1, nil)
	it.PushSample(p1)
	return poly
}
