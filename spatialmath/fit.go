package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/gomotion-project/gomotion/result"
)

// Trilaterate returns the (up to) two points in 3D that lie at distances d1,d2,d3 from anchors
// p1,p2,p3, grounded on original_source/src/cartfit.c's trilateration routine. Returns Singular
// when the anchors are colinear (spec.md §4.1, §8 property 5).
func Trilaterate(p1, p2, p3 Cart, d1, d2, d3 float64) (a, b Cart, code result.Code) {
	ex, c := p2.Sub(p1).Unit()
	if !c.IsOK() {
		return Cart{}, Cart{}, result.Singular
	}
	i := ex.Dot(p3.Sub(p1))
	temp := p3.Sub(p1).Sub(ex.Scale(i))
	ey, c2 := temp.Unit()
	if !c2.IsOK() {
		return Cart{}, Cart{}, result.Singular
	}
	ez := ex.Cross(ey)
	dVal := p2.Sub(p1).Mag()
	j := ey.Dot(p3.Sub(p1))

	x := (d1*d1 - d2*d2 + dVal*dVal) / (2 * dVal)
	y := (d1*d1-d3*d3+i*i+j*j)/(2*j) - (i/j)*x
	zSq := d1*d1 - x*x - y*y
	if zSq < -1e-9 {
		return Cart{}, Cart{}, result.Singular
	}
	if zSq < 0 {
		zSq = 0
	}
	z := math.Sqrt(zSq)

	base := p1.Add(ex.Scale(x)).Add(ey.Scale(y))
	a = base.Add(ez.Scale(z))
	b = base.Add(ez.Scale(-z))
	return a, b, result.OK
}

// CartCartPose computes the least-squares rigid transform mapping points `from` onto points `to`
// (Kabsch alignment via SVD of the cross-covariance matrix), grounded on
// original_source/src/cartfit.c and implemented with gonum.org/v1/gonum/mat's SVD rather than a
// hand-rolled decomposition. Requires len(from) == len(to) >= 3 and non-degenerate point sets.
func CartCartPose(from, to []Cart) (Pose, result.Code) {
	n := len(from)
	if n != len(to) || n < 3 {
		return Pose{}, result.BadArgs
	}

	var centroidFrom, centroidTo Cart
	for i := range from {
		centroidFrom = centroidFrom.Add(from[i])
		centroidTo = centroidTo.Add(to[i])
	}
	centroidFrom = centroidFrom.Scale(1 / float64(n))
	centroidTo = centroidTo.Scale(1 / float64(n))

	h := mat.NewDense(3, 3, nil)
	for i := range from {
		fc := from[i].Sub(centroidFrom)
		tc := to[i].Sub(centroidTo)
		outer := mat.NewDense(3, 3, []float64{
			fc.X * tc.X, fc.X * tc.Y, fc.X * tc.Z,
			fc.Y * tc.X, fc.Y * tc.Y, fc.Y * tc.Z,
			fc.Z * tc.X, fc.Z * tc.Y, fc.Z * tc.Z,
		})
		h.Add(h, outer)
	}

	var svd mat.SVD
	if ok := svd.Factorize(h, mat.SVDFull); !ok {
		return Pose{}, result.Singular
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var r mat.Dense
	r.Mul(&v, u.T())

	d := mat.Det(&r)
	if d < 0 {
		// reflection: flip the sign of V's last column and recompute (standard Kabsch fix-up).
		for i := 0; i < 3; i++ {
			v.Set(i, 2, -v.At(i, 2))
		}
		r.Mul(&v, u.T())
	}

	var rm Mat
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rm[i][j] = r.At(i, j)
		}
	}
	rot := MatToQuat(rm)
	tran := centroidTo.Sub(rot.Rotate(centroidFrom))
	return Pose{Tran: tran, Rot: rot}, result.OK
}
