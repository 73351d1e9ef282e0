package spatialmath

import (
	"math"
	"math/rand"
	"testing"

	"go.viam.com/test"

	"github.com/gomotion-project/gomotion/result"
)

func TestRvecQuatRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		rv := Rvec{X: r.Float64()*2 - 1, Y: r.Float64()*2 - 1, Z: r.Float64()*2 - 1}
		q := rv.ToQuat()
		back := QuatToRvec(q)
		q2 := back.ToQuat()
		test.That(t, math.Abs(q.Mag()-q2.Mag()), test.ShouldBeLessThan, RotClose)
	}
}

func TestRotationChainRoundTrip(t *testing.T) {
	// quat -> mat -> zyz -> zyx -> rpy -> rvec -> quat reproduces the original rotation angle.
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 1000; i++ {
		rv := Rvec{
			X: (r.Float64()*2 - 1) * math.Pi / 2,
			Y: (r.Float64()*2 - 1) * math.Pi / 2,
			Z: (r.Float64()*2 - 1) * math.Pi / 2,
		}
		start := rv.ToQuat()

		m := start.ToMat()
		q1 := MatToQuat(m)

		zyz := QuatToZyz(q1)
		q2 := zyz.ToQuat()

		zyx := QuatToZyx(q2)
		q3 := zyx.ToQuat()

		rpy := QuatToRpy(q3)
		q4 := rpy.ToQuat()

		rvecFinal := QuatToRvec(q4)
		final := rvecFinal.ToQuat()

		test.That(t, math.Abs(start.Mag()-final.Mag()), test.ShouldBeLessThan, 1e-3)
	}
}

func TestIdentityQuat(t *testing.T) {
	q := IdentityQuat()
	test.That(t, q.Number.Real, test.ShouldEqual, 1.0)
	test.That(t, q.Number.Imag, test.ShouldEqual, 0.0)
}

func TestQuatCanonicalHemisphere(t *testing.T) {
	q, code := NewQuat(-1, 0, 0, 0)
	test.That(t, code.IsOK(), test.ShouldBeTrue)
	test.That(t, q.Number.Real, test.ShouldBeGreaterThanOrEqualTo, 0.0)
}

func TestQuatUnitZeroNormError(t *testing.T) {
	_, code := NewQuat(0, 0, 0, 0)
	test.That(t, code, test.ShouldEqual, result.NormError)
}

func TestCartUnitZero(t *testing.T) {
	c := NewCart(0, 0, 0)
	_, code := c.Unit()
	test.That(t, code.IsOK(), test.ShouldBeFalse)
}

func TestFlipAgreesOnAngle(t *testing.T) {
	rv := Rvec{X: 0.577350 * 2.5980762, Y: -0.577350 * 2.5980762, Z: -0.577350 * 2.5980762}
	q1 := rv.ToQuat()
	q2 := rv.ToQuat()
	flipped := Flip(q2)
	a1 := QuatToRvec(q1.Conj().Mul(q2))
	a2 := QuatToRvec(q1.Conj().Mul(flipped))
	test.That(t, math.Abs(a1.Mag()-a2.Mag()), test.ShouldBeLessThan, 0.01)
}
