package motionprofile

import (
	"testing"

	"go.viam.com/test"
)

func TestThreeSegmentMonotonic(t *testing.T) {
	p, code := ComputeThree(10, 2, 1)
	test.That(t, code.IsOK(), test.ShouldBeTrue)

	_, d0, _, _ := p.Interp(0)
	test.That(t, d0, test.ShouldAlmostEqual, 0.0)
	_, dEnd, _, _ := p.Interp(p.TEnd())
	test.That(t, dEnd, test.ShouldAlmostEqual, 10.0, 1e-6)

	last := -1.0
	n := 200
	for i := 0; i <= n; i++ {
		tt := p.TEnd() * float64(i) / float64(n)
		_, d, v, a := p.Interp(tt)
		test.That(t, d >= last-1e-9, test.ShouldBeTrue)
		test.That(t, v, test.ShouldBeLessThanOrEqualTo, 2.0+1e-6)
		test.That(t, a, test.ShouldBeLessThanOrEqualTo, 1.0+1e-6)
		last = d
	}
}

func TestThreeSegmentTriangular(t *testing.T) {
	// distance too small to reach vmax: triangular profile, never hits vmax.
	p, code := ComputeThree(1, 100, 1)
	test.That(t, code.IsOK(), test.ShouldBeTrue)
	test.That(t, p.t1, test.ShouldAlmostEqual, p.t2)
}

func TestThreeSegmentScalePreservesDistance(t *testing.T) {
	p, code := ComputeThree(10, 2, 1)
	test.That(t, code.IsOK(), test.ShouldBeTrue)
	scaled, code2 := p.Scale(p.TEnd() * 2)
	test.That(t, code2.IsOK(), test.ShouldBeTrue)
	test.That(t, scaled.DEnd(), test.ShouldAlmostEqual, p.DEnd(), 1e-6)
	test.That(t, scaled.TEnd(), test.ShouldAlmostEqual, p.TEnd()*2, 1e-6)
}

func TestThreeSegmentScaleInfeasible(t *testing.T) {
	p, _ := ComputeThree(10, 2, 1)
	_, code := p.Scale(p.TEnd() / 2)
	test.That(t, code.IsOK(), test.ShouldBeFalse)
}

func TestThreeSegmentBadArgs(t *testing.T) {
	_, code := ComputeThree(10, 0, 1)
	test.That(t, code.IsOK(), test.ShouldBeFalse)
}
