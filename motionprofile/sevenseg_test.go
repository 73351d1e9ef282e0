package motionprofile

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestSevenSegmentBoundaries(t *testing.T) {
	p, code := ComputeSeven(10, 2, 1, 1)
	test.That(t, code.IsOK(), test.ShouldBeTrue)

	_, d0, _, _ := p.Interp(0)
	test.That(t, d0, test.ShouldAlmostEqual, 0.0, 1e-9)
	_, dEnd, _, _ := p.Interp(p.TEnd())
	test.That(t, dEnd, test.ShouldAlmostEqual, 10.0, 1e-6)
}

func TestSevenSegmentMonotonicAndBounded(t *testing.T) {
	p, code := ComputeSeven(10, 2, 1, 1)
	test.That(t, code.IsOK(), test.ShouldBeTrue)

	last := -1.0
	n := 500
	for i := 0; i <= n; i++ {
		tt := p.TEnd() * float64(i) / float64(n)
		_, d, v, a := p.Interp(tt)
		test.That(t, d >= last-1e-9, test.ShouldBeTrue)
		test.That(t, math.Abs(v), test.ShouldBeLessThanOrEqualTo, 2.0+1e-6)
		test.That(t, math.Abs(a), test.ShouldBeLessThanOrEqualTo, 1.0+1e-6)
		last = d
	}
}

func TestSevenSegmentShortMoveNoOvershoot(t *testing.T) {
	// distance too small for a cruise phase: must still land exactly on d without exceeding
	// the velocity/accel limits (triangular/no-cruise s-curve case).
	p, code := ComputeSeven(0.05, 2, 1, 1)
	test.That(t, code.IsOK(), test.ShouldBeTrue)
	_, dEnd, _, _ := p.Interp(p.TEnd())
	test.That(t, dEnd, test.ShouldAlmostEqual, 0.05, 1e-6)
}

func TestSevenSegmentScalePreservesDistance(t *testing.T) {
	p, _ := ComputeSeven(10, 2, 1, 1)
	scaled, code := p.Scale(p.TEnd() * 2)
	test.That(t, code.IsOK(), test.ShouldBeTrue)
	test.That(t, scaled.DEnd(), test.ShouldAlmostEqual, p.DEnd(), 1e-6)
}

func TestSevenSegmentBadArgs(t *testing.T) {
	_, code := ComputeSeven(10, 2, 1, 0)
	test.That(t, code.IsOK(), test.ShouldBeFalse)
}
