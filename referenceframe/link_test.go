package referenceframe

import (
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/gomotion-project/gomotion/spatialmath"
)

func twoLinkChain() Chain {
	c, _ := NewChain([]Link{
		{Name: "j0", Quantity: Angle, Type: DHLink, DH: spatialmath.Dh{A: 1, Alpha: 0, D: 0, Theta: 0}, Min: -math.Pi, Max: math.Pi},
		{Name: "j1", Quantity: Angle, Type: DHLink, DH: spatialmath.Dh{A: 1, Alpha: 0, D: 0, Theta: 0}, Min: -math.Pi, Max: math.Pi},
	})
	return c
}

func TestForwardDHStraightArm(t *testing.T) {
	c := twoLinkChain()
	pose, code := c.ForwardDH([]float64{0, 0})
	test.That(t, code.IsOK(), test.ShouldBeTrue)
	test.That(t, pose.Tran.X, test.ShouldAlmostEqual, 2.0, 1e-6)
	test.That(t, pose.Tran.Y, test.ShouldAlmostEqual, 0.0, 1e-6)
}

func TestForwardDHBentArm(t *testing.T) {
	c := twoLinkChain()
	pose, code := c.ForwardDH([]float64{0, math.Pi / 2})
	test.That(t, code.IsOK(), test.ShouldBeTrue)
	test.That(t, pose.Tran.X, test.ShouldAlmostEqual, 1.0, 1e-6)
	test.That(t, pose.Tran.Y, test.ShouldAlmostEqual, 1.0, 1e-6)
}

func TestChainTooLong(t *testing.T) {
	links := make([]Link, JointMax+1)
	_, code := NewChain(links)
	test.That(t, code.IsOK(), test.ShouldBeFalse)
}

func TestWithinLimits(t *testing.T) {
	c := twoLinkChain()
	test.That(t, c.WithinLimits([]float64{0, 0}), test.ShouldBeTrue)
	test.That(t, c.WithinLimits([]float64{10, 0}), test.ShouldBeFalse)
}
