package spatialmath

import (
	"math/rand"
	"testing"

	"go.viam.com/test"
)

func TestTrilaterateFindsTruePoint(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	anchors := [3]Cart{NewCart(0, 0, 0), NewCart(5, 0, 0), NewCart(0, 5, 0)}
	for trial := 0; trial < 50; trial++ {
		truth := NewCart(r.Float64()*4-2, r.Float64()*4-2, r.Float64()*4+1)
		d := [3]float64{}
		for i, a := range anchors {
			d[i] = truth.Sub(a).Mag()
		}
		a, b, code := Trilaterate(anchors[0], anchors[1], anchors[2], d[0], d[1], d[2])
		test.That(t, code.IsOK(), test.ShouldBeTrue)

		distA := a.Sub(truth).Mag()
		distB := b.Sub(truth).Mag()
		test.That(t, distA < 1e-4 || distB < 1e-4, test.ShouldBeTrue)
	}
}

func TestTrilaterateColinearSingular(t *testing.T) {
	_, _, code := Trilaterate(NewCart(0, 0, 0), NewCart(1, 0, 0), NewCart(2, 0, 0), 1, 1, 1)
	test.That(t, code.IsOK(), test.ShouldBeFalse)
}

func TestCartCartPoseRecoversTransform(t *testing.T) {
	r := rand.New(rand.NewSource(10))
	truePose := Pose{
		Tran: NewCart(1, 2, 3),
		Rot:  Rvec{X: 0.3, Y: -0.2, Z: 0.1}.ToQuat(),
	}
	from := make([]Cart, 6)
	to := make([]Cart, 6)
	for i := range from {
		from[i] = NewCart(r.Float64()*10-5, r.Float64()*10-5, r.Float64()*10-5)
		to[i] = PoseCartMult(truePose, from[i])
	}
	got, code := CartCartPose(from, to)
	test.That(t, code.IsOK(), test.ShouldBeTrue)
	test.That(t, PoseClose(got, truePose, 1e-4, 1e-4), test.ShouldBeTrue)
}
