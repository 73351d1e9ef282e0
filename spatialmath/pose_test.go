package spatialmath

import (
	"math/rand"
	"testing"

	"go.viam.com/test"
)

func randomPose(r *rand.Rand) Pose {
	rv := Rvec{X: r.Float64()*2 - 1, Y: r.Float64()*2 - 1, Z: r.Float64()*2 - 1}
	return Pose{
		Tran: NewCart(r.Float64()*10-5, r.Float64()*10-5, r.Float64()*10-5),
		Rot:  rv.ToQuat(),
	}
}

func TestPoseInverse(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		p := randomPose(r)
		id := PosePoseMult(p, PoseInv(p))
		test.That(t, PoseClose(id, IdentityPose(), TranClose*10, RotClose*10), test.ShouldBeTrue)
	}
}

func TestPosePoseMultAssociative(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	poses := make([]Pose, 100)
	for i := range poses {
		poses[i] = randomPose(r)
	}
	// left fold
	left := poses[0]
	for i := 1; i < len(poses); i++ {
		left = PosePoseMult(left, poses[i])
	}
	// fold in two halves then combine, should agree with left fold (associativity).
	mid := len(poses) / 2
	a := poses[0]
	for i := 1; i < mid; i++ {
		a = PosePoseMult(a, poses[i])
	}
	b := poses[mid]
	for i := mid + 1; i < len(poses); i++ {
		b = PosePoseMult(b, poses[i])
	}
	combined := PosePoseMult(a, b)
	test.That(t, PoseClose(left, combined, 1e-3, 1e-3), test.ShouldBeTrue)
}

func TestDhToPose(t *testing.T) {
	dh := Dh{A: 1, Alpha: 0, D: 0, Theta: 0}
	p := dh.ToPose()
	test.That(t, p.Tran.X, test.ShouldAlmostEqual, 1.0)
}

func TestLineClosestPoint(t *testing.T) {
	l, err := NewLine(NewCart(0, 0, 0), NewCart(1, 0, 0))
	test.That(t, err, test.ShouldBeNil)
	cp := l.ClosestPoint(NewCart(5, 3, 0))
	test.That(t, cp.X, test.ShouldAlmostEqual, 5.0)
	test.That(t, cp.Y, test.ShouldAlmostEqual, 0.0)
}

func TestPlaneProject(t *testing.T) {
	pl, err := NewPlane(NewCart(0, 0, 0), NewCart(0, 0, 1))
	test.That(t, err, test.ShouldBeNil)
	proj := pl.Project(NewCart(2, 3, 7))
	test.That(t, proj.Z, test.ShouldAlmostEqual, 0.0)
}

func TestLineZeroDirection(t *testing.T) {
	_, err := NewLine(NewCart(0, 0, 0), NewCart(0, 0, 0))
	test.That(t, err, test.ShouldNotBeNil)
}
