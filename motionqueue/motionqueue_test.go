package motionqueue

import (
	"testing"

	"go.viam.com/test"

	"github.com/gomotion-project/gomotion/spatialmath"
)

func newJointQueue(t *testing.T) *Queue {
	t.Helper()
	q, code := Init(8, 0.01)
	test.That(t, code.IsOK(), test.ShouldBeTrue)
	test.That(t, q.SetType(Joint).IsOK(), test.ShouldBeTrue)
	test.That(t, q.SetJointNumber(2).IsOK(), test.ShouldBeTrue)
	return q
}

func TestAppendAndDrainJointSegment(t *testing.T) {
	q := newJointQueue(t)
	id, code := q.Append(Spec{
		StartJoints: []float64{0, 0},
		EndJoints:   []float64{1, -1},
		VMax:        2, AMax: 2, JMax: 2,
	})
	test.That(t, code.IsOK(), test.ShouldBeTrue)
	test.That(t, id.String(), test.ShouldNotEqual, "")
	test.That(t, q.IsEmpty(), test.ShouldBeFalse)

	var last Position
	for i := 0; i < 10000 && !q.IsEmpty(); i++ {
		pos, code := q.Interp()
		test.That(t, code.IsOK(), test.ShouldBeTrue)
		last = pos
	}
	test.That(t, q.IsEmpty(), test.ShouldBeTrue)
	test.That(t, last.Joints[0], test.ShouldAlmostEqual, 1.0, 1e-3)
	test.That(t, last.Joints[1], test.ShouldAlmostEqual, -1.0, 1e-3)
}

func TestAppendFailsWhenFull(t *testing.T) {
	q, code := Init(1, 0.01)
	test.That(t, code.IsOK(), test.ShouldBeTrue)
	test.That(t, q.SetType(Joint).IsOK(), test.ShouldBeTrue)
	test.That(t, q.SetJointNumber(1).IsOK(), test.ShouldBeTrue)

	_, code = q.Append(Spec{StartJoints: []float64{0}, EndJoints: []float64{1}, VMax: 1, AMax: 1, JMax: 1})
	test.That(t, code.IsOK(), test.ShouldBeTrue)
	_, code = q.Append(Spec{StartJoints: []float64{0}, EndJoints: []float64{1}, VMax: 1, AMax: 1, JMax: 1})
	test.That(t, code.IsOK(), test.ShouldBeFalse)
}

func TestLinearWorldSegmentReachesEndpoint(t *testing.T) {
	q, code := Init(4, 0.01)
	test.That(t, code.IsOK(), test.ShouldBeTrue)
	test.That(t, q.SetType(World).IsOK(), test.ShouldBeTrue)

	start := spatialmath.IdentityPose()
	end := spatialmath.Pose{Tran: spatialmath.NewCart(1, 2, 3), Rot: spatialmath.IdentityQuat()}
	_, code = q.Append(Spec{Shape: Linear, StartPose: start, EndPose: end, VMax: 2, AMax: 2, JMax: 2})
	test.That(t, code.IsOK(), test.ShouldBeTrue)

	var last Position
	for i := 0; i < 10000 && !q.IsEmpty(); i++ {
		pos, code := q.Interp()
		test.That(t, code.IsOK(), test.ShouldBeTrue)
		last = pos
	}
	test.That(t, last.World.Tran.X, test.ShouldAlmostEqual, 1.0, 1e-3)
	test.That(t, last.World.Tran.Y, test.ShouldAlmostEqual, 2.0, 1e-3)
	test.That(t, last.World.Tran.Z, test.ShouldAlmostEqual, 3.0, 1e-3)
}

func TestZeroLengthLinearMoveWithRotationFailsBadArgs(t *testing.T) {
	q, code := Init(4, 0.01)
	test.That(t, code.IsOK(), test.ShouldBeTrue)
	test.That(t, q.SetType(World).IsOK(), test.ShouldBeTrue)

	start := spatialmath.IdentityPose()
	rot, code := spatialmath.NewQuat(0, 1, 0, 0)
	test.That(t, code.IsOK(), test.ShouldBeTrue)
	end := spatialmath.Pose{Tran: start.Tran, Rot: rot}
	_, code = q.Append(Spec{Shape: Linear, StartPose: start, EndPose: end, VMax: 2, AMax: 2, JMax: 2})
	test.That(t, code.IsOK(), test.ShouldBeFalse)
	test.That(t, q.IsEmpty(), test.ShouldBeTrue)
}

func TestStopReplansAndDropsPending(t *testing.T) {
	q := newJointQueue(t)
	_, code := q.Append(Spec{StartJoints: []float64{0, 0}, EndJoints: []float64{10, 10}, VMax: 1, AMax: 1, JMax: 1})
	test.That(t, code.IsOK(), test.ShouldBeTrue)
	_, code = q.Append(Spec{StartJoints: []float64{10, 10}, EndJoints: []float64{20, 20}, VMax: 1, AMax: 1, JMax: 1})
	test.That(t, code.IsOK(), test.ShouldBeTrue)
	test.That(t, q.Number(), test.ShouldEqual, 2)

	_, _ = q.Interp()
	_, _ = q.Interp()
	test.That(t, q.Stop().IsOK(), test.ShouldBeTrue)
	test.That(t, q.Number(), test.ShouldEqual, 1)
}

func TestSetScaleRampsToTarget(t *testing.T) {
	q := newJointQueue(t)
	test.That(t, q.SetScale(0.5, 1, 1).IsOK(), test.ShouldBeTrue)
	_, code := q.Append(Spec{StartJoints: []float64{0, 0}, EndJoints: []float64{1, 1}, VMax: 1, AMax: 1, JMax: 1})
	test.That(t, code.IsOK(), test.ShouldBeTrue)
	for i := 0; i < 200; i++ {
		_, code := q.Interp()
		test.That(t, code.IsOK(), test.ShouldBeTrue)
	}
	test.That(t, q.scale, test.ShouldAlmostEqual, 0.5)
}

func TestCircularSegmentReachesEndpoint(t *testing.T) {
	q, code := Init(4, 0.01)
	test.That(t, code.IsOK(), test.ShouldBeTrue)
	test.That(t, q.SetType(World).IsOK(), test.ShouldBeTrue)

	center := spatialmath.NewCart(0, 0, 0)
	normal := spatialmath.NewCart(0, 0, 1)
	start := spatialmath.Pose{Tran: spatialmath.NewCart(1, 0, 0), Rot: spatialmath.IdentityQuat()}
	end := spatialmath.Pose{Tran: spatialmath.NewCart(0, 1, 0), Rot: spatialmath.IdentityQuat()}
	_, code = q.Append(Spec{
		Shape: Circular, StartPose: start, EndPose: end,
		Center: center, Normal: normal, Turns: 0,
		VMax: 1, AMax: 1, JMax: 1,
	})
	test.That(t, code.IsOK(), test.ShouldBeTrue)

	var last Position
	for i := 0; i < 10000 && !q.IsEmpty(); i++ {
		pos, code := q.Interp()
		test.That(t, code.IsOK(), test.ShouldBeTrue)
		last = pos
	}
	test.That(t, last.World.Tran.X, test.ShouldAlmostEqual, 0.0, 1e-2)
	test.That(t, last.World.Tran.Y, test.ShouldAlmostEqual, 1.0, 1e-2)
}
