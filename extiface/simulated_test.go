package extiface

import (
	"testing"

	"github.com/gomotion-project/gomotion/result"
	"go.viam.com/test"
)

func newInitializedSim(t *testing.T, immediate bool) *Simulated {
	t.Helper()
	s := NewSimulated()
	initString := ""
	if immediate {
		initString = "Immediate"
	}
	test.That(t, s.Init(initString).IsOK(), test.ShouldBeTrue)
	for j := 0; j < simNumJoints; j++ {
		test.That(t, s.JointInit(j, 0.001).IsOK(), test.ShouldBeTrue)
	}
	return s
}

func TestSimulatedJointInitSeedsPositionToJointIndex(t *testing.T) {
	s := newInitializedSim(t, false)
	pos, code := s.ReadPos(3)
	test.That(t, code.IsOK(), test.ShouldBeTrue)
	test.That(t, pos, test.ShouldAlmostEqual, 3.0)
}

func TestSimulatedWritePosIsUnimplemented(t *testing.T) {
	s := newInitializedSim(t, false)
	test.That(t, s.WritePos(0, 1.0), test.ShouldEqual, result.ImplError)
}

func TestSimulatedWriteVelAdvancesPosition(t *testing.T) {
	s := newInitializedSim(t, false)
	before, _ := s.ReadPos(0)
	for i := 0; i < 50; i++ {
		test.That(t, s.WriteVel(0, 1.0).IsOK(), test.ShouldBeTrue)
	}
	after, _ := s.ReadPos(0)
	test.That(t, after, test.ShouldNotEqual, before)
}

func TestSimulatedImmediateHomingCompletesOnFirstCheck(t *testing.T) {
	s := newInitializedSim(t, true)
	test.That(t, s.JointHome(2).IsOK(), test.ShouldBeTrue)
	test.That(t, s.IsHome(2), test.ShouldBeTrue)
}

func TestSimulatedRolloverHomingRequiresBinCrossing(t *testing.T) {
	s := newInitializedSim(t, false)
	test.That(t, s.JointHome(1).IsOK(), test.ShouldBeTrue)
	test.That(t, s.IsHome(1), test.ShouldBeFalse)

	for i := 0; i < 2000 && !s.IsHome(1); i++ {
		test.That(t, s.WriteVel(1, 5.0).IsOK(), test.ShouldBeTrue)
	}
	test.That(t, s.isHomed[1], test.ShouldBeTrue)
}

func TestSimulatedAinCyclesWithinBounds(t *testing.T) {
	s := newInitializedSim(t, false)
	for i := 0; i < 100000; i++ {
		test.That(t, s.TriggerIn().IsOK(), test.ShouldBeTrue)
	}
	v, code := s.ReadAin(0)
	test.That(t, code.IsOK(), test.ShouldBeTrue)
	test.That(t, v, test.ShouldBeLessThanOrEqualTo, 10.0)
	test.That(t, v, test.ShouldBeGreaterThanOrEqualTo, -10.0)
}

func TestSimulatedReadAinOutOfRange(t *testing.T) {
	s := newInitializedSim(t, false)
	_, code := s.ReadAin(simAinNum)
	test.That(t, code, test.ShouldEqual, result.RangeError)
}

func TestSimulatedCounts(t *testing.T) {
	s := NewSimulated()
	test.That(t, s.NumAin(), test.ShouldEqual, 8)
	test.That(t, s.NumAout(), test.ShouldEqual, 8)
	test.That(t, s.NumDin(), test.ShouldEqual, 16)
	test.That(t, s.NumDout(), test.ShouldEqual, 16)
}
