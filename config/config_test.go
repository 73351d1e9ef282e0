package config

import (
	"testing"

	"go.viam.com/test"
)

func TestConfigDefaultsZeroValue(t *testing.T) {
	var c Config
	test.That(t, len(c.Servo), test.ShouldEqual, 0)
	test.That(t, c.Traj.Debug, test.ShouldEqual, DebugMask(0))
}

func TestDebugMaskBitsAreDistinct(t *testing.T) {
	test.That(t, DebugTraj&DebugServo, test.ShouldEqual, DebugMask(0))
	test.That(t, DebugQueue&DebugKinematics, test.ShouldEqual, DebugMask(0))
	combined := DebugTraj | DebugServo
	test.That(t, combined&DebugTraj, test.ShouldEqual, DebugTraj)
	test.That(t, combined&DebugQueue, test.ShouldEqual, DebugMask(0))
}
