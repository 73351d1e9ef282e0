package main

import (
	"testing"

	"go.viam.com/test"
)

func TestBuildConfigMatchesJointCount(t *testing.T) {
	cfg, err := buildConfig()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(cfg.Servo), test.ShouldEqual, numJoints)
	test.That(t, len(links(cfg)), test.ShouldEqual, numJoints)
	test.That(t, len(cfg.Traj.Home), test.ShouldEqual, numJoints)
}
