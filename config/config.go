package config

import (
	"github.com/gomotion-project/gomotion/referenceframe"
	"github.com/gomotion-project/gomotion/spatialmath"
)

// DebugMask holds the DEBUG command's subsystem bits. trajloop treats any non-zero mask as DEBUG
// level and zero as INFO; the individual bits are not routed to separate named loggers.
type DebugMask uint32

const (
	DebugTraj DebugMask = 1 << iota
	DebugServo
	DebugQueue
	DebugKinematics
)

// Units carries the scale factors the ini-file configuration expresses lengths/angles in
// (spec.md §6: "units (m_per_length_units, rad_per_angle_units)").
type Units struct {
	MPerLength float64
	RadPerAngle float64
}

// ProfileConfig is the per-axis motion-limit configuration consumed by the queue/servo pipeline
// (spec.md §6's "max_vel/acc/jerk" per servo, and MOVE_* commands' own per-call maxima).
type ProfileConfig struct {
	MaxVel, MaxAccel, MaxJerk float64
}

// ServoConfig is one joint's static configuration (spec.md §6's per-servo
// "{quantity, {DH|PP|PK} parameters, home, limits, max_vel/acc/jerk, mass, inertia}").
type ServoConfig struct {
	Link    referenceframe.Link
	Home    float64
	Profile ProfileConfig
	Gains   struct {
		Kp, Ki, Kd, KffV, KffA float64
		// IMax clamps the integrator's windup (spec.md §4.7's "integrator wind-up clamp at
		// ±i_max"); DerivFilter is the feedback low-pass pole used before differencing (spec.md
		// §4.7's "derivative computed from filtered feedback").
		IMax, DerivFilter float64
	}
	// FollowingErrMax and OvertravelMin/OvertravelMax are fault thresholds (spec.md §4.7's
	// "overtravel, too-large following error").
	FollowingErrMax              float64
	OvertravelMin, OvertravelMax float64
	CycleTime                    float64
	Attrs                        AttributeMap
}

// KinematicsConfig names the kinematics implementation to select plus its opaque parameters
// (spec.md §4.4 select/set_parameters, §6 "kinematics name").
type KinematicsConfig struct {
	Name  string
	Attrs AttributeMap
}

// TrajConfig is the coordinated Traj task's static configuration (spec.md §6: "traj home,
// kinematics name, tool transform, profile maxima, cycle times, debug mask, and log
// configuration").
type TrajConfig struct {
	Home          []float64
	Kinematics    KinematicsConfig
	ToolTransform spatialmath.Pose
	Profile       ProfileConfig
	CycleTime     float64
	Debug         DebugMask
	LogBufferSize int
}

// Config is the fully-parsed configuration the core consumes, assembled by an out-of-core ini
// reader (spec.md §6: "parsing is outside the core; the core accepts these as structured
// configuration messages on the config channel").
type Config struct {
	Units Units
	Traj  TrajConfig
	Servo []ServoConfig
}
