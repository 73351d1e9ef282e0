package comm

import "github.com/gomotion-project/gomotion/spatialmath"

// ServoStatus is one Servo task's per-cycle published record (spec.md §6 "per-joint status
// carries feedback, homed, homing, input_latch, following error, heartbeat, fault flags"). Homed
// and InputLatch are published inside the same record so they move atomically together per
// spec.md §5 ("homed and input_latch are published inside the same record so they move atomically
// together") — the Channel's head/tail discipline is exactly what makes that true without a
// separate lock around the pair.
type ServoStatus struct {
	Feedback     float64
	Velocity     float64
	Homed        bool
	Homing       bool
	InputLatch   float64
	FollowingErr float64
	Heartbeat    uint64
	Fault        bool
}

// ServoCommand is the per-cycle command a Traj task publishes to one Servo task (spec.md §4.7
// step 5: "u = Kp*e + Ki*integral(e) + Kd*edot + Kff_v*v_set + Kff_a*a_set"). VelSetpoint and
// AccSetpoint are the feedforward targets Traj derives from the trajectory profile it is
// currently interpolating; KffV/KffA are their respective gains.
type ServoCommand struct {
	Setpoint               float64
	VelSetpoint, AccSetpoint float64
	Home                   bool
	Enable                 bool
	Kp, Ki, Kd, KffV, KffA float64
}

// XinvRecord is the reference/correction ping-pong record of spec.md §4.9: an inverse transform
// from commanded to measured Cartesian pose, identity by default.
type XinvRecord struct {
	Xinv spatialmath.Pose
}

// NewXinvChannel builds the Xinv channel seeded at identity, the safe default per spec.md §4.9.
func NewXinvChannel() *Channel[XinvRecord] {
	return NewChannel(XinvRecord{Xinv: spatialmath.IdentityPose()})
}
