// Package servoloop implements the per-joint real-time state machine of spec.md §4.7: read
// command, read external feedback, drive the homing handshake, run PID-plus-feedforward, write
// the raw output, and publish status — all non-blocking, all within one cycle. Grounded on the
// teacher's components/motor state-machine idiom (go/stopped/powered states driving a hardware
// interface) generalized to this spec's uninitialized/initialized/enabled/homing/homed-
// running/fault/shutdown machine.
package servoloop

import (
	"github.com/gomotion-project/gomotion/comm"
	"github.com/gomotion-project/gomotion/config"
	"github.com/gomotion-project/gomotion/extiface"
	"github.com/gomotion-project/gomotion/logging"
	"github.com/gomotion-project/gomotion/result"
)

// State is one joint's servo-loop state (spec.md §4.7).
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateEnabled
	StateHoming
	StateHomedRunning
	StateFault
	StateShutdown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateEnabled:
		return "enabled"
	case StateHoming:
		return "homing"
	case StateHomedRunning:
		return "homed_running"
	case StateFault:
		return "fault"
	case StateShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Servo is one joint's real-time control loop. It owns its PID state exclusively (spec.md §5's
// "per-joint PID state is owned exclusively by its Servo task") and talks to the rest of the
// system only through its comm channels and its extiface.Ext handle.
type Servo struct {
	joint int
	ext   extiface.Ext
	cfg   config.ServoConfig

	cmdCh    *comm.Channel[comm.ServoCommand]
	statusCh *comm.Channel[comm.ServoStatus]
	logger   *logging.Logger

	state State

	integral         float64
	filteredFeedback float64
	haveFiltered     bool
	prevFiltered     float64
	homed            bool
	homing           bool
	inputLatch       float64
	lastFeedback     float64
	heartbeat        uint64
}

// New builds a Servo for one joint. Call Init before the first Tick.
func New(joint int, ext extiface.Ext, cfg config.ServoConfig, cmdCh *comm.Channel[comm.ServoCommand], statusCh *comm.Channel[comm.ServoStatus], logger *logging.Logger) *Servo {
	return &Servo{
		joint:    joint,
		ext:      ext,
		cfg:      cfg,
		cmdCh:    cmdCh,
		statusCh: statusCh,
		logger:   logger,
		state:    StateUninitialized,
	}
}

// Init (re)initializes the joint's external interface and clears PID/fault state. This is the
// only path out of StateFault, matching spec.md §4.7's "recovery requires an explicit init
// command".
func (s *Servo) Init() result.Code {
	if code := s.ext.JointInit(s.joint, s.cfg.CycleTime); !code.IsOK() {
		return code
	}
	s.integral = 0
	s.haveFiltered = false
	s.filteredFeedback = 0
	s.prevFiltered = 0
	s.homed = false
	s.homing = false
	s.inputLatch = 0
	s.heartbeat = 0
	s.state = StateInitialized
	return result.OK
}

// Enable arms the joint's output. Shutdown and Fault are terminal until Init.
func (s *Servo) Enable() result.Code {
	if s.state != StateInitialized {
		return result.Error
	}
	if code := s.ext.JointEnable(s.joint); !code.IsOK() {
		return code
	}
	s.state = StateEnabled
	return result.OK
}

func (s *Servo) Disable() result.Code {
	if s.state != StateEnabled && s.state != StateHoming && s.state != StateHomedRunning {
		return result.Error
	}
	if code := s.ext.JointDisable(s.joint); !code.IsOK() {
		return code
	}
	s.state = StateInitialized
	return result.OK
}

func (s *Servo) Shutdown() result.Code {
	s.ext.JointQuit(s.joint)
	s.state = StateShutdown
	return result.OK
}

func (s *Servo) State() State { return s.state }

func (s *Servo) fault(status *comm.ServoStatus) {
	s.state = StateFault
	status.Fault = true
}

// Tick runs one periodic cycle (spec.md §4.7 steps 1-7): read command, read feedback, advance the
// homing handshake, compute PID+feedforward, write the output, publish status. A latched fault
// skips the external writes but keeps publishing so Traj observes the fault without blocking.
func (s *Servo) Tick() result.Code {
	cmd := s.cmdCh.Read()

	if s.state == StateUninitialized || s.state == StateShutdown {
		s.publish(0, 0, 0, s.state == StateFault)
		return result.OK
	}

	if s.state == StateFault {
		status := comm.ServoStatus{
			Feedback:     s.lastFeedback,
			Homed:        s.homed,
			Homing:       s.homing,
			InputLatch:   s.inputLatch,
			FollowingErr: 0,
			Heartbeat:    s.heartbeat,
			Fault:        true,
		}
		s.heartbeat++
		s.statusCh.Publish(status)
		return result.OK
	}

	if cmd.Enable && s.state == StateInitialized {
		s.Enable()
	} else if !cmd.Enable && s.state == StateEnabled {
		s.Disable()
	}

	if cmd.Home && s.state == StateEnabled && !s.homed && !s.homing {
		if code := s.ext.JointHome(s.joint); !code.IsOK() {
			var status comm.ServoStatus
			s.fault(&status)
			s.statusCh.Publish(status)
			return code
		}
		s.homing = true
		s.state = StateHoming
	}

	if s.homing {
		if s.ext.IsHome(s.joint) {
			latch, code := s.ext.HomeLatch(s.joint)
			if !code.IsOK() {
				var status comm.ServoStatus
				s.fault(&status)
				s.statusCh.Publish(status)
				return code
			}
			s.homing = false
			s.homed = true
			s.inputLatch = latch
			s.state = StateHomedRunning
		}
	}

	feedback, code := s.ext.ReadPos(s.joint)
	if !code.IsOK() {
		var status comm.ServoStatus
		s.fault(&status)
		s.statusCh.Publish(status)
		return code
	}
	s.lastFeedback = feedback

	if !s.haveFiltered {
		s.filteredFeedback = feedback
		s.haveFiltered = true
	}
	alpha := s.derivFilterAlpha()
	s.prevFiltered = s.filteredFeedback
	s.filteredFeedback += alpha * (feedback - s.filteredFeedback)
	var velocity float64
	if s.cfg.CycleTime > 0 {
		velocity = (s.filteredFeedback - s.prevFiltered) / s.cfg.CycleTime
	}

	e := cmd.Setpoint - feedback

	if s.cfg.FollowingErrMax > 0 && (e > s.cfg.FollowingErrMax || e < -s.cfg.FollowingErrMax) {
		var status comm.ServoStatus
		status.Feedback, status.Velocity, status.FollowingErr = feedback, velocity, e
		status.Homed, status.Homing, status.InputLatch = s.homed, s.homing, s.inputLatch
		s.fault(&status)
		status.Heartbeat = s.heartbeat
		s.heartbeat++
		s.statusCh.Publish(status)
		return result.OK
	}
	if s.cfg.OvertravelMax > s.cfg.OvertravelMin && (feedback < s.cfg.OvertravelMin || feedback > s.cfg.OvertravelMax) {
		var status comm.ServoStatus
		status.Feedback, status.Velocity, status.FollowingErr = feedback, velocity, e
		status.Homed, status.Homing, status.InputLatch = s.homed, s.homing, s.inputLatch
		s.fault(&status)
		status.Heartbeat = s.heartbeat
		s.heartbeat++
		s.statusCh.Publish(status)
		return result.OK
	}

	if s.state == StateEnabled || s.state == StateHomedRunning {
		s.integral += e * s.cfg.CycleTime
		if s.cfg.Gains.IMax > 0 {
			s.integral = clamp(s.integral, -s.cfg.Gains.IMax, s.cfg.Gains.IMax)
		}
		edot := -velocity
		u := s.cfg.Gains.Kp*e + s.cfg.Gains.Ki*s.integral + s.cfg.Gains.Kd*edot +
			s.cfg.Gains.KffV*cmd.VelSetpoint + s.cfg.Gains.KffA*cmd.AccSetpoint

		if code := s.ext.WriteVel(s.joint, u); !code.IsOK() {
			var status comm.ServoStatus
			status.Feedback, status.Velocity, status.FollowingErr = feedback, velocity, e
			status.Homed, status.Homing, status.InputLatch = s.homed, s.homing, s.inputLatch
			s.fault(&status)
			status.Heartbeat = s.heartbeat
			s.heartbeat++
			s.statusCh.Publish(status)
			return code
		}
	}

	s.publish(feedback, velocity, e, false)
	return result.OK
}

func (s *Servo) publish(feedback, velocity, followingErr float64, fault bool) {
	status := comm.ServoStatus{
		Feedback:     feedback,
		Velocity:     velocity,
		Homed:        s.homed,
		Homing:       s.homing,
		InputLatch:   s.inputLatch,
		FollowingErr: followingErr,
		Heartbeat:    s.heartbeat,
		Fault:        fault,
	}
	s.heartbeat++
	s.statusCh.Publish(status)
}

// derivFilterAlpha derives a one-pole low-pass coefficient from the configured filter
// time-constant (spec.md §4.7's "derivative computed from filtered feedback"); a non-positive or
// missing DerivFilter disables filtering (alpha=1, feedback passes through unfiltered).
func (s *Servo) derivFilterAlpha() float64 {
	tau := s.cfg.Gains.DerivFilter
	if tau <= 0 || s.cfg.CycleTime <= 0 {
		return 1
	}
	alpha := s.cfg.CycleTime / (tau + s.cfg.CycleTime)
	return clamp(alpha, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
