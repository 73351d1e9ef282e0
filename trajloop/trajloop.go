// Package trajloop implements the coordinated real-time state machine of spec.md §4.8: it reads
// one command per cycle from the closed command set (§6), drives the motion queue and kinematics
// pipeline, coordinates per-joint homing with the Servo tasks beneath it, and propagates faults.
// Grounded on the teacher's robot-level orchestration idiom (a coordinator owning several
// component instances and a shared state machine) generalized to this spec's two-level
// Traj-above-Servo architecture.
package trajloop

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/gomotion-project/gomotion/comm"
	"github.com/gomotion-project/gomotion/config"
	"github.com/gomotion-project/gomotion/kinematics"
	"github.com/gomotion-project/gomotion/logging"
	"github.com/gomotion-project/gomotion/motionqueue"
	"github.com/gomotion-project/gomotion/referenceframe"
	"github.com/gomotion-project/gomotion/result"
	"github.com/gomotion-project/gomotion/spatialmath"
)

// State is the coordinated state machine of spec.md §4.8.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateReady
	StateExecuting
	StateStopping
	StateStopped
	StateTeleop
	StateAborted
	StateFault
	StateShutdown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateReady:
		return "ready"
	case StateExecuting:
		return "executing"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	case StateTeleop:
		return "teleop"
	case StateAborted:
		return "aborted"
	case StateFault:
		return "fault"
	case StateShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// trackMode distinguishes the queue-driven move states from the two bypass-the-queue modes
// spec.md §4.8 lists (TRACK_* "immediate-setpoint following").
type trackMode int

const (
	trackNone trackMode = iota
	trackWorld
	trackJoint
)

// Traj is the coordinated real-time task. It owns the motion queue, kinematics solver, and
// cumulative status exclusively (spec.md §5: "kinematics blobs, motion queue storage, and
// interpolators are owned exclusively by the Traj task").
type Traj struct {
	cfg   config.TrajConfig
	chain referenceframe.Chain
	kin   kinematics.Kinematics
	queue *motionqueue.Queue

	cmdCh      *comm.Channel[comm.TrajCommand]
	statusCh   *comm.Channel[comm.TrajStatus]
	servoCmds  []*comm.Channel[comm.ServoCommand]
	servoStats []*comm.Channel[comm.ServoStatus]
	xinvCh     *comm.Channel[comm.XinvRecord]
	logger     *logging.Logger

	state      State
	lastCmdGen uint64
	lastCmdID  uuid.UUID
	faultMsg   string

	jointOffsets []float64
	homed        []bool
	nominalHome  []float64

	toolTransform spatialmath.Pose

	mode       trackMode
	trackPose  spatialmath.Pose
	trackJoint []float64

	teleopVel []float64 // TELEOP_JOINT/WORLD/TOOL per-axis commanded velocity, integrated each Tick

	prevSetpoint, prevVel []float64

	lastJointsAct []float64
	lastEcpAct    spatialmath.Pose

	recorder *Recorder
}

// New builds a Traj coordinator. numJoints must match chain.NumJoints() and every servo channel
// slice's length.
func New(
	cfg config.TrajConfig,
	chain referenceframe.Chain,
	kin kinematics.Kinematics,
	queue *motionqueue.Queue,
	cmdCh *comm.Channel[comm.TrajCommand],
	statusCh *comm.Channel[comm.TrajStatus],
	servoCmds []*comm.Channel[comm.ServoCommand],
	servoStats []*comm.Channel[comm.ServoStatus],
	xinvCh *comm.Channel[comm.XinvRecord],
	logger *logging.Logger,
) (*Traj, result.Code) {
	n := chain.NumJoints()
	if len(servoCmds) != n || len(servoStats) != n {
		return nil, result.BadArgs
	}
	return &Traj{
		cfg: cfg, chain: chain, kin: kin, queue: queue,
		cmdCh: cmdCh, statusCh: statusCh, servoCmds: servoCmds, servoStats: servoStats,
		xinvCh: xinvCh, logger: logger,
		state:         StateUninitialized,
		jointOffsets:  make([]float64, n),
		homed:         make([]bool, n),
		nominalHome:   append([]float64(nil), cfg.Home...),
		toolTransform: cfg.ToolTransform,
		prevSetpoint:  make([]float64, n),
		prevVel:       make([]float64, n),
		lastJointsAct: make([]float64, n),
		lastEcpAct:    spatialmath.IdentityPose(),
		recorder:      NewRecorder(cfg.LogBufferSize),
	}, result.OK
}

func (t *Traj) State() State { return t.state }

// Init (re)initializes the queue and clears fault/homing state. This is the only path out of
// StateFault/StateAborted, matching spec.md §7's "subsequent commands other than INIT/SHUTDOWN
// are ignored" propagation policy.
func (t *Traj) Init() result.Code {
	if code := t.queue.Reset(); !code.IsOK() {
		return code
	}
	for i := range t.jointOffsets {
		t.jointOffsets[i] = 0
		t.homed[i] = false
	}
	t.mode = trackNone
	t.faultMsg = ""
	t.state = StateReady
	return result.OK
}

func (t *Traj) numJoints() int { return t.chain.NumJoints() }

// Tick runs one periodic cycle (spec.md §4.8 steps 1-6).
func (t *Traj) Tick() result.Code {
	cmd := t.cmdCh.Read()
	if gen := t.cmdCh.Generation(); gen != t.lastCmdGen {
		t.lastCmdGen = gen
		t.lastCmdID = cmd.ID
		t.dispatch(cmd)
	}

	if t.state == StateUninitialized || t.state == StateShutdown {
		t.publishStatus(nil, spatialmath.IdentityPose(), spatialmath.IdentityPose(), spatialmath.IdentityPose(), nil, false)
		return result.OK
	}

	statuses := make([]comm.ServoStatus, t.numJoints())
	anyFault := false
	var faultErrs error
	for i, ch := range t.servoStats {
		statuses[i] = ch.Read()
		if statuses[i].Fault {
			anyFault = true
			faultErrs = multierr.Append(faultErrs, faultFor(i))
		}
	}
	if anyFault && t.state != StateFault && t.state != StateAborted {
		t.state = StateAborted
		t.faultMsg = faultErrs.Error()
		t.queue.Stop()
		t.stopAllServos()
	}

	jointsAct := make([]float64, t.numJoints())
	for i, st := range statuses {
		if t.homed[i] {
			jointsAct[i] = st.Feedback + t.jointOffsets[i]
		} else {
			jointsAct[i] = st.Feedback
		}
	}

	kcpAct, code := t.kin.Fwd(jointsAct)
	if !code.IsOK() {
		t.enterFault("forward kinematics: " + code.String())
	}
	ecpAct := spatialmath.PosePoseMult(kcpAct, t.toolTransform)

	setpoints := append([]float64(nil), jointsAct...)
	inPos := true

	switch {
	case t.mode == trackJoint:
		if t.state == StateTeleop {
			t.advanceTeleopJoint()
		}
		setpoints = append([]float64(nil), t.trackJoint...)
		inPos = false
	case t.mode == trackWorld:
		if js, code := t.solveWorld(t.trackPose, jointsAct); code.IsOK() {
			setpoints = js
		} else {
			t.enterFault("track_world ik: " + code.String())
		}
		inPos = false
	case t.state == StateExecuting || t.state == StateTeleop || t.state == StateStopping:
		pos, code := t.queue.Interp()
		if !code.IsOK() {
			t.enterFault("queue interp: " + code.String())
		} else if pos.Joints != nil {
			setpoints = append([]float64(nil), pos.Joints...)
		} else if js, code := t.solveWorld(pos.World, jointsAct); code.IsOK() {
			setpoints = js
		} else {
			t.enterFault("move ik: " + code.String())
		}
		inPos = t.queue.IsEmpty()
		if inPos && t.state == StateExecuting {
			t.state = StateReady
		}
		if inPos && t.state == StateStopping {
			t.state = StateStopped
		}
	}

	for i := range setpoints {
		servoSetpoint := setpoints[i] - t.jointOffsets[i]
		vel := (servoSetpoint - t.prevSetpoint[i]) / t.cycleTimeOrDefault()
		acc := (vel - t.prevVel[i]) / t.cycleTimeOrDefault()
		t.prevSetpoint[i] = servoSetpoint
		t.prevVel[i] = vel

		cmd := t.servoCmds[i].Read()
		cmd.Setpoint = servoSetpoint
		cmd.VelSetpoint = vel
		cmd.AccSetpoint = acc
		if t.state == StateAborted || t.state == StateFault || t.state == StateShutdown {
			cmd.Enable = false
		} else {
			cmd.Enable = true
		}
		t.servoCmds[i].Publish(cmd)
	}

	followingErrs := make([]float64, len(statuses))
	for i, st := range statuses {
		followingErrs[i] = st.FollowingErr
	}
	t.lastJointsAct = jointsAct
	t.lastEcpAct = ecpAct
	t.publishStatus(jointsAct, kcpAct, ecpAct, ecpAct, followingErrs, inPos)
	return result.OK
}

func (t *Traj) cycleTimeOrDefault() float64 {
	if t.cfg.CycleTime > 0 {
		return t.cfg.CycleTime
	}
	return 0.001
}

// advanceTeleopJoint integrates one cycle of the rate-following TELEOP_JOINT/WORLD/TOOL commands
// (spec.md §6: "rate-following with clamping against limits"), clamping the commanded velocity
// against the configured profile's MaxVel and the resulting position against each joint's own
// travel limits.
func (t *Traj) advanceTeleopJoint() {
	dt := t.cycleTimeOrDefault()
	for i := range t.trackJoint {
		vel := valueOr(t.teleopVel, i, 0)
		if t.cfg.Profile.MaxVel > 0 {
			vel = clampFloat(vel, -t.cfg.Profile.MaxVel, t.cfg.Profile.MaxVel)
		}
		t.trackJoint[i] += vel * dt
		if i < len(t.chain.Links) {
			if lo, hi := t.chain.Links[i].Min, t.chain.Links[i].Max; hi > lo {
				t.trackJoint[i] = clampFloat(t.trackJoint[i], lo, hi)
			}
		}
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// solveWorld applies the tool-transform/Xinv composition of SPEC_FULL.md §4 and runs inverse
// kinematics, seeded from the current joint vector.
func (t *Traj) solveWorld(ecpTarget spatialmath.Pose, seed []float64) ([]float64, result.Code) {
	xinv := t.xinvCh.Read().Xinv
	ecpCorrected := spatialmath.PosePoseMult(xinv, ecpTarget)
	kcpTarget := spatialmath.PosePoseMult(ecpCorrected, spatialmath.PoseInv(t.toolTransform))
	return t.kin.Inv(kcpTarget, seed)
}

func (t *Traj) enterFault(reason string) {
	t.state = StateFault
	t.faultMsg = reason
	t.queue.Stop()
}

func (t *Traj) stopAllServos() {
	for _, ch := range t.servoCmds {
		cmd := ch.Read()
		cmd.Enable = false
		ch.Publish(cmd)
	}
}

func (t *Traj) publishStatus(joints []float64, kcp, ecp, ecpAct spatialmath.Pose, followingErrs []float64, inPos bool) {
	status := comm.TrajStatus{
		State:         t.state.String(),
		Ecp:           ecp,
		Kcp:           kcp,
		EcpAct:        ecpAct,
		Joints:        joints,
		JointsAct:     joints,
		FollowingErrs: followingErrs,
		InPos:         inPos,
		QueueCount:    t.queue.Number(),
		LastCommandID: t.lastCmdID,
		Fault:         t.state == StateFault || t.state == StateAborted,
		FaultReason:   t.faultMsg,
	}
	t.statusCh.Publish(status)
	t.recorder.Record(status)
}

func faultFor(joint int) error {
	return &jointFaultError{joint: joint}
}

type jointFaultError struct{ joint int }

func (e *jointFaultError) Error() string {
	return fmt.Sprintf("servo %d reported a fault", e.joint)
}
