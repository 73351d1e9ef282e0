package trajloop

import (
	"github.com/gomotion-project/gomotion/comm"
	"github.com/gomotion-project/gomotion/kinematics"
	"github.com/gomotion-project/gomotion/logging"
	"github.com/gomotion-project/gomotion/motionqueue"
	"github.com/gomotion-project/gomotion/spatialmath"
)

// dispatch handles one freshly-observed command (spec.md §4.8 step 2, §6's closed command set).
// Faulted/aborted states ignore every command but INIT and SHUTDOWN, per spec.md §7.
func (t *Traj) dispatch(cmd comm.TrajCommand) {
	if (t.state == StateFault || t.state == StateAborted) && cmd.Kind != comm.CmdInit && cmd.Kind != comm.CmdShutdown {
		return
	}

	switch cmd.Kind {
	case comm.CmdNOP:
	case comm.CmdInit:
		t.Init()
	case comm.CmdAbort:
		t.state = StateAborted
		t.faultMsg = "abort command"
		t.queue.Stop()
		t.stopAllServos()
	case comm.CmdHalt:
		t.queue.Stop()
		t.mode = trackNone
		t.state = StateStopped
	case comm.CmdShutdown:
		t.stopAllServos()
		t.state = StateShutdown
	case comm.CmdStop:
		t.mode = trackNone
		t.queue.Stop()
		if t.queue.IsEmpty() {
			t.state = StateStopped
		} else {
			t.state = StateStopping
		}

	case comm.CmdMoveWorld:
		t.dispatchMoveWorld(cmd, false)
	case comm.CmdMoveTool:
		t.dispatchMoveWorld(cmd, true)
	case comm.CmdMoveJoint:
		t.dispatchMoveJoint(cmd, false)
	case comm.CmdMoveUJoint:
		t.dispatchMoveJoint(cmd, true)

	case comm.CmdTrackWorld:
		t.mode = trackWorld
		t.trackPose = cmd.EndPose
		t.state = StateExecuting
	case comm.CmdTrackJoint:
		t.mode = trackJoint
		t.trackJoint = append([]float64(nil), cmd.Joints...)
		t.state = StateExecuting

	case comm.CmdTeleopJoint, comm.CmdTeleopWorld, comm.CmdTeleopTool:
		t.teleopVel = append([]float64(nil), cmd.Joints...)
		t.mode = trackJoint
		t.trackJoint = append([]float64(nil), t.lastJointsAct...)
		t.state = StateTeleop

	case comm.CmdHere:
		t.dispatchHere(cmd)

	case comm.CmdCycleTime:
		t.cfg.CycleTime = cmd.CycleTime
		t.queue.SetCycleTime(cmd.CycleTime)
	case comm.CmdDebug:
		t.cfg.Debug = cmd.Debug
		t.applyDebugMask()
	case comm.CmdHome:
		t.nominalHome = append([]float64(nil), cmd.HomeJoints...)
	case comm.CmdLimit:
		if cmd.LimitJoint >= 0 && cmd.LimitJoint < len(t.chain.Links) {
			t.chain.Links[cmd.LimitJoint].Min = cmd.LimitMin
			t.chain.Links[cmd.LimitJoint].Max = cmd.LimitMax
		}
	case comm.CmdProfile:
		t.cfg.Profile = cmd.Profile
	case comm.CmdKinematics:
		if k, code := kinematics.Select(cmd.KinematicsName, t.chain); code.IsOK() {
			t.kin = k
		} else {
			t.enterFault("kinematics select: " + code.String())
		}
	case comm.CmdScale:
		t.queue.SetScale(cmd.ScaleTarget, cmd.ScaleVel, cmd.ScaleAccel)
	case comm.CmdMaxScale:
		t.cfg.Profile.MaxVel = cmd.MaxScale
	case comm.CmdLog:
		t.recorder.RecordOne(t.statusCh.Read())
	case comm.CmdLogStart:
		t.recorder.Start()
	case comm.CmdLogStop:
		t.recorder.Stop()
	case comm.CmdToolTransform:
		t.toolTransform = cmd.ToolTransform
	}
}

func (t *Traj) dispatchMoveWorld(cmd comm.TrajCommand, toolFrame bool) {
	if code := t.queue.SetType(motionqueue.World); !code.IsOK() {
		t.enterFault("move_world set_type: " + code.String())
		return
	}
	endPose := cmd.EndPose
	if toolFrame {
		endPose = spatialmath.PosePoseMult(t.lastEcpAct, cmd.EndPose)
	}
	spec := motionqueue.Spec{
		Shape:     cmd.Shape,
		StartPose: t.lastEcpAct,
		EndPose:   endPose,
		Center:    cmd.Center,
		Normal:    cmd.Normal,
		Turns:     cmd.Turns,
		VMax:      orDefault(cmd.VMax, t.cfg.Profile.MaxVel),
		AMax:      orDefault(cmd.AMax, t.cfg.Profile.MaxAccel),
		JMax:      orDefault(cmd.JMax, t.cfg.Profile.MaxJerk),
	}
	if _, code := t.queue.Append(spec); !code.IsOK() {
		t.enterFault("move_world append: " + code.String())
		return
	}
	t.mode = trackNone
	t.state = StateExecuting
}

func (t *Traj) dispatchMoveJoint(cmd comm.TrajCommand, uncoordinated bool) {
	kind := motionqueue.Joint
	if uncoordinated {
		kind = motionqueue.UJoint
	}
	if code := t.queue.SetType(kind); !code.IsOK() {
		t.enterFault("move_joint set_type: " + code.String())
		return
	}
	if code := t.queue.SetJointNumber(t.numJoints()); !code.IsOK() {
		t.enterFault("move_joint set_joint_number: " + code.String())
		return
	}
	end := make([]float64, t.numJoints())
	for i := range end {
		if uncoordinated {
			end[i] = t.lastJointsAct[i] + valueOr(cmd.Joints, i, 0)
		} else {
			end[i] = valueOr(cmd.Joints, i, t.lastJointsAct[i])
		}
	}
	spec := motionqueue.Spec{
		StartJoints: append([]float64(nil), t.lastJointsAct...),
		EndJoints:   end,
		VMax:        orDefault(cmd.VMax, t.cfg.Profile.MaxVel),
		AMax:        orDefault(cmd.AMax, t.cfg.Profile.MaxAccel),
		JMax:        orDefault(cmd.JMax, t.cfg.Profile.MaxJerk),
	}
	if _, code := t.queue.Append(spec); !code.IsOK() {
		t.enterFault("move_joint append: " + code.String())
		return
	}
	if uncoordinated {
		for i, home := range cmd.JointHome {
			if i < len(t.servoCmds) && home {
				c := t.servoCmds[i].Read()
				c.Home = true
				t.servoCmds[i].Publish(c)
			}
		}
	}
	t.mode = trackNone
	t.state = StateExecuting
}

// dispatchHere realizes spec.md §6's HERE command — declare the current pose, set homed — by
// solving inverse kinematics for the declared pose and setting joint_offsets so joints_act lands
// on that solution, converging with index-based homing on the same atomic offset/homed pair
// (SPEC_FULL.md §4's "HERE homing without a home switch").
func (t *Traj) dispatchHere(cmd comm.TrajCommand) {
	declared, code := t.solveWorld(cmd.EndPose, t.lastJointsAct)
	if !code.IsOK() {
		t.enterFault("here ik: " + code.String())
		return
	}
	for i := range t.jointOffsets {
		if i < len(declared) {
			t.jointOffsets[i] += declared[i] - t.lastJointsAct[i]
		}
		t.homed[i] = true
	}
	t.state = StateReady
}

func (t *Traj) applyDebugMask() {
	if t.logger == nil {
		return
	}
	level := logging.INFO
	if t.cfg.Debug != 0 {
		level = logging.DEBUG
	}
	t.logger.SetLevel(level)
}

func orDefault(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}

func valueOr(s []float64, i int, fallback float64) float64 {
	if i < len(s) {
		return s[i]
	}
	return fallback
}
