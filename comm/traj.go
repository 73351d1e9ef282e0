package comm

import (
	"github.com/google/uuid"

	"github.com/gomotion-project/gomotion/config"
	"github.com/gomotion-project/gomotion/motionqueue"
	"github.com/gomotion-project/gomotion/spatialmath"
)

// TrajCommandKind tags one command from spec.md §6's closed command set arriving on the traj
// command block.
type TrajCommandKind int

const (
	CmdNOP TrajCommandKind = iota
	CmdInit
	CmdAbort
	CmdHalt
	CmdShutdown
	CmdStop
	CmdMoveWorld
	CmdMoveTool
	CmdMoveJoint
	CmdMoveUJoint
	CmdTrackWorld
	CmdTrackJoint
	CmdTeleopJoint
	CmdTeleopWorld
	CmdTeleopTool
	CmdHere

	CmdCycleTime
	CmdDebug
	CmdHome
	CmdLimit
	CmdProfile
	CmdKinematics
	CmdScale
	CmdMaxScale
	CmdLog
	CmdLogStart
	CmdLogStop
	CmdToolTransform
)

// TrajCommand is the single ping-pong record the coordinated Traj task reads each cycle (spec.md
// §6's command surface). Only the fields relevant to Kind are consulted, mirroring the
// reference's tagged-union command record.
type TrajCommand struct {
	ID   uuid.UUID
	Kind TrajCommandKind

	// MOVE_WORLD / MOVE_TOOL / TRACK_WORLD / HERE payload.
	Shape           motionqueue.Shape
	StartPose       spatialmath.Pose
	EndPose         spatialmath.Pose
	Center, Normal  spatialmath.Cart
	Turns           int
	VMax, AMax, JMax float64 // translation maxima (also reused as the single scalar motionqueue.Spec maxima for joint moves)
	RVMax, RAMax, RJMax float64 // rotation maxima

	// MOVE_JOINT / MOVE_UJOINT / TRACK_JOINT / TELEOP_JOINT payload. JointHome, when non-nil, flags
	// per-axis homing for MOVE_UJOINT.
	Joints    []float64
	JointHome []bool

	// Config payload.
	CycleTime       float64
	Debug           config.DebugMask
	HomeJoints      []float64
	LimitJoint      int
	LimitMin        float64
	LimitMax        float64
	Profile         config.ProfileConfig
	KinematicsName  string
	KinematicsAttrs config.AttributeMap
	ScaleTarget     float64
	ScaleVel        float64
	ScaleAccel      float64
	MaxScale        float64
	ToolTransform   spatialmath.Pose
}

// TrajStatus is the cumulative status record the Traj task publishes each cycle (spec.md §4.8
// step 6: "publish per-joint setpoints and the cumulative status").
type TrajStatus struct {
	State string

	Ecp, Kcp, EcpAct spatialmath.Pose
	Joints, JointsAct []float64
	FollowingErrs     []float64

	InPos      bool
	QueueCount int

	LastCommandID uuid.UUID
	Fault         bool
	FaultReason   string
}
