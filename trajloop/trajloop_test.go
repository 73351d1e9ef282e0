package trajloop

import (
	"testing"

	"github.com/google/uuid"
	"go.viam.com/test"

	"github.com/gomotion-project/gomotion/comm"
	"github.com/gomotion-project/gomotion/config"
	"github.com/gomotion-project/gomotion/kinematics"
	"github.com/gomotion-project/gomotion/motionqueue"
	"github.com/gomotion-project/gomotion/referenceframe"
	"github.com/gomotion-project/gomotion/result"
	"github.com/gomotion-project/gomotion/spatialmath"
)

// identityKin is a single-joint test double: Fwd/Inv just carry the joint value through as a
// translation along X, so following the queue is trivially checkable.
type identityKin struct {
	n int
}

func (k *identityKin) Init() result.Code       { return result.OK }
func (k *identityKin) GetType() kinematics.Type { return kinematics.Both }
func (k *identityKin) NumJoints() int          { return k.n }
func (k *identityKin) GetName() string     { return "identity" }
func (k *identityKin) SetParameters(referenceframe.Chain) result.Code { return result.OK }
func (k *identityKin) GetParameters() referenceframe.Chain            { return referenceframe.Chain{} }

func (k *identityKin) Fwd(joints []float64) (spatialmath.Pose, result.Code) {
	p := spatialmath.IdentityPose()
	if len(joints) > 0 {
		p.Tran = spatialmath.NewCart(joints[0], 0, 0)
	}
	return p, result.OK
}

func (k *identityKin) Inv(pose spatialmath.Pose, seed []float64) ([]float64, result.Code) {
	out := append([]float64(nil), seed...)
	if len(out) > 0 {
		out[0] = pose.Tran.X
	}
	return out, result.OK
}

func (k *identityKin) JacFwd(joints, jointVels []float64) ([6]float64, result.Code) {
	return [6]float64{}, result.OK
}

func (k *identityKin) JacInv(joints []float64, vel [6]float64) ([]float64, result.Code) {
	return make([]float64, len(joints)), result.OK
}

func newTestTraj(t *testing.T) (*Traj, *comm.Channel[comm.TrajCommand], *comm.Channel[comm.TrajStatus],
	[]*comm.Channel[comm.ServoCommand], []*comm.Channel[comm.ServoStatus]) {
	t.Helper()
	chain, code := referenceframe.NewChain([]referenceframe.Link{{Name: "j0"}})
	test.That(t, code.IsOK(), test.ShouldBeTrue)

	queue, code := motionqueue.Init(16, 0.001)
	test.That(t, code.IsOK(), test.ShouldBeTrue)

	cmdCh := comm.NewChannel(comm.TrajCommand{})
	statusCh := comm.NewChannel(comm.TrajStatus{})
	servoCmds := []*comm.Channel[comm.ServoCommand]{comm.NewChannel(comm.ServoCommand{})}
	servoStats := []*comm.Channel[comm.ServoStatus]{comm.NewChannel(comm.ServoStatus{})}
	xinvCh := comm.NewXinvChannel()

	cfg := config.TrajConfig{CycleTime: 0.001, Profile: config.ProfileConfig{MaxVel: 1, MaxAccel: 1, MaxJerk: 1}}
	traj, code := New(cfg, chain, &identityKin{n: 1}, queue, cmdCh, statusCh, servoCmds, servoStats, xinvCh, nil)
	test.That(t, code.IsOK(), test.ShouldBeTrue)
	return traj, cmdCh, statusCh, servoCmds, servoStats
}

func TestInitMovesToReady(t *testing.T) {
	traj, _, _, _, _ := newTestTraj(t)
	test.That(t, traj.Init().IsOK(), test.ShouldBeTrue)
	test.That(t, traj.State(), test.ShouldEqual, StateReady)
}

func TestMoveJointRunsToCompletion(t *testing.T) {
	traj, cmdCh, statusCh, servoCmds, servoStats := newTestTraj(t)
	traj.Init()

	cmdCh.Publish(comm.TrajCommand{
		ID: uuid.New(), Kind: comm.CmdMoveJoint,
		Joints: []float64{1.0}, VMax: 1, AMax: 1, JMax: 1,
	})
	test.That(t, traj.Tick().IsOK(), test.ShouldBeTrue)
	test.That(t, traj.State(), test.ShouldEqual, StateExecuting)

	for i := 0; i < 5000 && traj.State() == StateExecuting; i++ {
		servoStats[0].Publish(comm.ServoStatus{Feedback: servoCmds[0].Read().Setpoint})
		test.That(t, traj.Tick().IsOK(), test.ShouldBeTrue)
	}
	test.That(t, traj.State(), test.ShouldEqual, StateReady)
	status := statusCh.Read()
	test.That(t, status.InPos, test.ShouldBeTrue)
}

func TestServoFaultAbortsAndDisablesServos(t *testing.T) {
	traj, _, statusCh, servoCmds, servoStats := newTestTraj(t)
	traj.Init()

	servoStats[0].Publish(comm.ServoStatus{Fault: true})
	test.That(t, traj.Tick().IsOK(), test.ShouldBeTrue)
	test.That(t, traj.State(), test.ShouldEqual, StateAborted)
	test.That(t, statusCh.Read().Fault, test.ShouldBeTrue)
	test.That(t, servoCmds[0].Read().Enable, test.ShouldBeFalse)
}

func TestHereDeclaresPoseAndMarksHomed(t *testing.T) {
	traj, cmdCh, _, _, servoStats := newTestTraj(t)
	traj.Init()
	servoStats[0].Publish(comm.ServoStatus{Feedback: 3.0})
	traj.Tick()

	cmdCh.Publish(comm.TrajCommand{
		ID: uuid.New(), Kind: comm.CmdHere,
		EndPose: spatialmath.Pose{Tran: spatialmath.NewCart(3.0, 0, 0), Rot: spatialmath.IdentityQuat()},
	})
	test.That(t, traj.Tick().IsOK(), test.ShouldBeTrue)
	test.That(t, traj.homed[0], test.ShouldBeTrue)
	test.That(t, traj.jointOffsets[0], test.ShouldAlmostEqual, 0.0)
}

func TestTeleopJointIntegratesVelocityEachCycle(t *testing.T) {
	traj, cmdCh, _, _, servoStats := newTestTraj(t)
	traj.Init()
	servoStats[0].Publish(comm.ServoStatus{Feedback: 0})
	test.That(t, traj.Tick().IsOK(), test.ShouldBeTrue)

	cmdCh.Publish(comm.TrajCommand{
		ID: uuid.New(), Kind: comm.CmdTeleopJoint,
		Joints: []float64{0.5},
	})
	test.That(t, traj.Tick().IsOK(), test.ShouldBeTrue)
	test.That(t, traj.State(), test.ShouldEqual, StateTeleop)
	first := traj.trackJoint[0]

	for i := 0; i < 10; i++ {
		servoStats[0].Publish(comm.ServoStatus{Feedback: traj.trackJoint[0]})
		test.That(t, traj.Tick().IsOK(), test.ShouldBeTrue)
	}
	test.That(t, traj.trackJoint[0] > first, test.ShouldBeTrue)
}

func TestTeleopJointClampsToProfileMaxVel(t *testing.T) {
	traj, cmdCh, _, _, servoStats := newTestTraj(t)
	traj.Init()
	servoStats[0].Publish(comm.ServoStatus{Feedback: 0})
	test.That(t, traj.Tick().IsOK(), test.ShouldBeTrue)

	cmdCh.Publish(comm.TrajCommand{
		ID: uuid.New(), Kind: comm.CmdTeleopJoint,
		Joints: []float64{1000},
	})
	test.That(t, traj.Tick().IsOK(), test.ShouldBeTrue)
	servoStats[0].Publish(comm.ServoStatus{Feedback: traj.trackJoint[0]})
	test.That(t, traj.Tick().IsOK(), test.ShouldBeTrue)

	test.That(t, traj.trackJoint[0], test.ShouldAlmostEqual, traj.cfg.Profile.MaxVel*traj.cfg.CycleTime*2, 1e-9)
}

func TestAbortCommandStopsQueueAndServos(t *testing.T) {
	traj, cmdCh, _, servoCmds, _ := newTestTraj(t)
	traj.Init()
	cmdCh.Publish(comm.TrajCommand{ID: uuid.New(), Kind: comm.CmdMoveJoint, Joints: []float64{1.0}, VMax: 1, AMax: 1, JMax: 1})
	traj.Tick()

	cmdCh.Publish(comm.TrajCommand{ID: uuid.New(), Kind: comm.CmdAbort})
	test.That(t, traj.Tick().IsOK(), test.ShouldBeTrue)
	test.That(t, traj.State(), test.ShouldEqual, StateAborted)
	test.That(t, servoCmds[0].Read().Enable, test.ShouldBeFalse)
}
