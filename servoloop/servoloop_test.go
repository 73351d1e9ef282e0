package servoloop

import (
	"testing"

	"go.viam.com/test"

	"github.com/gomotion-project/gomotion/comm"
	"github.com/gomotion-project/gomotion/config"
	"github.com/gomotion-project/gomotion/result"
)

// fakeExt is a deterministic extiface.Ext test double: position integrates the last commanded
// velocity exactly (no dynamics), and homing completes on the cycle after JointHome is called.
type fakeExt struct {
	pos        float64
	lastVel    float64
	homeReq    bool
	homeReady  bool
	writeErr   bool
}

func (f *fakeExt) Init(string) result.Code { return result.OK }
func (f *fakeExt) Quit() result.Code       { return result.OK }

func (f *fakeExt) JointInit(int, float64) result.Code { f.pos = 0; return result.OK }
func (f *fakeExt) JointEnable(int) result.Code        { return result.OK }
func (f *fakeExt) JointDisable(int) result.Code       { return result.OK }
func (f *fakeExt) JointQuit(int) result.Code          { return result.OK }

func (f *fakeExt) ReadPos(int) (float64, result.Code) { return f.pos, result.OK }
func (f *fakeExt) WritePos(int, float64) result.Code  { return result.ImplError }
func (f *fakeExt) WriteVel(_ int, vel float64) result.Code {
	if f.writeErr {
		return result.Error
	}
	f.lastVel = vel
	f.pos += vel * 0.001
	return result.OK
}

func (f *fakeExt) JointHome(int) result.Code { f.homeReq = true; return result.OK }
func (f *fakeExt) IsHome(int) bool {
	if f.homeReq && !f.homeReady {
		f.homeReady = true
		return false
	}
	return f.homeReady
}
func (f *fakeExt) HomeLatch(int) (float64, result.Code) { return f.pos, result.OK }

func (f *fakeExt) TriggerIn() result.Code                  { return result.OK }
func (f *fakeExt) ReadAin(int) (float64, result.Code)       { return 0, result.OK }
func (f *fakeExt) ReadDin(int) (bool, result.Code)          { return false, result.OK }
func (f *fakeExt) WriteAout(int, float64) result.Code       { return result.OK }
func (f *fakeExt) WriteDout(int, bool) result.Code          { return result.OK }
func (f *fakeExt) NumAin() int                              { return 0 }
func (f *fakeExt) NumAout() int                             { return 0 }
func (f *fakeExt) NumDin() int                               { return 0 }
func (f *fakeExt) NumDout() int                              { return 0 }
func (f *fakeExt) SetParameters(int, []float64) result.Code { return result.OK }

func newTestServo(ext *fakeExt) (*Servo, *comm.Channel[comm.ServoCommand], *comm.Channel[comm.ServoStatus]) {
	cfg := config.ServoConfig{CycleTime: 0.001}
	cfg.Gains.Kp = 10
	cfg.Gains.Ki = 0
	cfg.Gains.Kd = 0
	cfg.Gains.IMax = 100
	cmdCh := comm.NewChannel(comm.ServoCommand{})
	statusCh := comm.NewChannel(comm.ServoStatus{})
	s := New(0, ext, cfg, cmdCh, statusCh, nil)
	return s, cmdCh, statusCh
}

func TestInitTransitionsToInitialized(t *testing.T) {
	s, _, _ := newTestServo(&fakeExt{})
	test.That(t, s.Init().IsOK(), test.ShouldBeTrue)
	test.That(t, s.State(), test.ShouldEqual, StateInitialized)
}

func TestEnableRequiresInitialized(t *testing.T) {
	s, _, _ := newTestServo(&fakeExt{})
	test.That(t, s.Enable(), test.ShouldEqual, result.Error)
	s.Init()
	test.That(t, s.Enable().IsOK(), test.ShouldBeTrue)
	test.That(t, s.State(), test.ShouldEqual, StateEnabled)
}

func TestTickPublishesFollowingErrorAndDrivesOutput(t *testing.T) {
	ext := &fakeExt{}
	s, cmdCh, statusCh := newTestServo(ext)
	s.Init()
	s.Enable()

	cmdCh.Publish(comm.ServoCommand{Setpoint: 1.0, Enable: true})
	test.That(t, s.Tick().IsOK(), test.ShouldBeTrue)

	status := statusCh.Read()
	test.That(t, status.Fault, test.ShouldBeFalse)
	test.That(t, status.FollowingErr, test.ShouldAlmostEqual, 1.0)
	test.That(t, ext.lastVel, test.ShouldAlmostEqual, 10.0)
}

func TestHomingLatchesHomedAndInputLatchTogether(t *testing.T) {
	ext := &fakeExt{}
	s, cmdCh, statusCh := newTestServo(ext)
	s.Init()
	s.Enable()

	cmdCh.Publish(comm.ServoCommand{Home: true, Enable: true})
	test.That(t, s.Tick().IsOK(), test.ShouldBeTrue)
	test.That(t, statusCh.Read().Homing, test.ShouldBeTrue)

	test.That(t, s.Tick().IsOK(), test.ShouldBeTrue)
	status := statusCh.Read()
	test.That(t, status.Homed, test.ShouldBeTrue)
	test.That(t, status.Homing, test.ShouldBeFalse)
	test.That(t, status.InputLatch, test.ShouldAlmostEqual, ext.pos)
}

func TestFollowingErrorFaultLatchesUntilInit(t *testing.T) {
	ext := &fakeExt{}
	s, cmdCh, statusCh := newTestServo(ext)
	s.cfg.FollowingErrMax = 0.5
	s.Init()
	s.cfg.FollowingErrMax = 0.5
	s.Enable()

	cmdCh.Publish(comm.ServoCommand{Setpoint: 5.0, Enable: true})
	s.Tick()
	test.That(t, s.State(), test.ShouldEqual, StateFault)
	test.That(t, statusCh.Read().Fault, test.ShouldBeTrue)

	s.Tick()
	test.That(t, s.State(), test.ShouldEqual, StateFault)

	test.That(t, s.Init().IsOK(), test.ShouldBeTrue)
	test.That(t, s.State(), test.ShouldEqual, StateInitialized)
}
