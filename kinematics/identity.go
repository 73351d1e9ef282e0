package kinematics

import (
	"github.com/gomotion-project/gomotion/referenceframe"
	"github.com/gomotion-project/gomotion/result"
	"github.com/gomotion-project/gomotion/spatialmath"
)

func init() {
	Register("identity-6dof", newIdentity)
}

// identity6 is a 6-DOF pass-through kinematics backend: the joint vector IS the pose, laid out as
// (x, y, z, rx, ry, rz) Cartesian translation plus axis-angle rotation. It exists for exercising
// the Servo/Traj loops and motion queue without a real arm's forward/inverse geometry getting in
// the way, mirroring the teacher's fake/no-op component backends (e.g. components/arm's fake
// implementation) generalized to kinematics.
type identity6 struct {
	chain referenceframe.Chain
}

func newIdentity(chain referenceframe.Chain) (Kinematics, result.Code) {
	return &identity6{chain: chain}, result.OK
}

func (d *identity6) Init() result.Code { return result.OK }
func (d *identity6) GetType() Type     { return Both }
func (d *identity6) NumJoints() int    { return 6 }
func (d *identity6) GetName() string   { return "identity-6dof" }

func (d *identity6) SetParameters(chain referenceframe.Chain) result.Code {
	d.chain = chain
	return result.OK
}

func (d *identity6) GetParameters() referenceframe.Chain { return d.chain }

func (d *identity6) Fwd(joints []float64) (spatialmath.Pose, result.Code) {
	if len(joints) != 6 {
		return spatialmath.Pose{}, result.BadArgs
	}
	rvec := spatialmath.Rvec{X: joints[3], Y: joints[4], Z: joints[5]}
	return spatialmath.Pose{
		Tran: spatialmath.NewCart(joints[0], joints[1], joints[2]),
		Rot:  rvec.ToQuat(),
	}, result.OK
}

func (d *identity6) Inv(pose spatialmath.Pose, seed []float64) ([]float64, result.Code) {
	rvec := spatialmath.QuatToRvec(pose.Rot)
	return []float64{pose.Tran.X, pose.Tran.Y, pose.Tran.Z, rvec.X, rvec.Y, rvec.Z}, result.OK
}

func (d *identity6) JacFwd(joints, jointVels []float64) ([6]float64, result.Code) {
	if len(jointVels) != 6 {
		return [6]float64{}, result.BadArgs
	}
	return [6]float64{jointVels[0], jointVels[1], jointVels[2], jointVels[3], jointVels[4], jointVels[5]}, result.OK
}

func (d *identity6) JacInv(joints []float64, vel [6]float64) ([]float64, result.Code) {
	return []float64{vel[0], vel[1], vel[2], vel[3], vel[4], vel[5]}, result.OK
}
