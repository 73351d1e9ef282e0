package kinematics

import (
	"math"

	"github.com/go-nlopt/nlopt"

	"github.com/gomotion-project/gomotion/referenceframe"
	"github.com/gomotion-project/gomotion/result"
	"github.com/gomotion-project/gomotion/spatialmath"
)

func init() {
	Register("dh-serial", newDHChain)
}

// dhChain is a serial Denavit-Hartenberg kinematics implementation: forward kinematics
// composes referenceframe.Chain.ForwardDH directly, inverse kinematics runs nlopt's SLSQP solver to minimize
// pose error, and both Jacobians are evaluated by central finite differences of Fwd, grounded on
// the teacher's nlopt/jacobian inverse-kinematics solvers (kinematics/nloptInverseKinematics_test.go,
// kinematics/jacobianInverseKinematics_test.go) cooperating behind one entry point the way the
// teacher's combined IK solver does.
type dhChain struct {
	chain      referenceframe.Chain
	maxIter    int
	tol        float64
	jacobianEps float64
}

func newDHChain(chain referenceframe.Chain) (Kinematics, result.Code) {
	return &dhChain{
		chain:       chain,
		maxIter:     500,
		tol:         1e-6,
		jacobianEps: 1e-6,
	}, result.OK
}

func (d *dhChain) Init() result.Code { return result.OK }
func (d *dhChain) GetType() Type     { return Both }
func (d *dhChain) NumJoints() int    { return d.chain.NumJoints() }
func (d *dhChain) GetName() string   { return "dh-serial" }

func (d *dhChain) SetParameters(chain referenceframe.Chain) result.Code {
	d.chain = chain
	return result.OK
}

func (d *dhChain) GetParameters() referenceframe.Chain { return d.chain }

func (d *dhChain) Fwd(joints []float64) (spatialmath.Pose, result.Code) {
	return d.chain.ForwardDH(joints)
}

// poseErr packs translation error and axis-angle rotation error into one 6-vector for the
// nlopt objective and for the Jacobian/twist convention used throughout (spec.md §3's vel
// = (v,w)).
func poseErr(target, got spatialmath.Pose) [6]float64 {
	dt := target.Tran.Sub(got.Tran)
	rel := got.Rot.Conj().Mul(target.Rot)
	dr := spatialmath.QuatToRvec(rel)
	return [6]float64{dt.X, dt.Y, dt.Z, dr.X, dr.Y, dr.Z}
}

func (d *dhChain) Inv(target spatialmath.Pose, seed []float64) ([]float64, result.Code) {
	n := d.NumJoints()
	if len(seed) != n {
		return nil, result.BadArgs
	}

	opt, err := nlopt.NewNLopt(nlopt.LD_SLSQP, uint(n))
	if err != nil {
		return nil, result.ImplError
	}
	defer opt.Destroy()

	lb := make([]float64, n)
	ub := make([]float64, n)
	for i, l := range d.chain.Links {
		lb[i], ub[i] = l.Min, l.Max
	}
	_ = opt.SetLowerBounds(lb)
	_ = opt.SetUpperBounds(ub)
	_ = opt.SetXtolRel(d.tol)
	_ = opt.SetMaxEval(d.maxIter)

	objective := func(x, gradient []float64) float64 {
		pose, code := d.Fwd(x)
		if !code.IsOK() {
			return math.MaxFloat64
		}
		e := poseErr(target, pose)
		sum := 0.0
		for _, v := range e {
			sum += v * v
		}
		if len(gradient) > 0 {
			numericGradient(x, gradient, func(xx []float64) float64 {
				p, c := d.Fwd(xx)
				if !c.IsOK() {
					return math.MaxFloat64
				}
				ee := poseErr(target, p)
				s := 0.0
				for _, v := range ee {
					s += v * v
				}
				return s
			}, d.jacobianEps)
		}
		return sum
	}
	if err := opt.SetMinObjective(objective); err != nil {
		return nil, result.ImplError
	}

	x0 := append([]float64(nil), seed...)
	xOpt, minf, err := opt.Optimize(x0)
	if err != nil {
		return nil, result.Singular
	}
	if minf > d.tol {
		return xOpt, result.Singular
	}
	return xOpt, result.OK
}

func numericGradient(x, grad []float64, f func([]float64) float64, eps float64) {
	xp := append([]float64(nil), x...)
	for i := range x {
		orig := xp[i]
		xp[i] = orig + eps
		fp := f(xp)
		xp[i] = orig - eps
		fm := f(xp)
		xp[i] = orig
		grad[i] = (fp - fm) / (2 * eps)
	}
}

// jacobian returns the 6xN matrix mapping joint velocities to end-effector twist, evaluated at
// joints by central finite differences of Fwd (spec.md §4.4's jac_fwd/jac_inv pair, built on the
// same Fwd primitive rather than a closed-form per-link velocity propagation, per the budget).
func (d *dhChain) jacobian(joints []float64) ([6][]float64, result.Code) {
	n := len(joints)
	var jac [6][]float64
	for r := range jac {
		jac[r] = make([]float64, n)
	}
	base, code := d.Fwd(joints)
	if !code.IsOK() {
		return jac, code
	}
	q := append([]float64(nil), joints...)
	for i := 0; i < n; i++ {
		orig := q[i]
		q[i] = orig + d.jacobianEps
		pp, cp := d.Fwd(q)
		q[i] = orig - d.jacobianEps
		pm, cm := d.Fwd(q)
		q[i] = orig
		if !cp.IsOK() || !cm.IsOK() {
			return jac, result.ArithmeticError
		}
		e := poseErr(pm, pp) // pm->pp forward difference equals -poseErr(pp,pm); use (pp-pm)/2eps
		for r := 0; r < 6; r++ {
			jac[r][i] = -e[r] / (2 * d.jacobianEps)
		}
		_ = base
	}
	return jac, result.OK
}

func (d *dhChain) JacFwd(joints, jointVels []float64) ([6]float64, result.Code) {
	jac, code := d.jacobian(joints)
	if !code.IsOK() {
		return [6]float64{}, code
	}
	var vel [6]float64
	for r := 0; r < 6; r++ {
		sum := 0.0
		for c, jv := range jointVels {
			sum += jac[r][c] * jv
		}
		vel[r] = sum
	}
	return vel, result.OK
}

func (d *dhChain) JacInv(joints []float64, vel [6]float64) ([]float64, result.Code) {
	jac, code := d.jacobian(joints)
	if !code.IsOK() {
		return nil, code
	}
	n := len(joints)
	jm := spatialmath.NewMatrix(6, n, make([]float64, 6*n))
	for r := 0; r < 6; r++ {
		for c := 0; c < n; c++ {
			jm.Set(r, c, jac[r][c])
		}
	}
	pinv, code := spatialmath.PseudoInverse(jm)
	if !code.IsOK() {
		return nil, result.Singular
	}
	jointVels := make([]float64, n)
	for c := 0; c < n; c++ {
		sum := 0.0
		for r := 0; r < 6; r++ {
			sum += pinv.At(c, r) * vel[r]
		}
		jointVels[c] = sum
	}
	return jointVels, result.OK
}
