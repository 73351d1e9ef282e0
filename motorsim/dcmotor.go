// Package motorsim is a closed-form simulator of a separately-excited DC motor (spec.md §4.5),
// transliterated from Benjamin C. Kuo's analysis as implemented in
// original_source/src/dcmotor.c. The governing third-order ODE for voltage-driven motion has a
// characteristic-polynomial discriminant that is positive, negative, or (rarely) exactly zero;
// per the REDESIGN FLAGS the three branches are precomputed once at Init as a tagged variant
// (rootBranch) rather than re-derived from the discriminant on every cycle.
package motorsim

import (
	"math"

	"github.com/gomotion-project/gomotion/result"
)

// rootFuzz/speedFuzz mirror dcmotor.c's ROOT_FUZZ/SPEED_FUZZ tolerances for treating the
// characteristic root as exactly zero and the shaft as stopped, respectively.
const (
	rootFuzz  = 1e-20
	speedFuzz = 1e-6
)

// rootBranch tags which closed-form solution of the voltage ODE applies, fixed at Init time.
type rootBranch int

const (
	branchImaginary rootBranch = iota
	branchReal
	branchZero
)

// Params holds a motor's physical parameters (spec.md §4.5): viscous friction Bm, armature
// inductance La and resistance Ra, rotor inertia Jm, torque/back-EMF constant K, load torque Tl,
// static/sliding friction Tk/Ts, and the cycle period T this instance was initialized for.
type Params struct {
	Bm, La, Ra, Jm, K    float64
	Tl, Tk, Ts           float64
	T                    float64
}

// Motor is one simulated DC motor instance. All fields below T are precomputed at Init/SetCycleTime
// and consumed, not recomputed, by the per-cycle Run* methods.
type Motor struct {
	p Params

	// current-mode precomputed terms
	bmInv, bmJm, jmBm, embmJmt float64

	// voltage-mode precomputed terms
	branch   rootBranch
	a, b, c, d float64
	root     float64
	cInv     float64

	// real-root branch
	eb, emb, root2Inv, rootpbInv, rootmbInv, a2Inv float64
	// imaginary-root branch
	mb2a, embt2a, cosRoot, sinRoot float64

	theta, dtheta, d2theta float64
}

// Init builds a Motor and precomputes its cycle-dependent closed-form coefficients. Returns
// DomainError if Bm or Jm is non-positive (the motor would have no damping/inertia to integrate
// against), mirroring dcmotor_init's GO_REAL_EPSILON guard.
func Init(p Params) (*Motor, result.Code) {
	if p.Bm <= 0 || p.Jm <= 0 {
		return nil, result.DomainError
	}
	m := &Motor{p: p}
	if code := m.precomputeCurrent(); !code.IsOK() {
		return nil, code
	}
	if code := m.SetCycleTime(p.T); !code.IsOK() {
		return nil, code
	}
	return m, result.OK
}

func (m *Motor) precomputeCurrent() result.Code {
	m.bmInv = 1 / m.p.Bm
	m.bmJm = m.p.Bm / m.p.Jm
	m.jmBm = m.p.Jm / m.p.Bm
	m.embmJmt = math.Exp(-m.bmJm * m.p.T)
	return result.OK
}

// SetCycleTime re-derives the voltage-mode precomputed coefficients for a new cycle period,
// mirroring dcmotor_init's "call dcmotor_set() after re-init with a new t" pattern (spec.md §4.5's
// "cycle period T" parameter is re-settable without losing shaft state).
func (m *Motor) SetCycleTime(t float64) result.Code {
	m.p.T = t
	m.embmJmt = math.Exp(-m.bmJm * t)

	m.a = m.p.La * m.p.Jm
	m.b = m.p.Bm*m.p.La + m.p.Ra*m.p.Jm
	m.c = m.p.Ra*m.p.Bm + m.p.K*m.p.K
	m.d = m.p.Ra * m.p.Tl

	if m.c == 0 || m.a == 0 {
		return result.DivideByZero
	}
	m.cInv = 1 / m.c

	disc := m.b*m.b - 4*m.a*m.c
	switch {
	case disc < -rootFuzz:
		m.branch = branchImaginary
		m.root = math.Sqrt(-disc)
		m.mb2a = -m.b / (2 * m.a)
		m.embt2a = math.Exp(t * m.mb2a)
		m.cosRoot = math.Cos(m.root * t)
		m.sinRoot = math.Sin(m.root * t)
	case disc > rootFuzz:
		m.branch = branchReal
		m.root = math.Sqrt(disc)
		m.eb = math.Exp(-(m.b + m.root) * t / (2 * m.a))
		m.emb = math.Exp((-m.b + m.root) * t / (2 * m.a))
		m.root2Inv = 1 / (2 * m.root)
		m.rootpbInv = 1 / (m.root + m.b)
		m.rootmbInv = 1 / (m.root - m.b)
		m.a2Inv = 1 / (2 * m.a)
	default:
		m.branch = branchZero
	}
	return result.OK
}

// SetTheta overrides shaft position only, leaving velocity/acceleration untouched.
func (m *Motor) SetTheta(theta float64) { m.theta = theta }

// Set restores shaft state (position, velocity, acceleration), used when switching cycle time
// per dcmotor.c's documented init/get/init/set sequence for arbitrary time resampling.
func (m *Motor) Set(theta, dtheta, d2theta float64) {
	m.theta, m.dtheta, m.d2theta = theta, dtheta, d2theta
}

// Get returns the current shaft position, velocity, and acceleration.
func (m *Motor) Get() (theta, dtheta, d2theta float64) {
	return m.theta, m.dtheta, m.d2theta
}

// frictionTorque applies static friction Tk when stopped or sliding friction Ts otherwise to a
// driving torque rhs, per dcmotor.c's shared friction-clamping logic (used by both the
// current-mode and voltage-mode cycle functions). noNetTorque is true when the net torque after
// friction is zero (rhs pinned to 0); dcmotor.c only short-circuits the closed-form solve when
// that coincides with the shaft already being stopped, letting a moving shaft with zero net
// torque fall through and coast down through the ordinary branch computation with rhs=0.
func frictionTorque(rhs, tk, ts, dtheta float64) (out float64, noNetTorque bool, stopped bool) {
	stopped = dtheta < speedFuzz && dtheta > -speedFuzz
	fric := ts
	if stopped {
		fric = tk
	}
	switch {
	case rhs > fric:
		return rhs - fric, false, stopped
	case rhs < -fric:
		return rhs + fric, false, stopped
	default:
		return 0, true, stopped
	}
}

// RunCurrentCycle advances the motor by one cycle under a commanded armature current i, solving
// the second-order current-input ODE in closed form (dcmotor_run_current_cycle).
func (m *Motor) RunCurrentCycle(i float64) result.Code {
	rhs := i*m.p.K - m.p.Tl
	rhs, noNet, stopped := frictionTorque(rhs, m.p.Tk, m.p.Ts, m.dtheta)
	if noNet && stopped {
		m.dtheta, m.d2theta = 0, 0
		return result.OK
	}

	rhs *= m.bmInv
	c1 := m.dtheta - rhs
	c2 := m.theta + m.jmBm*c1

	m.theta = rhs*m.p.T - c1*m.jmBm*m.embmJmt + c2
	m.dtheta = rhs + c1*m.embmJmt
	m.d2theta = -c1 * m.bmJm * m.embmJmt
	return result.OK
}

// RunVoltageCycle advances the motor by one cycle under a commanded armature voltage v, solving
// the third-order voltage-input ODE via whichever closed-form branch Init/SetCycleTime selected
// (dcmotor_run_voltage_cycle).
func (m *Motor) RunVoltageCycle(v float64) result.Code {
	rhs := v*m.p.K - m.d
	frictionRa := m.p.Ra
	rhs, noNet, stopped := frictionTorque(rhs, frictionRa*m.p.Tk, frictionRa*m.p.Ts, m.dtheta)
	if noNet && stopped {
		m.dtheta, m.d2theta = 0, 0
		return result.OK
	}

	switch m.branch {
	case branchImaginary:
		c1 := m.dtheta - rhs*m.cInv
		c3 := m.theta + c1*m.b*0.5*m.cInv
		m.theta = rhs*m.p.T*m.cInv + m.a*m.cInv*c1*m.embt2a*(m.mb2a*m.cosRoot+m.root*m.sinRoot) + c3
		m.dtheta = rhs*m.cInv + m.embt2a*c1*m.cosRoot
		m.d2theta = c1 * m.embt2a * (m.mb2a*m.cosRoot - m.root*m.sinRoot)
	case branchReal:
		c2 := ((m.b+m.root)*(rhs*m.cInv-m.dtheta) - 2*m.a*m.d2theta) * m.root2Inv
		c1 := -(rhs * m.cInv) + m.dtheta - c2
		c3 := m.theta + (2*m.a*c1)*m.rootpbInv - (2*m.a*c2)*m.rootmbInv

		m.theta = rhs*m.p.T*m.cInv - (2*m.a*m.eb*c1)*m.rootpbInv + (2*m.a*m.emb*c2)*m.rootmbInv + c3
		m.dtheta = rhs*m.cInv + m.eb*c1 + m.emb*c2
		m.d2theta = (-(m.b+m.root)*m.eb*c1 + (-m.b+m.root)*m.emb*c2) * m.a2Inv
	default: // branchZero
		m.dtheta = rhs * m.cInv
		m.theta = m.dtheta*m.p.T + m.theta
		m.d2theta = 0
	}
	return result.OK
}
