package spatialmath

import (
	"math"

	gquat "gonum.org/v1/gonum/num/quat"

	"github.com/gomotion-project/gomotion/result"
)

// Quat is a unit quaternion (s,x,y,z) with the invariant s >= 0 (spec.md §3: "canonical
// hemisphere"). It wraps gonum.org/v1/gonum/num/quat, the same package the teacher's
// kinematics/kinmath package builds its R4AA<->quaternion conversions on top of.
type Quat struct {
	gquat.Number
}

// IdentityQuat returns the identity rotation (s=1, x=y=z=0), per spec.md §4.1 edge policy.
func IdentityQuat() Quat {
	return Quat{gquat.Number{Real: 1}}
}

// NewQuat builds a Quat from raw components, normalizing and canonicalizing it. A zero
// quaternion input returns NormError (spec.md §4.1 edge policy).
func NewQuat(s, x, y, z float64) (Quat, result.Code) {
	return Quat{gquat.Number{Real: s, Imag: x, Jmag: y, Kmag: z}}.normalize()
}

func (q Quat) mag() float64 {
	n := q.Number
	return math.Sqrt(n.Real*n.Real + n.Imag*n.Imag + n.Jmag*n.Jmag + n.Kmag*n.Kmag)
}

// normalize enforces unit norm and the canonical s>=0 hemisphere. A near-zero quaternion
// returns NormError.
func (q Quat) normalize() (Quat, result.Code) {
	m := q.mag()
	if m < 1e-12 {
		return Quat{}, result.NormError
	}
	n := q.Number
	n.Real /= m
	n.Imag /= m
	n.Jmag /= m
	n.Kmag /= m
	if n.Real < 0 {
		n.Real, n.Imag, n.Jmag, n.Kmag = -n.Real, -n.Imag, -n.Jmag, -n.Kmag
	}
	return Quat{n}, result.OK
}

// Flip negates every component of q, producing the antipodal representation of the same
// rotation (grounded on kinematics/kinmath's Flip, used to compare quaternions robustly across
// the +/-q ambiguity — see rotation_test.go's TestFlipAgreesOnAngle).
func Flip(q Quat) Quat {
	n := q.Number
	return Quat{gquat.Number{Real: -n.Real, Imag: -n.Imag, Jmag: -n.Jmag, Kmag: -n.Kmag}}
}

// Conj returns the conjugate (inverse rotation for a unit quaternion).
func (q Quat) Conj() Quat {
	return Quat{gquat.Conj(q.Number)}
}

// Mul composes two rotations (q then o, i.e. result = q*o applied right-to-left on a vector),
// and always returns the canonical (s>=0) representative (spec.md §4.1: "quat_quat_mult
// produces canonical output").
func (q Quat) Mul(o Quat) Quat {
	n := gquat.Mul(q.Number, o.Number)
	out, code := Quat{n}.normalize()
	if code != result.OK {
		// Only a degenerate (zero) product can fail normalize here, which cannot occur for two
		// unit quaternions; fall back to the raw product rather than propagating a code from an
		// operation spec.md defines as total.
		return Quat{n}
	}
	return out
}

// Rotate applies q to a Cartesian vector.
func (q Quat) Rotate(v Cart) Cart {
	qv := gquat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := gquat.Mul(gquat.Mul(q.Number, qv), gquat.Conj(q.Number))
	return NewCart(r.Imag, r.Jmag, r.Kmag)
}

// Mag returns the rotation angle in [0, pi] represented by q, agreeing with RvecMag/RpyMag for
// the same underlying rotation (spec.md §4.1).
func (q Quat) Mag() float64 {
	return 2 * math.Acos(clamp(q.Number.Real, -1, 1))
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

// Slerp spherically interpolates from q to o at parameter t in [0,1], always taking the
// shortest arc (motion queue §4.6 requires this for linear world-segment rotation).
func Slerp(q, o Quat, t float64) Quat {
	a, b := q.Number, o.Number
	dot := a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
	if dot < 0 {
		b = gquat.Number{Real: -b.Real, Imag: -b.Imag, Jmag: -b.Jmag, Kmag: -b.Kmag}
		dot = -dot
	}
	dot = clamp(dot, -1, 1)
	if dot > 0.9995 {
		n := gquat.Number{
			Real: a.Real + t*(b.Real-a.Real),
			Imag: a.Imag + t*(b.Imag-a.Imag),
			Jmag: a.Jmag + t*(b.Jmag-a.Jmag),
			Kmag: a.Kmag + t*(b.Kmag-a.Kmag),
		}
		out, code := Quat{n}.normalize()
		if code == result.OK {
			return out
		}
		return q
	}
	theta0 := math.Acos(dot)
	theta := theta0 * t
	sinTheta0 := math.Sin(theta0)
	s0 := math.Cos(theta) - dot*math.Sin(theta)/sinTheta0
	s1 := math.Sin(theta) / sinTheta0
	n := gquat.Number{
		Real: a.Real*s0 + b.Real*s1,
		Imag: a.Imag*s0 + b.Imag*s1,
		Jmag: a.Jmag*s0 + b.Jmag*s1,
		Kmag: a.Kmag*s0 + b.Kmag*s1,
	}
	out, code := Quat{n}.normalize()
	if code != result.OK {
		return q
	}
	return out
}
