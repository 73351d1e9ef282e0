package spatialmath

import (
	"math"

	"github.com/gomotion-project/gomotion/result"
)

// Mat is a 3x3 rotation matrix, invariant: orthonormal columns, determinant +1 (spec.md §3).
type Mat [3][3]float64

// Rvec is an axis-angle rotation: direction is unit, magnitude is the rotation angle in [0,pi]
// (spec.md's "rvec").
type Rvec struct {
	X, Y, Z float64
}

// Mag returns the encoded rotation angle (the vector's own magnitude).
func (r Rvec) Mag() float64 { return math.Sqrt(r.X*r.X + r.Y*r.Y + r.Z*r.Z) }

// Rpy is a roll-pitch-yaw (XYZ fixed-angle) rotation.
type Rpy struct {
	Roll, Pitch, Yaw float64
}

// Mag returns the single-angle magnitude of the underlying rotation (via quaternion round trip).
func (r Rpy) Mag() float64 { return r.ToQuat().Mag() }

// Zyz is a Z-Y-Z Euler-angle rotation.
type Zyz struct {
	Z1, Y, Z2 float64
}

func (z Zyz) Mag() float64 { return z.ToQuat().Mag() }

// Zyx is a Z-Y-X Euler-angle rotation (yaw-pitch-roll ordering, distinct from Rpy's fixed-angle
// convention — spec.md lists both as independent rotation forms).
type Zyx struct {
	Z, Y, X float64
}

func (z Zyx) Mag() float64 { return z.ToQuat().Mag() }

// Uxz is the axis-angle-like "u-x-z" form used by some DH-chain conventions in the original
// implementation (rotate about X by u, then about the new Z) — kept as a distinct rotation form
// per spec.md §3.
type Uxz struct {
	U, X, Z float64
}

func (u Uxz) Mag() float64 { return u.ToQuat().Mag() }

// --- Quat <-> Mat ---

// ToMat converts a unit quaternion to a rotation matrix.
func (q Quat) ToMat() Mat {
	n := q.Number
	w, x, y, z := n.Real, n.Imag, n.Jmag, n.Kmag
	return Mat{
		{1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w)},
		{2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w)},
		{2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y)},
	}
}

// MatToQuat converts a rotation matrix to a canonical unit quaternion.
func MatToQuat(m Mat) Quat {
	tr := m[0][0] + m[1][1] + m[2][2]
	var w, x, y, z float64
	switch {
	case tr > 0:
		s := 0.5 / math.Sqrt(tr+1.0)
		w = 0.25 / s
		x = (m[2][1] - m[1][2]) * s
		y = (m[0][2] - m[2][0]) * s
		z = (m[1][0] - m[0][1]) * s
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := 2.0 * math.Sqrt(1.0+m[0][0]-m[1][1]-m[2][2])
		w = (m[2][1] - m[1][2]) / s
		x = 0.25 * s
		y = (m[0][1] + m[1][0]) / s
		z = (m[0][2] + m[2][0]) / s
	case m[1][1] > m[2][2]:
		s := 2.0 * math.Sqrt(1.0+m[1][1]-m[0][0]-m[2][2])
		w = (m[0][2] - m[2][0]) / s
		x = (m[0][1] + m[1][0]) / s
		y = 0.25 * s
		z = (m[1][2] + m[2][1]) / s
	default:
		s := 2.0 * math.Sqrt(1.0+m[2][2]-m[0][0]-m[1][1])
		w = (m[1][0] - m[0][1]) / s
		x = (m[0][2] + m[2][0]) / s
		y = (m[1][2] + m[2][1]) / s
		z = 0.25 * s
	}
	q, code := NewQuat(w, x, y, z)
	if code != result.OK {
		return IdentityQuat()
	}
	return q
}

// --- Quat <-> Rvec ---

// ToQuat converts an axis-angle rotation to a quaternion (grounded on kinmath.R4AA.ToQuat).
func (r Rvec) ToQuat() Quat {
	theta := r.Mag()
	if theta < 1e-12 {
		return IdentityQuat()
	}
	ux, uy, uz := r.X/theta, r.Y/theta, r.Z/theta
	half := theta / 2
	s, c := math.Sin(half), math.Cos(half)
	q, code := NewQuat(c, ux*s, uy*s, uz*s)
	if code != result.OK {
		return IdentityQuat()
	}
	return q
}

// QuatToRvec converts a quaternion to axis-angle form (grounded on kinmath.QuatToR4AA).
func QuatToRvec(q Quat) Rvec {
	n := q.Number
	theta := 2 * math.Acos(clamp(n.Real, -1, 1))
	s := math.Sqrt(1 - n.Real*n.Real)
	if s < 1e-9 {
		return Rvec{}
	}
	return Rvec{X: theta * n.Imag / s, Y: theta * n.Jmag / s, Z: theta * n.Kmag / s}
}

// --- Quat <-> Rpy (XYZ fixed angle) ---

func (r Rpy) ToQuat() Quat {
	cr, sr := math.Cos(r.Roll/2), math.Sin(r.Roll/2)
	cp, sp := math.Cos(r.Pitch/2), math.Sin(r.Pitch/2)
	cy, sy := math.Cos(r.Yaw/2), math.Sin(r.Yaw/2)
	w := cr*cp*cy + sr*sp*sy
	x := sr*cp*cy - cr*sp*sy
	y := cr*sp*cy + sr*cp*sy
	z := cr*cp*sy - sr*sp*cy
	q, code := NewQuat(w, x, y, z)
	if code != result.OK {
		return IdentityQuat()
	}
	return q
}

// QuatToRpy converts a quaternion to roll-pitch-yaw.
func QuatToRpy(q Quat) Rpy {
	n := q.Number
	w, x, y, z := n.Real, n.Imag, n.Jmag, n.Kmag

	sinrCosp := 2 * (w*x + y*z)
	cosrCosp := 1 - 2*(x*x+y*y)
	roll := math.Atan2(sinrCosp, cosrCosp)

	sinp := 2 * (w*y - z*x)
	var pitch float64
	if math.Abs(sinp) >= 1 {
		pitch = math.Copysign(math.Pi/2, sinp)
	} else {
		pitch = math.Asin(sinp)
	}

	sinyCosp := 2 * (w*z + x*y)
	cosyCosp := 1 - 2*(y*y+z*z)
	yaw := math.Atan2(sinyCosp, cosyCosp)

	return Rpy{Roll: roll, Pitch: pitch, Yaw: yaw}
}

// --- Quat <-> Zyz ---

func (z Zyz) ToQuat() Quat {
	qz1 := Rvec{Z: z.Z1}.ToQuat()
	qy := Rvec{Y: z.Y}.ToQuat()
	qz2 := Rvec{Z: z.Z2}.ToQuat()
	return qz1.Mul(qy).Mul(qz2)
}

// QuatToZyz extracts Z-Y-Z Euler angles from a quaternion via the rotation matrix.
func QuatToZyz(q Quat) Zyz {
	m := q.ToMat()
	sy := math.Hypot(m[2][0], m[2][1])
	if sy < 1e-9 {
		// gimbal lock: fold all rotation about Z2 into Z1.
		return Zyz{Z1: math.Atan2(-m[0][1], m[0][0]), Y: math.Atan2(sy, m[2][2]), Z2: 0}
	}
	return Zyz{
		Z1: math.Atan2(m[1][2], m[0][2]),
		Y:  math.Atan2(sy, m[2][2]),
		Z2: math.Atan2(m[2][1], -m[2][0]),
	}
}

// --- Quat <-> Zyx ---

func (z Zyx) ToQuat() Quat {
	qz := Rvec{Z: z.Z}.ToQuat()
	qy := Rvec{Y: z.Y}.ToQuat()
	qx := Rvec{X: z.X}.ToQuat()
	return qz.Mul(qy).Mul(qx)
}

// QuatToZyx extracts Z-Y-X Euler angles from a quaternion via the rotation matrix.
func QuatToZyx(q Quat) Zyx {
	m := q.ToMat()
	sy := -m[2][0]
	var y float64
	if sy >= 1 {
		y = math.Pi / 2
	} else if sy <= -1 {
		y = -math.Pi / 2
	} else {
		y = math.Asin(sy)
	}
	cy := math.Cos(y)
	if math.Abs(cy) < 1e-9 {
		return Zyx{Z: math.Atan2(-m[0][1], m[1][1]), Y: y, X: 0}
	}
	return Zyx{
		Z: math.Atan2(m[1][0], m[0][0]),
		Y: y,
		X: math.Atan2(m[2][1], m[2][2]),
	}
}

// --- Quat <-> Uxz ---

func (u Uxz) ToQuat() Quat {
	qx := Rvec{X: u.U}.ToQuat()
	qz := Rvec{Z: u.Z}.ToQuat()
	return qx.Mul(qz)
}

// QuatToUxz extracts the U-X-Z form by decomposing the equivalent rotation matrix.
func QuatToUxz(q Quat) Uxz {
	m := q.ToMat()
	u := math.Atan2(-m[1][2], m[1][1])
	// after undoing the X(u) rotation, what remains is a rotation about Z.
	qxInv := Rvec{X: u}.ToQuat().Conj()
	rem := qxInv.Mul(q)
	z := QuatToRvec(rem)
	return Uxz{U: u, X: 0, Z: z.Z}
}
