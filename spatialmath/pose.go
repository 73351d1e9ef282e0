package spatialmath

import "math"

// Pose is a rigid transform: translation then rotation (spec.md §3: "pose = (cart tran, quat
// rot)").
type Pose struct {
	Tran Cart
	Rot  Quat
}

// IdentityPose returns the identity transform.
func IdentityPose() Pose {
	return Pose{Tran: NewCart(0, 0, 0), Rot: IdentityQuat()}
}

// Vel is a Cartesian twist: linear velocity v, angular velocity w (spec.md §3).
type Vel struct {
	V, W Cart
}

// PosePoseMult composes two poses: the result first applies a, then b, i.e. it maps a point p in
// b's frame to a's frame: result = a ∘ b. Associative within epsilon over long chains (spec.md
// §4.1's testable property).
func PosePoseMult(a, b Pose) Pose {
	return Pose{
		Tran: a.Tran.Add(a.Rot.Rotate(b.Tran)),
		Rot:  a.Rot.Mul(b.Rot),
	}
}

// PoseInv returns the inverse transform such that PosePoseMult(p, PoseInv(p)) is the identity
// within TranClose/RotClose (spec.md §4.1).
func PoseInv(p Pose) Pose {
	rInv := p.Rot.Conj()
	return Pose{
		Tran: rInv.Rotate(p.Tran).Scale(-1),
		Rot:  rInv,
	}
}

// PoseCartMult transforms a point from p's local frame into the frame p is expressed in.
func PoseCartMult(p Pose, c Cart) Cart {
	return p.Tran.Add(p.Rot.Rotate(c))
}

// PoseClose reports whether two poses agree within the given translation/rotation tolerances.
func PoseClose(a, b Pose, tranTol, rotTol float64) bool {
	d := a.Tran.Sub(b.Tran).Mag()
	if d > tranTol {
		return false
	}
	rel := a.Rot.Conj().Mul(b.Rot)
	return rel.Mag() <= rotTol
}

// Dh is a Denavit-Hartenberg link parameterization (spec.md §3).
type Dh struct {
	A, Alpha, D, Theta float64
}

// ToPose converts one DH row into the pose transform it represents (standard DH convention:
// rotate about Z by Theta, translate along Z by D, translate along X by A, rotate about X by
// Alpha).
func (dh Dh) ToPose() Pose {
	rotZ := Rvec{Z: dh.Theta}.ToQuat()
	tz := rotZ.Rotate(NewCart(0, 0, dh.D))
	afterZ := Pose{Tran: tz, Rot: rotZ}
	tx := NewCart(dh.A, 0, 0)
	rotX := Rvec{X: dh.Alpha}.ToQuat()
	afterX := Pose{Tran: tx, Rot: rotX}
	return PosePoseMult(afterZ, afterX)
}

// Pp is a parallel-pose body-frame parameterization: a fixed offset pose attached to a platform
// body, used by Stewart-platform-style parallel mechanisms (spec.md §3).
type Pp struct {
	Offset Pose
}

// Pk is a base+platform point pair used by parallel-kinematics strut links: the strut runs from
// a fixed base anchor to a point on the moving platform (spec.md §3).
type Pk struct {
	Base     Cart
	Platform Cart
}

// Length returns the current strut length given the platform pose.
func (pk Pk) Length(platformPose Pose) float64 {
	p := PoseCartMult(platformPose, pk.Platform)
	return p.Sub(pk.Base).Mag()
}

// Line is a point and a unit direction (spec.md §3 invariant |direction|=1).
type Line struct {
	Point     Cart
	Direction Cart
}

// NewLine builds a Line, normalizing direction; returns DomainError for a zero direction.
func NewLine(point, direction Cart) (Line, error) {
	u, code := direction.Unit()
	if !code.IsOK() {
		return Line{}, code.Err()
	}
	return Line{Point: point, Direction: u}, nil
}

// ClosestPoint returns the point on the line nearest to p.
func (l Line) ClosestPoint(p Cart) Cart {
	t := p.Sub(l.Point).Dot(l.Direction)
	return l.Point.Add(l.Direction.Scale(t))
}

// Plane is a unit normal and the signed distance d from the origin such that normal.Dot(p) == d
// for any point p on the plane (spec.md §3 invariant |normal|=1).
type Plane struct {
	Normal Cart
	D      float64
}

// NewPlane builds a Plane from a point and a normal vector, normalizing the normal. Returns
// DomainError for a zero normal.
func NewPlane(point, normal Cart) (Plane, error) {
	u, code := normal.Unit()
	if !code.IsOK() {
		return Plane{}, code.Err()
	}
	return Plane{Normal: u, D: u.Dot(point)}, nil
}

// SignedDistance returns the signed distance of p from the plane.
func (pl Plane) SignedDistance(p Cart) float64 {
	return pl.Normal.Dot(p) - pl.D
}

// Project returns the projection of p onto the plane.
func (pl Plane) Project(p Cart) Cart {
	return p.Sub(pl.Normal.Scale(pl.SignedDistance(p)))
}

// AngleBetween returns the unsigned angle in [0,pi] between two vectors.
func AngleBetween(a, b Cart) float64 {
	ma, mb := a.Mag(), b.Mag()
	if ma < 1e-12 || mb < 1e-12 {
		return 0
	}
	c := a.Dot(b) / (ma * mb)
	return math.Acos(clamp(c, -1, 1))
}
