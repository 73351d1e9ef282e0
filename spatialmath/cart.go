// Package spatialmath is the math kernel: poses, quaternions, rotation conversions, general
// linear algebra, and kinematics-helper geometry (spec.md §4.1). It returns result.Code values
// and never logs or panics; callers decide what a non-OK code means for them.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/gomotion-project/gomotion/result"
)

// Close tolerances used throughout the package and by dependent packages' tests.
const (
	TranClose = 1e-6
	RotClose  = 1e-6
)

// Cart is a 3D Cartesian point or free vector, backed by r3.Vector (grounded on
// referenceframe's use of github.com/golang/geo/r3 for its translation component).
type Cart struct {
	r3.Vector
}

// NewCart builds a Cart from components.
func NewCart(x, y, z float64) Cart {
	return Cart{r3.Vector{X: x, Y: y, Z: z}}
}

func (c Cart) Add(o Cart) Cart   { return Cart{c.Vector.Add(o.Vector)} }
func (c Cart) Sub(o Cart) Cart   { return Cart{c.Vector.Sub(o.Vector)} }
func (c Cart) Scale(s float64) Cart { return Cart{c.Vector.Mul(s)} }
func (c Cart) Dot(o Cart) float64  { return c.Vector.Dot(o.Vector) }
func (c Cart) Cross(o Cart) Cart   { return Cart{c.Vector.Cross(o.Vector)} }
func (c Cart) Mag() float64        { return c.Vector.Norm() }

// Unit returns the unit vector along c, or DomainError for a zero vector (spec.md §4.1 edge
// policy).
func (c Cart) Unit() (Cart, result.Code) {
	m := c.Mag()
	if m < 1e-12 {
		return Cart{}, result.DomainError
	}
	return c.Scale(1 / m), result.OK
}

// Sph is a spherical-coordinate point (radius, azimuth theta, polar phi).
type Sph struct {
	R, Theta, Phi float64
}

// ToCart converts spherical to Cartesian.
func (s Sph) ToCart() Cart {
	sinPhi, cosPhi := math.Sincos(s.Phi)
	sinTheta, cosTheta := math.Sincos(s.Theta)
	return NewCart(s.R*sinPhi*cosTheta, s.R*sinPhi*sinTheta, s.R*cosPhi)
}

// ToSph converts Cartesian to spherical.
func (c Cart) ToSph() Sph {
	r := c.Mag()
	if r < 1e-12 {
		return Sph{}
	}
	return Sph{R: r, Theta: math.Atan2(c.Y, c.X), Phi: math.Acos(c.Z / r)}
}

// Cyl is a cylindrical-coordinate point (radius, angle theta, height z).
type Cyl struct {
	R, Theta, Z float64
}

// ToCart converts cylindrical to Cartesian.
func (c Cyl) ToCart() Cart {
	return NewCart(c.R*math.Cos(c.Theta), c.R*math.Sin(c.Theta), c.Z)
}

// ToCyl converts Cartesian to cylindrical.
func (c Cart) ToCyl() Cyl {
	return Cyl{R: math.Hypot(c.X, c.Y), Theta: math.Atan2(c.Y, c.X), Z: c.Z}
}
