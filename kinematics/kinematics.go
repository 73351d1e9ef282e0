// Package kinematics implements the pluggable forward/inverse/Jacobian contract of spec.md §4.4.
// The reference describes an opaque "blob" selected by name, initialized, and parameterized in
// place; this rewrite replaces the blob protocol with a polymorphic Go interface per spec.md's
// REDESIGN FLAGS, selected from a name->constructor factory. Grounded on the teacher's
// kinematics package layout (combined/nlopt/jacobian solvers cooperating behind one IK entry
// point) and referenceframe's DH chain.
package kinematics

import (
	"github.com/gomotion-project/gomotion/referenceframe"
	"github.com/gomotion-project/gomotion/result"
	"github.com/gomotion-project/gomotion/spatialmath"
)

// Type reports which directions a Kinematics implementation supports (spec.md §4.4 get_type).
type Type int

const (
	Both Type = iota
	ForwardOnly
	InverseOnly
)

// Kinematics is the full contract of spec.md §4.4, replacing the "blob of size N" C protocol
// with an interface: each implementation owns its own internal state and a factory selects among
// implementations by name.
type Kinematics interface {
	// Init zeros internal solver state. Idempotent.
	Init() result.Code
	GetType() Type
	NumJoints() int
	GetName() string
	// SetParameters installs the kinematic chain (link parameters) this instance solves against.
	SetParameters(chain referenceframe.Chain) result.Code
	GetParameters() referenceframe.Chain

	// Fwd maps a joint vector to an end-effector pose.
	Fwd(joints []float64) (spatialmath.Pose, result.Code)
	// Inv maps a target pose to a joint vector, using seed as the starting estimate for
	// iterative solvers.
	Inv(pose spatialmath.Pose, seed []float64) ([]float64, result.Code)

	// JacFwd converts joint velocities at joints into an end-effector twist (vx,vy,vz,wx,wy,wz).
	JacFwd(joints, jointVels []float64) (vel [6]float64, code result.Code)
	// JacInv converts a desired end-effector twist into joint velocities via the
	// Jacobian pseudoinverse, evaluated at joints.
	JacInv(joints []float64, vel [6]float64) (jointVels []float64, code result.Code)
}

// Factory constructs a named Kinematics implementation.
type Factory func(chain referenceframe.Chain) (Kinematics, result.Code)

var registry = map[string]Factory{}

// Register adds an implementation to the selectable-by-name registry. Intended to be called
// from init() in each backend's file, mirroring the teacher's component-registry idiom
// (components/*/registry.go) generalized to this package's narrower scope.
func Register(name string, f Factory) {
	registry[name] = f
}

// Select picks an implementation by name and initializes it against chain (spec.md §4.4
// select+init+set_parameters, collapsed into one call since Go has no separate blob-allocation
// step).
func Select(name string, chain referenceframe.Chain) (Kinematics, result.Code) {
	f, ok := registry[name]
	if !ok {
		return nil, result.BadArgs
	}
	k, code := f(chain)
	if !code.IsOK() {
		return k, code
	}
	if code := k.Init(); !code.IsOK() {
		return nil, code
	}
	return k, result.OK
}
