// Package referenceframe describes the linking data of a kinematic chain (spec.md §3): an
// ordered sequence of links, each either a Denavit-Hartenberg revolute/prismatic joint, a
// parallel-pose body-frame offset, or a parallel-kinematics base/platform strut pair, carrying a
// mass/inertia body and joint limits. Grounded on the teacher's referenceframe package (DH-chain
// models, see other_examples' referenceframe/model.go) and spec.md's own field list.
package referenceframe

import (
	"fmt"

	"github.com/gomotion-project/gomotion/result"
	"github.com/gomotion-project/gomotion/spatialmath"
)

// JointMax bounds the length of a kinematics configuration (spec.md §3: "length <= JOINT_MAX (8
// in the reference)"). Implementations may choose their own compile-time bound; this one matches
// the reference.
const JointMax = 8

// Quantity is the physical quantity a link's joint variable represents.
type Quantity int

const (
	Length Quantity = iota
	Angle
)

// LinkType selects which parameterization a Link carries.
type LinkType int

const (
	DHLink LinkType = iota
	PPLink
	PKLink
)

// Body carries the rigid-body inertial parameters attached to a link.
type Body struct {
	Mass    float64
	Inertia [3][3]float64
}

// Link is one entry in a kinematic chain configuration (spec.md §3: "link carries {quantity,
// type, body, parameters}").
type Link struct {
	Name     string
	Quantity Quantity
	Type     LinkType
	DH       spatialmath.Dh
	PP       spatialmath.Pp
	PK       spatialmath.Pk
	Body     Body
	Min, Max float64 // joint limits, in the link's own units (length or angle)
}

// Chain is an ordered, fixed-length-bounded sequence of links (spec.md §3).
type Chain struct {
	Links []Link
}

// NewChain validates and builds a Chain; returns BadArgs if it would exceed JointMax links.
func NewChain(links []Link) (Chain, result.Code) {
	if len(links) == 0 || len(links) > JointMax {
		return Chain{}, result.BadArgs
	}
	return Chain{Links: append([]Link(nil), links...)}, result.OK
}

// NumJoints returns the configured joint count.
func (c Chain) NumJoints() int { return len(c.Links) }

// WithinLimits reports whether every joint value in joints is within its link's [Min,Max] range.
func (c Chain) WithinLimits(joints []float64) bool {
	if len(joints) != len(c.Links) {
		return false
	}
	for i, l := range c.Links {
		if joints[i] < l.Min || joints[i] > l.Max {
			return false
		}
	}
	return true
}

// ForwardDH composes the chain's DH links into an end-effector pose by injecting each joint
// value into its link's free DH parameter (Theta for an Angle joint/revolute link, D for a
// Length joint/prismatic link). Non-DH links (PP/PK) are out of scope for ForwardDH and are
// skipped; none of this module's kinematics backends implements a forward map over PK strut
// lengths.
func (c Chain) ForwardDH(joints []float64) (spatialmath.Pose, result.Code) {
	if len(joints) != len(c.Links) {
		return spatialmath.Pose{}, result.BadArgs
	}
	pose := spatialmath.IdentityPose()
	for i, l := range c.Links {
		if l.Type != DHLink {
			continue
		}
		dh := l.DH
		switch l.Quantity {
		case Angle:
			dh.Theta += joints[i]
		case Length:
			dh.D += joints[i]
		}
		pose = spatialmath.PosePoseMult(pose, dh.ToPose())
	}
	return pose, result.OK
}

// String renders a link for debugging/logging.
func (l Link) String() string {
	return fmt.Sprintf("Link(%s, quantity=%v, type=%v)", l.Name, l.Quantity, l.Type)
}
