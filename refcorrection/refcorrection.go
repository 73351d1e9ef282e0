// Package refcorrection implements the Xinv reference-correction ping-pong input of spec.md §4.9:
// an inverse pose transform the Traj task composes against a commanded world-space target before
// inverse kinematics, correcting for systematic bias between commanded and independently-measured
// end-effector position. Identity is the safe default (spec.md §4.9, comm.NewXinvChannel).
//
// SPEC_FULL.md's supplement grounds acquisition on original_source/src/igpsclient.c/igpsserver.c
// (an indoor-GPS measurement client trilaterating anchor-distance samples): this package computes
// Xinv itself from raw trilateration samples via spatialmath.Trilaterate and
// spatialmath.CartCartPose rather than assuming a pre-computed transform arrives from elsewhere.
package refcorrection

import (
	"github.com/gomotion-project/gomotion/comm"
	"github.com/gomotion-project/gomotion/result"
	"github.com/gomotion-project/gomotion/spatialmath"
)

// Anchor is one fixed reference-beacon position in world coordinates, the trilateration basis
// points original_source/src/igpsclient.c calls "ceiling units".
type Anchor struct {
	Position spatialmath.Cart
}

// sample pairs one measured world position against the pose Traj had commanded when the
// measurement was taken.
type sample struct {
	commanded spatialmath.Cart
	measured  spatialmath.Cart
}

// Corrector accumulates commanded/measured correspondences and republishes Xinv on the shared
// channel whenever Recompute finds enough samples to fit a new correction. Not safe for concurrent
// use by multiple writers; intended to be driven by one measurement-client goroutine.
type Corrector struct {
	xinvCh  *comm.Channel[comm.XinvRecord]
	anchors []Anchor
	samples []sample
	lastEst spatialmath.Cart
	hasLast bool
}

// New builds a Corrector publishing onto xinvCh, against the given fixed anchor layout. Needs at
// least 3 non-colinear anchors for trilateration and at least 3 non-degenerate samples for
// CartCartPose's rigid fit.
func New(xinvCh *comm.Channel[comm.XinvRecord], anchors []Anchor) (*Corrector, result.Code) {
	if len(anchors) < 3 {
		return nil, result.BadArgs
	}
	return &Corrector{xinvCh: xinvCh, anchors: append([]Anchor(nil), anchors...)}, result.OK
}

// AddTrilaterationSample trilaterates one measurement from three anchor distances and records the
// resulting point against the pose Traj had commanded at measurement time. The two trilateration
// solutions are disambiguated by proximity to the last accepted estimate (or, for the first
// sample, arbitrarily picking the solution with the smaller Z, matching a ceiling-mounted beacon
// layout where the tracked point sits below the anchors).
func (c *Corrector) AddTrilaterationSample(a1, a2, a3 int, d1, d2, d3 float64, commanded spatialmath.Pose) result.Code {
	if a1 < 0 || a2 < 0 || a3 < 0 || a1 >= len(c.anchors) || a2 >= len(c.anchors) || a3 >= len(c.anchors) {
		return result.BadArgs
	}
	p1, p2, p3 := c.anchors[a1].Position, c.anchors[a2].Position, c.anchors[a3].Position
	sol1, sol2, tCode := spatialmath.Trilaterate(p1, p2, p3, d1, d2, d3)
	if !tCode.IsOK() {
		return tCode
	}

	measured := sol1
	if c.hasLast {
		if sol2.Sub(c.lastEst).Mag() < sol1.Sub(c.lastEst).Mag() {
			measured = sol2
		}
	} else if sol2.Z < sol1.Z {
		measured = sol2
	}
	c.lastEst = measured
	c.hasLast = true

	c.samples = append(c.samples, sample{commanded: commanded.Tran, measured: measured})
	return result.OK
}

// Recompute fits a rigid transform across every accumulated sample and publishes it as Xinv,
// mapping a future measured position back onto the commanded frame (so
// pose_pose_mult(Xinv, ecpTarget) nudges the next commanded target by the same systematic bias).
// Requires at least 3 accumulated samples; the sample set is retained across calls so later
// acquisitions keep refining the same fit.
func (c *Corrector) Recompute() result.Code {
	if len(c.samples) < 3 {
		return result.BadArgs
	}
	from := make([]spatialmath.Cart, len(c.samples))
	to := make([]spatialmath.Cart, len(c.samples))
	for i, s := range c.samples {
		from[i] = s.measured
		to[i] = s.commanded
	}
	pose, code := spatialmath.CartCartPose(from, to)
	if !code.IsOK() {
		return code
	}
	c.xinvCh.Publish(comm.XinvRecord{Xinv: pose})
	return result.OK
}

// Reset discards accumulated samples and republishes the identity transform, returning to
// spec.md §4.9's safe default.
func (c *Corrector) Reset() {
	c.samples = nil
	c.hasLast = false
	c.xinvCh.Publish(comm.XinvRecord{Xinv: spatialmath.IdentityPose()})
}

// SampleCount reports how many commanded/measured correspondences are currently accumulated.
func (c *Corrector) SampleCount() int { return len(c.samples) }
