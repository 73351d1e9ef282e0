// Package motionprofile implements the two scalar trajectory generator families of spec.md §4.2:
// a 3-segment constant-acceleration profile and a 7-segment constant-jerk (s-curve) profile, both
// over a scalar distance s in [0,d]. Grounded on the teacher's control/trapezoidVelocityProfile
// block (a simpler single-segment trapezoid), generalized here to the full compute/scale/stop/
// extend/interp contract spec.md requires, and on original_source's gotraj.h move-planning phases.
package motionprofile

import (
	"math"

	"github.com/gomotion-project/gomotion/result"
)

// ThreeSegment is the constant-acceleration (trapezoidal) scalar profile: accelerate at +a,
// cruise at v_peak, decelerate at -a. A move too short for a cruise segment degenerates to a
// triangular profile automatically.
type ThreeSegment struct {
	D, VMax, AMax float64

	t1, t2, tEnd float64
	vPeak        float64
	dEnd         float64
}

// ComputeThree solves for the phase plan given a target distance, max velocity, and max acceleration.
// Returns BadArgs if vMax or aMax are non-positive.
func ComputeThree(d, vMax, aMax float64) (ThreeSegment, result.Code) {
	if vMax <= 0 || aMax <= 0 {
		return ThreeSegment{}, result.BadArgs
	}
	neg := d < 0
	ad := math.Abs(d)

	p := ThreeSegment{D: d, VMax: vMax, AMax: aMax}

	// distance covered by a full accel-to-vMax-then-decel (no cruise) triangular move.
	triD := vMax * vMax / aMax
	if ad >= triD {
		// trapezoidal: full accel/cruise/decel
		p.t1 = vMax / aMax
		p.vPeak = vMax
		cruiseD := ad - triD
		cruiseT := cruiseD / vMax
		p.t2 = p.t1 + cruiseT
		p.tEnd = p.t2 + p.t1
	} else {
		// triangular: never reaches vMax
		p.vPeak = math.Sqrt(ad * aMax)
		p.t1 = p.vPeak / aMax
		p.t2 = p.t1
		p.tEnd = 2 * p.t1
	}
	p.dEnd = ad
	if neg {
		p.vPeak = -p.vPeak
		p.dEnd = -p.dEnd
	}
	return p, result.OK
}

// GenerateThree synthesizes a profile from raw phase durations, for test construction.
func GenerateThree(t1, t2, tEnd, vPeak, dEnd, aMax float64) ThreeSegment {
	return ThreeSegment{t1: t1, t2: t2, tEnd: tEnd, vPeak: vPeak, dEnd: dEnd, AMax: aMax}
}

// TEnd returns the planned total duration.
func (p ThreeSegment) TEnd() float64 { return p.tEnd }

// DEnd returns the (possibly shortened) planned distance.
func (p ThreeSegment) DEnd() float64 { return p.dEnd }

// Scale stretches all times so the total duration becomes T, keeping distance fixed, scaling
// vPeak and aMax down accordingly. Requires T >= the fastest feasible duration.
func (p ThreeSegment) Scale(t float64) (ThreeSegment, result.Code) {
	if t < p.tEnd-1e-9 {
		return ThreeSegment{}, result.BadArgs
	}
	if t <= 1e-12 {
		return ThreeSegment{}, result.BadArgs
	}
	ratio := p.tEnd / t
	out := p
	out.t1 = p.t1 / ratio
	out.t2 = p.t2 / ratio
	out.tEnd = t
	out.vPeak = p.vPeak * ratio
	out.AMax = p.AMax * ratio * ratio
	return out, result.OK
}

// Stop replans the profile to begin braking immediately at tNow, halting as fast as AMax
// allows; the new end distance is shortened to wherever the brake completes.
func (p ThreeSegment) Stop(tNow float64) ThreeSegment {
	_, _, v, _ := p.Interp(tNow)
	sign := 1.0
	if v < 0 {
		sign = -1.0
	}
	brakeT := math.Abs(v) / p.AMax
	dAtStop, _, _, _ := p.interpRaw(tNow)

	out := ThreeSegment{VMax: p.VMax, AMax: p.AMax}
	out.t1 = 0
	out.t2 = 0
	out.tEnd = brakeT
	out.vPeak = v
	out.dEnd = dAtStop + v*brakeT/2*sign*sign // integral of linear decel to zero
	return out
}

// Extend stretches the cruise section so the move finishes at T. T must be at or after the
// current planned end; an earlier T returns BadArgs, and the cruise phase is never shortened.
func (p ThreeSegment) Extend(t float64) (ThreeSegment, result.Code) {
	if t < p.tEnd-1e-9 {
		return ThreeSegment{}, result.BadArgs
	}
	extra := t - p.tEnd
	out := p
	out.t2 = p.t2 + extra
	out.tEnd = p.tEnd + extra
	out.dEnd = p.dEnd + p.vPeak*extra
	return out, result.OK
}

// interpRaw returns (distance, velocity, acceleration) at time t, t clipped to [0, tEnd].
func (p ThreeSegment) interpRaw(t float64) (d, v, a float64, clipped bool) {
	if t <= 0 {
		return 0, 0, signA(p.vPeak) * p.AMax, t < 0
	}
	if t >= p.tEnd {
		return p.dEnd, 0, 0, true
	}
	sign := signA(p.vPeak)
	amax := sign * p.AMax
	switch {
	case t < p.t1:
		return 0.5 * amax * t * t, amax * t, amax, false
	case t < p.t2:
		dAccel := 0.5 * amax * p.t1 * p.t1
		dt := t - p.t1
		return dAccel + p.vPeak*dt, p.vPeak, 0, false
	default:
		dAccel := 0.5 * amax * p.t1 * p.t1
		dCruise := p.vPeak * (p.t2 - p.t1)
		dt := t - p.t2
		return dAccel + dCruise + p.vPeak*dt - 0.5*amax*dt*dt, p.vPeak - amax*dt, -amax, false
	}
}

func signA(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// Interp returns (s, d, v, a) at time t: s in [0,1] is normalized progress, d is actual
// distance, v/a are instantaneous velocity/acceleration. t is clipped to [0, tEnd].
func (p ThreeSegment) Interp(t float64) (s, d, v, a float64) {
	d, v, a, _ = p.interpRaw(t)
	if p.dEnd == 0 {
		return 0, 0, 0, 0
	}
	return d / p.dEnd, d, v, a
}
