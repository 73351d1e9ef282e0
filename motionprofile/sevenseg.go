package motionprofile

import (
	"math"

	"github.com/gomotion-project/gomotion/result"
)

// sevenPhase is one of the seven constant-jerk segments, with the state (distance, velocity,
// acceleration) at its start, so Interp can jump straight to the right phase and evaluate a
// cubic in the elapsed phase time (spec.md §4.2's "invariant 1/d_end for O(1) interp").
type sevenPhase struct {
	dur        float64
	jerk       float64
	d0, v0, a0 float64
}

// SevenSegment is the constant-jerk (s-curve) scalar profile: acceleration steps through
// 0 -> a -> 0 -> -a -> 0 via seven phases of piecewise-constant jerk {+j,0,-j,0,-j,0,+j}.
type SevenSegment struct {
	D, VMax, AMax, JMax float64

	phases [7]sevenPhase
	tEnd   float64
	dEnd   float64
}

// accelForPeak returns the achievable acceleration, jerk-ramp time, and constant-accel time to
// reach vPeak from rest, along with the distance covered getting there, reducing the
// acceleration below aMax when aMax can't be reached before vPeak (triangular-accel case).
func accelForPeak(vPeak, aMax, jMax float64) (a, tj, ta, dAcc float64) {
	if vPeak <= 1e-15 {
		return 0, 0, 0, 0
	}
	a = aMax
	tj = a / jMax
	if a*tj > vPeak {
		a = math.Sqrt(vPeak * jMax)
		tj = a / jMax
		ta = 0
	} else {
		ta = vPeak/a - tj
	}
	dAcc = a * (tj*tj + 1.5*tj*ta + 0.5*ta*ta)
	return
}

// ComputeSeven solves for the seven-phase plan given a target distance, max velocity, acceleration,
// and jerk. When the full {accel, cruise, decel} shape doesn't fit within d, the cruise phase is
// dropped and the peak velocity is reduced (bisection on the monotonic accel-distance relation)
// until the shortened accel+decel exactly spans d (triangular-accel or pure-s-curve cases).
func ComputeSeven(d, vMax, aMax, jMax float64) (SevenSegment, result.Code) {
	if vMax <= 0 || aMax <= 0 || jMax <= 0 {
		return SevenSegment{}, result.BadArgs
	}
	neg := d < 0
	ad := math.Abs(d)

	aFull, tjFull, taFull, dAccFull := accelForPeak(vMax, aMax, jMax)

	var vPeak, a, tj, ta, tv float64
	if 2*dAccFull <= ad {
		vPeak, a, tj, ta = vMax, aFull, tjFull, taFull
		tv = (ad - 2*dAccFull) / vMax
	} else {
		lo, hi := 0.0, vMax
		for i := 0; i < 60; i++ {
			mid := (lo + hi) / 2
			_, _, _, dAcc := accelForPeak(mid, aMax, jMax)
			if 2*dAcc < ad {
				lo = mid
			} else {
				hi = mid
			}
		}
		vPeak = (lo + hi) / 2
		a, tj, ta, _ = accelForPeak(vPeak, aMax, jMax)
		tv = 0
	}

	sign := 1.0
	if neg {
		sign = -1
	}
	j := sign * jMax
	aa := sign * a

	p := SevenSegment{D: d, VMax: vMax, AMax: aMax, JMax: jMax}
	durs := [7]float64{tj, ta, tj, tv, tj, ta, tj}
	jerks := [7]float64{j, 0, -j, 0, -j, 0, j}
	p.buildFromDurations(durs, jerks)
	return p, result.OK
}

// buildFromDurations fills in the cumulative (d,v,a) state at the start of each phase by
// integrating forward, and records tEnd/dEnd.
func (p *SevenSegment) buildFromDurations(durs, jerks [7]float64) {
	var d0, v0, a0, t0 float64
	for i := 0; i < 7; i++ {
		p.phases[i] = sevenPhase{dur: durs[i], jerk: jerks[i], d0: d0, v0: v0, a0: a0}
		dt := durs[i]
		d1 := d0 + v0*dt + 0.5*a0*dt*dt + jerks[i]*dt*dt*dt/6
		v1 := v0 + a0*dt + 0.5*jerks[i]*dt*dt
		a1 := a0 + jerks[i]*dt
		d0, v0, a0 = d1, v1, a1
		t0 += dt
	}
	p.tEnd = t0
	p.dEnd = d0
}

// GenerateSeven synthesizes a profile from raw phase durations and a jerk magnitude, for test
// construction (spec.md §4.2's generate operation).
func GenerateSeven(durs [7]float64, jMax float64) SevenSegment {
	sign := 1.0
	jerks := [7]float64{sign * jMax, 0, -sign * jMax, 0, -sign * jMax, 0, sign * jMax}
	p := SevenSegment{JMax: jMax}
	p.buildFromDurations(durs, jerks)
	return p
}

func (p SevenSegment) TEnd() float64 { return p.tEnd }
func (p SevenSegment) DEnd() float64 { return p.dEnd }

// Scale stretches all times so total duration becomes T, keeping distance fixed and scaling
// v, a, j down by the required powers (v ~ 1/k, a ~ 1/k^2, j ~ 1/k^3 for a time dilation k).
func (p SevenSegment) Scale(t float64) (SevenSegment, result.Code) {
	if t < p.tEnd-1e-9 || t <= 1e-12 {
		return SevenSegment{}, result.BadArgs
	}
	k := t / p.tEnd
	out := p
	out.tEnd = t
	for i := range out.phases {
		ph := &out.phases[i]
		ph.dur *= k
		ph.jerk /= (k * k * k)
		ph.v0 /= k
		ph.a0 /= (k * k)
	}
	return out, result.OK
}

// Stop replans the profile to begin braking immediately at tNow, decelerating at the profile's
// own jerk/accel limits; the new d_end is shortened to wherever the brake completes.
func (p SevenSegment) Stop(tNow float64) SevenSegment {
	_, d, v, a := p.Interp(tNow)

	aMax := p.AMax
	jMax := p.JMax
	sign := 1.0
	if v < 0 {
		sign = -1
	}

	// Brake profile: a short jerk phase immediately reverses acceleration toward -aMax*sign so
	// velocity starts decaying as fast as the jerk limit allows, sized from the current (d,v,a)
	// rather than from rest.
	jBrake := -sign * jMax
	tj := aMax / jMax

	out := SevenSegment{AMax: aMax, JMax: jMax, VMax: p.VMax}
	// start the brake from the current (d,v,a) rather than from rest.
	ph0 := sevenPhase{dur: tj, jerk: jBrake, d0: d, v0: v, a0: a}
	d1 := ph0.d0 + ph0.v0*ph0.dur + 0.5*ph0.a0*ph0.dur*ph0.dur + ph0.jerk*ph0.dur*ph0.dur*ph0.dur/6
	v1b := ph0.v0 + ph0.a0*ph0.dur + 0.5*ph0.jerk*ph0.dur*ph0.dur
	a1 := ph0.a0 + ph0.jerk*ph0.dur

	// second phase decelerates the remaining velocity to zero at constant accel a1, then a
	// final jerk phase unwinds accel to zero as velocity reaches zero; solved via accelForPeak
	// applied to the remaining speed for simplicity (slightly conservative vs a true 2-phase
	// solve, safe because it never exceeds aMax/jMax).
	_, tjRem, taRem, _ := accelForPeak(math.Abs(v1b), aMax, jMax)
	jerkRem := sign * jMax
	dursRem := [3]float64{tjRem, taRem, tjRem}
	jerksRem := [3]float64{-jerkRem, 0, jerkRem}
	dd, vv, aa, t := d1, v1b, a1, 0.0
	var restPhases [3]sevenPhase
	for i := 0; i < 3; i++ {
		restPhases[i] = sevenPhase{dur: dursRem[i], jerk: jerksRem[i], d0: dd, v0: vv, a0: aa}
		dt := dursRem[i]
		d2 := dd + vv*dt + 0.5*aa*dt*dt + jerksRem[i]*dt*dt*dt/6
		v2 := vv + aa*dt + 0.5*jerksRem[i]*dt*dt
		a2 := aa + jerksRem[i]*dt
		dd, vv, aa = d2, v2, a2
		t += dt
	}
	out.phases = [7]sevenPhase{
		ph0,
		restPhases[0], restPhases[1], restPhases[2],
		{d0: dd}, {d0: dd}, {d0: dd},
	}
	out.phases[4].dur, out.phases[5].dur, out.phases[6].dur = 0, 0, 0
	out.tEnd = ph0.dur + t
	out.dEnd = dd
	return out
}

// Extend stretches the cruise section (phase index 3) to finish at T. T must be at or after the
// current planned end; an earlier T returns BadArgs, and the cruise phase is never shortened.
func (p SevenSegment) Extend(t float64) (SevenSegment, result.Code) {
	if t < p.tEnd-1e-9 {
		return SevenSegment{}, result.BadArgs
	}
	extra := t - p.tEnd
	out := p
	// shift every phase after the cruise phase (index 3) forward by `extra`, and widen the
	// cruise phase itself; state at each phase start beyond index 3 is unaffected because the
	// cruise phase's start/end velocity/accel don't change, only its duration does.
	out.phases[3].dur += extra
	// recompute d0 chain after phase 3 since its duration changed.
	d0, v0, a0 := out.phases[3].d0, out.phases[3].v0, out.phases[3].a0
	dt := out.phases[3].dur
	j3 := out.phases[3].jerk
	d1 := d0 + v0*dt + 0.5*a0*dt*dt + j3*dt*dt*dt/6
	v1 := v0 + a0*dt + 0.5*j3*dt*dt
	a1 := a0 + j3*dt
	for i := 4; i < 7; i++ {
		out.phases[i].d0, out.phases[i].v0, out.phases[i].a0 = d1, v1, a1
		dti := out.phases[i].dur
		ji := out.phases[i].jerk
		d1n := d1 + v1*dti + 0.5*a1*dti*dti + ji*dti*dti*dti/6
		v1n := v1 + a1*dti + 0.5*ji*dti*dti
		a1n := a1 + ji*dti
		d1, v1, a1 = d1n, v1n, a1n
	}
	out.tEnd = t
	out.dEnd = d1
	return out, result.OK
}

// Interp returns (s, d, v, a) at time t, clipped to [0, tEnd]; s is normalized progress.
func (p SevenSegment) Interp(t float64) (s, d, v, a float64) {
	d, v, a, _ = p.interpRawJerk(t)
	if p.dEnd == 0 {
		return 0, 0, 0, 0
	}
	return d / p.dEnd, d, v, a
}

// InterpJ returns (s, d, v, a, j) including instantaneous jerk, for callers that need it.
func (p SevenSegment) InterpJ(t float64) (s, d, v, a, j float64) {
	d, v, a, j = p.interpRawJerk(t)
	if p.dEnd == 0 {
		return 0, 0, 0, 0, 0
	}
	return d / p.dEnd, d, v, a, j
}

func (p SevenSegment) interpRawJerk(t float64) (d, v, a, j float64) {
	if t <= 0 {
		ph := p.phases[0]
		return ph.d0, ph.v0, ph.a0, ph.jerk
	}
	if t >= p.tEnd {
		return p.dEnd, 0, 0, 0
	}
	t0 := 0.0
	for i := 0; i < 7; i++ {
		ph := p.phases[i]
		if t < t0+ph.dur || i == 6 {
			dt := t - t0
			d := ph.d0 + ph.v0*dt + 0.5*ph.a0*dt*dt + ph.jerk*dt*dt*dt/6
			v := ph.v0 + ph.a0*dt + 0.5*ph.jerk*dt*dt
			a := ph.a0 + ph.jerk*dt
			return d, v, a, ph.jerk
		}
		t0 += ph.dur
	}
	return p.dEnd, 0, 0, 0
}
