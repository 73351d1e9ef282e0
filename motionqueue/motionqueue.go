// Package motionqueue implements the FIFO motion-segment queue of spec.md §4.6: a bounded ring
// buffer of motion segments sharing one time-scale descriptor, with per-cycle interpolation that
// retires completed segments and ramps a playback scale in via the 3-segment constant-
// acceleration profile. Segment IDs use github.com/google/uuid rather than the reference's plain
// counter, matching the teacher's preference for UUIDs over sequence numbers wherever an
// externally-visible identifier is needed (e.g. operation IDs in operation/).
package motionqueue

import (
	"math"

	"github.com/google/uuid"

	"github.com/gomotion-project/gomotion/motionprofile"
	"github.com/gomotion-project/gomotion/result"
	"github.com/gomotion-project/gomotion/spatialmath"
)

// Kind selects what a queue (and every segment appended to it) interpolates over (spec.md §4.6
// set_type: {none, joint, ujoint, world}).
type Kind int

const (
	None Kind = iota
	Joint
	UJoint
	World
)

// Shape distinguishes the two world-space segment geometries (spec.md §4.6's "linear world
// segments" vs "circular segments").
type Shape int

const (
	Linear Shape = iota
	Circular
)

// Spec describes one segment to Append. Only the fields relevant to the queue's current Kind (and,
// for World, Shape) are consulted.
type Spec struct {
	Shape Shape

	// Joint/UJoint
	StartJoints, EndJoints []float64

	// World: Linear and Circular both carry start/end pose
	StartPose, EndPose spatialmath.Pose

	// Circular
	Center, Normal spatialmath.Cart
	Turns          int

	VMax, AMax, JMax float64
}

// Position is the queue's per-cycle output: the field populated depends on the queue's Kind.
type Position struct {
	Joints []float64
	World  spatialmath.Pose
}

type jointProfile struct {
	start, end float64
	prof       motionprofile.SevenSegment
}

type segment struct {
	id    uuid.UUID
	shape Shape

	joints []jointProfile // Joint/UJoint

	// Linear
	startPose, endPose spatialmath.Pose
	dir                spatialmath.Cart
	dist               float64
	linProf            motionprofile.SevenSegment

	// Circular
	center, normal, radial0 spatialmath.Cart
	radius                  float64
	angleSpan               float64 // total signed angle including turns, radians
	angProf                 motionprofile.SevenSegment

	t float64 // elapsed local time since this segment became head
}

// Queue is a bounded FIFO of segments sharing one playback time-scale (spec.md §4.6).
type Queue struct {
	kind       Kind
	jointNum   int
	dt         float64
	capacity   int
	segs       []segment
	headIdx    int
	count      int
	lastID     uuid.UUID
	here       Position
	hasHere    bool

	scale       float64 // current playback scale, 1.0 == real-time
	targetScale float64
	scaleProf   motionprofile.ThreeSegment
	scaleT      float64
	scaling     bool

	pendingID *uuid.UUID // if set via SetID, used for the next Append instead of a fresh uuid
}

// Init attaches a Queue with externally-sized capacity and cycle time Δt (spec.md §4.6 init).
func Init(capacity int, dt float64) (*Queue, result.Code) {
	if capacity <= 0 || dt <= 0 {
		return nil, result.BadArgs
	}
	return &Queue{capacity: capacity, dt: dt, scale: 1.0, targetScale: 1.0}, result.OK
}

// Reset empties the queue without disturbing type/joint-number/cycle-time configuration.
func (q *Queue) Reset() result.Code {
	q.segs = nil
	q.headIdx = 0
	q.count = 0
	q.hasHere = false
	return result.OK
}

// Delete tears the queue down entirely, equivalent to Reset for this in-memory implementation
// (the reference frees the externally-provided segment array; Go's GC does that for us).
func (q *Queue) Delete() result.Code { return q.Reset() }

// DropPending discards every segment but the active head.
func (q *Queue) DropPending() result.Code {
	if q.count == 0 {
		return result.OK
	}
	head := q.segs[q.headIdx]
	q.segs = []segment{head}
	q.headIdx = 0
	q.count = 1
	return result.OK
}

// SetType selects which segment kind the queue accepts. Fails if segments are already queued and
// the kind differs, matching spec.md's "fails ... if type mismatches" append-time constraint
// generalized to apply at switch time too.
func (q *Queue) SetType(k Kind) result.Code {
	if q.count > 0 && k != q.kind {
		return result.BadArgs
	}
	q.kind = k
	return result.OK
}

func (q *Queue) SetJointNumber(n int) result.Code {
	if n <= 0 {
		return result.BadArgs
	}
	q.jointNum = n
	return result.OK
}

func (q *Queue) SetCycleTime(dt float64) result.Code {
	if dt <= 0 {
		return result.BadArgs
	}
	q.dt = dt
	return result.OK
}

// SetHere relocates the interpolator's idea of "current position" with no active segment, for
// homing/re-synchronization (spec.md §4.6 set_here).
func (q *Queue) SetHere(pos Position) result.Code {
	if q.count > 0 {
		return result.BadArgs
	}
	q.here = pos
	q.hasHere = true
	return result.OK
}

// SetScale requests a walked-in time-scale change to target, ramping with peak velocity v and
// acceleration a via the 3-segment profile (spec.md §4.6 set_scale).
func (q *Queue) SetScale(target, v, a float64) result.Code {
	prof, code := motionprofile.ComputeThree(target-q.scale, v, a)
	if !code.IsOK() {
		return code
	}
	q.scaleProf = prof
	q.scaleT = 0
	q.targetScale = target
	q.scaling = true
	return result.OK
}

func (q *Queue) stepScale() float64 {
	if !q.scaling {
		return q.scale
	}
	q.scaleT += q.dt
	_, d, _, _ := q.scaleProf.Interp(q.scaleT)
	cur := q.scale + d
	if q.scaleT >= q.scaleProf.TEnd() {
		q.scale = q.targetScale
		q.scaling = false
		return q.scale
	}
	return cur
}

// SetID overrides the id the next Append call assigns its segment, for callers that need to
// correlate a segment with an externally-tracked request (spec.md §4.6 set_id).
func (q *Queue) SetID(id uuid.UUID) result.Code {
	q.pendingID = &id
	return result.OK
}

// Head returns the id of the currently-active (head) segment, or uuid.Nil if the queue is empty.
func (q *Queue) Head() uuid.UUID {
	if q.count == 0 {
		return uuid.Nil
	}
	return q.segs[q.headIdx].id
}

// IsEmpty, Number, Size, LastID report queue bookkeeping (spec.md §4.6).
func (q *Queue) IsEmpty() bool     { return q.count == 0 }
func (q *Queue) Number() int       { return q.count }
func (q *Queue) Size() int         { return q.capacity }
func (q *Queue) LastID() uuid.UUID { return q.lastID }

// Here returns the queue's current interpolated position (the last value Interp produced, or the
// SetHere value if nothing has run yet).
func (q *Queue) Here() Position { return q.here }

// There returns the end position of the last queued segment (the tail of the queue), or Here if
// the queue is empty.
func (q *Queue) There() Position {
	if q.count == 0 {
		return q.here
	}
	tail := q.segs[(q.headIdx+q.count-1)%len(q.segs)]
	return q.segEnd(tail)
}

func (q *Queue) segEnd(s segment) Position {
	switch q.kind {
	case Joint, UJoint:
		ends := make([]float64, len(s.joints))
		for i, jp := range s.joints {
			ends[i] = jp.end
		}
		return Position{Joints: ends}
	default:
		return Position{World: s.endPose}
	}
}

func (q *Queue) ensureBuf() {
	if q.segs == nil {
		q.segs = make([]segment, 0, q.capacity)
	}
}

// Append enqueues one segment, precomputing its derived motion parameters (per-joint profiles,
// linear direction/distance, or circular basis/angle span). Fails with BadArgs if the queue is
// full, the kind doesn't match, or the geometry is singular (spec.md §4.6 append).
func (q *Queue) Append(spec Spec) (uuid.UUID, result.Code) {
	if q.count >= q.capacity {
		return uuid.Nil, result.BadArgs
	}
	var seg segment
	var code result.Code
	switch q.kind {
	case Joint, UJoint:
		seg, code = buildJointSegment(spec, q.jointNum)
	case World:
		if spec.Shape == Circular {
			seg, code = buildCircularSegment(spec)
		} else {
			seg, code = buildLinearSegment(spec)
		}
	default:
		return uuid.Nil, result.BadArgs
	}
	if !code.IsOK() {
		return uuid.Nil, code
	}
	if q.pendingID != nil {
		seg.id = *q.pendingID
		q.pendingID = nil
	} else {
		seg.id = uuid.New()
	}
	seg.shape = spec.Shape
	q.ensureBuf()
	q.segs = append(q.segs, seg)
	q.count++
	q.lastID = seg.id
	return seg.id, result.OK
}

func buildJointSegment(spec Spec, n int) (segment, result.Code) {
	if len(spec.StartJoints) != n || len(spec.EndJoints) != n || n == 0 {
		return segment{}, result.BadArgs
	}
	joints := make([]jointProfile, n)
	for i := range joints {
		d := spec.EndJoints[i] - spec.StartJoints[i]
		prof, code := motionprofile.ComputeSeven(d, spec.VMax, spec.AMax, spec.JMax)
		if !code.IsOK() {
			return segment{}, code
		}
		joints[i] = jointProfile{start: spec.StartJoints[i], end: spec.EndJoints[i], prof: prof}
	}
	return segment{joints: joints}, result.OK
}

func buildLinearSegment(spec Spec) (segment, result.Code) {
	dirVec := spec.EndPose.Tran.Sub(spec.StartPose.Tran)
	dist := dirVec.Mag()
	var dir spatialmath.Cart
	if dist > 1e-12 {
		var code result.Code
		dir, code = dirVec.Unit()
		if !code.IsOK() {
			return segment{}, code
		}
	} else if spec.StartPose.Rot.Conj().Mul(spec.EndPose.Rot).Mag() > spatialmath.RotClose {
		// Zero-length translation with non-trivial rotation has no distance to gate tau against
		// (spec.md §4.6 edge policy: fails bad_args rather than snapping the rotation instantly).
		return segment{}, result.BadArgs
	}
	prof, code := motionprofile.ComputeSeven(dist, spec.VMax, spec.AMax, spec.JMax)
	if !code.IsOK() {
		return segment{}, code
	}
	return segment{
		startPose: spec.StartPose,
		endPose:   spec.EndPose,
		dir:       dir,
		dist:      dist,
		linProf:   prof,
	}, result.OK
}

func buildCircularSegment(spec Spec) (segment, result.Code) {
	normal, code := spec.Normal.Unit()
	if !code.IsOK() {
		return segment{}, result.BadArgs
	}
	toStart := spec.StartPose.Tran.Sub(spec.Center)
	toStart = toStart.Sub(normal.Scale(toStart.Dot(normal)))
	radius := toStart.Mag()
	if radius < 1e-12 {
		return segment{}, result.BadArgs
	}
	radial0, code := toStart.Unit()
	if !code.IsOK() {
		return segment{}, code
	}
	toEnd := spec.EndPose.Tran.Sub(spec.Center)
	toEnd = toEnd.Sub(normal.Scale(toEnd.Dot(normal)))
	radialEnd, code := toEnd.Unit()
	if !code.IsOK() {
		// end point on the center's normal line leaves no radial direction: degenerate to a linear move.
		return buildLinearSegment(spec)
	}

	cross := radial0.Cross(radialEnd)
	sinSign := 1.0
	if cross.Dot(normal) < 0 {
		sinSign = -1
	}
	angle := sinSign * spatialmath.AngleBetween(radial0, radialEnd)

	span := angle + float64(spec.Turns)*2*math.Pi
	prof, code := motionprofile.ComputeSeven(span, spec.VMax, spec.AMax, spec.JMax)
	if !code.IsOK() {
		return segment{}, code
	}
	return segment{
		startPose: spec.StartPose,
		endPose:   spec.EndPose,
		center:    spec.Center,
		normal:    normal,
		radial0:   radial0,
		radius:    radius,
		angleSpan: span,
		angProf:   prof,
	}, result.OK
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

// Interp advances one cycle of scaled time, emits one interpolated position, and retires the head
// segment once it completes (spec.md §4.6 interp). When the queue is empty, it returns the last
// known Here position unchanged.
func (q *Queue) Interp() (Position, result.Code) {
	scale := q.stepScale()
	if q.count == 0 {
		return q.here, result.OK
	}
	seg := &q.segs[q.headIdx]
	seg.t += q.dt * scale

	var pos Position
	var done bool
	switch q.kind {
	case Joint, UJoint:
		pos.Joints = make([]float64, len(seg.joints))
		for i, jp := range seg.joints {
			_, d, _, _ := jp.prof.Interp(seg.t)
			pos.Joints[i] = jp.start + d
		}
		done = seg.t >= maxJointDuration(seg.joints)
	default:
		if seg.shape == Circular && seg.radius > 0 {
			_, d, _, _ := seg.angProf.Interp(seg.t)
			pos.World = circularPoint(*seg, d)
			done = seg.t >= seg.angProf.TEnd()
		} else {
			_, d, _, _ := seg.linProf.Interp(seg.t)
			var tau float64
			if seg.dist > 1e-12 {
				tau = d / seg.dist
			} else {
				tau = 1
			}
			tau = clamp(tau, 0, 1)
			pos.World = spatialmath.Pose{
				Tran: seg.startPose.Tran.Add(seg.dir.Scale(d)),
				Rot:  spatialmath.Slerp(seg.startPose.Rot, seg.endPose.Rot, tau),
			}
			done = seg.t >= seg.linProf.TEnd()
		}
	}

	q.here = pos
	q.hasHere = true

	if done {
		q.headIdx = (q.headIdx + 1) % len(q.segs)
		q.count--
		if q.count == 0 {
			q.segs = q.segs[:0]
			q.headIdx = 0
		}
	}
	return pos, result.OK
}

// Stop replans the head segment with a decelerate-to-stop profile starting from its current
// local time and drops every other queued segment (spec.md §4.6 stop).
func (q *Queue) Stop() result.Code {
	if q.count == 0 {
		return result.OK
	}
	seg := &q.segs[q.headIdx]
	switch q.kind {
	case Joint, UJoint:
		for i := range seg.joints {
			seg.joints[i].prof = seg.joints[i].prof.Stop(seg.t)
		}
	default:
		if seg.shape == Circular && seg.radius > 0 {
			seg.angProf = seg.angProf.Stop(seg.t)
		} else {
			seg.linProf = seg.linProf.Stop(seg.t)
		}
	}
	// the replanned profiles start at local time 0 from the state at the old seg.t.
	seg.t = 0
	q.segs = []segment{*seg}
	q.headIdx = 0
	q.count = 1
	return result.OK
}

func maxJointDuration(joints []jointProfile) float64 {
	max := 0.0
	for _, jp := range joints {
		if t := jp.prof.TEnd(); t > max {
			max = t
		}
	}
	return max
}

func circularPoint(seg segment, angle float64) spatialmath.Pose {
	// rotate radial0 about normal by angle using Rodrigues' formula, scaled by radius, offset
	// from center; the off-plane component (if start/end differ along normal) is interpolated
	// linearly with the fraction of angular travel completed.
	cosA, sinA := math.Cos(angle), math.Sin(angle)
	r := seg.radial0
	n := seg.normal
	rotated := r.Scale(cosA).Add(n.Cross(r).Scale(sinA)).Add(n.Scale(n.Dot(r) * (1 - cosA)))
	point := seg.center.Add(rotated.Scale(seg.radius))

	frac := 1.0
	if seg.angleSpan != 0 {
		frac = angle / seg.angleSpan
	}
	frac = clamp(frac, 0, 1)
	startOff := seg.startPose.Tran.Sub(seg.center).Dot(n)
	endOff := seg.endPose.Tran.Sub(seg.center).Dot(n)
	off := startOff + frac*(endOff-startOff)
	point = point.Add(n.Scale(off))

	return spatialmath.Pose{
		Tran: point,
		Rot:  spatialmath.Slerp(seg.startPose.Rot, seg.endPose.Rot, frac),
	}
}
