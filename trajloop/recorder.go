package trajloop

import "github.com/gomotion-project/gomotion/comm"

// Recorder is the LOG/LOG_START/LOG_STOP ring buffer of SPEC_FULL.md §4's supplemented logging
// feature, grounded on original_source/src/goutil.c's fixed-size circular log. Recording is off by
// default; LOG_START/LOG_STOP toggle it, and LOG takes a single one-shot snapshot regardless of
// the running state.
type Recorder struct {
	buf       []comm.TrajStatus
	next      int
	size      int
	recording bool
}

// NewRecorder allocates a ring buffer of the given capacity. A non-positive capacity disables
// recording entirely (Record becomes a no-op).
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		return &Recorder{}
	}
	return &Recorder{buf: make([]comm.TrajStatus, capacity)}
}

// Start/Stop toggle continuous recording (LOG_START/LOG_STOP).
func (r *Recorder) Start() { r.recording = true }
func (r *Recorder) Stop()  { r.recording = false }

// Recording reports whether LOG_START is active.
func (r *Recorder) Recording() bool { return r.recording }

// Record appends one status snapshot when continuous recording is active. No-op if the buffer has
// zero capacity or recording is stopped.
func (r *Recorder) Record(status comm.TrajStatus) {
	if !r.recording {
		return
	}
	r.append(status)
}

// RecordOne unconditionally appends one snapshot, for the one-shot LOG command.
func (r *Recorder) RecordOne(status comm.TrajStatus) {
	r.append(status)
}

func (r *Recorder) append(status comm.TrajStatus) {
	if len(r.buf) == 0 {
		return
	}
	r.buf[r.next] = status
	r.next = (r.next + 1) % len(r.buf)
	if r.size < len(r.buf) {
		r.size++
	}
}

// Snapshot returns the buffered records in chronological order, oldest first.
func (r *Recorder) Snapshot() []comm.TrajStatus {
	out := make([]comm.TrajStatus, r.size)
	if r.size < len(r.buf) {
		copy(out, r.buf[:r.size])
		return out
	}
	copy(out, r.buf[r.next:])
	copy(out[len(r.buf)-r.next:], r.buf[:r.next])
	return out
}
