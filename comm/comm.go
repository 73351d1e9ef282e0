// Package comm implements the ping-pong tear-free shared-record discipline of spec.md §5: a
// single-writer/many-reader record published via a head/tail guard-byte pair so a reader that
// observes head==tail saw an atomically-consistent snapshot; a reader that observes a torn read
// (head!=tail) re-reads until the guards agree, and readers keep no retained copy of an earlier
// good value. This module has no actual shared memory (no
// other process maps the same address space in this rewrite) so the "shared memory" is a
// goroutine-shared struct; the discipline itself — atomically-published head/tail guards rather
// than a mutex — is kept because it is what spec.md's concurrency model actually describes
// (spec.md §5: "no locks are taken"). Grounded on the teacher's use of go.uber.org/atomic for
// lock-free counters/flags across the component layer.
package comm

import "go.uber.org/atomic"

// Channel publishes values of type T using the ping-pong head/tail discipline: one writer calls
// Publish, any number of readers call Read. Zero value is not usable; use NewChannel.
type Channel[T any] struct {
	head atomic.Uint64
	tail atomic.Uint64
	buf  [2]T
}

// NewChannel builds a Channel seeded with initial, so the first Read before any Publish returns a
// defined value rather than a zero T (spec.md §4.9: "identity is the safe default").
func NewChannel[T any](initial T) *Channel[T] {
	c := &Channel[T]{}
	c.buf[0] = initial
	c.buf[1] = initial
	return c
}

// Publish writes v into the currently-unused slot, then advances head and tail to make it visible
// — body first, then head, then tail — so a reader racing the writer either sees the old
// complete value or the new complete value, never a mix (spec.md §5's ping-pong tear-free
// discipline). Must only be called from the single designated writer.
func (c *Channel[T]) Publish(v T) {
	next := c.head.Load() + 1
	slot := next % 2
	c.buf[slot] = v
	c.head.Store(next)
	c.tail.Store(next)
}

// Read returns the most recently published value. A reader observing head!=tail mid-publish
// retries locally (Publish is a single non-blocking store sequence, so the window is microscopic
// and bounded); this loop never blocks, matching spec.md's "no core function may block".
func (c *Channel[T]) Read() T {
	for {
		tail := c.tail.Load()
		slot := tail % 2
		v := c.buf[slot]
		if c.head.Load() == tail {
			return v
		}
	}
}

// Generation reports the current publish count, usable by callers that want to detect whether a
// new value has arrived since their last Read without comparing full records.
func (c *Channel[T]) Generation() uint64 { return c.tail.Load() }
