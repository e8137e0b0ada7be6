// ABOUTME: Single-slot audio buffer queue
// ABOUTME: io.Reader that drains one buffer and asks the renderer for the next
package output

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/Resonate-Protocol/lowlatency-tone/pkg/wavetable"
)

var (
	// ErrQueueFull is returned when a buffer is enqueued while one is pending
	ErrQueueFull = errors.New("buffer queue full")

	// ErrQueueClosed is returned after Close
	ErrQueueClosed = errors.New("buffer queue closed")
)

// SimpleBufferQueue holds one buffer at a time. Each time the reader drains
// it, the queue releases the buffer and calls the renderer, which enqueues
// the next one before Read continues.
//
// Enqueue may be called from another goroutine only before the first Read;
// after that the reading goroutine owns the queue.
type SimpleBufferQueue struct {
	*failure

	renderer QueueRenderer
	cur      wavetable.Buffer
	pos      int
	closed   bool

	completed atomic.Int64
	underruns atomic.Int64
}

// NewSimpleBufferQueue creates a queue that refills through r
func NewSimpleBufferQueue(r QueueRenderer) *SimpleBufferQueue {
	return &SimpleBufferQueue{
		failure:  newFailure(),
		renderer: r,
	}
}

// Enqueue takes ownership of buf
func (q *SimpleBufferQueue) Enqueue(buf wavetable.Buffer) error {
	if q.closed {
		return ErrQueueClosed
	}
	if !q.cur.IsZero() {
		return ErrQueueFull
	}
	q.cur = buf
	q.pos = 0
	return nil
}

// Read copies queued audio into p, completing buffers as they drain. An
// empty queue is an underrun and reads as silence.
func (q *SimpleBufferQueue) Read(p []byte) (int, error) {
	if q.closed {
		return 0, io.EOF
	}
	if err := q.Err(); err != nil {
		return 0, err
	}

	n := 0
	for n < len(p) {
		if q.cur.IsZero() {
			q.underruns.Add(1)
			clear(p[n:])
			return len(p), nil
		}

		src := q.cur.Bytes()
		c := copy(p[n:], src[q.pos:])
		n += c
		q.pos += c

		if q.pos == len(src) {
			done := q.cur
			q.cur = wavetable.Buffer{}
			q.pos = 0
			done.Release()
			q.completed.Add(1)

			if err := q.renderer.OnBufferComplete(q); err != nil {
				q.fail(fmt.Errorf("buffer completion failed: %w", err))
				clear(p[n:])
				return n, q.Err()
			}
		}
	}

	return n, nil
}

// Close releases the pending buffer. Call it only after the reader stopped.
func (q *SimpleBufferQueue) Close() error {
	if q.closed {
		return nil
	}
	q.closed = true
	q.cur.Release()
	q.cur = wavetable.Buffer{}
	return nil
}

// Pending reports whether a buffer is queued
func (q *SimpleBufferQueue) Pending() bool {
	return !q.cur.IsZero()
}

// Stats returns drained buffer and underrun counts
func (q *SimpleBufferQueue) Stats() StreamStats {
	return StreamStats{
		Periods:   q.completed.Load(),
		Underruns: q.underruns.Load(),
	}
}
