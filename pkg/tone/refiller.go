// ABOUTME: Audio thread buffer refill callbacks
// ABOUTME: Push (enqueue) and pull (fill) refill shapes over the published tables
package tone

import (
	"sync/atomic"

	"github.com/Resonate-Protocol/lowlatency-tone/pkg/wavetable"
)

// Queue accepts buffers for playback. On success the queue owns buf and
// must Release it once the device has consumed it.
type Queue interface {
	Enqueue(buf wavetable.Buffer) error
}

// Refiller supplies the next buffer each time the device drains one.
// Its methods run on the audio thread: they do not block, allocate or log.
type Refiller struct {
	state  *PlaybackState
	tables *atomic.Pointer[wavetable.Set]

	failed         atomic.Bool
	toneBuffers    atomic.Int64
	silenceBuffers atomic.Int64

	// Pull-fill cursor, owned by the audio thread
	pullBuf wavetable.Buffer
	pullPos int
}

// NewRefiller creates a refiller reading state and the published tables
func NewRefiller(state *PlaybackState, tables *atomic.Pointer[wavetable.Set]) *Refiller {
	return &Refiller{
		state:  state,
		tables: tables,
	}
}

// next decides whether the next period plays tone or silence
func (r *Refiller) next() wavetable.Kind {
	if r.state.Take() {
		r.toneBuffers.Add(1)
		return wavetable.KindTone
	}
	// Silence keeps the output path running between bursts
	r.silenceBuffers.Add(1)
	return wavetable.KindSilence
}

// OnBufferComplete enqueues the next buffer after the previous one drained.
// A rejected enqueue fails the stream; every later call returns
// ErrStreamFailed without touching the queue.
func (r *Refiller) OnBufferComplete(q Queue) error {
	if r.failed.Load() {
		return ErrStreamFailed
	}

	set := r.tables.Load()
	if set == nil {
		return ErrNotConfigured
	}

	buf := set.Acquire(r.next())
	if err := q.Enqueue(buf); err != nil {
		buf.Release()
		r.failed.Store(true)
		return &StreamError{Op: "enqueue", Generation: set.Generation(), Err: err}
	}

	return nil
}

// Process fills out with tone or silence. One table period counts as one
// buffer of the burst; when out is not exactly one period long the table is
// tiled and the tone/silence decision is taken at each period boundary.
func (r *Refiller) Process(out []byte) error {
	if r.failed.Load() {
		clear(out)
		return ErrStreamFailed
	}

	set := r.tables.Load()
	if set == nil {
		clear(out)
		return ErrNotConfigured
	}

	// Tables were replaced: drop the partial period from the old set
	if r.pullBuf.Set() != set {
		r.pullBuf.Release()
		r.pullBuf = wavetable.Buffer{}
		r.pullPos = 0
	}

	for filled := 0; filled < len(out); {
		if r.pullPos == 0 {
			r.pullBuf.Release()
			r.pullBuf = set.Acquire(r.next())
		}

		src := r.pullBuf.Bytes()
		n := copy(out[filled:], src[r.pullPos:])
		filled += n
		r.pullPos += n
		if r.pullPos == len(src) {
			r.pullPos = 0
		}
	}

	return nil
}

// Fail marks the stream as failed, e.g. when the device reports an error
func (r *Refiller) Fail() {
	r.failed.Store(true)
}

// Failed reports whether the stream has failed
func (r *Refiller) Failed() bool {
	return r.failed.Load()
}

// ToneBuffers returns the number of tone periods emitted
func (r *Refiller) ToneBuffers() int64 { return r.toneBuffers.Load() }

// SilenceBuffers returns the number of silence periods emitted
func (r *Refiller) SilenceBuffers() int64 { return r.silenceBuffers.Load() }
