// ABOUTME: Tone engine context object
// ABOUTME: Wires state, refiller and route adapter behind the platform entry points
package tone

import (
	"log"
	"sync/atomic"

	"github.com/Resonate-Protocol/lowlatency-tone/pkg/audio"
	"github.com/Resonate-Protocol/lowlatency-tone/pkg/wavetable"
	"github.com/google/uuid"
)

const (
	// DefaultBurstCount is how many tone buffers StartTone schedules
	DefaultBurstCount = 100

	// DefaultMaxSamples caps the samples in one table
	DefaultMaxSamples = 1 << 20
)

// Config holds engine configuration
type Config struct {
	// BurstCount is the number of tone buffers StartTone plays (default: 100)
	BurstCount int

	// MaxSamples caps frames*channels of a table (default: 1<<20)
	MaxSamples int

	// Device, when set, configures the tables immediately
	Device audio.DeviceCharacteristics
}

// Stats is a snapshot of engine state
type Stats struct {
	ID               string
	Remaining        int
	ToneBuffers      int64
	SilenceBuffers   int64
	Reconfigurations int64
	Failed           bool
	Generation       uint64
	BufferSizeBytes  int
	Device           audio.DeviceCharacteristics
}

// Engine owns the playback state and tables of one stream
type Engine struct {
	id     string
	config Config

	state    PlaybackState
	tables   atomic.Pointer[wavetable.Set]
	refiller *Refiller
	adapter  *DeviceRouteAdapter
}

// New creates an engine with the given configuration
func New(config Config) (*Engine, error) {
	if config.BurstCount <= 0 {
		config.BurstCount = DefaultBurstCount
	}
	if config.MaxSamples <= 0 {
		config.MaxSamples = DefaultMaxSamples
	}

	e := &Engine{
		id:     uuid.New().String(),
		config: config,
	}
	e.refiller = NewRefiller(&e.state, &e.tables)
	e.adapter = NewDeviceRouteAdapter(&e.state, &e.tables, config.MaxSamples)

	if config.Device != (audio.DeviceCharacteristics{}) {
		if err := e.OnDeviceChanged(config.Device); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// ID returns the engine identifier used in logs
func (e *Engine) ID() string {
	return e.id
}

// Config returns the effective configuration
func (e *Engine) Config() Config {
	return e.config
}

// StartTone arms a burst of Config.BurstCount tone buffers
func (e *Engine) StartTone() {
	e.StartBurst(e.config.BurstCount)
}

// StartBurst arms a burst of n tone buffers. Safe from any goroutine.
func (e *Engine) StartBurst(n int) {
	e.state.Arm(n)
	log.Printf("Engine %s: playing tone (%d buffers)", e.id, n)
}

// StopTone abandons the current burst. Safe from any goroutine.
func (e *Engine) StopTone() {
	e.state.Clear()
	log.Printf("Engine %s: stopping tone", e.id)
}

// Playing reports whether tone buffers remain
func (e *Engine) Playing() bool {
	return e.state.Playing()
}

// OnDeviceChanged applies new device characteristics
func (e *Engine) OnDeviceChanged(dc audio.DeviceCharacteristics) error {
	if err := e.adapter.OnDeviceChanged(dc); err != nil {
		log.Printf("Engine %s: device change rejected: %v", e.id, err)
		return err
	}

	set := e.tables.Load()
	log.Printf("Engine %s: wave tables generation %d for %s (buffer %d bytes)",
		e.id, set.Generation(), dc, set.BufferSizeBytes())
	return nil
}

// Prime enqueues the initial silence buffer that starts the refill cycle
func (e *Engine) Prime(q Queue) error {
	set := e.tables.Load()
	if set == nil {
		return ErrNotConfigured
	}

	buf := set.Acquire(wavetable.KindSilence)
	if err := q.Enqueue(buf); err != nil {
		buf.Release()
		e.refiller.Fail()
		return &StreamError{Op: "prime", Generation: set.Generation(), Err: err}
	}

	return nil
}

// OnBufferComplete is the push-style refill callback
func (e *Engine) OnBufferComplete(q Queue) error {
	return e.refiller.OnBufferComplete(q)
}

// OnProcess is the pull-style refill callback; in is unused for playback
func (e *Engine) OnProcess(in, out []byte) error {
	return e.refiller.Process(out)
}

// Fail marks the stream as failed after a platform error
func (e *Engine) Fail() {
	e.refiller.Fail()
}

// Tables returns the currently published table set
func (e *Engine) Tables() *wavetable.Set {
	return e.tables.Load()
}

// Stats returns a snapshot of engine statistics
func (e *Engine) Stats() Stats {
	stats := Stats{
		ID:               e.id,
		Remaining:        e.state.Remaining(),
		ToneBuffers:      e.refiller.ToneBuffers(),
		SilenceBuffers:   e.refiller.SilenceBuffers(),
		Reconfigurations: e.adapter.Reconfigurations(),
		Failed:           e.refiller.Failed(),
		Device:           e.adapter.Device(),
	}

	if set := e.tables.Load(); set != nil {
		stats.Generation = set.Generation()
		stats.BufferSizeBytes = set.BufferSizeBytes()
	}

	return stats
}
