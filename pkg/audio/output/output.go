// ABOUTME: Audio output interface definitions
// ABOUTME: Renderer callbacks, stream interface and shared configuration
package output

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Resonate-Protocol/lowlatency-tone/pkg/audio"
	"github.com/Resonate-Protocol/lowlatency-tone/pkg/tone"
)

// QueueRenderer is the engine side of a push-style buffer queue stream
type QueueRenderer interface {
	// OnDeviceChanged receives new device characteristics
	OnDeviceChanged(dc audio.DeviceCharacteristics) error

	// Prime enqueues the first buffer before playback starts
	Prime(q tone.Queue) error

	// OnBufferComplete enqueues the next buffer after one drained
	OnBufferComplete(q tone.Queue) error
}

// PullRenderer is the engine side of a pull-style callback stream
type PullRenderer interface {
	// OnDeviceChanged receives new device characteristics
	OnDeviceChanged(dc audio.DeviceCharacteristics) error

	// OnProcess fills out for the device
	OnProcess(in, out []byte) error
}

// Stream is an open playback stream
type Stream interface {
	// Start begins playback
	Start() error

	// Close stops playback and releases the device
	Close() error

	// Device returns the current device characteristics
	Device() audio.DeviceCharacteristics

	// Failed is closed when the stream hits a terminal error
	Failed() <-chan struct{}

	// Err returns the terminal error, if any
	Err() error

	// Stats returns device-side counters
	Stats() StreamStats
}

// StreamStats counts what the device consumed. Underruns are only known to
// queue backends; pull backends are never starved by the renderer.
type StreamStats struct {
	Periods   int64 // buffers drained or callbacks served
	Underruns int64 // reads that found the queue empty
}

// ErrUnsupportedDirection is returned when opening a capture stream
var ErrUnsupportedDirection = errors.New("unsupported stream direction")

// Reconfigurer is a stream that can change device format while open
type Reconfigurer interface {
	Reconfigure(dc audio.DeviceCharacteristics) error
}

// Config holds stream configuration
type Config struct {
	Direction       audio.Direction // only playback is supported
	SampleRate      int             // default: 48000
	FramesPerBuffer int             // default: 192
	Channels        int             // default: 1
	BytesPerSample  int             // default: 2
}

func (c Config) withDefaults() Config {
	if c.SampleRate == 0 {
		c.SampleRate = 48000
	}
	if c.FramesPerBuffer == 0 {
		c.FramesPerBuffer = 192
	}
	if c.Channels == 0 {
		c.Channels = 1
	}
	if c.BytesPerSample == 0 {
		c.BytesPerSample = audio.BytesPerSample16
	}
	return c
}

// checkDirection rejects streams the renderers cannot serve
func (c Config) checkDirection() error {
	if c.Direction != audio.DirectionPlayback {
		return fmt.Errorf("%w: %s", ErrUnsupportedDirection, c.Direction)
	}
	return nil
}

// Device returns the characteristics a device opened with c reports
func (c Config) Device() audio.DeviceCharacteristics {
	return audio.DeviceCharacteristics{
		SampleRate:      c.SampleRate,
		FramesPerPeriod: c.FramesPerBuffer,
		SamplesPerFrame: c.Channels,
		BytesPerSample:  c.BytesPerSample,
	}
}

// period returns the duration of one buffer
func period(dc audio.DeviceCharacteristics) time.Duration {
	if dc.SampleRate <= 0 {
		return 0
	}
	return time.Duration(dc.FramesPerPeriod) * time.Second / time.Duration(dc.SampleRate)
}

// failure latches the first terminal error of a stream
type failure struct {
	once sync.Once
	done chan struct{}
	err  error
}

func newFailure() *failure {
	return &failure{done: make(chan struct{})}
}

func (f *failure) fail(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Failed is closed when the stream hits a terminal error
func (f *failure) Failed() <-chan struct{} {
	return f.done
}

// Err returns the terminal error, if any
func (f *failure) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}
