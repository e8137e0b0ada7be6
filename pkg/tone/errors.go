// ABOUTME: Error types for the tone engine
// ABOUTME: Stream initialization and stream I/O failures
package tone

import (
	"errors"
	"fmt"

	"github.com/Resonate-Protocol/lowlatency-tone/pkg/audio"
)

var (
	// ErrStreamFailed is returned by every refill after a stream I/O failure
	ErrStreamFailed = errors.New("stream failed")

	// ErrNotConfigured is returned when no device characteristics have been received
	ErrNotConfigured = errors.New("no device characteristics received")

	// ErrInvalidDevice wraps device characteristics that cannot drive a stream
	ErrInvalidDevice = errors.New("invalid device characteristics")

	// ErrTableTooLarge is returned when a period needs more samples than Config.MaxSamples
	ErrTableTooLarge = errors.New("wave table too large")
)

// StreamInitError reports a device change that could not be applied.
// The previously published tables stay in use.
type StreamInitError struct {
	Device audio.DeviceCharacteristics
	Err    error
}

func (e *StreamInitError) Error() string {
	return fmt.Sprintf("stream initialization failed for %s: %v", e.Device, e.Err)
}

func (e *StreamInitError) Unwrap() error { return e.Err }

// StreamError reports a rejected buffer. It is terminal for the stream and
// matches both ErrStreamFailed and the underlying queue error.
type StreamError struct {
	Op         string
	Generation uint64
	Err        error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream %s failed (generation %d): %v", e.Op, e.Generation, e.Err)
}

func (e *StreamError) Unwrap() []error { return []error{ErrStreamFailed, e.Err} }
