// ABOUTME: Device route change handling
// ABOUTME: Regenerates and publishes wave tables when device characteristics change
package tone

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Resonate-Protocol/lowlatency-tone/pkg/audio"
	"github.com/Resonate-Protocol/lowlatency-tone/pkg/audio/encode"
	"github.com/Resonate-Protocol/lowlatency-tone/pkg/wavetable"
)

// DeviceRouteAdapter rebuilds the tables for new device characteristics and
// publishes them as one unit
type DeviceRouteAdapter struct {
	state      *PlaybackState
	tables     *atomic.Pointer[wavetable.Set]
	maxSamples int

	// mu serializes reconfigurations; the audio thread never takes it
	mu               sync.Mutex
	generation       uint64
	device           audio.DeviceCharacteristics
	reconfigurations int64
}

// NewDeviceRouteAdapter creates an adapter publishing into tables
func NewDeviceRouteAdapter(state *PlaybackState, tables *atomic.Pointer[wavetable.Set], maxSamples int) *DeviceRouteAdapter {
	return &DeviceRouteAdapter{
		state:      state,
		tables:     tables,
		maxSamples: maxSamples,
	}
}

// OnDeviceChanged regenerates the tables for dc, abandons any burst in
// progress and publishes the new set. On error nothing is published.
func (a *DeviceRouteAdapter) OnDeviceChanged(dc audio.DeviceCharacteristics) error {
	if err := dc.Validate(); err != nil {
		return &StreamInitError{Device: dc, Err: fmt.Errorf("%w: %v", ErrInvalidDevice, err)}
	}

	if dc.FramesPerPeriod > a.maxSamples/dc.SamplesPerFrame {
		return &StreamInitError{Device: dc, Err: fmt.Errorf("%w: %d frames x %d channels exceeds %d samples",
			ErrTableTooLarge, dc.FramesPerPeriod, dc.SamplesPerFrame, a.maxSamples)}
	}

	enc, err := encode.NewPCM(dc.BytesPerSample)
	if err != nil {
		return &StreamInitError{Device: dc, Err: err}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	set, err := wavetable.NewSet(wavetable.Generate(dc.FramesPerPeriod, dc.SamplesPerFrame), enc, a.generation+1)
	if err != nil {
		return &StreamInitError{Device: dc, Err: err}
	}

	// Bursts never continue across a format change
	a.state.Clear()
	if old := a.tables.Swap(set); old != nil {
		old.Retire()
	}

	a.generation = set.Generation()
	a.device = dc
	a.reconfigurations++

	return nil
}

// Device returns the characteristics of the published tables
func (a *DeviceRouteAdapter) Device() audio.DeviceCharacteristics {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.device
}

// Reconfigurations returns how many device changes were applied
func (a *DeviceRouteAdapter) Reconfigurations() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reconfigurations
}
