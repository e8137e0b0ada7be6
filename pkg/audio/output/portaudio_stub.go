//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package output

import (
	"errors"

	"github.com/Resonate-Protocol/lowlatency-tone/pkg/audio"
)

// ErrPortAudioDisabled is returned when built without the portaudio tag
var ErrPortAudioDisabled = errors.New("PortAudio support not enabled (build with -tags portaudio)")

// PortAudio output implementation (stub)
type PortAudio struct {
	*failure
}

// OpenPortAudio reports that PortAudio is not compiled in
func OpenPortAudio(config Config, r PullRenderer) (*PortAudio, error) {
	return nil, ErrPortAudioDisabled
}

// Start begins playback
func (p *PortAudio) Start() error {
	return ErrPortAudioDisabled
}

// Close releases resources
func (p *PortAudio) Close() error {
	return ErrPortAudioDisabled
}

// Device returns the device characteristics
func (p *PortAudio) Device() audio.DeviceCharacteristics {
	return audio.DeviceCharacteristics{}
}

// Stats returns zero counters
func (p *PortAudio) Stats() StreamStats {
	return StreamStats{}
}
