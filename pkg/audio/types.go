// ABOUTME: Audio type definitions
// ABOUTME: Defines device characteristics and sample width conversions
package audio

import "fmt"

const (
	// MaxAmplitude is the full positive range of a signed 16-bit sample
	MaxAmplitude = 32767

	// BytesPerSample16 is the width of one 16-bit sample
	BytesPerSample16 = 2
)

// Direction is the direction of a stream
type Direction int

const (
	DirectionPlayback Direction = iota
	DirectionCapture
)

func (d Direction) String() string {
	switch d {
	case DirectionPlayback:
		return "playback"
	case DirectionCapture:
		return "capture"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// DeviceCharacteristics describes the output device as reported by the
// platform on stream creation and on every route change
type DeviceCharacteristics struct {
	SampleRate      int
	FramesPerPeriod int
	SamplesPerFrame int // channels
	BytesPerSample  int
}

// BufferSizeBytes returns the byte size of one period
func (dc DeviceCharacteristics) BufferSizeBytes() int {
	return dc.FramesPerPeriod * dc.SamplesPerFrame * dc.BytesPerSample
}

// Validate reports whether the characteristics can drive a stream
func (dc DeviceCharacteristics) Validate() error {
	if dc.FramesPerPeriod <= 0 {
		return fmt.Errorf("frames per period must be positive, got %d", dc.FramesPerPeriod)
	}
	if dc.SamplesPerFrame < 1 {
		return fmt.Errorf("samples per frame must be at least 1, got %d", dc.SamplesPerFrame)
	}
	if dc.BytesPerSample <= 0 {
		return fmt.Errorf("bytes per sample must be positive, got %d", dc.BytesPerSample)
	}
	if dc.SampleRate < 0 {
		return fmt.Errorf("sample rate must not be negative, got %d", dc.SampleRate)
	}
	return nil
}

func (dc DeviceCharacteristics) String() string {
	return fmt.Sprintf("%dHz %dch %d-bit %d frames/period",
		dc.SampleRate, dc.SamplesPerFrame, dc.BytesPerSample*8, dc.FramesPerPeriod)
}

// SampleFromInt16 widens a 16-bit sample to the 24-bit range
func SampleFromInt16(sample int16) int32 {
	return int32(sample) << 8
}

// SampleTo24Bit packs the low 24 bits of sample, little-endian
func SampleTo24Bit(sample int32) [3]byte {
	return [3]byte{
		byte(sample),
		byte(sample >> 8),
		byte(sample >> 16),
	}
}
