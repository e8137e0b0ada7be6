// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines device characteristics and sample conversion functions
// Package audio provides fundamental audio types shared by the tone engine
// and the platform backends.
//
// This package defines:
//   - DeviceCharacteristics: what the output device reports on a route change
//     (frames per period, samples per frame, bytes per sample, sample rate)
//   - Direction: playback or capture
//
// It also provides the 16-bit to packed 24-bit sample conversion used by
// the PCM encoder.
//
// Example:
//
//	dc := audio.DeviceCharacteristics{
//	    SampleRate:      48000,
//	    FramesPerPeriod: 192,
//	    SamplesPerFrame: 2,
//	    BytesPerSample:  2,
//	}
//	size := dc.BufferSizeBytes() // 768
package audio
