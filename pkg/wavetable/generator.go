// ABOUTME: Sine wave table generator
// ABOUTME: Builds one cycle of a sine wave and a matching silence table
package wavetable

import (
	"fmt"
	"math"

	"github.com/Resonate-Protocol/lowlatency-tone/pkg/audio"
)

// Tables holds one sine cycle and a silence table of the same shape
type Tables struct {
	Frames          int
	Channels        int
	Tone            []int16 // interleaved, Frames*Channels samples
	Silence         []int16
	BufferSizeBytes int // 16-bit size of either table
}

// Generate creates the tone and silence tables for frameCount frames of
// channelCount channels. The sine completes exactly one cycle over the
// table and the same value is written to every channel of a frame.
//
// frameCount must be positive and channelCount at least 1; anything else is
// a caller bug and panics.
func Generate(frameCount, channelCount int) *Tables {
	if frameCount <= 0 {
		panic(fmt.Sprintf("wavetable: frame count must be positive, got %d", frameCount))
	}
	if channelCount < 1 {
		panic(fmt.Sprintf("wavetable: channel count must be at least 1, got %d", channelCount))
	}

	numSamples := frameCount * channelCount
	t := &Tables{
		Frames:          frameCount,
		Channels:        channelCount,
		Tone:            make([]int16, numSamples),
		Silence:         make([]int16, numSamples),
		BufferSizeBytes: numSamples * audio.BytesPerSample16,
	}

	// Peak is +32767; the negative peak is not clamped separately
	phaseIncrement := 2 * math.Pi / float64(frameCount)
	for i := 0; i < frameCount; i++ {
		sample := int16(math.Round(math.Sin(float64(i)*phaseIncrement) * audio.MaxAmplitude))
		for ch := 0; ch < channelCount; ch++ {
			t.Tone[i*channelCount+ch] = sample
		}
	}

	return t
}

// Samples returns the number of samples in each table
func (t *Tables) Samples() int {
	return t.Frames * t.Channels
}
