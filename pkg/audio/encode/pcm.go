// ABOUTME: PCM audio encoder
// ABOUTME: Encodes int16 table samples to 16-bit, 24-bit or 32-bit PCM bytes
package encode

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Resonate-Protocol/lowlatency-tone/pkg/audio"
)

var (
	// ErrUnsupportedSampleWidth is returned for device widths other than 2, 3 or 4 bytes
	ErrUnsupportedSampleWidth = errors.New("unsupported sample width")

	// ErrShortBuffer is returned when dst cannot hold the encoded samples
	ErrShortBuffer = errors.New("destination buffer too small")
)

// PCMEncoder encodes PCM audio
type PCMEncoder struct {
	width int
}

// NewPCM creates a new PCM encoder for the given bytes per sample
func NewPCM(bytesPerSample int) (*PCMEncoder, error) {
	switch bytesPerSample {
	case 2, 3, 4:
	default:
		return nil, fmt.Errorf("%w: %d bytes (supported: 2, 3, 4)", ErrUnsupportedSampleWidth, bytesPerSample)
	}

	return &PCMEncoder{
		width: bytesPerSample,
	}, nil
}

// SampleWidth returns the bytes per encoded sample
func (e *PCMEncoder) SampleWidth() int {
	return e.width
}

// EncodedLen returns the byte size of n encoded samples
func (e *PCMEncoder) EncodedLen(n int) int {
	return n * e.width
}

// EncodeInto converts int16 samples to PCM bytes without allocating
func (e *PCMEncoder) EncodeInto(dst []byte, samples []int16) (int, error) {
	need := e.EncodedLen(len(samples))
	if len(dst) < need {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, need, len(dst))
	}

	switch e.width {
	case 2:
		for i, sample := range samples {
			binary.LittleEndian.PutUint16(dst[i*2:], uint16(sample))
		}
	case 3:
		// 24-bit PCM: 3 bytes per sample, 16-bit value in the upper bits
		for i, sample := range samples {
			b := audio.SampleTo24Bit(audio.SampleFromInt16(sample))
			dst[i*3] = b[0]
			dst[i*3+1] = b[1]
			dst[i*3+2] = b[2]
		}
	case 4:
		for i, sample := range samples {
			binary.LittleEndian.PutUint32(dst[i*4:], uint32(int32(sample)<<16))
		}
	}

	return need, nil
}
