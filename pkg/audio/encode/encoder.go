// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for table sample encoders
package encode

// Encoder encodes 16-bit samples to device bytes
type Encoder interface {
	// EncodeInto packs samples into dst and returns the bytes written
	EncodeInto(dst []byte, samples []int16) (int, error)

	// EncodedLen returns the byte size of n encoded samples
	EncodedLen(n int) int

	// SampleWidth returns the bytes per encoded sample
	SampleWidth() int
}
