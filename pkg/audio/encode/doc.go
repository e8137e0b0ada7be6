// ABOUTME: Audio encoder package for packing table samples into device formats
// ABOUTME: Provides Encoder interface and the PCM implementation
// Package encode packs 16-bit table samples into the byte layout a device
// expects.
//
// Supports: PCM 16-bit, packed 24-bit and 32-bit, little-endian. Wider
// formats carry the 16-bit value left-justified.
//
// Example:
//
//	encoder, err := encode.NewPCM(3)
//	dst := make([]byte, encoder.EncodedLen(len(samples)))
//	n, err := encoder.EncodeInto(dst, samples)
package encode
