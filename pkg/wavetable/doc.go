// ABOUTME: Wave table package for the tone engine
// ABOUTME: Generates sine/silence tables and publishes them as ref-counted sets
// Package wavetable builds the lookup tables the tone engine plays from.
//
// Generate produces one full cycle of a sine wave sized to a device period,
// plus a silence table of identical shape. A Set is the encoded, immutable
// form of those tables that the audio thread reads; a new Set replaces the
// old one as a unit. Buffers handed to a playback queue hold a reference on
// their Set, so a replaced Set can be checked for buffers still in flight.
//
// Example:
//
//	tables := wavetable.Generate(192, 2)
//	enc, _ := encode.NewPCM(2)
//	set, err := wavetable.NewSet(tables, enc, 1)
//	buf := set.Acquire(wavetable.KindTone)
//	defer buf.Release()
package wavetable
