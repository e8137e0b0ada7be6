// ABOUTME: Published wave table set and buffer handles
// ABOUTME: Immutable encoded tables with generation and in-flight tracking
package wavetable

import (
	"fmt"
	"sync/atomic"

	"github.com/Resonate-Protocol/lowlatency-tone/pkg/audio/encode"
)

// Kind selects which table a buffer plays
type Kind int

const (
	KindSilence Kind = iota
	KindTone
)

func (k Kind) String() string {
	if k == KindTone {
		return "tone"
	}
	return "silence"
}

// Set is an encoded (tone, silence, size) tuple. It is never mutated after
// NewSet returns; replacing tables means publishing a new Set.
type Set struct {
	generation  uint64
	tables      *Tables
	sampleWidth int
	tone        []byte
	silence     []byte

	refs    atomic.Int64
	retired atomic.Bool
}

// NewSet encodes tables with enc into a Set tagged with generation
func NewSet(tables *Tables, enc encode.Encoder, generation uint64) (*Set, error) {
	size := enc.EncodedLen(tables.Samples())

	s := &Set{
		generation:  generation,
		tables:      tables,
		sampleWidth: enc.SampleWidth(),
		tone:        make([]byte, size),
		silence:     make([]byte, size),
	}

	if _, err := enc.EncodeInto(s.tone, tables.Tone); err != nil {
		return nil, fmt.Errorf("failed to encode tone table: %w", err)
	}
	if _, err := enc.EncodeInto(s.silence, tables.Silence); err != nil {
		return nil, fmt.Errorf("failed to encode silence table: %w", err)
	}

	return s, nil
}

// Generation returns the generation this set was published as
func (s *Set) Generation() uint64 { return s.generation }

// Tables returns the 16-bit tables the set was encoded from
func (s *Set) Tables() *Tables { return s.tables }

// SampleWidth returns the encoded bytes per sample
func (s *Set) SampleWidth() int { return s.sampleWidth }

// BufferSizeBytes returns the byte size of every buffer in the set
func (s *Set) BufferSizeBytes() int { return len(s.tone) }

// Bytes returns the encoded table for kind
func (s *Set) Bytes(kind Kind) []byte {
	if kind == KindTone {
		return s.tone
	}
	return s.silence
}

// Acquire returns a buffer handle for kind, holding a reference on the set
// until the handle is released
func (s *Set) Acquire(kind Kind) Buffer {
	s.refs.Add(1)
	return Buffer{set: s, kind: kind}
}

// InFlight returns the number of unreleased buffers from this set
func (s *Set) InFlight() int64 { return s.refs.Load() }

// Retire marks the set as replaced. Buffers already in flight stay valid.
func (s *Set) Retire() { s.retired.Store(true) }

// Retired reports whether a newer set has replaced this one
func (s *Set) Retired() bool { return s.retired.Load() }

// Drained reports whether the set is retired with no buffers in flight
func (s *Set) Drained() bool { return s.Retired() && s.InFlight() == 0 }

func (s *Set) release() {
	if s.refs.Add(-1) < 0 {
		panic(fmt.Sprintf("wavetable: buffer from generation %d released more than once", s.generation))
	}
}

// Buffer is a handle to one table of a Set. The zero Buffer is empty.
type Buffer struct {
	set  *Set
	kind Kind
}

// IsZero reports whether the buffer is empty
func (b Buffer) IsZero() bool { return b.set == nil }

// Kind returns which table the buffer plays
func (b Buffer) Kind() Kind { return b.kind }

// Set returns the set the buffer belongs to
func (b Buffer) Set() *Set { return b.set }

// Generation returns the generation of the buffer's set
func (b Buffer) Generation() uint64 {
	if b.set == nil {
		return 0
	}
	return b.set.generation
}

// Bytes returns the encoded samples; valid until Release
func (b Buffer) Bytes() []byte {
	if b.set == nil {
		return nil
	}
	return b.set.Bytes(b.kind)
}

// Len returns the buffer size in bytes
func (b Buffer) Len() int {
	if b.set == nil {
		return 0
	}
	return len(b.set.tone)
}

// Release drops the handle's reference on its set
func (b Buffer) Release() {
	if b.set != nil {
		b.set.release()
	}
}
