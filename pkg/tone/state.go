// ABOUTME: Playback state shared between control and audio threads
// ABOUTME: Lock-free remaining buffer counter
package tone

import (
	"fmt"
	"sync/atomic"
)

// PlaybackState counts the tone buffers left to emit. Zero is idle.
type PlaybackState struct {
	remaining atomic.Int64
}

// Arm schedules n tone buffers, replacing any burst in progress
func (s *PlaybackState) Arm(n int) {
	if n < 0 {
		panic(fmt.Sprintf("tone: burst count must not be negative, got %d", n))
	}
	s.remaining.Store(int64(n))
}

// Clear abandons any burst in progress
func (s *PlaybackState) Clear() {
	s.remaining.Store(0)
}

// Take claims one tone buffer. It reports false when idle and never takes
// the counter below zero.
func (s *PlaybackState) Take() bool {
	for {
		n := s.remaining.Load()
		if n <= 0 {
			return false
		}
		if s.remaining.CompareAndSwap(n, n-1) {
			return true
		}
	}
}

// Remaining returns the tone buffers left in the current burst
func (s *PlaybackState) Remaining() int {
	return int(s.remaining.Load())
}

// Playing reports whether a burst is in progress
func (s *PlaybackState) Playing() bool {
	return s.remaining.Load() > 0
}
