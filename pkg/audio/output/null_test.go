// ABOUTME: Tests for the headless output device
// ABOUTME: Tests priming, manual ticks, reconfiguration and background draining
package output

import (
	"errors"
	"testing"
	"time"

	"github.com/Resonate-Protocol/lowlatency-tone/pkg/audio"
	"github.com/Resonate-Protocol/lowlatency-tone/pkg/tone"
)

func openTestNull(t *testing.T, engine *tone.Engine) *Null {
	t.Helper()
	n, err := OpenNull(Config{FramesPerBuffer: 4}, engine)
	if err != nil {
		t.Fatalf("failed to open null output: %v", err)
	}
	t.Cleanup(func() { n.Close() })
	return n
}

func TestOpenNullPrimesQueue(t *testing.T) {
	engine := newTestEngine(t)
	n := openTestNull(t, engine)

	if !n.Queue().Pending() {
		t.Error("expected primed silence buffer")
	}
	if n.Device() != testDevice {
		t.Errorf("expected %v, got %v", testDevice, n.Device())
	}
	if engine.Stats().Device != testDevice {
		t.Errorf("expected engine device %v, got %v", testDevice, engine.Stats().Device)
	}
}

func TestOpenNullRejectsInvalidDevice(t *testing.T) {
	engine := newTestEngine(t)

	_, err := OpenNull(Config{Channels: -1}, engine)
	if !errors.Is(err, tone.ErrInvalidDevice) {
		t.Errorf("expected ErrInvalidDevice, got %v", err)
	}
}

func TestOpenNullRejectsCapture(t *testing.T) {
	engine := newTestEngine(t)

	_, err := OpenNull(Config{Direction: audio.DirectionCapture}, engine)
	if !errors.Is(err, ErrUnsupportedDirection) {
		t.Errorf("expected ErrUnsupportedDirection, got %v", err)
	}
	if engine.Tables() != nil {
		t.Error("expected engine to stay unconfigured")
	}
}

func TestNullTickPlaysBurst(t *testing.T) {
	engine := newTestEngine(t)
	n := openTestNull(t, engine)

	engine.StartBurst(3)
	for i := 0; i < 5; i++ {
		if err := n.Tick(); err != nil {
			t.Fatalf("tick %d failed: %v", i, err)
		}
	}

	stats := engine.Stats()
	if stats.ToneBuffers != 3 {
		t.Errorf("expected 3 tone buffers, got %d", stats.ToneBuffers)
	}
	// The primed buffer is silence and does not count as a refill
	if stats.SilenceBuffers != 2 {
		t.Errorf("expected 2 silence refills, got %d", stats.SilenceBuffers)
	}
	if stats.Remaining != 0 {
		t.Errorf("expected no remaining buffers, got %d", stats.Remaining)
	}

	if got := n.Stats(); got.Periods != 5 || got.Underruns != 0 {
		t.Errorf("expected 5 periods and no underruns, got %+v", got)
	}
}

func TestNullReconfigure(t *testing.T) {
	engine := newTestEngine(t)
	n := openTestNull(t, engine)
	old := engine.Tables()

	stereo := testDevice
	stereo.SamplesPerFrame = 2
	if err := n.Reconfigure(stereo); err != nil {
		t.Fatalf("reconfigure failed: %v", err)
	}

	if n.Device() != stereo {
		t.Errorf("expected %v, got %v", stereo, n.Device())
	}
	if !old.Retired() {
		t.Error("expected old tables to be retired")
	}
	if old.Drained() {
		t.Error("expected primed buffer to keep old tables alive")
	}

	// Draining the old buffer hands it back and refills from the new set
	if err := n.Tick(); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if !old.Drained() {
		t.Errorf("expected old tables drained, %d in flight", old.InFlight())
	}
	if engine.Tables().BufferSizeBytes() != 16 {
		t.Errorf("expected 16 byte buffers, got %d", engine.Tables().BufferSizeBytes())
	}
}

func TestNullReconfigureRejected(t *testing.T) {
	engine := newTestEngine(t)
	n := openTestNull(t, engine)

	bad := audio.DeviceCharacteristics{SampleRate: 48000, FramesPerPeriod: 0, SamplesPerFrame: 1, BytesPerSample: 2}
	if err := n.Reconfigure(bad); !errors.Is(err, tone.ErrInvalidDevice) {
		t.Errorf("expected ErrInvalidDevice, got %v", err)
	}
	if n.Device() != testDevice {
		t.Errorf("expected device unchanged, got %v", n.Device())
	}
}

func TestNullStartDrainsInBackground(t *testing.T) {
	engine := newTestEngine(t)
	n := openTestNull(t, engine)

	engine.StartBurst(2)
	if err := n.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	// Second Start is a no-op
	if err := n.Start(); err != nil {
		t.Fatalf("second start failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for engine.Playing() {
		select {
		case <-deadline:
			t.Fatal("burst did not finish")
		case <-time.After(time.Millisecond):
		}
	}

	if err := n.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if n.Err() != nil {
		t.Errorf("expected no stream error, got %v", n.Err())
	}
}
