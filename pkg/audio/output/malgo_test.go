// ABOUTME: Tests for the malgo output implementation
// ABOUTME: Runs on miniaudio's null backend to test route changes without hardware
package output

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/Resonate-Protocol/lowlatency-tone/pkg/audio"
	"github.com/gen2brain/malgo"
)

var errRejected = errors.New("device rejected")

// gatedRenderer plays silence and rejects device changes on demand
type gatedRenderer struct {
	rejectStereo atomic.Bool
	rejectAll    atomic.Bool
	changes      atomic.Int64
}

func (r *gatedRenderer) OnDeviceChanged(dc audio.DeviceCharacteristics) error {
	if r.rejectAll.Load() || (r.rejectStereo.Load() && dc.SamplesPerFrame == 2) {
		return errRejected
	}
	r.changes.Add(1)
	return nil
}

func (r *gatedRenderer) OnProcess(in, out []byte) error {
	clear(out)
	return nil
}

func openNullMalgo(t *testing.T, r PullRenderer) *Malgo {
	t.Helper()
	quietLogs(t)

	m, err := openMalgo(Config{}, r, []malgo.Backend{malgo.BackendNull})
	if err != nil {
		t.Skipf("miniaudio null backend unavailable: %v", err)
	}
	t.Cleanup(func() { m.Close() })

	if err := m.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	return m
}

func stereo(dc audio.DeviceCharacteristics) audio.DeviceCharacteristics {
	dc.SamplesPerFrame = 2
	return dc
}

func TestMalgoReconfigureRestoresPreviousFormat(t *testing.T) {
	r := &gatedRenderer{}
	m := openNullMalgo(t, r)
	before := m.Device()

	r.rejectStereo.Store(true)
	err := m.Reconfigure(stereo(before))
	if !errors.Is(err, errRejected) {
		t.Fatalf("expected rejected reconfigure, got %v", err)
	}

	if m.Device() != before {
		t.Errorf("expected device restored to %v, got %v", before, m.Device())
	}
	if m.Err() != nil {
		t.Errorf("expected stream to stay healthy, got %v", m.Err())
	}
	select {
	case <-m.Failed():
		t.Error("expected Failed channel to stay open")
	default:
	}

	// Opened, then reopened with the previous format
	if got := r.changes.Load(); got != 2 {
		t.Errorf("expected 2 accepted device changes, got %d", got)
	}
}

func TestMalgoReconfigureFailsStreamWhenDeviceLost(t *testing.T) {
	r := &gatedRenderer{}
	m := openNullMalgo(t, r)

	r.rejectAll.Store(true)
	if err := m.Reconfigure(stereo(m.Device())); !errors.Is(err, errRejected) {
		t.Fatalf("expected rejected reconfigure, got %v", err)
	}

	select {
	case <-m.Failed():
	default:
		t.Fatal("expected stream to fail when no format can be opened")
	}
	if !errors.Is(m.Err(), errRejected) {
		t.Errorf("expected terminal error to wrap the rejection, got %v", m.Err())
	}
	if err := m.Start(); err == nil {
		t.Error("expected start to fail without a device")
	}
}

func TestMalgoStats(t *testing.T) {
	m := openNullMalgo(t, &gatedRenderer{})

	if m.Stats().Underruns != 0 {
		t.Errorf("expected no underruns from a pull backend, got %d", m.Stats().Underruns)
	}
}

func TestOpenMalgoRejectsCapture(t *testing.T) {
	_, err := openMalgo(Config{Direction: audio.DirectionCapture}, &gatedRenderer{}, []malgo.Backend{malgo.BackendNull})
	if !errors.Is(err, ErrUnsupportedDirection) {
		t.Errorf("expected ErrUnsupportedDirection, got %v", err)
	}
}
