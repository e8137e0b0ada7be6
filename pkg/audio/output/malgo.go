// ABOUTME: Malgo-based audio output implementation
// ABOUTME: Pull-style stream where miniaudio's data callback fills from the renderer
package output

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/Resonate-Protocol/lowlatency-tone/pkg/audio"
	"github.com/gen2brain/malgo"
)

// Malgo output implementation using malgo/miniaudio library
type Malgo struct {
	*failure

	renderer PullRenderer
	malgoCtx *malgo.AllocatedContext

	mu      sync.Mutex
	device  *malgo.Device
	dc      audio.DeviceCharacteristics
	started bool

	periods atomic.Int64
}

// OpenMalgo initializes miniaudio and a playback device for config
func OpenMalgo(config Config, r PullRenderer) (*Malgo, error) {
	return openMalgo(config, r, nil)
}

// openMalgo opens on the given miniaudio backends, nil for the platform default
func openMalgo(config Config, r PullRenderer, backends []malgo.Backend) (*Malgo, error) {
	if err := config.checkDirection(); err != nil {
		return nil, err
	}

	ctx, err := malgo.InitContext(backends, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	m := &Malgo{
		failure:  newFailure(),
		renderer: r,
		malgoCtx: ctx,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.openDevice(config.withDefaults().Device()); err != nil {
		m.freeContext()
		return nil, err
	}

	return m, nil
}

// openDevice creates the device and reports what it negotiated (must hold m.mu)
func (m *Malgo) openDevice(want audio.DeviceCharacteristics) error {
	format, err := formatForWidth(want.BytesPerSample)
	if err != nil {
		return err
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = format
	deviceConfig.Playback.Channels = uint32(want.SamplesPerFrame)
	deviceConfig.SampleRate = uint32(want.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(want.FramesPerPeriod)
	deviceConfig.Alsa.NoMMap = 1

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: m.dataCallback,
	}

	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	// The backend may not grant what was asked for
	dc := audio.DeviceCharacteristics{
		SampleRate:      int(device.SampleRate()),
		FramesPerPeriod: want.FramesPerPeriod,
		SamplesPerFrame: int(device.PlaybackChannels()),
		BytesPerSample:  malgo.SampleSizeInBytes(device.PlaybackFormat()),
	}

	if err := m.renderer.OnDeviceChanged(dc); err != nil {
		device.Uninit()
		return fmt.Errorf("failed to configure renderer: %w", err)
	}

	m.device = device
	m.dc = dc

	log.Printf("Audio output initialized: %s (malgo/%s)", dc, formatName(device.PlaybackFormat()))
	return nil
}

// dataCallback is called by malgo on the audio thread
func (m *Malgo) dataCallback(pOutput, pInput []byte, frameCount uint32) {
	if err := m.renderer.OnProcess(pInput, pOutput); err != nil {
		m.fail(err)
	}
	m.periods.Add(1)
}

// Start begins playback
func (m *Malgo) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device == nil {
		return fmt.Errorf("output not initialized")
	}
	if err := m.device.Start(); err != nil {
		return fmt.Errorf("failed to start device: %w", err)
	}
	m.started = true
	return nil
}

// Reconfigure reopens the device with new characteristics, as a route
// change would. If dc cannot be opened the previous format is restored;
// if that fails too the stream is failed.
func (m *Malgo) Reconfigure(dc audio.DeviceCharacteristics) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	log.Printf("Format change requested (%s -> %s), reinitializing device", m.dc, dc)

	prev := m.dc
	wasStarted := m.started
	m.closeDevice()

	err := m.openDevice(dc)
	if err != nil {
		log.Printf("Format change failed, reopening %s: %v", prev, err)
		if rerr := m.openDevice(prev); rerr != nil {
			m.fail(fmt.Errorf("device lost after failed format change: %w", rerr))
			return err
		}
	}

	if wasStarted {
		if serr := m.device.Start(); serr != nil {
			serr = fmt.Errorf("failed to restart device: %w", serr)
			m.fail(serr)
			return serr
		}
		m.started = true
	}
	return err
}

// Close releases output resources
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeDevice()
	m.freeContext()
	return nil
}

// closeDevice stops and uninitializes the device (must hold m.mu)
func (m *Malgo) closeDevice() {
	if m.device != nil {
		if err := m.device.Stop(); err != nil {
			log.Printf("Warning: device stop error: %v", err)
		}
		m.device.Uninit()
		m.device = nil
		m.started = false
	}
}

func (m *Malgo) freeContext() {
	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			log.Printf("Warning: malgo context uninit error: %v", err)
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
}

// Device returns the negotiated device characteristics
func (m *Malgo) Device() audio.DeviceCharacteristics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dc
}

// Stats returns the number of callbacks served
func (m *Malgo) Stats() StreamStats {
	return StreamStats{Periods: m.periods.Load()}
}

// formatForWidth maps bytes per sample to a malgo format
func formatForWidth(bytesPerSample int) (malgo.FormatType, error) {
	switch bytesPerSample {
	case 2:
		return malgo.FormatS16, nil
	case 3:
		return malgo.FormatS24, nil
	case 4:
		return malgo.FormatS32, nil
	default:
		return malgo.FormatUnknown, fmt.Errorf("unsupported sample width: %d bytes (supported: 2, 3, 4)", bytesPerSample)
	}
}

// formatName returns human-readable format name
func formatName(format malgo.FormatType) string {
	switch format {
	case malgo.FormatS16:
		return "S16"
	case malgo.FormatS24:
		return "S24"
	case malgo.FormatS32:
		return "S32"
	default:
		return fmt.Sprintf("Unknown(%d)", format)
	}
}
