//go:build portaudio

// ABOUTME: PortAudio output implementation
// ABOUTME: Pull-style stream where the PortAudio callback fills from the renderer
package output

import (
	"fmt"
	"log"
	"sync/atomic"
	"unsafe"

	"github.com/Resonate-Protocol/lowlatency-tone/pkg/audio"
	"github.com/gordonklaus/portaudio"
)

// PortAudio output implementation
type PortAudio struct {
	*failure

	renderer PullRenderer
	stream   *portaudio.Stream
	dc       audio.DeviceCharacteristics
	periods  atomic.Int64
}

// OpenPortAudio initializes PortAudio and opens the default output stream
func OpenPortAudio(config Config, r PullRenderer) (*PortAudio, error) {
	if err := config.checkDirection(); err != nil {
		return nil, err
	}
	config = config.withDefaults()

	// The callback is typed []int16
	if config.BytesPerSample != audio.BytesPerSample16 {
		log.Printf("Warning: portaudio output is 16-bit, ignoring requested width=%d bytes", config.BytesPerSample)
		config.BytesPerSample = audio.BytesPerSample16
	}
	dc := config.Device()

	if err := r.OnDeviceChanged(dc); err != nil {
		return nil, fmt.Errorf("failed to configure renderer: %w", err)
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	p := &PortAudio{
		failure:  newFailure(),
		renderer: r,
		dc:       dc,
	}

	stream, err := portaudio.OpenDefaultStream(0, dc.SamplesPerFrame, float64(dc.SampleRate), dc.FramesPerPeriod, p.process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}

	p.stream = stream
	log.Printf("Audio output initialized: %s (portaudio)", dc)
	return p, nil
}

// process is called by PortAudio on the audio thread
func (p *PortAudio) process(out []int16) {
	if len(out) == 0 {
		return
	}
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), len(out)*2)
	if err := p.renderer.OnProcess(nil, buf); err != nil {
		p.fail(err)
	}
	p.periods.Add(1)
}

// Start begins playback
func (p *PortAudio) Start() error {
	return p.stream.Start()
}

// Close releases resources
func (p *PortAudio) Close() error {
	if p.stream != nil {
		if err := p.stream.Stop(); err != nil {
			log.Printf("Warning: portaudio stop error: %v", err)
		}
		if err := p.stream.Close(); err != nil {
			return err
		}
		p.stream = nil
	}
	return portaudio.Terminate()
}

// Device returns the device characteristics
func (p *PortAudio) Device() audio.DeviceCharacteristics {
	return p.dc
}

// Stats returns the number of callbacks served
func (p *PortAudio) Stats() StreamStats {
	return StreamStats{Periods: p.periods.Load()}
}
