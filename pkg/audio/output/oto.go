// ABOUTME: Oto-based audio output implementation
// ABOUTME: Push-style buffer queue stream read by a persistent oto player
package output

import (
	"fmt"
	"log"

	"github.com/Resonate-Protocol/lowlatency-tone/pkg/audio"
	"github.com/ebitengine/oto/v3"
)

// Oto output implementation using oto library
type Oto struct {
	otoCtx *oto.Context
	player *oto.Player
	queue  *SimpleBufferQueue
	device audio.DeviceCharacteristics
}

// OpenOto creates the oto context and a player reading r's buffer queue.
// oto allows one context per process and cannot change format afterwards.
func OpenOto(config Config, r QueueRenderer) (*Oto, error) {
	if err := config.checkDirection(); err != nil {
		return nil, err
	}
	config = config.withDefaults()

	// oto only supports 16-bit output
	if config.BytesPerSample != audio.BytesPerSample16 {
		log.Printf("Warning: oto only supports 16-bit output, ignoring requested width=%d bytes", config.BytesPerSample)
		config.BytesPerSample = audio.BytesPerSample16
	}
	dc := config.Device()

	if err := r.OnDeviceChanged(dc); err != nil {
		return nil, fmt.Errorf("failed to configure renderer: %w", err)
	}

	queue := NewSimpleBufferQueue(r)
	if err := r.Prime(queue); err != nil {
		return nil, fmt.Errorf("failed to prime buffer queue: %w", err)
	}

	op := &oto.NewContextOptions{
		SampleRate:   dc.SampleRate,
		ChannelCount: dc.SamplesPerFrame,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   period(dc),
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		queue.Close()
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	// Persistent player pulling one period at a time from the queue
	player := ctx.NewPlayer(queue)
	player.SetBufferSize(dc.BufferSizeBytes())

	log.Printf("Audio output initialized: %s (oto)", dc)

	return &Oto{
		otoCtx: ctx,
		player: player,
		queue:  queue,
		device: dc,
	}, nil
}

// Start begins playback
func (o *Oto) Start() error {
	o.player.Play()
	return nil
}

// Close releases output resources
func (o *Oto) Close() error {
	if o.player != nil {
		if err := o.player.Close(); err != nil {
			log.Printf("Warning: oto player close error: %v", err)
		}
		o.player = nil
	}
	if o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			log.Printf("Warning: oto suspend error: %v", err)
		}
	}
	return o.queue.Close()
}

// Device returns the device characteristics
func (o *Oto) Device() audio.DeviceCharacteristics {
	return o.device
}

// Failed is closed when the stream hits a terminal error
func (o *Oto) Failed() <-chan struct{} {
	return o.queue.Failed()
}

// Err returns the terminal error, if any
func (o *Oto) Err() error {
	return o.queue.Err()
}

// Stats returns the queue's counters
func (o *Oto) Stats() StreamStats {
	return o.queue.Stats()
}
