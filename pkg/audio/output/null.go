// ABOUTME: Headless output device
// ABOUTME: Drains a buffer queue at the device period without producing sound
package output

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Resonate-Protocol/lowlatency-tone/pkg/audio"
)

// Null is a playback device with no audio hardware. A goroutine reads one
// period from the buffer queue every period, like a sound card would.
type Null struct {
	renderer QueueRenderer
	queue    *SimpleBufferQueue
	device   atomic.Pointer[audio.DeviceCharacteristics]

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
	scratch []byte
}

// OpenNull configures r for config and primes its buffer queue
func OpenNull(config Config, r QueueRenderer) (*Null, error) {
	if err := config.checkDirection(); err != nil {
		return nil, err
	}
	config = config.withDefaults()
	dc := config.Device()

	if err := r.OnDeviceChanged(dc); err != nil {
		return nil, fmt.Errorf("failed to configure renderer: %w", err)
	}

	n := &Null{
		renderer: r,
		queue:    NewSimpleBufferQueue(r),
	}
	n.device.Store(&dc)

	if err := r.Prime(n.queue); err != nil {
		return nil, fmt.Errorf("failed to prime buffer queue: %w", err)
	}

	log.Printf("Null output opened: %s", dc)
	return n, nil
}

// Start begins draining the queue on a background goroutine
func (n *Null) Start() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel
	n.stopped = make(chan struct{})

	go n.run(ctx, n.stopped)
	return nil
}

func (n *Null) run(ctx context.Context, stopped chan struct{}) {
	defer close(stopped)

	interval := period(*n.device.Load())
	if interval <= 0 {
		interval = 4 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := n.Tick(); err != nil {
				return
			}
			if next := period(*n.device.Load()); next > 0 && next != interval {
				interval = next
				ticker.Reset(interval)
			}
		}
	}
}

// Tick reads one device period from the queue. Start calls it on every
// period; without Start, tests can drive the device by hand.
func (n *Null) Tick() error {
	dc := n.device.Load()
	size := dc.BufferSizeBytes()
	if len(n.scratch) != size {
		n.scratch = make([]byte, size)
	}

	_, err := n.queue.Read(n.scratch)
	return err
}

// Reconfigure simulates a route change to dc
func (n *Null) Reconfigure(dc audio.DeviceCharacteristics) error {
	if err := n.renderer.OnDeviceChanged(dc); err != nil {
		return fmt.Errorf("failed to reconfigure renderer: %w", err)
	}
	n.device.Store(&dc)
	log.Printf("Null output reconfigured: %s", dc)
	return nil
}

// Close stops the device and releases the queued buffer
func (n *Null) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cancel != nil {
		n.cancel()
		<-n.stopped
		n.cancel = nil
	}
	return n.queue.Close()
}

// Device returns the current device characteristics
func (n *Null) Device() audio.DeviceCharacteristics {
	return *n.device.Load()
}

// Queue returns the device's buffer queue
func (n *Null) Queue() *SimpleBufferQueue {
	return n.queue
}

// Failed is closed when the stream hits a terminal error
func (n *Null) Failed() <-chan struct{} {
	return n.queue.Failed()
}

// Err returns the terminal error, if any
func (n *Null) Err() error {
	return n.queue.Err()
}

// Stats returns the queue's counters
func (n *Null) Stats() StreamStats {
	return n.queue.Stats()
}
