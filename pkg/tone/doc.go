// ABOUTME: Low-latency tone engine
// ABOUTME: Buffer refill protocol, device route handling and tone control
// Package tone is a double-buffered sine tone player core.
//
// The platform layer owns the audio device and calls into an Engine through
// a fixed set of entry points:
//   - OnDeviceChanged: new device characteristics, regenerate the tables
//   - OnBufferComplete: a queued buffer finished, enqueue the next one
//   - OnProcess: pull-style alternative, fill the caller's output buffer
//
// The control side calls StartTone and StopTone from any goroutine. The only
// state shared with the audio thread is an atomic buffer counter and an
// atomically published table set, so the audio path never blocks.
//
// Example:
//
//	engine, err := tone.New(tone.Config{BurstCount: 100})
//	err = engine.OnDeviceChanged(audio.DeviceCharacteristics{
//	    SampleRate:      48000,
//	    FramesPerPeriod: 192,
//	    SamplesPerFrame: 1,
//	    BytesPerSample:  2,
//	})
//	err = engine.Prime(queue)
//	engine.StartTone()
package tone
