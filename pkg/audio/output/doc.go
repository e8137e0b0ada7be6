// ABOUTME: Audio output package driving the tone engine from a device
// ABOUTME: Provides buffer queue and pull-callback backends
// Package output is the platform side of a tone stream.
//
// Backends open a device, report its characteristics to the renderer and
// then call the renderer from the device's audio thread:
//   - Null: headless device paced by a ticker, push-style buffer queue
//   - Oto: push-style buffer queue read by an oto player
//   - Malgo: pull-style miniaudio data callback
//   - PortAudio: pull-style callback (build with -tags portaudio)
//
// Example:
//
//	engine, _ := tone.New(tone.Config{})
//	stream, err := output.OpenOto(output.Config{SampleRate: 48000}, engine)
//	err = stream.Start()
//	engine.StartTone()
package output
