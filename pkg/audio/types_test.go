// ABOUTME: Tests for audio types
// ABOUTME: Tests device characteristics and sample conversion functions
package audio

import "testing"

func TestDeviceCharacteristicsBufferSize(t *testing.T) {
	tests := []struct {
		name     string
		dc       DeviceCharacteristics
		expected int
	}{
		{"mono 16-bit", DeviceCharacteristics{FramesPerPeriod: 192, SamplesPerFrame: 1, BytesPerSample: 2}, 384},
		{"stereo 16-bit", DeviceCharacteristics{FramesPerPeriod: 192, SamplesPerFrame: 2, BytesPerSample: 2}, 768},
		{"stereo 24-bit", DeviceCharacteristics{FramesPerPeriod: 240, SamplesPerFrame: 2, BytesPerSample: 3}, 1440},
		{"mono 32-bit", DeviceCharacteristics{FramesPerPeriod: 4, SamplesPerFrame: 1, BytesPerSample: 4}, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dc.BufferSizeBytes(); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestDeviceCharacteristicsValidate(t *testing.T) {
	tests := []struct {
		name    string
		dc      DeviceCharacteristics
		wantErr bool
	}{
		{"valid", DeviceCharacteristics{SampleRate: 48000, FramesPerPeriod: 192, SamplesPerFrame: 1, BytesPerSample: 2}, false},
		{"unknown rate", DeviceCharacteristics{FramesPerPeriod: 192, SamplesPerFrame: 1, BytesPerSample: 2}, false},
		{"zero frames", DeviceCharacteristics{SampleRate: 48000, SamplesPerFrame: 1, BytesPerSample: 2}, true},
		{"negative frames", DeviceCharacteristics{FramesPerPeriod: -1, SamplesPerFrame: 1, BytesPerSample: 2}, true},
		{"zero channels", DeviceCharacteristics{FramesPerPeriod: 192, BytesPerSample: 2}, true},
		{"zero width", DeviceCharacteristics{FramesPerPeriod: 192, SamplesPerFrame: 1}, true},
		{"negative rate", DeviceCharacteristics{SampleRate: -1, FramesPerPeriod: 192, SamplesPerFrame: 1, BytesPerSample: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dc.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDirectionString(t *testing.T) {
	if DirectionPlayback.String() != "playback" {
		t.Errorf("expected playback, got %s", DirectionPlayback)
	}
	if Direction(7).String() != "Direction(7)" {
		t.Errorf("unexpected string for unknown direction: %s", Direction(7))
	}
}

func TestSampleFromInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected int32
	}{
		{"zero", 0, 0},
		{"positive", 100, 100 << 8},
		{"negative", -100, -100 << 8},
		{"max", MaxAmplitude, MaxAmplitude << 8},
		{"min", -32768, -32768 << 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleTo24Bit(t *testing.T) {
	tests := []struct {
		name     string
		input    int32
		expected [3]byte
	}{
		{"zero", 0, [3]byte{0, 0, 0}},
		{"positive", 0x123456, [3]byte{0x56, 0x34, 0x12}},
		{"negative", -256, [3]byte{0x00, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleTo24Bit(tt.input)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}
