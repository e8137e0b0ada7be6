// ABOUTME: Tests for TUI model and state management
// ABOUTME: Tests status updates, key handling, and command forwarding
package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/Resonate-Protocol/lowlatency-tone/pkg/audio"
	"github.com/Resonate-Protocol/lowlatency-tone/pkg/tone"
	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil, "null") // ToneControl is optional for testing

	if model.backend != "null" {
		t.Errorf("expected backend 'null', got '%s'", model.backend)
	}
	if model.quitting {
		t.Error("expected quitting to be false initially")
	}
	if model.err != nil {
		t.Errorf("expected no error initially, got %v", model.err)
	}
}

func TestStatusMsgStats(t *testing.T) {
	model := NewModel(nil, "null")

	stats := tone.Stats{
		ID:          "engine-1",
		Remaining:   42,
		ToneBuffers: 58,
		Generation:  2,
		Device:      audio.DeviceCharacteristics{SampleRate: 48000, FramesPerPeriod: 192, SamplesPerFrame: 1, BytesPerSample: 2},
	}
	model.applyStatus(StatusMsg{Stats: stats})

	if model.stats != stats {
		t.Errorf("expected %+v, got %+v", stats, model.stats)
	}

	model.width = 80
	view := model.View()
	if !strings.Contains(view, "42 buffers left") {
		t.Errorf("expected remaining count in view, got:\n%s", view)
	}
	if !strings.Contains(view, "48000Hz") {
		t.Errorf("expected device in view, got:\n%s", view)
	}
}

func TestStatusMsgDeviceCounters(t *testing.T) {
	model := NewModel(nil, "oto")

	model.applyStatus(StatusMsg{Periods: 1200, Underruns: 3})

	if model.periods != 1200 || model.underruns != 3 {
		t.Errorf("expected 1200 periods and 3 underruns, got %d and %d", model.periods, model.underruns)
	}
	if !strings.Contains(model.View(), "underruns 3") {
		t.Errorf("expected underruns in view, got:\n%s", model.View())
	}
}

func TestStatusMsgKeepsError(t *testing.T) {
	model := NewModel(nil, "null")

	model.applyStatus(StatusMsg{Err: errors.New("device lost")})
	model.applyStatus(StatusMsg{Stats: tone.Stats{Failed: true}})

	if model.err == nil {
		t.Fatal("expected error to be kept")
	}
	if !strings.Contains(model.View(), "FAILED") {
		t.Error("expected failed state in view")
	}
}

func TestKeyCommands(t *testing.T) {
	tests := []struct {
		key  string
		want Command
	}{
		{"t", CommandStart},
		{" ", CommandStart},
		{"s", CommandStop},
		{"r", CommandReroute},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			ctrl := NewToneControl()
			model := NewModel(ctrl, "null")

			updated, _ := model.Update(keyMsg(tt.key))
			m := updated.(Model)

			select {
			case got := <-ctrl.Commands:
				if got != tt.want {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
			default:
				t.Fatal("expected a command")
			}

			if m.lastCommand != tt.want.String() {
				t.Errorf("expected last command '%s', got '%s'", tt.want, m.lastCommand)
			}
		})
	}
}

func TestKeyCommandDroppedWhenFull(t *testing.T) {
	ctrl := &ToneControl{Commands: make(chan Command), Quit: make(chan struct{}, 1)}
	model := NewModel(ctrl, "null")

	updated, _ := model.Update(keyMsg("t"))
	if m := updated.(Model); m.lastCommand != "start (dropped)" {
		t.Errorf("expected dropped command, got '%s'", m.lastCommand)
	}
}

func TestQuitKey(t *testing.T) {
	ctrl := NewToneControl()
	model := NewModel(ctrl, "null")

	updated, cmd := model.Update(keyMsg("q"))
	if !updated.(Model).quitting {
		t.Error("expected quitting after q")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}

	select {
	case <-ctrl.Quit:
	default:
		t.Error("expected quit signal")
	}
}

func TestWindowSize(t *testing.T) {
	model := NewModel(nil, "null")

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m := updated.(Model)
	if m.width != 100 || m.height != 40 {
		t.Errorf("expected 100x40, got %dx%d", m.width, m.height)
	}
}
