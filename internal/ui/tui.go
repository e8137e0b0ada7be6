// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for the tone demo UI
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Command is a user request from the TUI
type Command int

const (
	// CommandStart plays one tone burst
	CommandStart Command = iota
	// CommandStop abandons the current burst
	CommandStop
	// CommandReroute simulates a device route change
	CommandReroute
)

func (c Command) String() string {
	switch c {
	case CommandStart:
		return "start"
	case CommandStop:
		return "stop"
	case CommandReroute:
		return "reroute"
	default:
		return "unknown"
	}
}

// ToneControl holds channels for tone control communication
type ToneControl struct {
	Commands chan Command
	Quit     chan struct{}
}

// NewToneControl creates a new tone control handler
func NewToneControl() *ToneControl {
	return &ToneControl{
		Commands: make(chan Command, 10),
		Quit:     make(chan struct{}, 1),
	}
}

// NewModel creates a new TUI model
func NewModel(ctrl *ToneControl, backend string) Model {
	return Model{
		backend: backend,
		ctrl:    ctrl,
	}
}

// Run creates the TUI program
func Run(ctrl *ToneControl, backend string) *tea.Program {
	return tea.NewProgram(NewModel(ctrl, backend), tea.WithAltScreen())
}
