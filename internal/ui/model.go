// ABOUTME: Bubbletea model for the tone demo TUI
// ABOUTME: Defines application state and update logic
package ui

import (
	"fmt"
	"strings"

	"github.com/Resonate-Protocol/lowlatency-tone/pkg/tone"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	playingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().Faint(true)
)

// Model represents the TUI state
type Model struct {
	backend string
	stats   tone.Stats
	err     error

	periods   int64
	underruns int64

	lastCommand string
	quitting    bool

	ctrl *ToneControl

	width  int
	height int
}

// StatusMsg updates TUI state
type StatusMsg struct {
	Stats tone.Stats
	Err   error

	// Device-side counters
	Periods   int64
	Underruns int64
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Low Latency Tone"))
	b.WriteString("\n\n")

	field(&b, "Engine: ", m.stats.ID)
	field(&b, "Backend: ", m.backend)
	if m.stats.Device.FramesPerPeriod > 0 {
		field(&b, "Device: ", m.stats.Device.String())
		field(&b, "Tables: ", fmt.Sprintf("generation %d, %d bytes/buffer", m.stats.Generation, m.stats.BufferSizeBytes))
	} else {
		field(&b, "Device: ", "not configured")
	}
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("State: "))
	switch {
	case m.stats.Failed || m.err != nil:
		b.WriteString(errorStyle.Render("FAILED"))
	case m.stats.Remaining > 0:
		b.WriteString(playingStyle.Render(fmt.Sprintf("playing (%d buffers left)", m.stats.Remaining)))
	default:
		b.WriteString(valueStyle.Render("silence"))
	}
	b.WriteString("\n")

	field(&b, "Buffers: ", fmt.Sprintf("tone %d  silence %d  reroutes %d",
		m.stats.ToneBuffers, m.stats.SilenceBuffers, m.stats.Reconfigurations))

	b.WriteString(headerStyle.Render("Output: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("periods %d  ", m.periods)))
	if m.underruns > 0 {
		b.WriteString(errorStyle.Render(fmt.Sprintf("underruns %d", m.underruns)))
	} else {
		b.WriteString(valueStyle.Render("underruns 0"))
	}
	b.WriteString("\n")

	if m.lastCommand != "" {
		field(&b, "Last: ", m.lastCommand)
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("t/space:Tone  s:Stop  r:Reroute  q:Quit"))
	b.WriteString("\n")

	return b.String()
}

func field(b *strings.Builder, name, value string) {
	b.WriteString(headerStyle.Render(name))
	b.WriteString(valueStyle.Render(value))
	b.WriteString("\n")
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		if m.ctrl != nil {
			select {
			case m.ctrl.Quit <- struct{}{}:
			default:
			}
		}
		return m, tea.Quit
	case "t", " ", "space":
		m.send(CommandStart)
	case "s":
		m.send(CommandStop)
	case "r":
		m.send(CommandReroute)
	}

	return m, nil
}

// send forwards c without blocking the UI
func (m *Model) send(c Command) {
	m.lastCommand = c.String()
	if m.ctrl == nil {
		return
	}
	select {
	case m.ctrl.Commands <- c:
	default:
		m.lastCommand = c.String() + " (dropped)"
	}
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	m.stats = msg.Stats
	m.periods = msg.Periods
	m.underruns = msg.Underruns
	if msg.Err != nil {
		m.err = msg.Err
	}
}
