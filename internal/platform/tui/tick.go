// Package tui provides the Bubble Tea integration for citywalk.
// It handles the terminal UI loop, input mapping, run persistence and the
// SSH server that gives every connection its own city.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/citywalk/internal/core"
)

// TickMsg asks the model to advance the game by one tick.
type TickMsg time.Time

// tickCmd schedules the next TickMsg one tick interval from now.
func tickCmd(cfg core.RuntimeConfig) tea.Cmd {
	return tea.Tick(cfg.TickInterval(), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
