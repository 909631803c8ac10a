// Package tui is the Bubble Tea host for the game: it owns the frame loop,
// feeds the simulation into the session controller and renders the result.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg triggers one simulation frame.
type TickMsg time.Time

// tickCmd schedules the next frame at tickRate frames per second.
func tickCmd(tickRate int) tea.Cmd {
	return tea.Tick(frameDuration(tickRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func frameDuration(tickRate int) time.Duration {
	if tickRate <= 0 {
		tickRate = 60
	}
	return time.Second / time.Duration(tickRate)
}
