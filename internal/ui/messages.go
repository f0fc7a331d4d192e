package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"bookstats/internal/search"
)

// StateMsg carries a search state snapshot into the UI
type StateMsg struct {
	State search.State
}

// ForwardStates returns a controller change hook that delivers snapshots to p.
// The hook fires on the event loop goroutine (from Update and from commands
// the loop runs itself), so it must never wait on p.Send. Update drops
// snapshots older than the one it holds.
func ForwardStates(p *tea.Program) func(search.State) {
	return func(s search.State) {
		go p.Send(StateMsg{State: s})
	}
}

// debounceMsg fires after the query has been idle for the debounce period
type debounceMsg struct {
	seq   int
	query string
}

// spawnMsg returns cmd to the runtime as a standalone command
type spawnMsg struct {
	cmd tea.Cmd
}

// clearStatusMsg clears a transient status message
type clearStatusMsg struct{}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
