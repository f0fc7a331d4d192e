package ui

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstats/internal/config"
	"bookstats/internal/domain"
	"bookstats/internal/search"
)

type programResult struct {
	model tea.Model
	err   error
}

// startProgram wires a controller into a headless program the way main does
func startProgram(t *testing.T, lookup search.Lookup) (*tea.Program, *search.Controller, <-chan programResult) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Search.DebounceMS = 1

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ctrl := search.NewController(lookup, search.NewState(cfg.Search.DefaultQuery, domain.SortByTitle, domain.Ascending))
	m := NewModel(ctx, ctrl, cfg, zerolog.Nop())
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)
	m.SetProgram(p)
	ctrl.OnChange(ForwardStates(p))

	done := make(chan programResult, 1)
	go func() {
		final, err := p.Run()
		done <- programResult{model: final, err: err}
	}()
	return p, ctrl, done
}

// send fails the test when the event loop stops accepting messages
func send(t *testing.T, p *tea.Program, msg tea.Msg) {
	t.Helper()
	sent := make(chan struct{})
	go func() {
		p.Send(msg)
		close(sent)
	}()
	select {
	case <-sent:
	case <-time.After(2 * time.Second):
		t.Fatalf("program stopped accepting messages while sending %T", msg)
	}
}

func TestProgramStaysResponsive(t *testing.T) {
	lookup := &recordingLookup{volumes: sampleVolumes()}
	p, ctrl, done := startProgram(t, lookup)

	send(t, p, tea.WindowSizeMsg{Width: 80, Height: 40})
	require.Eventually(t, func() bool {
		s := ctrl.Snapshot()
		return s.Completed && !s.Loading
	}, 2*time.Second, 10*time.Millisecond, "initial search did not complete")
	assert.Equal(t, []string{"popular books"}, lookup.Queries())

	// Loop is still free after Init
	send(t, p, tea.WindowSizeMsg{Width: 100, Height: 40})

	send(t, p, key("tab"))
	send(t, p, key("r"))
	require.Eventually(t, func() bool {
		return ctrl.Snapshot().Key == domain.SortByRating
	}, 2*time.Second, 10*time.Millisecond, "quick sort was not applied")

	// And after a sort change
	send(t, p, key("down"))

	p.Quit()
	select {
	case res := <-done:
		require.NoError(t, res.err)
		m, ok := res.model.(*Model)
		require.True(t, ok)
		assert.Equal(t, domain.SortByRating, m.snapshot.Key)
		assert.Equal(t, []string{"Beloved", "Atonement", "Carrie", "Emma", "Dune"}, titles(m.visible))
		assert.Contains(t, m.View(), "Sorted by rating (ascending)")
	case <-time.After(2 * time.Second):
		t.Fatal("program did not exit")
	}
}

func TestProgramSearchesAfterTyping(t *testing.T) {
	lookup := &recordingLookup{volumes: sampleVolumes()}
	p, ctrl, done := startProgram(t, lookup)

	send(t, p, tea.WindowSizeMsg{Width: 80, Height: 40})
	require.Eventually(t, func() bool {
		return ctrl.Snapshot().Completed
	}, 2*time.Second, 10*time.Millisecond)

	send(t, p, key("x"))
	require.Eventually(t, func() bool {
		q := lookup.Queries()
		return len(q) == 2 && q[1] == "popular booksx"
	}, 2*time.Second, 10*time.Millisecond, "debounced search did not run")

	send(t, p, tea.KeyMsg{Type: tea.KeyCtrlC})
	select {
	case res := <-done:
		require.NoError(t, res.err)
	case <-time.After(2 * time.Second):
		t.Fatal("program did not exit")
	}
}
