package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"bookstats/internal/books"
	"bookstats/internal/config"
	"bookstats/internal/domain"
	"bookstats/internal/search"
	"bookstats/internal/ui/input"
	inputtypes "bookstats/internal/ui/input/types"
	"bookstats/internal/ui/views"
)

// Searcher is the search controller as seen by the UI
type Searcher interface {
	Search(ctx context.Context, query string) []domain.Volume
	SetQuery(query string)
	SetSort(key domain.SortKey, direction domain.SortDirection)
	Snapshot() search.State
}

// Model represents the UI state
type Model struct {
	ctx      context.Context
	searcher Searcher
	config   *config.Config
	log      zerolog.Logger

	width  int
	height int

	snapshot search.State
	visible  []domain.Volume

	selected      int
	rowOffset     int
	showInfo      bool
	showHelp      bool
	sortIndex     int
	statusMessage string
	inPagerMode   bool

	debounce    time.Duration
	debounceSeq int

	spinner      spinner.Model
	renderer     *views.Renderer
	helpRenderer *HelpRenderer
	inputHandler *input.Handler
	helpOps      *HelpOps

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model. Searches run under ctx.
func NewModel(ctx context.Context, searcher Searcher, cfg *config.Config, log zerolog.Logger) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctx:          ctx,
		searcher:     searcher,
		config:       cfg,
		log:          log.With().Str("component", "ui").Logger(),
		debounce:     cfg.Debounce(),
		spinner:      sp,
		renderer:     views.NewRenderer(),
		helpRenderer: NewHelpRenderer(),
		inputHandler: input.New(cfg.Search.DefaultQuery),
	}
	m.setSnapshot(searcher.Snapshot())
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps = NewHelpOps(p)
}

// Init fetches the default query and starts the spinner
func (m *Model) Init() tea.Cmd {
	return batch(
		m.inputHandler.Init(),
		m.spinner.Tick,
		m.searchCmd(m.inputHandler.Query()),
	)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureSelectedVisible()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spawnMsg:
		return m, msg.cmd

	case StateMsg:
		// Snapshots may arrive out of order; keep the newest
		if msg.State.Revision >= m.snapshot.Revision {
			m.setSnapshot(msg.State)
		}
		return m, nil

	case debounceMsg:
		if msg.seq != m.debounceSeq {
			return m, nil
		}
		return m, m.searchCmd(msg.query)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case helpPagerMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("help pager failed, showing help inline")
			m.showHelp = true
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case clearStatusMsg:
		m.statusMessage = ""
		return m, nil
	}

	// Cursor blink and other text input messages
	return m, m.inputHandler.Update(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inPagerMode {
		return m, nil
	}

	if m.showHelp {
		switch msg.String() {
		case "esc", "?", "q", "enter":
			m.showHelp = false
		case "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}

	if m.showInfo {
		switch msg.String() {
		case "esc", "i", "I", "q", "enter":
			m.showInfo = false
		case "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}

	ctx := &input.ModelContext{
		Index:     m.selected,
		Total:     len(m.visible),
		Text:      m.inputHandler.Query(),
		Key:       m.snapshot.Key,
		Direction: m.snapshot.Direction,
		ShowInfo:  m.showInfo,
	}

	actions, cmd := m.inputHandler.HandleKey(msg, ctx)

	cmds := []tea.Cmd{}
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	for _, action := range actions {
		if actionCmd := m.processAction(action); actionCmd != nil {
			cmds = append(cmds, actionCmd)
		}
	}

	return m, batch(cmds...)
}

// batch is tea.Batch for commands that may block. The event loop runs the
// members of a batch itself, so each one is handed back through spawnMsg and
// runs on the command runner instead.
func batch(cmds ...tea.Cmd) tea.Cmd {
	var valid []tea.Cmd
	for _, cmd := range cmds {
		if cmd != nil {
			valid = append(valid, cmd)
		}
	}
	if len(valid) <= 1 {
		return tea.Batch(valid...)
	}
	for i, cmd := range valid {
		cmd := cmd
		valid[i] = func() tea.Msg { return spawnMsg{cmd: cmd} }
	}
	return tea.Batch(valid...)
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.navigate(a.Direction)

	case inputtypes.UpdateTextAction:
		m.searcher.SetQuery(a.Text)
		m.debounceSeq++
		seq, query := m.debounceSeq, a.Text
		return tea.Tick(m.debounce, func(time.Time) tea.Msg {
			return debounceMsg{seq: seq, query: query}
		})

	case inputtypes.SubmitTextAction:
		// Drop any pending debounced search
		m.debounceSeq++
		return m.searchCmd(a.Text)

	case inputtypes.RefreshAction:
		m.debounceSeq++
		return m.searchCmd(m.inputHandler.Query())

	case inputtypes.SortByAction:
		return m.applySort(a.Key, m.snapshot.Direction)

	case inputtypes.SetDirectionAction:
		return m.applySort(m.snapshot.Key, a.Direction)

	case inputtypes.UpdateSortIndexAction:
		m.sortIndex = a.Index

	case inputtypes.ToggleInfoAction:
		m.showInfo = !m.showInfo && len(m.visible) > 0

	case inputtypes.ToggleHelpAction:
		if m.program == nil {
			m.showHelp = true
			return nil
		}
		return m.fetchHelpPager(m.helpRenderer.RenderHelpContent())

	case inputtypes.QuitAction:
		return tea.Quit
	}
	return nil
}

// searchCmd runs one search and reports the resulting snapshot
func (m *Model) searchCmd(query string) tea.Cmd {
	searcher, ctx := m.searcher, m.ctx
	return func() tea.Msg {
		searcher.Search(ctx, query)
		return StateMsg{State: searcher.Snapshot()}
	}
}

// fetchHelpPager returns a command that shows help using ov pager
func (m *Model) fetchHelpPager(helpContent string) tea.Cmd {
	return func() tea.Msg {
		m.program.Send(pauseRenderingMsg{})
		err := m.helpOps.ShowHelpInPager(helpContent)
		m.program.Send(resumeRenderingMsg{})
		return helpPagerMsg{err: err}
	}
}

func (m *Model) applySort(key domain.SortKey, direction domain.SortDirection) tea.Cmd {
	if key == m.snapshot.Key && direction == m.snapshot.Direction {
		return nil
	}
	m.searcher.SetSort(key, direction)
	m.selected = 0
	m.rowOffset = 0
	m.setSnapshot(m.searcher.Snapshot())

	m.statusMessage = fmt.Sprintf("Sorted by %s (%s)", key, direction)
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m *Model) setSnapshot(s search.State) {
	m.snapshot = s
	m.visible = s.Visible()
	if m.selected >= len(m.visible) {
		m.selected = len(m.visible) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	if len(m.visible) == 0 {
		m.showInfo = false
	}
	m.ensureSelectedVisible()
}

func (m *Model) navigate(direction string) {
	total := len(m.visible)
	if total == 0 {
		return
	}
	cols := views.GridColumns(m.width)
	page := cols * m.gridRows()

	target := m.selected
	switch direction {
	case "up":
		target -= cols
	case "down":
		target += cols
	case "left":
		target--
	case "right":
		target++
	case "pageup":
		target -= page
	case "pagedown":
		target += page
	case "home":
		target = 0
	case "end":
		target = total - 1
	}

	switch {
	case target < 0 && (direction == "up" || direction == "left"):
		return
	case target >= total && (direction == "down" || direction == "right"):
		return
	case target < 0:
		target = 0
	case target >= total:
		target = total - 1
	}

	m.selected = target
	m.ensureSelectedVisible()
}

func (m *Model) gridRows() int {
	return views.GridRows(m.height, m.inputHandler.CurrentMode() == inputtypes.ModeSort)
}

// ensureSelectedVisible keeps the selected card's row inside the viewport
func (m *Model) ensureSelectedVisible() {
	cols := views.GridColumns(m.width)
	rows := m.gridRows()
	row := m.selected / cols

	if row < m.rowOffset {
		m.rowOffset = row
	}
	if row >= m.rowOffset+rows {
		m.rowOffset = row - rows + 1
	}
	if m.rowOffset < 0 {
		m.rowOffset = 0
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderer.RenderPopup(m.helpRenderer.RenderHelpContent(), m.height, m.width)
	}

	state := views.ViewState{
		Width:           m.width,
		Height:          m.height,
		SearchInput:     m.inputHandler.TextInput().View(),
		SearchFocused:   m.inputHandler.CurrentMode() == inputtypes.ModeSearch,
		Query:           m.snapshot.Query,
		Volumes:         m.visible,
		SelectedIndex:   m.selected,
		RowOffset:       m.rowOffset,
		Loading:         m.snapshot.Loading,
		Completed:       m.snapshot.Completed,
		Spinner:         m.spinner.View(),
		SortKey:         m.snapshot.Key,
		SortDirection:   m.snapshot.Direction,
		SortSelecting:   m.inputHandler.CurrentMode() == inputtypes.ModeSort,
		SortOptionIndex: m.sortIndex,
		ShowInfo:        m.showInfo,
		StatusMessage:   m.statusMessage,
	}

	if err := m.snapshot.LastError; err != nil {
		if errors.Is(err, books.ErrEmptyQuery) {
			state.StatusMessage = "Type a query to search"
		} else {
			state.LastError = err.Error()
		}
	}

	return m.renderer.Render(state)
}

// Selected returns the highlighted volume, if any
func (m *Model) Selected() (domain.Volume, bool) {
	if m.selected < 0 || m.selected >= len(m.visible) {
		return domain.Volume{}, false
	}
	return m.visible[m.selected], true
}
