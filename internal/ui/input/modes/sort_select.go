package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"bookstats/internal/domain"
	"bookstats/internal/ui/input/types"
)

// SortOptions available for sorting
var SortOptions = []struct {
	Key         domain.SortKey
	Name        string
	Description string
}{
	{domain.SortByTitle, "Title", "Sort by title"},
	{domain.SortByRating, "Rating", "Sort by average rating, unrated first"},
	{domain.SortByAuthor, "Author", "Sort by first author"},
}

type SortSelectMode struct {
	sortIndex         int
	originalIndex     int // Remember the original sort when entering
	originalDirection domain.SortDirection
}

func NewSortSelectMode() *SortSelectMode {
	return &SortSelectMode{}
}

func (m *SortSelectMode) Name() string {
	return "sort"
}

func (m *SortSelectMode) Enter(ctx types.Context) []types.Action {
	m.sortIndex = sortIndexOf(ctx.CurrentSort())
	m.originalIndex = m.sortIndex
	m.originalDirection = ctx.CurrentDirection()

	return []types.Action{types.UpdateSortIndexAction{Index: m.sortIndex}}
}

func (m *SortSelectMode) Exit(ctx types.Context) []types.Action {
	return nil
}

// HandleKey cycles through sort keys and applies each one immediately
func (m *SortSelectMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true

	case "esc", "q":
		// Cancel and restore original sort
		return []types.Action{
			types.SortByAction{Key: SortOptions[m.originalIndex].Key},
			types.SetDirectionAction{Direction: m.originalDirection},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true

	case "enter", "s":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true

	case "up", "k":
		m.move(-1)
		return m.apply(), true

	case "down", "j":
		m.move(1)
		return m.apply(), true

	case "left", "right", "d", " ":
		return []types.Action{types.SetDirectionAction{Direction: ctx.CurrentDirection().Reverse()}}, true
	}

	return nil, true
}

// GetCurrentIndex returns the current sort option index
func (m *SortSelectMode) GetCurrentIndex() int {
	return m.sortIndex
}

func (m *SortSelectMode) move(delta int) {
	m.sortIndex = (m.sortIndex + delta + len(SortOptions)) % len(SortOptions)
}

func (m *SortSelectMode) apply() []types.Action {
	return []types.Action{
		types.UpdateSortIndexAction{Index: m.sortIndex},
		types.SortByAction{Key: SortOptions[m.sortIndex].Key},
	}
}

func sortIndexOf(key domain.SortKey) int {
	for i, option := range SortOptions {
		if option.Key == key {
			return i
		}
	}
	return 0
}
