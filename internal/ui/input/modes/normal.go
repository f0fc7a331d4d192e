package modes

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"bookstats/internal/domain"
	"bookstats/internal/ui/input/types"
)

type NormalMode struct {
	lastKeyWasG bool
	lastGTime   time.Time
}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "browse"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyUp:
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case tea.KeyDown:
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case tea.KeyLeft:
		return []types.Action{types.NavigateAction{Direction: "left"}}, true

	case tea.KeyRight:
		return []types.Action{types.NavigateAction{Direction: "right"}}, true

	case tea.KeyPgUp:
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true

	case tea.KeyPgDown:
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true

	case tea.KeyHome:
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case tea.KeyEnd:
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case tea.KeyTab:
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch}}, true

	case tea.KeyEnter:
		if ctx.TotalItems() > 0 {
			return []types.Action{types.ToggleInfoAction{}}, true
		}
		return nil, false

	case tea.KeyEsc:
		if ctx.InfoVisible() {
			return []types.Action{types.ToggleInfoAction{}}, true
		}
		return nil, true
	}

	switch msg.String() {
	case "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case "h":
		return []types.Action{types.NavigateAction{Direction: "left"}}, true

	case "l":
		return []types.Action{types.NavigateAction{Direction: "right"}}, true

	case "/":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch}}, true

	case "s":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSort}}, true

	case "t":
		return []types.Action{types.SortByAction{Key: domain.SortByTitle}}, true

	case "a":
		return []types.Action{types.SortByAction{Key: domain.SortByAuthor}}, true

	case "r":
		return []types.Action{types.SortByAction{Key: domain.SortByRating}}, true

	case "d":
		return []types.Action{types.SetDirectionAction{Direction: ctx.CurrentDirection().Reverse()}}, true

	case "R", "ctrl+r":
		return []types.Action{types.RefreshAction{}}, true

	case "i", "I":
		if ctx.TotalItems() > 0 || ctx.InfoVisible() {
			return []types.Action{types.ToggleInfoAction{}}, true
		}
		return nil, true

	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true

	case "q":
		return []types.Action{types.QuitAction{Force: false}}, true

	case "g":
		if m.lastKeyWasG && time.Since(m.lastGTime) < 500*time.Millisecond {
			m.lastKeyWasG = false
			return []types.Action{types.NavigateAction{Direction: "home"}}, true
		}
		m.lastKeyWasG = true
		m.lastGTime = time.Now()
		return nil, true

	case "G":
		m.lastKeyWasG = false
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	default:
		m.lastKeyWasG = false
	}

	return nil, false
}
