package types

import "bookstats/internal/domain"

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "left", "right", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

// RefreshAction reissues the current query
type RefreshAction struct{}

func (a RefreshAction) Type() string { return "refresh" }

type ToggleInfoAction struct{}

func (a ToggleInfoAction) Type() string { return "toggle_info" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }

// Sort actions
type SortByAction struct {
	Key domain.SortKey
}

func (a SortByAction) Type() string { return "sort_by" }

type SetDirectionAction struct {
	Direction domain.SortDirection
}

func (a SetDirectionAction) Type() string { return "set_direction" }

type UpdateSortIndexAction struct {
	Index int
}

func (a UpdateSortIndexAction) Type() string { return "update_sort_index" }
