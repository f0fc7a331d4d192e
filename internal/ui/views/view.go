package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"bookstats/internal/domain"
	"bookstats/internal/ui/input/modes"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width           int
	Height          int
	SearchInput     string
	SearchFocused   bool
	Query           string
	Volumes         []domain.Volume
	SelectedIndex   int
	RowOffset       int
	Loading         bool
	Completed       bool
	Spinner         string
	SortKey         domain.SortKey
	SortDirection   domain.SortDirection
	SortSelecting   bool
	SortOptionIndex int
	ShowInfo        bool
	LastError       string
	StatusMessage   string
}

// chromeLines is the number of lines used around the grid
const chromeLines = 11

// GridRows returns how many card rows fit in height
func GridRows(height int, sortSelecting bool) int {
	if height <= 0 {
		height = 24
	}
	available := height - chromeLines
	if sortSelecting {
		available--
	}
	rows := available / CardHeight
	if rows < 1 {
		rows = 1
	}
	return rows
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	volumes     *VolumeRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		volumes:     NewVolumeRenderer(styles),
		popupRender: NewPopupRenderer(styles),
	}
}

// Styles returns the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	if state.ShowInfo && state.SelectedIndex >= 0 && state.SelectedIndex < len(state.Volumes) {
		detail := r.volumes.RenderDetail(state.Volumes[state.SelectedIndex])
		detail += "\n\n" + r.styles.Help.Render("esc/i to close")
		return r.popupRender.RenderPopup(detail, state.Height, state.Width, r.styles.InfoBox)
	}

	content := &strings.Builder{}

	content.WriteString(r.renderTitleLine(state))
	content.WriteString("\n\n")

	boxStyle := r.styles.SearchBox
	if state.SearchFocused {
		boxStyle = r.styles.SearchFocused
	}
	boxWidth := state.Width - 8
	if boxWidth < 20 {
		boxWidth = 20
	}
	content.WriteString(boxStyle.Width(boxWidth).Render("Search: " + state.SearchInput))
	content.WriteString("\n")

	content.WriteString(r.renderSortLine(state))
	content.WriteString("\n\n")

	content.WriteString(r.renderResults(state))
	content.WriteString("\n\n")

	content.WriteString(r.renderStatusLine(state))
	content.WriteString("\n")
	content.WriteString(r.styles.Help.Render("tab focus • ←↑↓→ move • s sort • t/a/r title/author/rating • d direction • i details • ? help • q quit"))

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	return mainStyle.Render(content.String())
}

func (r *Renderer) renderTitleLine(state ViewState) string {
	logo := r.styles.Title.Render("bookstats")
	if !state.Loading {
		return logo
	}

	right := r.styles.StatusLoading.Render(fmt.Sprintf("%s Searching", state.Spinner))

	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

func (r *Renderer) renderSortLine(state ViewState) string {
	arrow := "↑"
	if state.SortDirection == domain.Descending {
		arrow = "↓"
	}

	if state.SortSelecting && state.SortOptionIndex >= 0 && state.SortOptionIndex < len(modes.SortOptions) {
		option := modes.SortOptions[state.SortOptionIndex]
		sortLine := r.styles.Sort.Render(fmt.Sprintf("Sort by: %s %s - %s (%s)", option.Name, arrow, option.Description, state.SortDirection))
		helpLine := r.styles.Dim.Render("↑/↓ or j/k to change • d/←/→ direction • Enter to accept • Esc to cancel")
		return sortLine + "\n" + helpLine
	}

	return r.styles.Dim.Render(fmt.Sprintf("Sort: %s %s (%s)", state.SortKey, arrow, state.SortDirection))
}

func (r *Renderer) renderResults(state ViewState) string {
	if len(state.Volumes) == 0 {
		switch {
		case state.Loading:
			return r.styles.Dim.Render("Looking for books...")
		case state.Completed:
			return r.styles.Dim.Render("No books found.")
		default:
			return r.styles.Dim.Render("Type to search.")
		}
	}

	cols := GridColumns(state.Width)
	rows := GridRows(state.Height, state.SortSelecting)
	totalRows := (len(state.Volumes) + cols - 1) / cols

	var lines []string
	if state.RowOffset > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more rows above ↑", state.RowOffset)))
	}
	lines = append(lines, r.volumes.RenderGrid(state.Volumes, state.SelectedIndex, cols, state.RowOffset, rows))
	if below := totalRows - (state.RowOffset + rows); below > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more rows below ↓", below)))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderStatusLine(state ViewState) string {
	if state.LastError != "" {
		return r.styles.StatusError.Render("Search failed: " + state.LastError)
	}
	if state.StatusMessage != "" {
		return r.styles.Status.Render(state.StatusMessage)
	}
	if state.Completed {
		return r.styles.StatusSuccess.Render(fmt.Sprintf("%d results for %q", len(state.Volumes), state.Query))
	}
	return ""
}

// RenderPopup centers content in an info box covering the screen
func (r *Renderer) RenderPopup(content string, height, width int) string {
	return r.popupRender.RenderPopup(content, height, width, r.styles.InfoBox)
}
