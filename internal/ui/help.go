package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

type helpEntry struct {
	keys string
	desc string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

var helpSections = []helpSection{
	{"Search", []helpEntry{
		{"type", "Edit the query; results refresh after a short pause"},
		{"enter", "Search now and move to the results"},
		{"tab/esc", "Switch between search box and results"},
		{"R", "Repeat the current search"},
	}},
	{"Navigation", []helpEntry{
		{"←↑↓→, hjkl", "Move between books"},
		{"PgUp/PgDn", "Page up/down"},
		{"gg/G", "Go to first/last book"},
		{"i, enter", "Show book details"},
	}},
	{"Sorting", []helpEntry{
		{"s", "Open the sort selector"},
		{"t", "Sort by title"},
		{"a", "Sort by first author"},
		{"r", "Sort by average rating"},
		{"d", "Flip ascending/descending"},
	}},
	{"Other", []helpEntry{
		{"?", "Show this help"},
		{"q, ctrl+c", "Quit"},
	}},
}

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	titleStyle   lipgloss.Style
	sectionStyle lipgloss.Style
	keyStyle     lipgloss.Style
	descStyle    lipgloss.Style
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		sectionStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginTop(1),
		keyStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		descStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
}

// RenderHelpContent generates help content with colors for the pager
func (r *HelpRenderer) RenderHelpContent() string {
	var help strings.Builder

	help.WriteString(r.titleStyle.Render("bookstats Help"))
	help.WriteString("\n")

	for _, section := range helpSections {
		help.WriteString(r.sectionStyle.Render(section.title))
		help.WriteString("\n")
		for _, e := range section.entries {
			key := r.keyStyle.Render(fmt.Sprintf("%-12s", e.keys))
			help.WriteString(fmt.Sprintf("  %s %s\n", key, r.descStyle.Render(e.desc)))
		}
	}

	return strings.TrimRight(help.String(), "\n")
}

// HelpOps handles help operations
type HelpOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewHelpOps creates a new help operations instance
func NewHelpOps(program *tea.Program) *HelpOps {
	return &HelpOps{
		program: program,
	}
}

// ShowHelpInPager shows help content using ov pager
func (h *HelpOps) ShowHelpInPager(helpContent string) error {
	if h.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}

	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(helpContent))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
