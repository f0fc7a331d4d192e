package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	SearchBox     lipgloss.Style
	SearchFocused lipgloss.Style
	InfoBox       lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Scroll        lipgloss.Style
	Highlight     lipgloss.Style
	Card          lipgloss.Style
	CardSelected  lipgloss.Style
	CardTitle     lipgloss.Style
	Author        lipgloss.Style
	Category      lipgloss.Style
	Rating        lipgloss.Style
	NoRating      lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
	Sort          lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		SearchBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		SearchFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1),
		InfoBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1, 2).
			Width(64).
			BorderForeground(lipgloss.Color("99")),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Scroll:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1).
			Width(CardWidth),
		CardSelected: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Width(CardWidth),
		CardTitle:     lipgloss.NewStyle().Bold(true),
		Author:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Category:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Rating:        lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		NoRating:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Sort:          lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

// RatingColor returns a color for an average rating
func RatingColor(rating float64) string {
	switch {
	case rating >= 4:
		return "78" // green
	case rating >= 3:
		return "214" // yellow
	default:
		return "203" // red
	}
}
