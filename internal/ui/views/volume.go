package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"bookstats/internal/domain"
)

const (
	// CardWidth is the inner width of a volume card
	CardWidth = 30
	// CardHeight is the rendered height of a volume card including borders
	CardHeight = 6

	cardGap = 1
)

// VolumeRenderer renders volumes as cards
type VolumeRenderer struct {
	styles *Styles
}

// NewVolumeRenderer creates a new volume renderer
func NewVolumeRenderer(styles *Styles) *VolumeRenderer {
	return &VolumeRenderer{styles: styles}
}

// RenderCard renders a single volume card
func (r *VolumeRenderer) RenderCard(v domain.Volume, isSelected bool) string {
	inner := CardWidth - 2 // padding

	title := truncate(v.Title, inner)
	if title == "" {
		title = "(untitled)"
	}

	var rating string
	if v.Rating() > 0 {
		rating = lipgloss.NewStyle().
			Foreground(lipgloss.Color(RatingColor(v.Rating()))).
			Render(fmt.Sprintf("★ %s", v.RatingLabel()))
	} else {
		rating = r.styles.NoRating.Render(v.RatingLabel())
	}

	lines := []string{
		r.styles.CardTitle.Render(title),
		r.styles.Author.Render(truncate(v.AuthorLine(), inner)),
		r.styles.Category.Render(truncate(v.CategoryLine(), inner)),
		rating,
	}

	style := r.styles.Card
	if isSelected {
		style = r.styles.CardSelected
	}
	return style.Render(strings.Join(lines, "\n"))
}

// GridColumns returns how many cards fit side by side in width
func GridColumns(width int) int {
	if width <= 0 {
		width = 80
	}
	available := width - 4 // main container padding
	cols := (available + cardGap) / (CardWidth + 2 + cardGap)
	if cols < 1 {
		cols = 1
	}
	return cols
}

// RenderGrid lays out cards row by row, showing rows [rowOffset, rowOffset+rows)
func (r *VolumeRenderer) RenderGrid(volumes []domain.Volume, selected, cols, rowOffset, rows int) string {
	if cols < 1 {
		cols = 1
	}
	gap := strings.Repeat(" ", cardGap)

	var out []string
	for row := rowOffset; row < rowOffset+rows; row++ {
		start := row * cols
		if start >= len(volumes) {
			break
		}
		end := start + cols
		if end > len(volumes) {
			end = len(volumes)
		}

		cards := make([]string, 0, 2*(end-start))
		for i := start; i < end; i++ {
			if i > start {
				cards = append(cards, gap)
			}
			cards = append(cards, r.RenderCard(volumes[i], i == selected))
		}
		out = append(out, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return strings.Join(out, "\n")
}

// RenderDetail renders the detail popup body for a volume
func (r *VolumeRenderer) RenderDetail(v domain.Volume) string {
	var b strings.Builder

	b.WriteString(r.styles.Title.Render(v.Title))
	b.WriteString("\n\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(r.styles.Dim.Render(fmt.Sprintf("%-11s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}

	field("Authors", v.AuthorLine())
	field("Categories", v.CategoryLine())
	field("Rating", v.RatingLabel())
	field("Publisher", v.Publisher)
	field("Published", v.PublishedDate)
	field("Link", v.InfoLink)

	if v.Description != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(58).Render(truncate(v.Description, 600)))
	}

	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
