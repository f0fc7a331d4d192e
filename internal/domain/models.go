package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Volume represents one book record returned by the lookup service
type Volume struct {
	ID            string
	Title         string
	Authors       []string
	Categories    []string
	AverageRating *float64 // nil when the service has no rating
	Thumbnail     string

	// Detail fields, shown in the info popup only
	Description   string
	Publisher     string
	PublishedDate string
	InfoLink      string
}

// FirstAuthor returns the first listed author, or "" when there are none
func (v Volume) FirstAuthor() string {
	if len(v.Authors) == 0 {
		return ""
	}
	return v.Authors[0]
}

// Rating returns the average rating, treating a missing rating as 0
func (v Volume) Rating() float64 {
	if v.AverageRating == nil {
		return 0
	}
	return *v.AverageRating
}

// AuthorLine joins the authors for display
func (v Volume) AuthorLine() string {
	if len(v.Authors) == 0 {
		return "Unknown author"
	}
	return strings.Join(v.Authors, ", ")
}

// CategoryLine joins the categories for display
func (v Volume) CategoryLine() string {
	if len(v.Categories) == 0 {
		return "Unknown"
	}
	return strings.Join(v.Categories, ", ")
}

// RatingLabel formats the rating for display
func (v Volume) RatingLabel() string {
	if v.AverageRating == nil || *v.AverageRating == 0 {
		return "No rating"
	}
	return strconv.FormatFloat(*v.AverageRating, 'f', -1, 64)
}

// SortKey is the field used to order displayed volumes
type SortKey int

const (
	SortByTitle SortKey = iota
	SortByRating
	SortByAuthor
)

func (k SortKey) String() string {
	switch k {
	case SortByTitle:
		return "title"
	case SortByRating:
		return "rating"
	case SortByAuthor:
		return "author"
	default:
		return "unknown"
	}
}

// ParseSortKey parses "title", "rating" or "author"
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "title", "":
		return SortByTitle, nil
	case "rating":
		return SortByRating, nil
	case "author":
		return SortByAuthor, nil
	default:
		return SortByTitle, fmt.Errorf("unknown sort key: %q", s)
	}
}

// SortDirection is ascending or descending
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

func (d SortDirection) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// Reverse returns the opposite direction
func (d SortDirection) Reverse() SortDirection {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// ParseSortDirection accepts "asc"/"ascending" and "desc"/"descending"
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending", "":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("unknown sort direction: %q", s)
	}
}
