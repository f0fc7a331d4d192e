package logic

import (
	"slices"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"bookstats/internal/domain"
)

// SortKeys lists the sort keys in the order the sort selector cycles through
func SortKeys() []domain.SortKey {
	return []domain.SortKey{domain.SortByTitle, domain.SortByRating, domain.SortByAuthor}
}

type sortOptions struct {
	tag          language.Tag
	legacyRating bool
}

// SortOption configures Sort
type SortOption func(*sortOptions)

// WithLocale selects the collation locale for title and author ordering
func WithLocale(tag language.Tag) SortOption {
	return func(o *sortOptions) {
		o.tag = tag
	}
}

// WithLegacyRatingOrder makes rating order highest-first before the direction
// is applied, so "ascending" lists the best rated volumes first.
func WithLegacyRatingOrder(enabled bool) SortOption {
	return func(o *sortOptions) {
		o.legacyRating = enabled
	}
}

// ParseLocale parses a BCP 47 tag, falling back to English
func ParseLocale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return tag
}

// Sort returns a new slice ordered by key and direction. The input is never
// modified. Equal keys keep their input order in ascending results; descending
// results are the exact reverse of the ascending ones.
func Sort(volumes []domain.Volume, key domain.SortKey, direction domain.SortDirection, opts ...SortOption) []domain.Volume {
	o := sortOptions{tag: language.English}
	for _, opt := range opts {
		opt(&o)
	}

	sorted := make([]domain.Volume, len(volumes))
	copy(sorted, volumes)

	switch key {
	case domain.SortByRating:
		if o.legacyRating {
			sort.SliceStable(sorted, func(i, j int) bool {
				return sorted[i].Rating() > sorted[j].Rating()
			})
		} else {
			sort.SliceStable(sorted, func(i, j int) bool {
				return sorted[i].Rating() < sorted[j].Rating()
			})
		}

	case domain.SortByAuthor:
		// Collator keeps internal buffers, so one per call
		c := collate.New(o.tag)
		sort.SliceStable(sorted, func(i, j int) bool {
			return c.CompareString(sorted[i].FirstAuthor(), sorted[j].FirstAuthor()) < 0
		})

	default:
		c := collate.New(o.tag)
		sort.SliceStable(sorted, func(i, j int) bool {
			return c.CompareString(sorted[i].Title, sorted[j].Title) < 0
		})
	}

	if direction == domain.Descending {
		slices.Reverse(sorted)
	}

	return sorted
}

// NextSortKey cycles to the key after the given one
func NextSortKey(key domain.SortKey) domain.SortKey {
	keys := SortKeys()
	for i, k := range keys {
		if k == key {
			return keys[(i+1)%len(keys)]
		}
	}
	return keys[0]
}
