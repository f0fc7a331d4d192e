package input

import "bookstats/internal/domain"

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	Index     int
	Total     int
	Text      string
	Key       domain.SortKey
	Direction domain.SortDirection
	ShowInfo  bool
}

// CurrentIndex returns the index of the highlighted card
func (c *ModelContext) CurrentIndex() int {
	return c.Index
}

// TotalItems returns the number of visible cards
func (c *ModelContext) TotalItems() int {
	return c.Total
}

// Query returns the search box text
func (c *ModelContext) Query() string {
	return c.Text
}

// CurrentSort returns the active sort key
func (c *ModelContext) CurrentSort() domain.SortKey {
	return c.Key
}

// CurrentDirection returns the active sort direction
func (c *ModelContext) CurrentDirection() domain.SortDirection {
	return c.Direction
}

// InfoVisible reports whether the detail popup is open
func (c *ModelContext) InfoVisible() bool {
	return c.ShowInfo
}
