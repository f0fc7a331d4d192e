package search

import (
	"bookstats/internal/domain"
	"bookstats/internal/logic"
)

// State is an immutable snapshot of the search screen. Transition methods
// return a new State and never write through the receiver's slices.
type State struct {
	Query     string
	Results   []domain.Volume
	Loading   bool
	Key       domain.SortKey
	Direction domain.SortDirection

	// Token is the latest issued request sequence number
	Token uint64
	// LastError is the failure of the latest request, if any
	LastError error
	// Completed is true once any request has finished
	Completed bool
	// Revision increases with every transition applied by a Controller
	Revision uint64

	sortOpts []logic.SortOption
}

// NewState creates the initial state
func NewState(query string, key domain.SortKey, direction domain.SortDirection, opts ...logic.SortOption) State {
	return State{
		Query:     query,
		Results:   []domain.Volume{},
		Key:       key,
		Direction: direction,
		sortOpts:  opts,
	}
}

// OnQueryChange records new query text
func (s State) OnQueryChange(query string) State {
	s.Query = query
	return s
}

// OnFetchStart marks a request as outstanding and makes token the latest
func (s State) OnFetchStart(token uint64) State {
	s.Token = token
	s.Loading = true
	return s
}

// IsLatest reports whether token belongs to the most recent request
func (s State) IsLatest(token uint64) bool {
	return token == s.Token
}

// OnFetchComplete replaces the result set if token is the latest request
func (s State) OnFetchComplete(token uint64, items []domain.Volume) State {
	if !s.IsLatest(token) {
		return s
	}
	results := make([]domain.Volume, len(items))
	copy(results, items)
	s.Results = results
	s.Loading = false
	s.LastError = nil
	s.Completed = true
	return s
}

// OnFetchFailed keeps the previous results if token is the latest request
func (s State) OnFetchFailed(token uint64, err error) State {
	if !s.IsLatest(token) {
		return s
	}
	s.Loading = false
	s.LastError = err
	s.Completed = true
	return s
}

// OnSortChange selects a new sort key and direction
func (s State) OnSortChange(key domain.SortKey, direction domain.SortDirection) State {
	s.Key = key
	s.Direction = direction
	return s
}

// Visible returns the results ordered by the current key and direction
func (s State) Visible() []domain.Volume {
	return logic.Sort(s.Results, s.Key, s.Direction, s.sortOpts...)
}
