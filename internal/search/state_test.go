package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstats/internal/domain"
)

func vol(id, title string) domain.Volume {
	return domain.Volume{ID: id, Title: title}
}

func TestNewStateStartsEmpty(t *testing.T) {
	s := NewState("popular books", domain.SortByTitle, domain.Ascending)

	assert.Equal(t, "popular books", s.Query)
	assert.NotNil(t, s.Results)
	assert.Empty(t, s.Results)
	assert.False(t, s.Loading)
	assert.False(t, s.Completed)
	assert.Nil(t, s.LastError)
}

func TestFetchLifecycle(t *testing.T) {
	s := NewState("", domain.SortByTitle, domain.Ascending)

	s = s.OnQueryChange("dune").OnFetchStart(1)
	assert.True(t, s.Loading)
	assert.Equal(t, "dune", s.Query)

	s = s.OnFetchComplete(1, []domain.Volume{vol("1", "Dune")})
	assert.False(t, s.Loading)
	assert.True(t, s.Completed)
	require.Len(t, s.Results, 1)
	assert.Equal(t, "Dune", s.Results[0].Title)
}

func TestStaleCompletionIgnored(t *testing.T) {
	s := NewState("", domain.SortByTitle, domain.Ascending)
	s = s.OnFetchStart(1).OnFetchStart(2)

	stale := s.OnFetchComplete(1, []domain.Volume{vol("a", "From A")})
	assert.Equal(t, s, stale)
	assert.True(t, stale.Loading)

	failed := s.OnFetchFailed(1, errors.New("boom"))
	assert.Equal(t, s, failed)
}

func TestEmptyPayloadClearsResults(t *testing.T) {
	s := NewState("", domain.SortByTitle, domain.Ascending)
	s = s.OnFetchStart(1).OnFetchComplete(1, []domain.Volume{vol("1", "Dune")})

	s = s.OnQueryChange("dune").OnFetchStart(2).OnFetchComplete(2, nil)
	assert.NotNil(t, s.Results)
	assert.Empty(t, s.Results)
	assert.False(t, s.Loading)
}

func TestFailureKeepsResults(t *testing.T) {
	s := NewState("", domain.SortByTitle, domain.Ascending)
	s = s.OnFetchStart(1).OnFetchComplete(1, []domain.Volume{vol("1", "Dune")})

	boom := errors.New("boom")
	s = s.OnFetchStart(2).OnFetchFailed(2, boom)
	assert.False(t, s.Loading)
	assert.Equal(t, boom, s.LastError)
	require.Len(t, s.Results, 1)

	s = s.OnFetchStart(3).OnFetchComplete(3, []domain.Volume{vol("2", "Emma")})
	assert.Nil(t, s.LastError)
}

func TestTransitionsDoNotAlias(t *testing.T) {
	items := []domain.Volume{vol("1", "Dune")}
	s := NewState("", domain.SortByTitle, domain.Ascending).OnFetchStart(1).OnFetchComplete(1, items)

	items[0].Title = "changed"
	assert.Equal(t, "Dune", s.Results[0].Title)
}

func TestVisibleFollowsSort(t *testing.T) {
	s := NewState("", domain.SortByTitle, domain.Ascending).
		OnFetchStart(1).
		OnFetchComplete(1, []domain.Volume{vol("1", "zebra"), vol("2", "Apple"), vol("3", "mango")})

	titles := func(vs []domain.Volume) []string {
		out := make([]string, 0, len(vs))
		for _, v := range vs {
			out = append(out, v.Title)
		}
		return out
	}

	assert.Equal(t, []string{"Apple", "mango", "zebra"}, titles(s.Visible()))

	desc := s.OnSortChange(domain.SortByTitle, domain.Descending)
	assert.Equal(t, []string{"zebra", "mango", "Apple"}, titles(desc.Visible()))
	assert.Equal(t, []string{"zebra", "Apple", "mango"}, titles(desc.Results))
}
