//go:build e2e && unix

package main

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const popularBody = `{"items":[
  {"id":"1","volumeInfo":{"title":"Zebra Crossing","authors":["Ann Zed"],"averageRating":2}},
  {"id":"2","volumeInfo":{"title":"apple orchard","categories":["Gardening"],"averageRating":5}},
  {"id":"3","volumeInfo":{"title":"Mango Season","authors":["Mia Mango"]}}
]}`

func TestInitialQueryIsFetched(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	tf.API().Respond("popular books", popularBody)

	require.NoError(t, tf.StartApp())
	require.True(t, tf.Ready(), "Should render the title")

	require.True(t, tf.SeePlain("apple orchard"), "Should show results for the default query")
	require.True(t, tf.SeePlain("Unknown author"), "Should show the missing author placeholder")
	require.True(t, tf.SeePlain("No rating"), "Should show the missing rating placeholder")
	require.True(t, tf.SeePlain(`3 results for "popular books"`))

	require.Equal(t, []string{"popular books"}, tf.API().Queries())
}

func TestTypingRunsDebouncedSearch(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	tf.API().Respond("dune", `{"items":[{"id":"d","volumeInfo":{"title":"Dune","authors":["Frank Herbert"]}}]}`)

	require.NoError(t, tf.StartApp("-query", "dun"))
	require.True(t, tf.Ready())

	require.NoError(t, tf.SendKeys("e"))
	require.True(t, tf.OutputContainsPlain("Frank Herbert", 5*time.Second), "Should show the result for the edited query")

	queries := tf.API().Queries()
	require.Equal(t, "dune", queries[len(queries)-1])
}

func TestEmptyResultShowsNoBooks(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp("-query", "nothing here"))
	require.True(t, tf.Ready())
	require.True(t, tf.SeePlain("No books found."))
}

func TestFailureIsReported(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	tf.API().Fail("broken", http.StatusInternalServerError, `{"error":{"message":"backend down"}}`)

	require.NoError(t, tf.StartApp("-query", "broken"))
	require.True(t, tf.Ready())
	require.True(t, tf.WaitFor(func(s string) bool {
		return strings.Contains(ansiRe.ReplaceAllString(s, ""), "Search failed")
	}, 5*time.Second), "Should show the failure in the status line")
}

func TestQuickSortByRating(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	tf.API().Respond("popular books", popularBody)

	require.NoError(t, tf.StartApp())
	require.True(t, tf.SeePlain("apple orchard"))

	require.NoError(t, tf.FocusResults())
	time.Sleep(50 * time.Millisecond)
	tf.Reset()
	require.NoError(t, tf.SendKeys("r"))
	require.True(t, tf.SeePlain("Sorted by rating (ascending)"))
	require.True(t, tf.SeePlain("Sort: rating"))
}

func TestApplicationExit(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp())
	require.True(t, tf.Ready())

	require.NoError(t, tf.Quit())
	if err := tf.Wait(2 * time.Second); err != nil {
		require.NoError(t, tf.SendCtrlC())
		require.NoError(t, tf.Wait(2*time.Second), "app should exit after ctrl+c")
	}
}
