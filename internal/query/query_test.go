package query

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobBrazier/bookshelf/internal/model"
)

func titles(books []model.Book) []string {
	out := []string{}
	for _, book := range books {
		out = append(out, book.Title)
	}
	return out
}

func sample() []model.Book {
	return []model.Book{
		{Title: "Zeta", Authors: []string{"A"}, PublishedDate: "2001-05-01"},
		{Title: "Alpha", Authors: []string{"B"}, PublishedDate: "1999"},
		{Title: "The Go Programming Language", Authors: []string{"Alan Donovan", "Brian Kernighan"}, PublishedDate: "2015-10"},
		{Title: "", Authors: []string{"Jane Doe"}},
		{Title: "beta", PublishedDate: "not a date"},
	}
}

func TestFilterEmptyTerm(t *testing.T) {
	for _, term := range []string{"", "   ", "\t\n"} {
		got, err := Filter(sample(), term)
		assert.ErrorIs(t, err, ErrEmptyTerm)
		assert.Nil(t, got)
	}
}

func TestFilterMatchesAuthor(t *testing.T) {
	books := []model.Book{{Title: "Untitled", Authors: []string{"Jane Doe"}}}
	got, err := Filter(books, "doe")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, MatchAuthor, Matches(books[0], "doe"))
}

func TestFilterTitleTakesPrecedence(t *testing.T) {
	book := model.Book{Title: "Doe a Deer", Authors: []string{"Jane Doe"}}
	assert.Equal(t, MatchTitle, Matches(book, "doe"))
	assert.Equal(t, MatchNone, Matches(book, "xyz"))
}

func TestFilterIsOrderedSubset(t *testing.T) {
	all := sample()
	got, err := Filter(all, "  A ")
	require.NoError(t, err)

	idx := -1
	for _, book := range got {
		pos := slices.IndexFunc(all, func(b model.Book) bool { return b.Title == book.Title })
		require.GreaterOrEqual(t, pos, 0)
		assert.Greater(t, pos, idx, "order must be preserved")
		idx = pos
		assert.NotEqual(t, MatchNone, Matches(book, "a"))
	}
	assert.Equal(t, []string{"Zeta", "Alpha", "The Go Programming Language", "", "beta"}, titles(got))
}

func TestFilterNoMatches(t *testing.T) {
	got, err := Filter(sample(), "nothing like this")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterMissingTitleNeverMatches(t *testing.T) {
	got, err := Filter([]model.Book{{}}, "x")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSortTitleAscScenario(t *testing.T) {
	books := []model.Book{
		{Title: "Zeta", Authors: []string{"A"}},
		{Title: "Alpha", Authors: []string{"B"}},
	}
	assert.Equal(t, []string{"Alpha", "Zeta"}, titles(Sort(books, SortTitleAsc)))
	// input untouched
	assert.Equal(t, []string{"Zeta", "Alpha"}, titles(books))
}

func TestSortTitleIsCaseInsensitive(t *testing.T) {
	books := []model.Book{{Title: "beta"}, {Title: "Alpha"}, {Title: "Gamma"}}
	assert.Equal(t, []string{"Alpha", "beta", "Gamma"}, titles(Sort(books, SortTitleAsc)))
}

func TestSortTitleDescIsReverseOfAsc(t *testing.T) {
	books := []model.Book{{Title: "mango"}, {Title: "Apple"}, {Title: "kiwi"}, {Title: "Banana"}}
	asc := titles(Sort(books, SortTitleAsc))
	desc := titles(Sort(books, SortTitleDesc))
	slices.Reverse(asc)
	assert.Equal(t, asc, desc)
}

func TestSortIsIdempotent(t *testing.T) {
	for _, key := range SortKeys {
		once := Sort(sample(), key)
		twice := Sort(once, key)
		assert.Equal(t, titles(once), titles(twice), string(key))
	}
}

func TestSortIsStable(t *testing.T) {
	books := []model.Book{
		{ID: "1", Title: "same"},
		{ID: "2", Title: "Same"},
		{ID: "3", Title: "same"},
	}
	var ids []string
	for _, book := range Sort(books, SortTitleAsc) {
		ids = append(ids, book.ID)
	}
	assert.Equal(t, []string{"1", "2", "3"}, ids)
}

func TestSortDate(t *testing.T) {
	books := []model.Book{
		{Title: "new", PublishedDate: "2020-01-02"},
		{Title: "missing"},
		{Title: "old", PublishedDate: "1950"},
		{Title: "mid", PublishedDate: "2001-06"},
	}
	assert.Equal(t, []string{"missing", "old", "mid", "new"}, titles(Sort(books, SortDateAsc)))
	assert.Equal(t, []string{"new", "mid", "old", "missing"}, titles(Sort(books, SortDateDesc)))
}

func TestSortMissingDateUsesSentinel(t *testing.T) {
	books := []model.Book{
		{Title: "sentinel", PublishedDate: "1900-01-01"},
		{Title: "missing"},
		{Title: "garbage", PublishedDate: "someday"},
	}
	// all three compare equal, so stable order is kept
	assert.Equal(t, []string{"sentinel", "missing", "garbage"}, titles(Sort(books, SortDateAsc)))
	assert.Equal(t, SentinelDate, ParseDate(""))
	assert.Equal(t, SentinelDate, ParseDate("someday"))
}

func TestParseDateLayouts(t *testing.T) {
	assert.Equal(t, time.Date(2015, 10, 26, 0, 0, 0, 0, time.UTC), ParseDate("2015-10-26"))
	assert.Equal(t, time.Date(2015, 10, 1, 0, 0, 0, 0, time.UTC), ParseDate("2015-10"))
	assert.Equal(t, time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), ParseDate("2015"))
}

func TestSortNoneKeepsOrder(t *testing.T) {
	assert.Equal(t, titles(sample()), titles(Sort(sample(), SortNone)))
}

func TestParseSortKey(t *testing.T) {
	key, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortNone, key)

	key, err = ParseSortKey(" Title-Desc ")
	require.NoError(t, err)
	assert.Equal(t, SortTitleDesc, key)

	_, err = ParseSortKey("rating")
	assert.ErrorIs(t, err, ErrUnknownSortKey)
}
