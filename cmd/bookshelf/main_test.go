package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/RobBrazier/bookshelf/config"
	"github.com/RobBrazier/bookshelf/internal/library"
	"github.com/RobBrazier/bookshelf/internal/model"
)

// MockSource is a mock implementation of the library.Source interface
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Page(ctx context.Context, page, size int) ([]model.Book, error) {
	args := m.Called(ctx, page, size)
	books, _ := args.Get(0).([]model.Book)
	return books, args.Error(1)
}

func pagedSource(t *testing.T) *MockSource {
	t.Helper()
	t.Setenv("PAGE_SIZE", "2")
	require.NoError(t, config.LoadConfig())

	source := new(MockSource)
	source.On("Page", mock.Anything, 1, 2).Return([]model.Book{
		{Title: "Zebra Tales", Authors: []string{"Jane Doe"}, PublishedDate: "2001"},
		{Title: "Apple Pie", Authors: []string{"John Roe"}, PublishedDate: "1999"},
	}, nil)
	source.On("Page", mock.Anything, 2, 2).Return([]model.Book{
		{Title: "Mango Season", Authors: []string{"Ann Doe"}, PublishedDate: "2010"},
	}, nil)
	source.On("Page", mock.Anything, 3, 2).Return([]model.Book{}, nil)
	return source
}

func TestListTextSearchAndSort(t *testing.T) {
	source := pagedSource(t)
	var out bytes.Buffer
	err := runList(context.Background(), &out, io.Discard, source, listOptions{
		pages:       3,
		parallelism: 2,
		search:      "doe",
		sort:        "title-asc",
		mode:        "list",
		format:      "text",
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "  1. Mango Season")
	assert.Contains(t, text, "  2. Zebra Tales")
	assert.NotContains(t, text, "Apple Pie")
	assert.Contains(t, text, `Showing 2 of 3 loaded books matching "doe", sorted by title-asc`)
}

func TestListJSON(t *testing.T) {
	source := pagedSource(t)
	var out bytes.Buffer
	err := runList(context.Background(), &out, io.Discard, source, listOptions{
		pages:  2,
		sort:   "date-desc",
		mode:   "grid",
		format: "json",
	})
	require.NoError(t, err)

	var books []model.Book
	require.NoError(t, json.Unmarshal(out.Bytes(), &books))
	require.Len(t, books, 3)
	assert.Equal(t, "Mango Season", books[0].Title)
	assert.Equal(t, "Apple Pie", books[2].Title)
}

func TestListFeed(t *testing.T) {
	source := pagedSource(t)
	var out bytes.Buffer
	err := runList(context.Background(), &out, io.Discard, source, listOptions{
		pages:  1,
		mode:   "grid",
		format: "atom",
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "<feed")
	assert.Contains(t, out.String(), "Zebra Tales")
}

func TestListRejectsBadInput(t *testing.T) {
	source := pagedSource(t)

	err := runList(context.Background(), io.Discard, io.Discard, source, listOptions{pages: 0})
	assert.ErrorIs(t, err, library.ErrInvalidPage)

	err = runList(context.Background(), io.Discard, io.Discard, source, listOptions{pages: 1, mode: "table", format: "text"})
	assert.ErrorIs(t, err, library.ErrUnknownMode)

	err = runList(context.Background(), io.Discard, io.Discard, source, listOptions{pages: 1, mode: "grid", format: "yaml"})
	assert.ErrorContains(t, err, "unknown format")
}

func TestListFailsWhenNothingLoaded(t *testing.T) {
	require.NoError(t, config.LoadConfig())
	source := new(MockSource)
	source.On("Page", mock.Anything, 1, mock.Anything).Return(nil, errors.New("connection refused"))

	err := runList(context.Background(), io.Discard, io.Discard, source, listOptions{pages: 1, mode: "list", format: "text"})
	assert.ErrorContains(t, err, "connection refused")
}

func TestShellExecute(t *testing.T) {
	source := pagedSource(t)
	var out bytes.Buffer
	session := library.NewSession("test", source, 2, 0)
	s := newShell(session, &out)
	ctx := context.Background()

	require.NoError(t, s.run(ctx, library.CmdLoad, ""))
	assert.Contains(t, out.String(), "Showing 2 of 2 loaded books")

	out.Reset()
	quit, err := s.execute(ctx, "more")
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Contains(t, out.String(), ">> Loaded 1 more books.")

	out.Reset()
	_, err = s.execute(ctx, "search   ")
	require.NoError(t, err)
	assert.Contains(t, out.String(), ">> "+library.MessageEmptySearch)

	out.Reset()
	_, err = s.execute(ctx, "frobnicate")
	require.NoError(t, err)
	assert.Contains(t, out.String(), `>> Unknown command "frobnicate"`)

	out.Reset()
	_, err = s.execute(ctx, "help")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "search <text>")

	quit, err = s.execute(ctx, "quit")
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestShellComplete(t *testing.T) {
	s := newShell(library.NewSession("test", new(MockSource), 2, 0), io.Discard)

	assert.Equal(t, []string{"search", "sort"}, s.complete("s"))
	assert.Equal(t, []string{"mode", "more"}, s.complete("mo"))
	assert.Equal(t, []string{"sort title-asc", "sort title-desc"}, s.complete("sort t"))
	assert.Equal(t, []string{"mode list"}, s.complete("mode l"))
	assert.Empty(t, s.complete("search x"))
}

