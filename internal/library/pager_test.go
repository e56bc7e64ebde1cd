package library

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/RobBrazier/bookshelf/internal/freeapi"
	"github.com/RobBrazier/bookshelf/internal/model"
)

// MockSource is a mock implementation of the Source interface
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Page(ctx context.Context, page, size int) ([]model.Book, error) {
	args := m.Called(ctx, page, size)
	books, _ := args.Get(0).([]model.Book)
	return books, args.Error(1)
}

func pageOf(page, n int) []model.Book {
	var out []model.Book
	for i := range n {
		out = append(out, model.Book{Title: fmt.Sprintf("p%d-%d", page, i)})
	}
	return out
}

func titles(books []model.Book) []string {
	out := []string{}
	for _, book := range books {
		out = append(out, book.Title)
	}
	return out
}

func TestFetchPageAppends(t *testing.T) {
	source := new(MockSource)
	source.On("Page", mock.Anything, 1, 10).Return(pageOf(1, 2), nil)
	collection := model.NewCollection()
	pager := NewPager(source, collection, 10)

	appended, err := pager.FetchPage(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, appended)
	assert.Equal(t, 2, collection.Len())
	assert.Equal(t, 2, pager.NextPage())
	source.AssertExpectations(t)
}

func TestFetchPageBadStatusLeavesCollection(t *testing.T) {
	source := new(MockSource)
	source.On("Page", mock.Anything, 1, 10).Return(pageOf(1, 3), nil)
	source.On("Page", mock.Anything, 2, 10).Return(nil, &freeapi.StatusError{Code: 500})
	collection := model.NewCollection()
	pager := NewPager(source, collection, 10)

	_, err := pager.FetchPage(context.Background(), 1, 10)
	require.NoError(t, err)

	appended, err := pager.FetchPage(context.Background(), 2, 10)
	assert.Zero(t, appended)
	assert.Equal(t, 500, freeapi.StatusCode(err))
	assert.Equal(t, 3, collection.Len())
	assert.Equal(t, 2, pager.NextPage())
}

func TestFetchPageMalformedPropagates(t *testing.T) {
	source := new(MockSource)
	source.On("Page", mock.Anything, 1, 10).Return(nil, freeapi.ErrMalformedResponse)
	pager := NewPager(source, model.NewCollection(), 10)

	_, err := pager.FetchPage(context.Background(), 1, 10)
	assert.ErrorIs(t, err, freeapi.ErrMalformedResponse)
}

func TestFetchPageEmptyIsTerminal(t *testing.T) {
	source := new(MockSource)
	source.On("Page", mock.Anything, 3, 10).Return([]model.Book{}, nil)
	collection := model.NewCollection()
	collection.AppendPage(1, pageOf(1, 10))
	collection.AppendPage(2, pageOf(2, 10))
	pager := NewPager(source, collection, 10)

	appended, err := pager.FetchNext(context.Background())
	require.NoError(t, err)
	assert.Zero(t, appended)
	assert.Equal(t, 20, collection.Len())
	assert.Equal(t, 3, pager.NextPage())
}

func TestFetchPageCountsFlushedPages(t *testing.T) {
	source := new(MockSource)
	source.On("Page", mock.Anything, 2, 2).Return(pageOf(2, 2), nil)
	collection := model.NewCollection()
	collection.AppendPage(1, pageOf(1, 2))
	collection.AppendPage(3, pageOf(3, 2))
	pager := NewPager(source, collection, 2)

	appended, err := pager.FetchNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, appended)
	assert.Equal(t, []string{"p1-0", "p1-1", "p2-0", "p2-1", "p3-0", "p3-1"}, titles(collection.Books()))
	assert.Equal(t, 4, pager.NextPage())
}

func TestFetchPageRejectsInvalidInput(t *testing.T) {
	pager := NewPager(new(MockSource), model.NewCollection(), 10)
	_, err := pager.FetchPage(context.Background(), 0, 10)
	assert.ErrorIs(t, err, ErrInvalidPage)
	_, err = pager.FetchPage(context.Background(), 1, 0)
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestFetchPagesKeepsPageOrder(t *testing.T) {
	source := new(MockSource)
	for page := 1; page <= 4; page++ {
		source.On("Page", mock.Anything, page, 2).Return(pageOf(page, 2), nil)
	}
	collection := model.NewCollection()
	pager := NewPager(source, collection, 2, WithParallelism(4))

	var calls atomic.Int32
	appended, err := pager.FetchPages(context.Background(), 1, 4, func() { calls.Add(1) })
	require.NoError(t, err)
	assert.Equal(t, 8, appended)
	assert.Equal(t, int32(4), calls.Load())
	assert.Equal(t, []string{
		"p1-0", "p1-1", "p2-0", "p2-1", "p3-0", "p3-1", "p4-0", "p4-1",
	}, titles(collection.Books()))
}

func TestFetchPagesStopsAtEmptyPage(t *testing.T) {
	source := new(MockSource)
	source.On("Page", mock.Anything, 1, 2).Return(pageOf(1, 2), nil)
	source.On("Page", mock.Anything, 2, 2).Return([]model.Book{}, nil)
	source.On("Page", mock.Anything, 3, 2).Return(pageOf(3, 2), nil)
	collection := model.NewCollection()
	pager := NewPager(source, collection, 2)

	appended, err := pager.FetchPages(context.Background(), 1, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, appended)
	assert.Equal(t, 2, pager.NextPage())
}

func TestFetchPagesHoldsPagesAfterFailure(t *testing.T) {
	source := new(MockSource)
	source.On("Page", mock.Anything, 1, 2).Return(pageOf(1, 2), nil)
	source.On("Page", mock.Anything, 2, 2).Return(nil, errors.New("boom")).Once()
	source.On("Page", mock.Anything, 3, 2).Return(pageOf(3, 2), nil)
	collection := model.NewCollection()
	pager := NewPager(source, collection, 2)

	appended, err := pager.FetchPages(context.Background(), 1, 3, nil)
	assert.ErrorContains(t, err, "page 2")
	assert.Equal(t, 2, appended)
	assert.Equal(t, 1, collection.Pending())

	// once page 2 arrives the buffered page 3 follows it
	source.On("Page", mock.Anything, 2, 2).Return(pageOf(2, 2), nil)
	_, err = pager.FetchNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"p1-0", "p1-1", "p2-0", "p2-1", "p3-0", "p3-1"}, titles(collection.Books()))
	assert.Equal(t, 4, pager.NextPage())
}
