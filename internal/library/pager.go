package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/RobBrazier/bookshelf/internal/model"
)

var ErrInvalidPage = errors.New("page and size must be positive")

// Source returns one page of books from the remote catalogue.
type Source interface {
	Page(ctx context.Context, page, size int) ([]model.Book, error)
}

// Pager pulls pages from a Source into a Collection.
type Pager struct {
	source      Source
	collection  *model.Collection
	size        int
	parallelism int
}

type PagerOption = func(*Pager)

func WithParallelism(n int) PagerOption {
	return func(p *Pager) {
		p.parallelism = max(n, 1)
	}
}

func NewPager(source Source, collection *model.Collection, size int, options ...PagerOption) *Pager {
	p := &Pager{
		source:      source,
		collection:  collection,
		size:        size,
		parallelism: 4,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *Pager) NextPage() int {
	return p.collection.NextPage()
}

// FetchPage requests a single page and appends it on success, returning how
// many books the collection grew by. Nothing is appended when the request
// fails.
func (p *Pager) FetchPage(ctx context.Context, page, size int) (int, error) {
	if page < 1 || size < 1 {
		return 0, fmt.Errorf("%w: page=%d size=%d", ErrInvalidPage, page, size)
	}
	books, err := p.source.Page(ctx, page, size)
	if err != nil {
		return 0, fmt.Errorf("fetching page %d: %w", page, err)
	}
	appended := p.collection.AppendPage(page, books)
	log.Debug().
		Int("page", page).
		Int("received", len(books)).
		Int("appended", appended).
		Int("total", p.collection.Len()).
		Msg("Appended page")
	return appended, nil
}

// FetchNext requests the page following the last one appended.
func (p *Pager) FetchNext(ctx context.Context) (int, error) {
	return p.FetchPage(ctx, p.NextPage(), p.size)
}

// FetchPages fetches count pages starting at from concurrently and appends
// them in page order. It stops early at the first empty page and returns the
// number of books appended alongside the first error seen.
func (p *Pager) FetchPages(ctx context.Context, from, count int, progress func()) (int, error) {
	if from < 1 || count < 1 {
		return 0, fmt.Errorf("%w: from=%d count=%d", ErrInvalidPage, from, count)
	}
	results := make([][]model.Book, count)
	errs := make([]error, count)

	var g errgroup.Group
	g.SetLimit(p.parallelism)
	for i := range count {
		page := from + i
		g.Go(func() error {
			books, err := p.source.Page(ctx, page, p.size)
			results[i], errs[i] = books, err
			if progress != nil {
				progress()
			}
			return nil
		})
	}
	g.Wait()

	before := p.collection.Len()
	var firstErr error
	for i := range count {
		page := from + i
		if err := errs[i]; err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("fetching page %d: %w", page, err)
			}
			continue
		}
		if len(results[i]) == 0 {
			break
		}
		p.collection.AppendPage(page, results[i])
	}
	appended := p.collection.Len() - before
	log.Info().Int("from", from).Int("count", count).Int("appended", appended).Msg("Fetched pages")
	return appended, firstErr
}
