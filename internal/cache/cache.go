package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/maypok86/otter/v2"
	"github.com/rs/zerolog/log"

	"github.com/RobBrazier/bookshelf/internal/library"
	"github.com/RobBrazier/bookshelf/internal/metrics"
	"github.com/RobBrazier/bookshelf/internal/model"
)

type PageLoaderFunc = otter.LoaderFunc[string, []model.Book]
type SessionLoaderFunc = otter.LoaderFunc[string, *library.Session]

func newPageCache(ttl time.Duration) *otter.Cache[string, []model.Book] {
	return otter.Must(&otter.Options[string, []model.Book]{
		MaximumSize:      1_000,
		ExpiryCalculator: otter.ExpiryCreating[string, []model.Book](ttl),
	})
}

func newSessionCache(ttl time.Duration) *otter.Cache[string, *library.Session] {
	return otter.Must(&otter.Options[string, *library.Session]{
		MaximumSize:      10_000,
		ExpiryCalculator: otter.ExpiryAccessing[string, *library.Session](ttl),
	})
}

// PageSource shares recently fetched pages between sessions. Failed and
// empty pages are never kept.
type PageSource struct {
	source library.Source
	pages  *otter.Cache[string, []model.Book]
}

func NewPageSource(source library.Source, ttl time.Duration) *PageSource {
	return &PageSource{
		source: source,
		pages:  newPageCache(ttl),
	}
}

func (p *PageSource) Page(ctx context.Context, page, size int) ([]model.Book, error) {
	loaded := false
	loader := PageLoaderFunc(func(ctx context.Context, key string) ([]model.Book, error) {
		loaded = true
		return p.source.Page(ctx, page, size)
	})
	key := fmt.Sprintf("page/%d/%d", page, size)
	books, err := p.pages.Get(ctx, key, loader)
	if err != nil {
		return nil, err
	}
	if loaded {
		metrics.PageCacheTotal.WithLabelValues("miss").Inc()
	} else {
		metrics.PageCacheTotal.WithLabelValues("hit").Inc()
	}
	if len(books) == 0 {
		p.pages.Invalidate(key)
	}
	return books, nil
}

// Sessions holds browsing sessions in memory until they go unused for the
// configured TTL.
type Sessions struct {
	cache   *otter.Cache[string, *library.Session]
	factory func(id string) *library.Session
}

func NewSessions(ttl time.Duration, factory func(id string) *library.Session) *Sessions {
	return &Sessions{
		cache:   newSessionCache(ttl),
		factory: factory,
	}
}

// Get returns the session for id, creating it on first use.
func (s *Sessions) Get(ctx context.Context, id string) (*library.Session, error) {
	loader := SessionLoaderFunc(func(ctx context.Context, key string) (*library.Session, error) {
		log.Info().Str("session", key).Msg("Starting session")
		return s.factory(key), nil
	})
	return s.cache.Get(ctx, id, loader)
}

func (s *Sessions) Lookup(id string) (*library.Session, bool) {
	return s.cache.GetIfPresent(id)
}

func (s *Sessions) Count() int {
	return s.cache.EstimatedSize()
}

// Sweep runs pending expiry work and publishes the live session count.
func (s *Sessions) Sweep() {
	s.cache.CleanUp()
	count := s.Count()
	metrics.SessionsActive.Set(float64(count))
	log.Debug().Int("sessions", count).Msg("Swept session cache")
}
