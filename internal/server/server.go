package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/RobBrazier/bookshelf/config"
	"github.com/RobBrazier/bookshelf/internal/cache"
	"github.com/RobBrazier/bookshelf/internal/feed"
	"github.com/RobBrazier/bookshelf/internal/freeapi"
	"github.com/RobBrazier/bookshelf/internal/library"
)

type Server struct {
	port       int
	sessions   *cache.Sessions
	dispatcher library.Dispatcher
	builder    feed.Builder
}

// New wires a server around a book source. Sessions created by the server
// share source, so callers usually hand in a cached one.
func New(port int, source library.Source, builder feed.Builder) *Server {
	pageSize := config.PageSize()
	debounce := config.SearchDebounce()
	sessions := cache.NewSessions(config.SessionTTL(), func(id string) *library.Session {
		return library.NewSession(id, source, pageSize, debounce)
	})
	return &Server{
		port:       port,
		sessions:   sessions,
		dispatcher: library.NewDispatcher(),
		builder:    builder,
	}
}

func NewServer() (*http.Server, error) {
	client := freeapi.NewClient(
		config.BooksURL(),
		freeapi.WithRetries(config.FetchRetries()),
		freeapi.WithTimeout(config.FetchTimeout()),
		freeapi.WithRateLimit(config.FetchRPS()),
	)
	source := cache.NewPageSource(client, config.PageCacheTTL())
	s := New(config.Port(), source, feed.NewBuilder())

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(s.sessions.Sweep),
	)
	if err != nil {
		return nil, fmt.Errorf("scheduling session sweep: %w", err)
	}
	scheduler.Start()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	server.RegisterOnShutdown(func() {
		if err := scheduler.Shutdown(); err != nil {
			log.Error().Err(err).Msg("error stopping scheduler")
		}
	})

	log.Info().
		Str("books_url", config.BooksURL()).
		Int("page_size", config.PageSize()).
		Msg("Configured server")
	return server, nil
}
