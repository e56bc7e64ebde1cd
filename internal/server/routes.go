package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/RobBrazier/bookshelf/config"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))
	if config.LogRequests() {
		r.Use(httplog.RequestLogger(slog.Default(), &httplog.Options{
			Level:         slog.LevelInfo,
			Schema:        httplog.SchemaOTEL.Concise(true),
			RecoverPanics: true,
		}))
	} else {
		r.Use(middleware.Recoverer)
	}
	r.Use(middleware.Heartbeat("/up"))

	MountStatic(r)
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", s.appRoutes())

	return r
}

// appRoutes sits behind its own router so URLFormat only rewrites the
// routing path of application routes, leaving robots.txt and static files alone.
func (s *Server) appRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.URLFormat)

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(60, 10*time.Second))

		r.Get("/", s.IndexHandler)
		r.Post("/more", s.MoreHandler)
		r.Get("/search", s.SearchHandler)
		r.Post("/search/clear", s.ClearHandler)
		r.Get("/sort", s.SortHandler)
		r.Get("/mode/{mode:[a-zA-Z]+}", s.ModeHandler)
		r.Get("/api/books", s.BooksHandler)
		r.Get("/feed", s.FeedHandler)
	})

	return r
}
