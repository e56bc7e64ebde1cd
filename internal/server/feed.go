package server

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/feeds"
	"github.com/rs/zerolog/log"

	"github.com/RobBrazier/bookshelf/internal/feed"
	"github.com/RobBrazier/bookshelf/internal/library"
)

func writeContentType(mediaType string, w http.ResponseWriter) {
	params := map[string]string{
		"charset": "utf-8",
	}
	contentType := mime.FormatMediaType(mediaType, params)
	w.Header().Set("Content-Type", contentType)
}

func determineFormat(r *http.Request) feed.Format {
	format, _ := r.Context().Value(middleware.URLFormatCtxKey).(string)
	return feed.ParseFormat(format)
}

func (s *Server) writeFeed(format feed.Format, out *feeds.Feed, w http.ResponseWriter) {
	w.Header().Set("Last-Modified", out.Created.UTC().Format(http.TimeFormat))
	w.Header().Set("Cache-Control", "private, no-cache")
	writeContentType(feed.ContentType(format), w)
	if err := feed.Write(w, format, out); err != nil {
		log.Error().Err(err).Str("format", string(format)).Msg("error writing feed")
	}
}

func feedLink(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/", scheme, r.Host)
}

// FeedHandler publishes the session's current view as a feed.
func (s *Server) FeedHandler(w http.ResponseWriter, r *http.Request) {
	format := determineFormat(r)
	session, err := s.session(w, r)
	if err != nil {
		s.sessionFailed(err, w)
		return
	}
	log := log.With().Str("session", session.ID).Str("format", string(format)).Logger()

	view, err := s.dispatcher.Dispatch(r.Context(), session, library.CmdView, "")
	if err != nil {
		log.Error().Err(err).Msg("error building view")
	}
	out, err := s.builder.Build(view, feedLink(r))
	if err != nil {
		log.Error().Err(err).Msg("error building feed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	log.Info().Int("entries", len(out.Items)).Msg("Generated feed for session")
	s.writeFeed(format, out, w)
}
