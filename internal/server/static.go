package server

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/RobBrazier/bookshelf/assets"
)

func MountStatic(r chi.Router) {
	staticRoot, err := fs.Sub(assets.Static, "static")
	if err != nil {
		log.Fatal().Err(err).Msg("embedded static assets are missing")
	}

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticRoot)))

	r.Get("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		writeContentType("text/plain", w)
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(assets.RobotsTxt))
	})
}
