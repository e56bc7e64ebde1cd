package server

import (
	"encoding/json"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RobBrazier/bookshelf/config"
	"github.com/RobBrazier/bookshelf/internal/library"
	"github.com/RobBrazier/bookshelf/internal/model"
	"github.com/RobBrazier/bookshelf/internal/query"
	"github.com/RobBrazier/bookshelf/internal/render"
)

const sessionCookie = "bookshelf_session"

type booksResponse struct {
	Books    []model.Book    `json:"books"`
	Mode     library.Mode    `json:"mode"`
	Sort     query.SortKey   `json:"sort"`
	Term     string          `json:"term,omitempty"`
	Outcome  library.Outcome `json:"outcome"`
	Message  string          `json:"message,omitempty"`
	Total    int             `json:"total"`
	NextPage int             `json:"nextPage"`
}

// session returns the caller's session, starting a new one when the request
// carries no cookie or an id that is not a uuid. The cookie is re-issued on
// every request so it expires together with the server-side session.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*library.Session, error) {
	id := ""
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if parsed, err := uuid.Parse(cookie.Value); err == nil {
			id = parsed.String()
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(config.SessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return s.sessions.Get(r.Context(), id)
}

func (s *Server) sessionFailed(err error, w http.ResponseWriter) {
	log.Error().Err(err).Msg("error loading session")
	http.Error(w, "session unavailable", http.StatusInternalServerError)
}

func status(view library.Render) int {
	switch view.Outcome {
	case library.OutcomeFetchFailed:
		return http.StatusBadGateway
	case library.OutcomeInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusOK
	}
}

func (s *Server) writeComponent(w http.ResponseWriter, r *http.Request, code int, component templ.Component) {
	writeContentType("text/html", w)
	w.WriteHeader(code)
	if err := component.Render(r.Context(), w); err != nil {
		log.Error().Err(err).Msg("error rendering page")
	}
}

// run dispatches cmd against the caller's session and renders the full page.
func (s *Server) run(w http.ResponseWriter, r *http.Request, cmd library.Command, arg string) {
	session, err := s.session(w, r)
	if err != nil {
		s.sessionFailed(err, w)
		return
	}
	view, err := s.dispatcher.Dispatch(r.Context(), session, cmd, arg)
	if err != nil {
		log.Warn().Err(err).Str("session", session.ID).Str("command", string(cmd)).Msg("command failed")
	}
	s.writeComponent(w, r, status(view), render.Page(view))
}

func (s *Server) IndexHandler(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, library.CmdLoad, "")
}

func (s *Server) MoreHandler(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, library.CmdMore, "")
}

// SearchHandler applies q as the session filter. Live requests wait out the
// session's debounce period and only the latest of a burst is answered; the
// rest get 204 No Content. Live answers carry the notice and book display
// only.
func (s *Server) SearchHandler(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if r.URL.Query().Get("live") != "1" {
		s.run(w, r, library.CmdSearch, term)
		return
	}

	session, err := s.session(w, r)
	if err != nil {
		s.sessionFailed(err, w)
		return
	}
	if !session.SearchDebouncer().Wait(r.Context()) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	view, err := s.dispatcher.Dispatch(r.Context(), session, library.CmdSearch, term)
	if err != nil {
		log.Warn().Err(err).Str("session", session.ID).Msg("live search failed")
	}
	s.writeComponent(w, r, status(view), render.Results(view))
}

func (s *Server) ClearHandler(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, library.CmdClear, "")
}

func (s *Server) SortHandler(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, library.CmdSort, r.URL.Query().Get("by"))
}

func (s *Server) ModeHandler(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, library.CmdMode, chi.URLParam(r, "mode"))
}

// BooksHandler returns the current view as JSON without fetching.
func (s *Server) BooksHandler(w http.ResponseWriter, r *http.Request) {
	session, err := s.session(w, r)
	if err != nil {
		s.sessionFailed(err, w)
		return
	}
	view, _ := s.dispatcher.Dispatch(r.Context(), session, library.CmdView, "")
	books := view.Books
	if books == nil {
		books = []model.Book{}
	}

	writeContentType("application/json", w)
	w.WriteHeader(status(view))
	err = json.NewEncoder(w).Encode(booksResponse{
		Books:    books,
		Mode:     view.Mode,
		Sort:     view.Sort,
		Term:     view.Term,
		Outcome:  view.Outcome,
		Message:  view.Message,
		Total:    view.Total,
		NextPage: view.NextPage,
	})
	if err != nil {
		log.Error().Err(err).Msg("error encoding books")
	}
}
