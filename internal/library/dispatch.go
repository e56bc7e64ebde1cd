package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/RobBrazier/bookshelf/internal/metrics"
	"github.com/RobBrazier/bookshelf/internal/query"
)

var ErrUnknownCommand = errors.New("unknown command")

type Command string

const (
	CmdView   Command = "view"
	CmdLoad   Command = "load"
	CmdMore   Command = "more"
	CmdSearch Command = "search"
	CmdClear  Command = "clear"
	CmdSort   Command = "sort"
	CmdMode   Command = "mode"
)

// Handler applies one command to a session and returns what to draw next.
// Fetch failures and bad arguments come back as an error together with a
// Render describing the unchanged state.
type Handler = func(ctx context.Context, s *Session, arg string) (Render, error)

type Dispatcher map[Command]Handler

func NewDispatcher() Dispatcher {
	return Dispatcher{
		CmdView:   handleView,
		CmdLoad:   handleLoad,
		CmdMore:   handleMore,
		CmdSearch: handleSearch,
		CmdClear:  handleClear,
		CmdSort:   handleSort,
		CmdMode:   handleMode,
	}
}

func (d Dispatcher) Commands() []Command {
	return []Command{CmdView, CmdLoad, CmdMore, CmdSearch, CmdClear, CmdSort, CmdMode}
}

func (d Dispatcher) Dispatch(ctx context.Context, s *Session, cmd Command, arg string) (Render, error) {
	handler, ok := d[cmd]
	if !ok {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.view(OutcomeInvalid, fmt.Sprintf("Unknown command %q", cmd)), fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := handler(ctx, s, arg)

	metrics.CommandsTotal.WithLabelValues(string(cmd), string(r.Outcome)).Inc()
	log.Debug().
		Str("session", s.ID).
		Str("command", string(cmd)).
		Str("outcome", string(r.Outcome)).
		Int("books", len(r.Books)).
		Int("total", r.Total).
		Msg("Dispatched command")
	return r, err
}

// ParseCommand splits a line such as "search jane doe" into a command and
// its argument.
func ParseCommand(line string) (Command, string) {
	line = strings.TrimSpace(line)
	name, arg, _ := strings.Cut(line, " ")
	return Command(strings.ToLower(name)), strings.TrimSpace(arg)
}

func handleView(ctx context.Context, s *Session, arg string) (Render, error) {
	return s.view(OutcomeOK, ""), nil
}

func fetchFailed(s *Session, err error) (Render, error) {
	return s.view(OutcomeFetchFailed, fmt.Sprintf("Could not load books: %v", err)), err
}

func handleLoad(ctx context.Context, s *Session, arg string) (Render, error) {
	if s.collection.Len() > 0 {
		return s.view(OutcomeOK, ""), nil
	}
	appended, err := s.pager.FetchNext(ctx)
	if err != nil {
		return fetchFailed(s, err)
	}
	if appended == 0 {
		return s.view(OutcomeNoMorePages, MessageNoMorePages), nil
	}
	return s.view(OutcomeOK, ""), nil
}

func handleMore(ctx context.Context, s *Session, arg string) (Render, error) {
	appended, err := s.pager.FetchNext(ctx)
	if err != nil {
		return fetchFailed(s, err)
	}
	if appended == 0 {
		return s.view(OutcomeNoMorePages, MessageNoMorePages), nil
	}
	return s.view(OutcomeOK, fmt.Sprintf("Loaded %d more books.", appended)), nil
}

func handleSearch(ctx context.Context, s *Session, arg string) (Render, error) {
	matches, err := query.Filter(s.collection.Books(), arg)
	if errors.Is(err, query.ErrEmptyTerm) {
		s.term, s.input = "", ""
		return s.view(OutcomeEmptySearch, MessageEmptySearch), nil
	}
	if len(matches) == 0 {
		s.term, s.input = "", ""
		return s.view(OutcomeNoMatches, MessageNoMatches), nil
	}
	s.term = query.NormalizeTerm(arg)
	s.input = arg
	return s.view(OutcomeOK, ""), nil
}

func handleClear(ctx context.Context, s *Session, arg string) (Render, error) {
	s.term, s.input = "", ""
	return s.view(OutcomeOK, ""), nil
}

func handleSort(ctx context.Context, s *Session, arg string) (Render, error) {
	key, err := query.ParseSortKey(arg)
	if err != nil {
		return s.view(OutcomeInvalid, err.Error()), err
	}
	s.sort = key
	return s.view(OutcomeOK, ""), nil
}

func handleMode(ctx context.Context, s *Session, arg string) (Render, error) {
	m, err := ParseMode(arg)
	if err != nil {
		return s.view(OutcomeInvalid, err.Error()), err
	}
	s.mode = m
	return s.view(OutcomeOK, ""), nil
}
