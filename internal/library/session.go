package library

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/RobBrazier/bookshelf/internal/model"
	"github.com/RobBrazier/bookshelf/internal/query"
)

var ErrUnknownMode = errors.New("unknown display mode")

type Mode string

const (
	ModeGrid Mode = "grid"
	ModeList Mode = "list"
)

func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeGrid:
		return ModeGrid, nil
	case ModeList:
		return ModeList, nil
	default:
		return ModeGrid, fmt.Errorf("%w: %q", ErrUnknownMode, value)
	}
}

type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeEmptySearch Outcome = "empty_search"
	OutcomeNoMatches   Outcome = "no_matches"
	OutcomeNoMorePages Outcome = "no_more_pages"
	OutcomeFetchFailed Outcome = "fetch_failed"
	OutcomeInvalid     Outcome = "invalid"
)

const (
	MessageEmptySearch = "Please enter something to search for!"
	MessageNoMatches   = "No matching books found!"
	MessageNoMorePages = "No more books to load."
)

// Render tells a presentation layer what to draw: the books in display order
// and the outcome of the command that produced them.
type Render struct {
	Books    []model.Book
	Mode     Mode
	Sort     query.SortKey
	Term     string
	Input    string
	Outcome  Outcome
	Message  string
	Total    int
	NextPage int
}

func (r Render) Filtered() bool {
	return r.Term != ""
}

// Session is the state of one browsing session. Commands that touch it are
// serialised by the Dispatcher.
type Session struct {
	ID      string
	Created time.Time

	mu         sync.Mutex
	collection *model.Collection
	pager      *Pager
	term       string
	input      string
	sort       query.SortKey
	mode       Mode
	search     *Debouncer
}

func NewSession(id string, source Source, pageSize int, debounce time.Duration) *Session {
	collection := model.NewCollection()
	return &Session{
		ID:         id,
		Created:    time.Now(),
		collection: collection,
		pager:      NewPager(source, collection, pageSize),
		sort:       query.SortNone,
		mode:       ModeGrid,
		search:     NewDebouncer(debounce),
	}
}

func (s *Session) Collection() *model.Collection {
	return s.collection
}

// SearchDebouncer throttles live search input for this session.
func (s *Session) SearchDebouncer() *Debouncer {
	return s.search
}

// view derives the display sequence from the full collection. Callers hold mu.
func (s *Session) view(outcome Outcome, message string) Render {
	books := s.collection.Books()
	if s.term != "" {
		if filtered, err := query.Filter(books, s.term); err == nil {
			books = filtered
		}
	}
	return Render{
		Books:    query.Sort(books, s.sort),
		Mode:     s.mode,
		Sort:     s.sort,
		Term:     s.term,
		Input:    s.input,
		Outcome:  outcome,
		Message:  message,
		Total:    s.collection.Len(),
		NextPage: s.collection.NextPage(),
	}
}
