package query

import (
	"errors"
	"strings"

	"github.com/RobBrazier/bookshelf/internal/model"
)

// ErrEmptyTerm means no search was performed; callers show the whole
// collection instead.
var ErrEmptyTerm = errors.New("empty search term")

type Match int

const (
	MatchNone Match = iota
	MatchTitle
	MatchAuthor
)

func (m Match) String() string {
	switch m {
	case MatchTitle:
		return "title"
	case MatchAuthor:
		return "author"
	default:
		return "none"
	}
}

// NormalizeTerm trims and lowercases a search term.
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// Matches reports which field of the book contains the already normalised
// term. The title wins over the authors.
func Matches(book model.Book, term string) Match {
	if strings.Contains(strings.ToLower(book.Title), term) {
		return MatchTitle
	}
	for _, author := range book.Authors {
		if strings.Contains(strings.ToLower(author), term) {
			return MatchAuthor
		}
	}
	return MatchNone
}

// Filter returns the books whose title or any author contains term, in their
// original order.
func Filter(books []model.Book, term string) ([]model.Book, error) {
	term = NormalizeTerm(term)
	if term == "" {
		return nil, ErrEmptyTerm
	}
	result := []model.Book{}
	for _, book := range books {
		if Matches(book, term) != MatchNone {
			result = append(result, book)
		}
	}
	return result, nil
}
