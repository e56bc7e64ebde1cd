package query

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/RobBrazier/bookshelf/internal/model"
)

var ErrUnknownSortKey = errors.New("unknown sort key")

type SortKey string

const (
	SortNone      SortKey = "none"
	SortTitleAsc  SortKey = "title-asc"
	SortTitleDesc SortKey = "title-desc"
	SortDateAsc   SortKey = "date-asc"
	SortDateDesc  SortKey = "date-desc"
)

var SortKeys = []SortKey{SortNone, SortTitleAsc, SortTitleDesc, SortDateAsc, SortDateDesc}

func ParseSortKey(value string) (SortKey, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return SortNone, nil
	}
	key := SortKey(value)
	if !slices.Contains(SortKeys, key) {
		return SortNone, fmt.Errorf("%w: %q", ErrUnknownSortKey, value)
	}
	return key, nil
}

// SentinelDate stands in for missing or unparseable publication dates.
var SentinelDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006",
	time.RFC3339,
}

func ParseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return SentinelDate
}

// Sort returns a stably sorted copy of books.
func Sort(books []model.Book, key SortKey) []model.Book {
	sorted := slices.Clone(books)
	switch key {
	case SortTitleAsc, SortTitleDesc:
		// collators keep internal buffers and are not safe to share
		c := collate.New(language.English)
		slices.SortStableFunc(sorted, func(a, b model.Book) int {
			cmp := c.CompareString(strings.ToLower(a.Title), strings.ToLower(b.Title))
			if key == SortTitleDesc {
				return -cmp
			}
			return cmp
		})
	case SortDateAsc, SortDateDesc:
		slices.SortStableFunc(sorted, func(a, b model.Book) int {
			cmp := ParseDate(a.PublishedDate).Compare(ParseDate(b.PublishedDate))
			if key == SortDateDesc {
				return -cmp
			}
			return cmp
		})
	}
	return sorted
}
