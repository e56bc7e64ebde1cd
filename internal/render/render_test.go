package render

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobBrazier/bookshelf/internal/library"
	"github.com/RobBrazier/bookshelf/internal/model"
	"github.com/RobBrazier/bookshelf/internal/query"
)

func sampleView(mode library.Mode) library.Render {
	return library.Render{
		Books: []model.Book{
			{
				Title:          "Alpha",
				Authors:        []string{"Jane Doe", "John Roe"},
				Publisher:      "Gopher Press",
				PublishedDate:  "2001",
				Thumbnail:      "http://img/alpha.jpg",
				SmallThumbnail: "http://img/alpha-small.jpg",
				InfoLink:       "http://books/alpha",
			},
			{},
			{Title: `<script>alert("x")</script>`},
		},
		Mode:    mode,
		Sort:    query.SortTitleAsc,
		Outcome: library.OutcomeOK,
		Total:   5,
	}
}

func renderDoc(t *testing.T, view library.Render) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Page(view).Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestPageGrid(t *testing.T) {
	doc := renderDoc(t, sampleView(library.ModeGrid))

	assert.Equal(t, 1, doc.Find(".book-display-grid").Length())
	items := doc.Find(".book-grid-item")
	assert.Equal(t, 3, items.Length())
	assert.Equal(t, 0, doc.Find(".book-list-index").Length())

	first := items.First()
	assert.Equal(t, "Alpha", first.Find(".book-grid-title").Text())
	assert.Equal(t, "Authors: Jane Doe, John Roe", first.Find(".book-grid-author").Text())
	href, _ := first.Attr("href")
	assert.Equal(t, "http://books/alpha", href)
	src, _ := first.Find(".book-grid-thumbnail").Attr("src")
	assert.Equal(t, "http://img/alpha.jpg", src)

	missing := items.Eq(1)
	assert.Equal(t, model.NoTitle, missing.Find(".book-grid-title").Text())
	assert.Equal(t, "Publisher: Unknown", missing.Find(".book-grid-publisher").Text())
	assert.Equal(t, "Published Date: Unknown", missing.Find(".book-grid-date").Text())
	title, _ := missing.Attr("title")
	assert.Equal(t, NoInfoMessage, title)
	class, _ := missing.Attr("class")
	assert.Contains(t, class, "cursor-default")
	assert.NotContains(t, class, "cursor-pointer")
	assert.Equal(t, 0, missing.Find("img").Length())
}

func TestPageListNumbersFromOne(t *testing.T) {
	doc := renderDoc(t, sampleView(library.ModeList))

	assert.Equal(t, 1, doc.Find(".book-display-list").Length())
	var numbers []string
	doc.Find(".book-list-index").Each(func(_ int, s *goquery.Selection) {
		numbers = append(numbers, s.Text())
	})
	assert.Equal(t, []string{"1", "2", "3"}, numbers)

	first := doc.Find(".book-list-item").First()
	src, _ := first.Find(".first-child .book-list-thumbnail").Attr("src")
	assert.Equal(t, "http://img/alpha-small.jpg", src)
	assert.Equal(t, "Publisher: Gopher Press", first.Find(".second-child .book-list-publisher").Text())

	// a second render starts counting again
	doc = renderDoc(t, sampleView(library.ModeList))
	assert.Equal(t, "1", doc.Find(".book-list-index").First().Text())
}

func TestPageEscapesContent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Page(sampleView(library.ModeGrid)).Render(context.Background(), &buf))
	assert.NotContains(t, buf.String(), `<script>alert`)
	assert.Contains(t, buf.String(), `&lt;script&gt;`)
}

func TestPageControlsReflectState(t *testing.T) {
	view := sampleView(library.ModeList)
	view.Term = "doe"
	view.Input = "Doe "
	doc := renderDoc(t, view)

	// the box shows what was typed, not the normalised term
	value, _ := doc.Find("#searchbar").Attr("value")
	assert.Equal(t, "Doe ", value)
	selected, _ := doc.Find("#book-sort option[selected]").Attr("value")
	assert.Equal(t, "title-asc", selected)
	assert.Equal(t, 1, doc.Find("#clear-search").Length())
	class, _ := doc.Find("#view-list-button").Attr("class")
	assert.Contains(t, class, "font-bold")
	class, _ = doc.Find("#view-grid-button").Attr("class")
	assert.Equal(t, "px-2 py-1 font-normal", class)
	assert.Equal(t, "Showing 3 of 5 loaded books", doc.Find(".summary").Text())
}

func TestNotice(t *testing.T) {
	view := sampleView(library.ModeGrid)
	view.Outcome = library.OutcomeNoMorePages
	view.Message = library.MessageNoMorePages
	doc := renderDoc(t, view)

	notice := doc.Find(".notice")
	assert.Equal(t, library.MessageNoMorePages, notice.Text())
	outcome, _ := notice.Attr("data-outcome")
	assert.Equal(t, "no_more_pages", outcome)

	class, _ := notice.Attr("class")
	assert.Contains(t, class, "bg-yellow-100")

	view.Message = ""
	doc = renderDoc(t, view)
	assert.Equal(t, 0, doc.Find(".notice").Length())
}

func TestTextList(t *testing.T) {
	view := sampleView(library.ModeList)
	view.Message = library.MessageNoMatches
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, view))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, ">> "+library.MessageNoMatches))
	assert.Contains(t, out, "  1. Alpha")
	assert.Contains(t, out, "  2. No Title")
	assert.Contains(t, out, "Authors: Jane Doe, John Roe")
	assert.Contains(t, out, "Showing 3 of 5 loaded books, sorted by title-asc")
}

func TestTextGrid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sampleView(library.ModeGrid)))
	out := buf.String()

	assert.Contains(t, out, "| Alpha")
	assert.Contains(t, out, "Publisher: Unknown")
	assert.NotContains(t, out, "  1. ")
}

func TestTextGridCutsOnCharacters(t *testing.T) {
	view := library.Render{
		Books: []model.Book{{Title: strings.Repeat("a", 59) + "üü"}},
		Mode:  library.ModeGrid,
		Total: 1,
	}
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, view))

	assert.True(t, utf8.ValidString(buf.String()))
	assert.Contains(t, buf.String(), strings.Repeat("a", 59)+"ü")
	assert.NotContains(t, buf.String(), "üü")
}

func TestResultsOmitsPageChrome(t *testing.T) {
	view := sampleView(library.ModeGrid)
	view.Message = "Loaded 3 more books."
	var buf bytes.Buffer
	require.NoError(t, Results(view).Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	assert.Equal(t, 1, doc.Find(".notice").Length())
	assert.Equal(t, 3, doc.Find(".book-grid-item").Length())
	assert.Equal(t, 0, doc.Find("#searchbar").Length())
	assert.Equal(t, 0, doc.Find("#load-more-books").Length())
}
