package feed

import (
	"embed"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/gorilla/feeds"

	"github.com/RobBrazier/bookshelf/internal/library"
	"github.com/RobBrazier/bookshelf/internal/model"
	"github.com/RobBrazier/bookshelf/internal/query"
	"github.com/RobBrazier/bookshelf/internal/textfmt"
)

//go:embed templates/*
var fs embed.FS

type Builder interface {
	Build(view library.Render, link string) (*feeds.Feed, error)
}

type builder struct {
	templates *template.Template
	now       func() time.Time
}

func NewBuilder() Builder {
	return &builder{
		templates: template.Must(
			template.New("base").Funcs(textfmt.FuncMap()).ParseFS(fs, "templates/*.tmpl"),
		),
		now: time.Now,
	}
}

func (b *builder) describe(view library.Render) string {
	var desc strings.Builder
	desc.WriteString(fmt.Sprintf("%d of %d loaded books", len(view.Books), view.Total))
	if view.Filtered() {
		desc.WriteString(fmt.Sprintf(" matching %q", view.Term))
	}
	if view.Sort != "" && view.Sort != query.SortNone {
		desc.WriteString(fmt.Sprintf(", sorted by %s", view.Sort))
	}
	return desc.String()
}

func (b *builder) renderContent(book model.Book) (string, error) {
	var content strings.Builder
	if err := b.templates.ExecuteTemplate(&content, "content.tmpl", book); err != nil {
		return "", err
	}
	return content.String(), nil
}

// Build turns a view into a feed. Items keep the order of the view.
func (b *builder) Build(view library.Render, link string) (*feeds.Feed, error) {
	created := b.now()
	feed := &feeds.Feed{
		Title:       "Bookshelf",
		Link:        &feeds.Link{Href: link},
		Description: b.describe(view),
		Created:     created,
		Updated:     created,
	}
	for i, book := range view.Books {
		content, err := b.renderContent(book)
		if err != nil {
			return nil, fmt.Errorf("rendering %q: %w", book.Title, err)
		}
		id := book.ID
		if id == "" {
			id = fmt.Sprintf("%s#%d", link, i+1)
		}
		var enclosure *feeds.Enclosure
		if book.Thumbnail != "" {
			enclosure = &feeds.Enclosure{
				Url:    book.Thumbnail,
				Type:   "image/jpeg",
				Length: "0",
			}
		}
		item := &feeds.Item{
			Id:          id,
			Title:       book.DisplayTitle(),
			Author:      &feeds.Author{Name: book.DisplayAuthors()},
			Description: book.Description,
			Content:     content,
			Created:     published(book, created),
			Enclosure:   enclosure,
		}
		if book.HasInfoLink() {
			item.Link = &feeds.Link{Href: book.InfoLink}
		} else {
			item.Link = &feeds.Link{Href: link}
		}
		feed.Add(item)
	}
	return feed, nil
}

// published is the book's publication date, or fallback when the book has
// none that parses.
func published(book model.Book, fallback time.Time) time.Time {
	date := query.ParseDate(book.PublishedDate)
	if date.Equal(query.SentinelDate) {
		return fallback
	}
	return date
}

// Write serialises feed in the requested format.
func Write(w io.Writer, format Format, feed *feeds.Feed) error {
	switch format {
	case FORMAT_ATOM:
		return feed.WriteAtom(w)
	case FORMAT_JSON:
		return feed.WriteJSON(w)
	default:
		return feed.WriteRss(w)
	}
}

func ContentType(format Format) string {
	switch format {
	case FORMAT_ATOM:
		return "application/atom+xml"
	case FORMAT_JSON:
		return "application/json"
	default:
		return "application/rss+xml"
	}
}
