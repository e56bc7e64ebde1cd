package model

import "strings"

type Book struct {
	ID             string   `json:"id,omitempty"`
	Title          string   `json:"title"`
	Subtitle       string   `json:"subtitle,omitempty"`
	Authors        []string `json:"authors"`
	Publisher      string   `json:"publisher,omitempty"`
	PublishedDate  string   `json:"publishedDate,omitempty"`
	Description    string   `json:"description,omitempty"`
	PageCount      int      `json:"pageCount,omitempty"`
	Categories     []string `json:"categories,omitempty"`
	Thumbnail      string   `json:"thumbnail,omitempty"`
	SmallThumbnail string   `json:"smallThumbnail,omitempty"`
	InfoLink       string   `json:"infoLink,omitempty"`
}

const (
	NoTitle = "No Title"
	Unknown = "Unknown"
)

func (b Book) DisplayTitle() string {
	if b.Title == "" {
		return NoTitle
	}
	return b.Title
}

func (b Book) DisplayAuthors() string {
	if len(b.Authors) == 0 {
		return Unknown
	}
	return strings.Join(b.Authors, ", ")
}

func (b Book) DisplayPublisher() string {
	if b.Publisher == "" {
		return Unknown
	}
	return b.Publisher
}

func (b Book) DisplayDate() string {
	if b.PublishedDate == "" {
		return Unknown
	}
	return b.PublishedDate
}

func (b Book) HasInfoLink() bool {
	return b.InfoLink != ""
}
