package freeapi

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// PageResponse is the envelope returned by the public books endpoint. Only
// data.data is required; the rest is informational.
type PageResponse struct {
	StatusCode int      `json:"statusCode"`
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	Data       PageData `json:"data"`
}

type PageData struct {
	Page             int      `json:"page"`
	Limit            int      `json:"limit"`
	TotalPages       int      `json:"totalPages"`
	TotalItems       int      `json:"totalItems"`
	CurrentPageItems int      `json:"currentPageItems"`
	NextPage         bool     `json:"nextPage"`
	PreviousPage     bool     `json:"previousPage"`
	Data             []Volume `json:"data"`
}

type Volume struct {
	ID         VolumeID   `json:"id"`
	Etag       string     `json:"etag"`
	SelfLink   string     `json:"selfLink"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

type VolumeInfo struct {
	Title         string     `json:"title"`
	Subtitle      string     `json:"subtitle"`
	Authors       []string   `json:"authors"`
	Publisher     string     `json:"publisher"`
	PublishedDate string     `json:"publishedDate"`
	Description   string     `json:"description"`
	PageCount     int        `json:"pageCount"`
	Categories    []string   `json:"categories"`
	ImageLinks    ImageLinks `json:"imageLinks"`
	InfoLink      string     `json:"infoLink"`
	PreviewLink   string     `json:"previewLink"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}

// VolumeID accepts both numeric and string identifiers.
type VolumeID string

func (id *VolumeID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = VolumeID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*id = VolumeID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = VolumeID(n.String())
	return nil
}
