package render

import (
	twmerge "github.com/Oudwins/tailwind-merge-go"

	"github.com/RobBrazier/bookshelf/internal/library"
	"github.com/RobBrazier/bookshelf/internal/query"
)

//go:generate templ generate

const NoInfoMessage = "No additional information available for this book."

const (
	gridContainerClass = "book-display-grid grid grid-cols-2 gap-4 md:grid-cols-4"
	listContainerClass = "book-display-list flex flex-col gap-2"
	gridItemClass      = "book-grid-item flex flex-col gap-2 rounded p-4 shadow cursor-pointer"
	listItemClass      = "book-list-item flex justify-between gap-4 rounded p-2 shadow cursor-pointer"
)

var sortLabels = map[query.SortKey]string{
	query.SortNone:      "Sort by",
	query.SortTitleAsc:  "Title (A-Z)",
	query.SortTitleDesc: "Title (Z-A)",
	query.SortDateAsc:   "Date (oldest first)",
	query.SortDateDesc:  "Date (newest first)",
}

// sortValue is the form value for key. The unsorted option submits nothing.
func sortValue(key query.SortKey) string {
	if key == query.SortNone {
		return ""
	}
	return string(key)
}

func modeClass(active bool) string {
	if active {
		return twmerge.Merge("px-2 py-1", "font-bold underline")
	}
	return twmerge.Merge("px-2 py-1", "font-normal")
}

func noticeClass(outcome library.Outcome) string {
	switch outcome {
	case library.OutcomeFetchFailed, library.OutcomeInvalid:
		return twmerge.Merge("notice rounded p-2", "notice-error bg-red-100")
	case library.OutcomeOK:
		return twmerge.Merge("notice rounded p-2", "notice-info bg-green-100")
	default:
		return twmerge.Merge("notice rounded p-2", "notice-warning bg-yellow-100")
	}
}

func containerClass(mode library.Mode) string {
	if mode == library.ModeList {
		return listContainerClass
	}
	return gridContainerClass
}

// unlinkedClass is class for items with nothing to open.
func unlinkedClass(class string) string {
	return twmerge.Merge(class, "cursor-default")
}
