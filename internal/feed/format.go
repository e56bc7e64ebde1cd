package feed

import "strings"

type Format string

const (
	FORMAT_RSS  Format = "rss"
	FORMAT_ATOM Format = "atom"
	FORMAT_JSON Format = "json"
)

func ParseFormat(value string) Format {
	switch Format(strings.ToLower(value)) {
	case FORMAT_ATOM:
		return FORMAT_ATOM
	case FORMAT_JSON:
		return FORMAT_JSON
	default:
		return FORMAT_RSS
	}
}
