package freeapi

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when the body lacks the data.data list.
var ErrMalformedResponse = errors.New("malformed response")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("unexpected status code %d from %s", e.Code, e.URL)
	}
	return fmt.Sprintf("unexpected status code %d", e.Code)
}

// StatusCode extracts the HTTP status from err, or 0 when err is not a
// StatusError.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}
	return 0
}

func isMalformed(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}
