package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrEmptyBaseURL is returned by New when no base URL is configured.
	ErrEmptyBaseURL = errors.New("api base url can not be empty")

	// ErrEmptyAccessToken is returned when an auth endpoint answers without a token.
	ErrEmptyAccessToken = errors.New("response did not contain an access token")
)

// StatusError is returned by Fetch when the upstream answers with a non-2xx status.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError

	return errors.As(err, &se) && se.StatusCode == code
}
