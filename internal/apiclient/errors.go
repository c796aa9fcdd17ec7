package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionInvalidated is returned for a 401 after the session has been torn down
	ErrSessionInvalidated = errors.New("session invalidated")
	// ErrUnexpectedContent is returned when the backend answers with something other than JSON
	ErrUnexpectedContent = errors.New("unexpected response content")
)

// APIError is a non-2xx response from the backend
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       []byte

	invalidated bool
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// Is matches ErrSessionInvalidated when this 401 tore down the session
func (e *APIError) Is(target error) bool {
	return target == ErrSessionInvalidated && e.invalidated
}

// InterstitialError is returned when a tunnel warning or error page is served instead of JSON
type InterstitialError struct {
	StatusCode  int
	ContentType string
	Title       string
}

func (e *InterstitialError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("backend returned an HTML page (%d): %s", e.StatusCode, e.Title)
	}
	return fmt.Sprintf("backend returned an HTML page (%d)", e.StatusCode)
}

func (e *InterstitialError) Unwrap() error {
	return ErrUnexpectedContent
}

// StatusCode returns the HTTP status carried by err, or 0 for transport errors
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var pageErr *InterstitialError
	if errors.As(err, &pageErr) {
		return pageErr.StatusCode
	}
	return 0
}
