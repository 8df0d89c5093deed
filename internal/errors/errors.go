// internal/errors/errors.go

// Package errors defines the taxonomy every remote failure is normalized
// into. The store branches on these kinds to populate its user-facing error
// messages; nothing else reaches the presentation layer.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// RateLimitedError is returned for HTTP 403 responses. ResetAt is set when
// the response carried a rate-limit-reset header.
type RateLimitedError struct {
	ResetAt *time.Time
}

func (e *RateLimitedError) Error() string {
	if e.ResetAt != nil {
		return fmt.Sprintf("API rate limit exceeded. Rate limit resets at %s.", e.ResetAt.Local().Format("3:04:05 PM"))
	}
	return "API rate limit exceeded."
}

// NotFoundError is returned for HTTP 404 responses and carries a fixed
// user-facing message.
type NotFoundError struct{}

func (e *NotFoundError) Error() string {
	return "User or repository not found. Please check the username."
}

// APIError covers every remaining failure: other non-2xx responses carry the
// upstream status and the server-supplied message; transport and decode
// failures use status 0.
type APIError struct {
	Status  int
	Message string
	DocsURL string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status != 0 {
		if text := http.StatusText(e.Status); text != "" {
			return text
		}
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return "an unknown error occurred"
}

// IsNotFound reports whether err is the 404 kind of the taxonomy.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// UserMessage returns the display text for err when it belongs to the
// taxonomy, and fallback for anything unrecognized.
func UserMessage(err error, fallback string) string {
	var (
		rateLimited *RateLimitedError
		notFound    *NotFoundError
		apiErr      *APIError
	)
	switch {
	case errors.As(err, &rateLimited):
		return rateLimited.Error()
	case errors.As(err, &notFound):
		return notFound.Error()
	case errors.As(err, &apiErr):
		return apiErr.Error()
	}
	return fallback
}
