// internal/github/errors.go
package github

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/go-github/v62/github"

	apierrors "github-explorer/internal/errors"
)

// normalizeError folds every go-github failure mode into the taxonomy the
// store branches on: 403 becomes RateLimited (with the reset time when the
// response carried one), 404 becomes NotFound, any other non-2xx becomes an
// APIError with the upstream status, and anything without a response at all
// (transport, decode) becomes an APIError with status 0.
func normalizeError(err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		reset := rateErr.Rate.Reset.Time
		if reset.IsZero() {
			return &apierrors.RateLimitedError{}
		}
		return &apierrors.RateLimitedError{ResetAt: &reset}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		if abuseErr.RetryAfter != nil {
			reset := time.Now().Add(*abuseErr.RetryAfter)
			return &apierrors.RateLimitedError{ResetAt: &reset}
		}
		return &apierrors.RateLimitedError{}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		status := respErr.Response.StatusCode
		switch status {
		case http.StatusForbidden:
			return &apierrors.RateLimitedError{ResetAt: resetFromHeader(respErr.Response)}
		case http.StatusNotFound:
			return &apierrors.NotFoundError{}
		default:
			message := respErr.Message
			if message == "" {
				message = http.StatusText(status)
			}
			return &apierrors.APIError{
				Status:  status,
				Message: message,
				DocsURL: respErr.DocumentationURL,
			}
		}
	}

	return &apierrors.APIError{Status: 0, Message: err.Error()}
}

// resetFromHeader reads the epoch-seconds rate-limit-reset header, when present.
func resetFromHeader(resp *http.Response) *time.Time {
	raw := resp.Header.Get("X-RateLimit-Reset")
	if raw == "" {
		return nil
	}
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	t := time.Unix(secs, 0)
	return &t
}
