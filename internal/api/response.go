// internal/api/response.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github-explorer/internal/errors"
)

// errorResponse is the standard error format returned by all API endpoints.
type errorResponse struct {
	Error   string `json:"error"`
	Status  int    `json:"status,omitempty"`
	DocsURL string `json:"documentationUrl,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, errorResponse{Error: message})
}

// respondWithRemoteError maps the remote error taxonomy onto HTTP statuses
// for the frontend: not-found and rate-limit pass through as 404 and 429,
// everything else is a bad gateway carrying the upstream status.
func (h *Handler) respondWithRemoteError(w http.ResponseWriter, err error) {
	var (
		rateLimited *apierrors.RateLimitedError
		notFound    *apierrors.NotFoundError
		apiErr      *apierrors.APIError
	)
	switch {
	case errors.As(err, &notFound):
		respondWithError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &rateLimited):
		respondWithError(w, http.StatusTooManyRequests, rateLimited.Error())
	case errors.As(err, &apiErr):
		respondWithJSON(w, http.StatusBadGateway, errorResponse{
			Error:   apiErr.Error(),
			Status:  apiErr.Status,
			DocsURL: apiErr.DocsURL,
		})
	default:
		h.logger.Error("Unhandled remote error", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
