// internal/api/handler.go
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github-explorer/internal/model"
	"github-explorer/internal/store"
	"github-explorer/internal/validate"
)

// Handler is the container for API dependencies.
type Handler struct {
	store  *store.Store
	gh     store.RemoteAPI
	logger *slog.Logger
}

// NewRouter creates and configures a new chi router exposing the store to
// the browser frontend.
func NewRouter(st *store.Store, gh store.RemoteAPI, logger *slog.Logger) http.Handler {
	h := &Handler{
		store:  st,
		gh:     gh,
		logger: logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// API Routes
	r.Get("/health", h.healthCheck)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/session", h.startSession)

		r.Route("/users/{username}", func(r chi.Router) {
			r.Use(h.requireValidUsername)
			r.Get("/repos", h.getRepositories)
			r.Route("/repos/{repo}", func(r chi.Router) {
				r.Get("/commits", h.getCommits)
				r.Get("/commits/{sha}", h.getCommitDetail)
				r.Post("/select", h.selectRepository)
			})
		})

		r.Post("/commits/more", h.loadMoreCommits)
		r.Put("/commits/sort", h.setSortOrder)

		r.Route("/favourites", func(r chi.Router) {
			r.Get("/", h.getFavourites)
			r.Delete("/", h.clearFavourites)
			r.Post("/toggle", h.toggleFavourite)
			r.Delete("/{sha}", h.removeFavourite)
		})
	})

	return r
}

// requireValidUsername rejects requests whose username path parameter fails
// the format rules before any store action runs. Route-level guard, not a
// store responsibility.
func (h *Handler) requireValidUsername(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if res := validate.Username(chi.URLParam(r, "username")); !res.Valid {
			respondWithError(w, http.StatusBadRequest, res.Err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// startSession validates the submitted username, probes that the account
// exists and resets the store for a fresh browsing context.
// POST /v1/session
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	username := strings.TrimSpace(req.Username)
	if res := validate.Username(username); !res.Valid {
		respondWithError(w, http.StatusBadRequest, res.Err)
		return
	}

	exists, err := h.gh.UserExists(r.Context(), username)
	if err != nil {
		h.respondWithRemoteError(w, err)
		return
	}
	if !exists {
		respondWithError(w, http.StatusNotFound, "GitHub user not found")
		return
	}

	h.store.ResetAll()
	respondWithJSON(w, http.StatusOK, map[string]string{"username": username})
}

// getRepositories loads one page of repositories and returns the slice state.
// GET /v1/users/{username}/repos?page=N
func (h *Handler) getRepositories(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	page, ok := pageParam(w, r)
	if !ok {
		return
	}

	if err := h.store.LoadRepositories(r.Context(), username, page); err != nil {
		h.respondWithRemoteError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.store.Repositories())
}

// selectRepository switches the commit context to a repository already in
// state and fetches its first commit page.
// POST /v1/users/{username}/repos/{repo}/select
func (h *Handler) selectRepository(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	name := chi.URLParam(r, "repo")

	var selected *model.Repository
	for _, repo := range h.store.Repositories().Repositories {
		if repo.Name == name {
			repo := repo
			selected = &repo
			break
		}
	}
	if selected == nil {
		respondWithError(w, http.StatusNotFound, "Repository is not in the loaded list")
		return
	}

	if err := h.store.SelectRepository(r.Context(), username, *selected); err != nil {
		h.respondWithRemoteError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.commitsPayload())
}

// getCommits loads one commit page and returns the slice state with commits
// in the derived sort order.
// GET /v1/users/{username}/repos/{repo}/commits?page=N
func (h *Handler) getCommits(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	repo := chi.URLParam(r, "repo")
	page, ok := pageParam(w, r)
	if !ok {
		return
	}

	if err := h.store.LoadCommits(r.Context(), username, repo, page); err != nil {
		h.respondWithRemoteError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.commitsPayload())
}

// loadMoreCommits appends the next commit page for the active context.
// POST /v1/commits/more
func (h *Handler) loadMoreCommits(w http.ResponseWriter, r *http.Request) {
	if err := h.store.LoadMoreCommits(r.Context()); err != nil {
		h.respondWithRemoteError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.commitsPayload())
}

// setSortOrder flips the derived commit ordering.
// PUT /v1/commits/sort
func (h *Handler) setSortOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Order model.SortOrder `json:"order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Order != model.SortNewest && req.Order != model.SortOldest {
		respondWithError(w, http.StatusBadRequest, "Sort order must be 'newest' or 'oldest'")
		return
	}

	h.store.SetSortOrder(req.Order)
	respondWithJSON(w, http.StatusOK, h.commitsPayload())
}

// getCommitDetail loads a single commit into the detail slot and returns it.
// GET /v1/users/{username}/repos/{repo}/commits/{sha}
func (h *Handler) getCommitDetail(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	repo := chi.URLParam(r, "repo")
	sha := chi.URLParam(r, "sha")

	if err := h.store.FetchCommitDetail(r.Context(), username, repo, sha); err != nil {
		h.respondWithRemoteError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.store.CommitDetail())
}

// getFavourites returns the bookmarked commits.
// GET /v1/favourites
func (h *Handler) getFavourites(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{
		"favourites": h.store.Favourites(),
	})
}

// toggleFavourite adds or removes the posted commit from the favourites.
// POST /v1/favourites/toggle
func (h *Handler) toggleFavourite(w http.ResponseWriter, r *http.Request) {
	var commit model.Commit
	if err := json.NewDecoder(r.Body).Decode(&commit); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if commit.SHA == "" {
		respondWithError(w, http.StatusBadRequest, "Commit sha is required")
		return
	}

	h.store.ToggleFavourite(commit)
	respondWithJSON(w, http.StatusOK, map[string]any{
		"sha":       commit.SHA,
		"favourite": h.store.IsFavourite(commit.SHA),
	})
}

// removeFavourite deletes one bookmark by sha.
// DELETE /v1/favourites/{sha}
func (h *Handler) removeFavourite(w http.ResponseWriter, r *http.Request) {
	h.store.RemoveFavourite(chi.URLParam(r, "sha"))
	respondWithJSON(w, http.StatusNoContent, nil)
}

// clearFavourites empties the bookmark collection.
// DELETE /v1/favourites
func (h *Handler) clearFavourites(w http.ResponseWriter, r *http.Request) {
	h.store.ClearFavourites()
	respondWithJSON(w, http.StatusNoContent, nil)
}

// commitsPayload is the commit slice state with commits in display order.
func (h *Handler) commitsPayload() store.CommitsState {
	state := h.store.Commits()
	state.Commits = h.store.SortedCommits()
	return state
}

// pageParam parses the optional page query parameter, defaulting to 1.
func pageParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		respondWithError(w, http.StatusBadRequest, "Invalid 'page' parameter. Must be a positive integer.")
		return 0, false
	}
	return page, true
}
