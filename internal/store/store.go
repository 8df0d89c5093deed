// internal/store/store.go

// Package store owns all fetched and derived state for an explorer session:
// repositories, commits, the single commit-detail slot and the locally
// persisted favourites. The presentation layer drives it through actions and
// reads state back through snapshot accessors.
package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	apierrors "github-explorer/internal/errors"
	"github-explorer/internal/model"
	"github-explorer/internal/storage"
)

// favouritesKey is the durable slot holding the serialized favourites.
const favouritesKey = "github-explorer-favourites"

const defaultPerPage = 30

// RemoteAPI is the slice of the GitHub client the store depends on.
type RemoteAPI interface {
	ListRepositories(ctx context.Context, username string, page, perPage int) ([]model.Repository, *model.PaginationCursor, error)
	ListCommits(ctx context.Context, username, repo string, page, perPage int) ([]model.Commit, *model.PaginationCursor, error)
	GetCommitDetail(ctx context.Context, username, repo, sha string) (*model.CommitDetail, error)
	UserExists(ctx context.Context, username string) (bool, error)
}

// RepositoriesState is a snapshot of the repository slice.
type RepositoriesState struct {
	Repositories []model.Repository `json:"repositories"`
	Loading      bool               `json:"loading"`
	Error        string             `json:"error,omitempty"`
	CurrentUser  string             `json:"currentUser,omitempty"`
}

// CommitsState is a snapshot of the commit slice. Commits keep their fetch
// order; SortedCommits derives the display order.
type CommitsState struct {
	Commits           []model.Commit         `json:"commits"`
	Loading           bool                   `json:"loading"`
	Error             string                 `json:"error,omitempty"`
	CurrentRepository string                 `json:"currentRepository,omitempty"`
	Pagination        model.PaginationCursor `json:"pagination"`
	SortOrder         model.SortOrder        `json:"sortOrder"`
}

// CommitDetailState is a snapshot of the single commit-detail slot.
type CommitDetailState struct {
	Detail  *model.CommitDetail `json:"detail,omitempty"`
	Loading bool                `json:"loading"`
	Error   string              `json:"error,omitempty"`
}

// Store mediates fetch, cache, pagination, sorting and persistence for the
// explorer. Construct one per application session with New.
//
// Each mutable slice carries a monotonically increasing request sequence.
// Actions register a sequence number before their fetch and commit results
// only while still the latest issued for that slice, so a superseded request
// that resolves late is discarded instead of clobbering newer state.
type Store struct {
	api    RemoteAPI
	kv     storage.KV
	logger *slog.Logger
	now    func() time.Time

	mu sync.Mutex

	repositories []model.Repository
	reposLoading bool
	reposError   string
	currentUser  string
	reposSeq     uint64

	commits           []model.Commit
	commitsLoading    bool
	commitsError      string
	currentRepository string
	selectedRepoID    int64
	hasSelection      bool
	pagination        model.PaginationCursor
	sortOrder         model.SortOrder
	commitsSeq        uint64

	detail        *model.CommitDetail
	detailLoading bool
	detailError   string
	detailSeq     uint64

	favourites []model.FavouriteCommit
}

// New creates a Store with its dependencies injected and loads the persisted
// favourites. Corrupt persisted state is logged and replaced by an empty
// collection; it never blocks construction.
func New(api RemoteAPI, kv storage.KV, logger *slog.Logger) *Store {
	s := &Store{
		api:        api,
		kv:         kv,
		logger:     logger,
		now:        time.Now,
		pagination: defaultCursor(),
		sortOrder:  model.SortNewest,
	}
	s.loadFavourites()
	return s
}

func defaultCursor() model.PaginationCursor {
	return model.PaginationCursor{Page: 1, PerPage: defaultPerPage, HasMore: false}
}

// LoadRepositories fetches one page of repositories for username. Page 1
// replaces the collection, later pages append. On failure the existing
// collection is left untouched and the error message is recorded for
// display; the loading flag is always cleared.
func (s *Store) LoadRepositories(ctx context.Context, username string, page int) error {
	if page < 1 {
		page = 1
	}

	s.mu.Lock()
	s.reposSeq++
	seq := s.reposSeq
	s.reposLoading = true
	s.reposError = ""
	s.currentUser = username
	s.mu.Unlock()

	repos, _, err := s.api.ListRepositories(ctx, username, page, defaultPerPage)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.reposSeq {
		// Superseded; the newer request owns this slice now.
		return nil
	}
	s.reposLoading = false
	if err != nil {
		s.reposError = apierrors.UserMessage(err, "An unexpected error occurred while fetching repositories")
		s.logger.Error("Failed to fetch repositories", "username", username, "page", page, "error", err)
		return err
	}

	if page == 1 {
		s.repositories = repos
	} else {
		s.repositories = append(s.repositories, repos...)
	}
	return nil
}

// SelectRepository makes repo the active commit context. When the selection
// changes (compared by repository id) the commit list and cursor are cleared
// before the fetch begins, so stale commits are never paired with the new
// context. A commit fetch at page 1 always follows.
func (s *Store) SelectRepository(ctx context.Context, username string, repo model.Repository) error {
	s.mu.Lock()
	if !s.hasSelection || s.selectedRepoID != repo.ID {
		s.commits = nil
		s.pagination = defaultCursor()
	}
	s.hasSelection = true
	s.selectedRepoID = repo.ID
	s.mu.Unlock()

	return s.LoadCommits(ctx, username, repo.Name, 1)
}

// LoadCommits fetches one page of commits for username/repo under the same
// contract as LoadRepositories, additionally updating the pagination cursor
// when the response carried one.
func (s *Store) LoadCommits(ctx context.Context, username, repo string, page int) error {
	if page < 1 {
		page = 1
	}

	s.mu.Lock()
	s.commitsSeq++
	seq := s.commitsSeq
	s.commitsLoading = true
	s.commitsError = ""
	s.currentRepository = repo
	s.mu.Unlock()

	commits, cursor, err := s.api.ListCommits(ctx, username, repo, page, defaultPerPage)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.commitsSeq {
		return nil
	}
	s.commitsLoading = false
	if err != nil {
		s.commitsError = apierrors.UserMessage(err, "An unexpected error occurred while fetching commits")
		s.logger.Error("Failed to fetch commits", "username", username, "repo", repo, "page", page, "error", err)
		return err
	}

	if page == 1 {
		s.commits = commits
	} else {
		s.commits = append(s.commits, commits...)
	}
	if cursor != nil {
		s.pagination = *cursor
	}
	return nil
}

// LoadMoreCommits fetches the next commit page for the active context. It is
// a no-op unless a current user and repository exist and the cursor reports
// more pages.
func (s *Store) LoadMoreCommits(ctx context.Context) error {
	s.mu.Lock()
	if s.currentUser == "" || s.currentRepository == "" || !s.pagination.HasMore {
		s.mu.Unlock()
		return nil
	}
	username := s.currentUser
	repo := s.currentRepository
	next := s.pagination.Page + 1
	s.mu.Unlock()

	return s.LoadCommits(ctx, username, repo, next)
}

// FetchCommitDetail loads a single commit into the detail slot, replacing
// whatever was there.
func (s *Store) FetchCommitDetail(ctx context.Context, username, repo, sha string) error {
	s.mu.Lock()
	s.detailSeq++
	seq := s.detailSeq
	s.detailLoading = true
	s.detailError = ""
	s.mu.Unlock()

	detail, err := s.api.GetCommitDetail(ctx, username, repo, sha)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.detailSeq {
		return nil
	}
	s.detailLoading = false
	if err != nil {
		s.detailError = apierrors.UserMessage(err, "An unexpected error occurred while fetching commit details")
		s.logger.Error("Failed to fetch commit detail", "username", username, "repo", repo, "sha", sha, "error", err)
		return err
	}

	s.detail = detail
	return nil
}

// SortedCommits returns a freshly ordered copy of the commit list: newest
// first by author date by default, oldest first otherwise. The sort is
// stable, so equal timestamps keep their fetch order, and the underlying
// collection is never reordered.
func (s *Store) SortedCommits() []model.Commit {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Commit, len(s.commits))
	copy(out, s.commits)

	newestFirst := s.sortOrder != model.SortOldest
	sort.SliceStable(out, func(i, j int) bool {
		if newestFirst {
			return out[i].Author.Date.After(out[j].Author.Date)
		}
		return out[i].Author.Date.Before(out[j].Author.Date)
	})
	return out
}

// SetSortOrder switches the derived commit ordering. Unknown values fall
// back to newest-first.
func (s *Store) SetSortOrder(order model.SortOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order != model.SortOldest {
		order = model.SortNewest
	}
	s.sortOrder = order
}

// ToggleFavourite removes the commit from the favourites when its sha is
// already present, and adds a snapshot of it otherwise. Adding requires an
// active user and repository context and is skipped with a warning without
// one; removal works on the sha alone. Every mutation rewrites the persisted
// collection.
func (s *Store) ToggleFavourite(commit model.Commit) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, fav := range s.favourites {
		if fav.SHA == commit.SHA {
			s.favourites = append(s.favourites[:i], s.favourites[i+1:]...)
			s.persistFavourites()
			return
		}
	}

	if s.currentUser == "" || s.currentRepository == "" {
		s.logger.Warn("Cannot add favourite without user and repository context", "sha", commit.SHA)
		return
	}

	s.favourites = append(s.favourites, model.FavouriteCommit{
		SHA:            commit.SHA,
		RepositoryName: s.currentRepository,
		Username:       s.currentUser,
		Commit:         commit,
		AuthorAccount:  commit.AuthorAccount,
		HTMLURL:        commit.HTMLURL,
		AddedAt:        s.now(),
	})
	s.persistFavourites()
}

// RemoveFavourite deletes the favourite with the given sha. Removing a
// non-member is a no-op and writes nothing.
func (s *Store) RemoveFavourite(sha string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, fav := range s.favourites {
		if fav.SHA == sha {
			s.favourites = append(s.favourites[:i], s.favourites[i+1:]...)
			s.persistFavourites()
			return
		}
	}
}

// ClearFavourites empties the collection and persists the empty state.
func (s *Store) ClearFavourites() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favourites = nil
	s.persistFavourites()
}

// IsFavourite reports whether sha is bookmarked.
func (s *Store) IsFavourite(sha string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fav := range s.favourites {
		if fav.SHA == sha {
			return true
		}
	}
	return false
}

// Favourites returns a copy of the favourites collection.
func (s *Store) Favourites() []model.FavouriteCommit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.FavouriteCommit, len(s.favourites))
	copy(out, s.favourites)
	return out
}

// Repositories returns a snapshot of the repository slice.
func (s *Store) Repositories() RepositoriesState {
	s.mu.Lock()
	defer s.mu.Unlock()
	repos := make([]model.Repository, len(s.repositories))
	copy(repos, s.repositories)
	return RepositoriesState{
		Repositories: repos,
		Loading:      s.reposLoading,
		Error:        s.reposError,
		CurrentUser:  s.currentUser,
	}
}

// Commits returns a snapshot of the commit slice in fetch order.
func (s *Store) Commits() CommitsState {
	s.mu.Lock()
	defer s.mu.Unlock()
	commits := make([]model.Commit, len(s.commits))
	copy(commits, s.commits)
	return CommitsState{
		Commits:           commits,
		Loading:           s.commitsLoading,
		Error:             s.commitsError,
		CurrentRepository: s.currentRepository,
		Pagination:        s.pagination,
		SortOrder:         s.sortOrder,
	}
}

// CommitDetail returns a snapshot of the detail slot. The detail value is
// replaced wholesale and never mutated in place, so sharing the pointer is
// safe.
func (s *Store) CommitDetail() CommitDetailState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CommitDetailState{
		Detail:  s.detail,
		Loading: s.detailLoading,
		Error:   s.detailError,
	}
}

// ResetRepositories clears the repository slice, its error and the user
// context. In-flight repository fetches are invalidated.
func (s *Store) ResetRepositories() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reposSeq++
	s.repositories = nil
	s.reposLoading = false
	s.reposError = ""
	s.currentUser = ""
}

// ResetCommits clears the commit slice, its error, the repository context
// and restores the resting pagination cursor. In-flight commit fetches are
// invalidated.
func (s *Store) ResetCommits() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitsSeq++
	s.commits = nil
	s.commitsLoading = false
	s.commitsError = ""
	s.currentRepository = ""
	s.selectedRepoID = 0
	s.hasSelection = false
	s.pagination = defaultCursor()
}

// ResetCommitDetail clears the detail slot and its error.
func (s *Store) ResetCommitDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detailSeq++
	s.detail = nil
	s.detailLoading = false
	s.detailError = ""
}

// ResetAll clears every slice. Used when starting a fresh user context;
// favourites are local bookmarks and survive.
func (s *Store) ResetAll() {
	s.ResetRepositories()
	s.ResetCommits()
	s.ResetCommitDetail()
}

// loadFavourites reads the persisted collection at construction time.
func (s *Store) loadFavourites() {
	raw, ok, err := s.kv.Get(favouritesKey)
	if err != nil {
		s.logger.Warn("Failed to load favourites from storage", "error", err)
		return
	}
	if !ok {
		return
	}
	var favs []model.FavouriteCommit
	if err := json.Unmarshal([]byte(raw), &favs); err != nil {
		s.logger.Warn("Stored favourites are corrupt, starting with an empty collection", "error", err)
		return
	}
	s.favourites = favs
}

// persistFavourites writes the whole collection to the durable slot. Write
// failures are logged and swallowed; favourites stay usable in memory.
// Callers hold s.mu.
func (s *Store) persistFavourites() {
	raw, err := json.Marshal(s.favourites)
	if err != nil {
		s.logger.Warn("Failed to serialize favourites", "error", err)
		return
	}
	if err := s.kv.Set(favouritesKey, string(raw)); err != nil {
		s.logger.Warn("Failed to save favourites to storage", "error", err)
	}
}
