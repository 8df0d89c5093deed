// internal/github/client.go
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	apierrors "github-explorer/internal/errors"
	"github-explorer/internal/model"
)

const (
	// DefaultPerPage mirrors the GitHub API default page size.
	DefaultPerPage = 30
	maxPerPage     = 100
)

// Client is a wrapper around the go-github client. It translates responses
// into the internal model and normalizes every failure into the error
// taxonomy of internal/errors.
type Client struct {
	gh     *github.Client
	logger *slog.Logger
}

// NewClient creates and configures a new Client instance. The token is
// optional; when set it backs an authenticated http.Client for a higher rate
// limit. baseURL overrides the public API endpoint (tests, GitHub Enterprise)
// and may be empty.
func NewClient(token, baseURL string, logger *slog.Logger) (*Client, error) {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		hc = oauth2.NewClient(context.Background(), ts)
	}

	gh := github.NewClient(hc)
	if baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid API base URL %q: %w", baseURL, err)
		}
		gh.BaseURL = u
	}

	return &Client{gh: gh, logger: logger}, nil
}

// ListRepositories fetches one page of a user's public repositories. The
// server sorts by last update, descending; the client never re-sorts.
func (c *Client) ListRepositories(ctx context.Context, username string, page, perPage int) ([]model.Repository, *model.PaginationCursor, error) {
	page, perPage = clampPaging(page, perPage)
	c.logger.Debug("Fetching repositories page", "username", username, "page", page, "per_page", perPage)

	opts := &github.RepositoryListByUserOptions{
		Sort:      "updated",
		Direction: "desc",
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	}
	repos, resp, err := c.gh.Repositories.ListByUser(ctx, username, opts)
	if err != nil {
		return nil, nil, normalizeError(err)
	}

	out := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		out = append(out, toRepository(r))
	}
	return out, cursorFrom(resp, page, perPage), nil
}

// ListCommits fetches one page of a repository's commit history.
func (c *Client) ListCommits(ctx context.Context, username, repo string, page, perPage int) ([]model.Commit, *model.PaginationCursor, error) {
	page, perPage = clampPaging(page, perPage)
	c.logger.Debug("Fetching commits page", "username", username, "repo", repo, "page", page, "per_page", perPage)

	opts := &github.CommitsListOptions{
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	}
	commits, resp, err := c.gh.Repositories.ListCommits(ctx, username, repo, opts)
	if err != nil {
		return nil, nil, normalizeError(err)
	}

	out := make([]model.Commit, 0, len(commits))
	for _, commit := range commits {
		out = append(out, toCommit(commit))
	}
	return out, cursorFrom(resp, page, perPage), nil
}

// GetCommitDetail fetches a single commit with its diff stats, file changes
// and parents.
func (c *Client) GetCommitDetail(ctx context.Context, username, repo, sha string) (*model.CommitDetail, error) {
	c.logger.Debug("Fetching commit detail", "username", username, "repo", repo, "sha", sha)

	commit, _, err := c.gh.Repositories.GetCommit(ctx, username, repo, sha, nil)
	if err != nil {
		return nil, normalizeError(err)
	}
	return toCommitDetail(commit), nil
}

// UserExists probes whether the account exists. A 404 answers false; every
// other failure is re-raised.
func (c *Client) UserExists(ctx context.Context, username string) (bool, error) {
	_, _, err := c.gh.Users.Get(ctx, username)
	if err != nil {
		normalized := normalizeError(err)
		if apierrors.IsNotFound(normalized) {
			return false, nil
		}
		return false, normalized
	}
	return true, nil
}

// cursorFrom derives the next-page cursor from go-github's parsed link
// relations. No next and no last relation means a single-page result and no
// cursor; page and perPage echo the request just made.
func cursorFrom(resp *github.Response, page, perPage int) *model.PaginationCursor {
	if resp == nil || (resp.NextPage == 0 && resp.LastPage == 0) {
		return nil
	}
	return &model.PaginationCursor{
		Page:    page,
		PerPage: perPage,
		HasMore: resp.NextPage != 0,
	}
}

func clampPaging(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}
