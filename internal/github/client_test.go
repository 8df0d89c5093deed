// internal/github/client_test.go
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github-explorer/internal/errors"
)

// setupTestClient creates a httptest server and a client pointing to it.
func setupTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client, err := NewClient("", "", logger)
	require.NoError(t, err)

	// Point the wrapped client at the test server.
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.gh.BaseURL = base

	return client, server
}

func TestClient_ListRepositories(t *testing.T) {
	t.Run("returns repositories and a cursor when more pages exist", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/octocat/repos", r.URL.Path)
			assert.Equal(t, "updated", r.URL.Query().Get("sort"))
			assert.Equal(t, "desc", r.URL.Query().Get("direction"))
			assert.Equal(t, "1", r.URL.Query().Get("page"))
			assert.Equal(t, "30", r.URL.Query().Get("per_page"))

			w.Header().Set("Link", `<https://api.github.com/user/1/repos?page=2&per_page=30>; rel="next", <https://api.github.com/user/1/repos?page=4&per_page=30>; rel="last"`)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `[{"id": 1, "name": "hello-world", "full_name": "octocat/hello-world", "html_url": "https://github.com/octocat/hello-world", "stargazers_count": 80, "forks_count": 9, "language": "Go", "private": false}]`)
		})
		client, _ := setupTestClient(t, handler)

		repos, cursor, err := client.ListRepositories(context.Background(), "octocat", 0, 0)

		require.NoError(t, err)
		require.Len(t, repos, 1)
		assert.Equal(t, int64(1), repos[0].ID)
		assert.Equal(t, "hello-world", repos[0].Name)
		assert.Equal(t, "octocat/hello-world", repos[0].FullName)
		assert.Equal(t, 80, repos[0].StarCount)
		require.NotNil(t, repos[0].Language)
		assert.Equal(t, "Go", *repos[0].Language)

		require.NotNil(t, cursor)
		assert.Equal(t, 1, cursor.Page)
		assert.Equal(t, 30, cursor.PerPage)
		assert.True(t, cursor.HasMore)
	})

	t.Run("returns no cursor for a single-page result", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `[]`)
		})
		client, _ := setupTestClient(t, handler)

		repos, cursor, err := client.ListRepositories(context.Background(), "octocat", 1, 30)

		require.NoError(t, err)
		assert.Empty(t, repos)
		assert.Nil(t, cursor)
	})

	t.Run("cursor on the last page reports no more", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// GitHub omits rel="next" on the final page but keeps rel="first"/"prev".
			w.Header().Set("Link", `<https://api.github.com/user/1/repos?page=1&per_page=30>; rel="first", <https://api.github.com/user/1/repos?page=1&per_page=30>; rel="prev"`)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `[]`)
		})
		client, _ := setupTestClient(t, handler)

		_, cursor, err := client.ListRepositories(context.Background(), "octocat", 2, 30)

		require.NoError(t, err)
		assert.Nil(t, cursor)
	})
}

func TestClient_ErrorNormalization(t *testing.T) {
	t.Run("404 becomes NotFound with the fixed message", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintln(w, `{"message": "Not Found"}`)
		})
		client, _ := setupTestClient(t, handler)

		_, _, err := client.ListRepositories(context.Background(), "ghost", 1, 30)

		require.Error(t, err)
		assert.True(t, apierrors.IsNotFound(err))
		assert.Equal(t, "User or repository not found. Please check the username.", err.Error())
	})

	t.Run("403 with exhausted quota becomes RateLimited with a reset time", func(t *testing.T) {
		reset := time.Now().Add(10 * time.Minute).Truncate(time.Second)
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-RateLimit-Limit", "60")
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", reset.Unix()))
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprintln(w, `{"message": "API rate limit exceeded"}`)
		})
		client, _ := setupTestClient(t, handler)

		_, _, err := client.ListCommits(context.Background(), "octocat", "hello-world", 1, 30)

		require.Error(t, err)
		var rateLimited *apierrors.RateLimitedError
		require.ErrorAs(t, err, &rateLimited)
		require.NotNil(t, rateLimited.ResetAt)
		assert.Equal(t, reset.Unix(), rateLimited.ResetAt.Unix())
		assert.Contains(t, err.Error(), "Rate limit resets at")
	})

	t.Run("plain 403 becomes RateLimited, reset taken from the header", func(t *testing.T) {
		reset := time.Now().Add(time.Hour).Truncate(time.Second)
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", reset.Unix()))
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprintln(w, `{"message": "Forbidden"}`)
		})
		client, _ := setupTestClient(t, handler)

		_, _, err := client.ListRepositories(context.Background(), "octocat", 1, 30)

		require.Error(t, err)
		var rateLimited *apierrors.RateLimitedError
		require.ErrorAs(t, err, &rateLimited)
		require.NotNil(t, rateLimited.ResetAt)
		assert.Equal(t, reset.Unix(), rateLimited.ResetAt.Unix())
	})

	t.Run("other statuses become APIError with the server message", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintln(w, `{"message": "Server Error", "documentation_url": "https://docs.github.com/rest"}`)
		})
		client, _ := setupTestClient(t, handler)

		_, _, err := client.ListRepositories(context.Background(), "octocat", 1, 30)

		require.Error(t, err)
		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
		assert.Equal(t, "Server Error", apiErr.Message)
		assert.Equal(t, "https://docs.github.com/rest", apiErr.DocsURL)
	})

	t.Run("transport failure becomes APIError with status zero", func(t *testing.T) {
		client, server := setupTestClient(t, http.NotFoundHandler())
		server.Close() // connection refused from here on

		_, _, err := client.ListRepositories(context.Background(), "octocat", 1, 30)

		require.Error(t, err)
		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 0, apiErr.Status)
		assert.NotEmpty(t, apiErr.Message)
	})
}

func TestClient_GetCommitDetail(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello-world/commits/abc123", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, `{
			"sha": "abc123",
			"node_id": "node123",
			"url": "https://api.github.com/repos/octocat/hello-world/commits/abc123",
			"html_url": "https://github.com/octocat/hello-world/commit/abc123",
			"commit": {
				"message": "feat: add greeting\n\nWith a body.",
				"author": {"name": "Mona", "email": "mona@github.com", "date": "2024-01-01T12:00:00Z"},
				"committer": {"name": "Mona", "email": "mona@github.com", "date": "2024-01-01T12:00:00Z"},
				"tree": {"sha": "tree123"}
			},
			"author": {"login": "mona", "id": 7, "avatar_url": "https://avatars.example/7", "html_url": "https://github.com/mona"},
			"committer": null,
			"stats": {"total": 12, "additions": 10, "deletions": 2},
			"files": [
				{"sha": "f1", "filename": "main.go", "status": "modified", "additions": 10, "deletions": 2, "changes": 12, "blob_url": "b", "raw_url": "r", "contents_url": "c", "patch": "@@ -1 +1 @@"}
			],
			"parents": [
				{"sha": "parent1", "url": "https://api.github.com/repos/octocat/hello-world/commits/parent1", "html_url": "https://github.com/octocat/hello-world/commit/parent1"}
			]
		}`)
	})
	client, _ := setupTestClient(t, handler)

	detail, err := client.GetCommitDetail(context.Background(), "octocat", "hello-world", "abc123")

	require.NoError(t, err)
	assert.Equal(t, "abc123", detail.SHA)
	assert.Equal(t, "feat: add greeting\n\nWith a body.", detail.Message)
	assert.Equal(t, "Mona", detail.Author.Name)
	assert.Equal(t, "tree123", detail.TreeSHA)
	require.NotNil(t, detail.AuthorAccount)
	assert.Equal(t, "mona", detail.AuthorAccount.Login)
	assert.Nil(t, detail.CommitterAccount)
	assert.Equal(t, 12, detail.Stats.Total)
	require.Len(t, detail.Files, 1)
	assert.Equal(t, "main.go", detail.Files[0].Filename)
	assert.Equal(t, "modified", detail.Files[0].Status)
	require.Len(t, detail.Parents, 1)
	assert.Equal(t, "parent1", detail.Parents[0].SHA)
}

func TestClient_UserExists(t *testing.T) {
	t.Run("true for a 2xx answer", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/octocat", r.URL.Path)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `{"login": "octocat", "id": 583231}`)
		})
		client, _ := setupTestClient(t, handler)

		exists, err := client.UserExists(context.Background(), "octocat")

		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("false for 404, no error", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintln(w, `{"message": "Not Found"}`)
		})
		client, _ := setupTestClient(t, handler)

		exists, err := client.UserExists(context.Background(), "no-such-user")

		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("other failures are re-raised", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprintln(w, `{"message": "upstream down"}`)
		})
		client, _ := setupTestClient(t, handler)

		_, err := client.UserExists(context.Background(), "octocat")

		require.Error(t, err)
		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	})
}
