// internal/model/models.go
package model

import "time"

// SortOrder selects the derived ordering of the commits view. It is a view
// parameter only and never changes the stored commit collection.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// Repository represents the metadata of a GitHub repository. Immutable once
// fetched; the collection keeps the server order (last updated, descending).
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"fullName"`
	Description *string   `json:"description,omitempty"`
	HTMLURL     string    `json:"htmlUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	PushedAt    time.Time `json:"pushedAt"`
	StarCount   int       `json:"starCount"`
	ForkCount   int       `json:"forkCount"`
	Language    *string   `json:"language,omitempty"`
	IsPrivate   bool      `json:"isPrivate"`
}

// Account is a GitHub user account linked to a commit. Commits authored
// outside GitHub carry none.
type Account struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	AvatarURL string `json:"avatarUrl"`
	HTMLURL   string `json:"htmlUrl"`
}

// Signature identifies who wrote or committed a change, and when.
type Signature struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Date  time.Time `json:"date"`
}

// Commit is the summary form returned by the commit-list endpoint. SHA is the
// unique key within a repository's history.
type Commit struct {
	SHA              string    `json:"sha"`
	NodeID           string    `json:"nodeId"`
	URL              string    `json:"url"`
	HTMLURL          string    `json:"htmlUrl"`
	Message          string    `json:"message"`
	Author           Signature `json:"author"`
	Committer        Signature `json:"committer"`
	TreeSHA          string    `json:"treeSha"`
	AuthorAccount    *Account  `json:"authorAccount,omitempty"`
	CommitterAccount *Account  `json:"committerAccount,omitempty"`
}

// FileChange describes one file touched by a commit.
type FileChange struct {
	SHA              string `json:"sha"`
	Filename         string `json:"filename"`
	Status           string `json:"status"` // added, removed, modified, renamed, copied, changed, unchanged
	Additions        int    `json:"additions"`
	Deletions        int    `json:"deletions"`
	Changes          int    `json:"changes"`
	BlobURL          string `json:"blobUrl"`
	RawURL           string `json:"rawUrl"`
	ContentsURL      string `json:"contentsUrl"`
	Patch            string `json:"patch,omitempty"`
	PreviousFilename string `json:"previousFilename,omitempty"`
}

// CommitStats aggregates the line changes of a commit.
type CommitStats struct {
	Total     int `json:"total"`
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// ParentRef points at a parent commit.
type ParentRef struct {
	SHA     string `json:"sha"`
	URL     string `json:"url"`
	HTMLURL string `json:"htmlUrl"`
}

// CommitDetail is a commit summary plus its diff stats, file changes and
// parents. Fetched lazily, one at a time.
type CommitDetail struct {
	Commit
	Files   []FileChange `json:"files,omitempty"`
	Stats   CommitStats  `json:"stats"`
	Parents []ParentRef  `json:"parents,omitempty"`
}

// FavouriteCommit is a denormalized snapshot of a bookmarked commit. It
// carries enough of the source commit to render after the originating
// repository or commit list has been cleared.
type FavouriteCommit struct {
	SHA            string    `json:"sha"`
	RepositoryName string    `json:"repositoryName"`
	Username       string    `json:"username"`
	Commit         Commit    `json:"commit"`
	AuthorAccount  *Account  `json:"authorAccount,omitempty"`
	HTMLURL        string    `json:"htmlUrl"`
	AddedAt        time.Time `json:"addedAt"`
}

// PaginationCursor describes the next page to request for a list, not the
// size of the page already fetched.
type PaginationCursor struct {
	Page    int  `json:"page"`
	PerPage int  `json:"perPage"`
	HasMore bool `json:"hasMore"`
	Total   int  `json:"total,omitempty"`
}
