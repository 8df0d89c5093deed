// internal/github/translate.go
package github

import (
	"github.com/google/go-github/v62/github"

	"github-explorer/internal/model"
)

// toRepository translates a github.Repository object to our internal model.
func toRepository(r *github.Repository) model.Repository {
	return model.Repository{
		ID:          r.GetID(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Description: r.Description,
		HTMLURL:     r.GetHTMLURL(),
		CreatedAt:   r.GetCreatedAt().Time,
		UpdatedAt:   r.GetUpdatedAt().Time,
		PushedAt:    r.GetPushedAt().Time,
		StarCount:   r.GetStargazersCount(),
		ForkCount:   r.GetForksCount(),
		Language:    r.Language,
		IsPrivate:   r.GetPrivate(),
	}
}

// toCommit translates a github.RepositoryCommit to the internal summary form.
func toCommit(c *github.RepositoryCommit) model.Commit {
	gitCommit := c.GetCommit()
	return model.Commit{
		SHA:              c.GetSHA(),
		NodeID:           c.GetNodeID(),
		URL:              c.GetURL(),
		HTMLURL:          c.GetHTMLURL(),
		Message:          gitCommit.GetMessage(),
		Author:           toSignature(gitCommit.GetAuthor()),
		Committer:        toSignature(gitCommit.GetCommitter()),
		TreeSHA:          gitCommit.GetTree().GetSHA(),
		AuthorAccount:    toAccount(c.Author),
		CommitterAccount: toAccount(c.Committer),
	}
}

func toCommitDetail(c *github.RepositoryCommit) *model.CommitDetail {
	detail := &model.CommitDetail{Commit: toCommit(c)}

	if stats := c.GetStats(); stats != nil {
		detail.Stats = model.CommitStats{
			Total:     stats.GetTotal(),
			Additions: stats.GetAdditions(),
			Deletions: stats.GetDeletions(),
		}
	}
	for _, f := range c.Files {
		detail.Files = append(detail.Files, model.FileChange{
			SHA:              f.GetSHA(),
			Filename:         f.GetFilename(),
			Status:           f.GetStatus(),
			Additions:        f.GetAdditions(),
			Deletions:        f.GetDeletions(),
			Changes:          f.GetChanges(),
			BlobURL:          f.GetBlobURL(),
			RawURL:           f.GetRawURL(),
			ContentsURL:      f.GetContentsURL(),
			Patch:            f.GetPatch(),
			PreviousFilename: f.GetPreviousFilename(),
		})
	}
	for _, p := range c.Parents {
		detail.Parents = append(detail.Parents, model.ParentRef{
			SHA:     p.GetSHA(),
			URL:     p.GetURL(),
			HTMLURL: p.GetHTMLURL(),
		})
	}
	return detail
}

func toSignature(a *github.CommitAuthor) model.Signature {
	return model.Signature{
		Name:  a.GetName(),
		Email: a.GetEmail(),
		Date:  a.GetDate().Time,
	}
}

// toAccount returns nil when the commit has no linked GitHub account.
func toAccount(u *github.User) *model.Account {
	if u == nil {
		return nil
	}
	return &model.Account{
		Login:     u.GetLogin(),
		ID:        u.GetID(),
		AvatarURL: u.GetAvatarURL(),
		HTMLURL:   u.GetHTMLURL(),
	}
}
