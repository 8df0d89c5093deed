// internal/validate/validate.go

// Package validate holds the pure username predicate. It never touches the
// network; existence checks belong to the GitHub client.
package validate

import (
	"regexp"
	"strings"
)

const maxUsernameLength = 39

// usernamePattern matches GitHub account names: alphanumerics with internal
// hyphens, no leading or trailing hyphen.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)

// Result is the outcome of a validation check. Err is empty when Valid.
type Result struct {
	Valid bool   `json:"valid"`
	Err   string `json:"error,omitempty"`
}

// Username checks s against GitHub's account name rules. The input is
// trimmed first; the checks run in order and the first failure wins.
func Username(s string) Result {
	trimmed := strings.TrimSpace(s)

	if trimmed == "" {
		return Result{Err: "Username is required"}
	}
	if len(trimmed) > maxUsernameLength {
		return Result{Err: "Username is too long (max 39 characters)"}
	}
	if !usernamePattern.MatchString(trimmed) {
		return Result{Err: "Invalid GitHub username format. Use only letters, numbers, and hyphens."}
	}
	return Result{Valid: true}
}
