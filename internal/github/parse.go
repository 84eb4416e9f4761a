package github

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidRepoURL indicates the input matched no supported repository format.
var ErrInvalidRepoURL = errors.New("invalid repository URL")

// Accepts full github.com URLs (with optional .git suffix and trailing path
// segments) and the bare owner/name shorthand.
var repoURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`github\.com/([^/]+)/([^/]+?)(?:\.git)?(?:/.*)?$`),
	regexp.MustCompile(`^([^/]+)/([^/]+)$`),
}

// ParseRepoURL extracts owner and name from a repository URL or shorthand.
func ParseRepoURL(raw string) (owner, name string, err error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", "", ErrInvalidRepoURL
	}
	for _, pattern := range repoURLPatterns {
		if m := pattern.FindStringSubmatch(trimmed); m != nil {
			return m[1], strings.TrimSuffix(m[2], ".git"), nil
		}
	}
	return "", "", ErrInvalidRepoURL
}

// RepoURL builds the canonical URL for an owner/name pair. It round-trips
// through ParseRepoURL.
func RepoURL(owner, name string) string {
	return "https://github.com/" + owner + "/" + name
}

// DefaultBranch picks the branch an analysis should target when the user has
// not chosen one: main, then master, then the first available.
func DefaultBranch(branches []Branch) string {
	for _, b := range branches {
		if b.Name == "main" {
			return "main"
		}
	}
	for _, b := range branches {
		if b.Name == "master" {
			return "master"
		}
	}
	if len(branches) > 0 {
		return branches[0].Name
	}
	return "main"
}
