package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v81/github"
	"golang.org/x/oauth2"
)

// Repo is a repository candidate for analysis.
type Repo struct {
	Name        string    `json:"name"`
	FullName    string    `json:"fullName"`
	Owner       string    `json:"owner"`
	Description string    `json:"description,omitempty"`
	Stars       int       `json:"stars"`
	Language    string    `json:"language,omitempty"`
	HTMLURL     string    `json:"htmlUrl"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Branch is a branch candidate for analysis.
type Branch struct {
	Name      string `json:"name"`
	Protected bool   `json:"protected"`
}

// Client wraps the GitHub API for repository and branch listing.
type Client struct {
	gh *gh.Client
}

// NewClient constructs a Client. An empty token yields an unauthenticated
// client limited to public data.
func NewClient(ctx context.Context, token string) *Client {
	httpClient := http.DefaultClient
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}
	return &Client{gh: gh.NewClient(httpClient)}
}

// ListUserRepos returns the authenticated user's repositories, most recently
// updated first.
func (c *Client) ListUserRepos(ctx context.Context) ([]Repo, error) {
	repos, _, err := c.gh.Repositories.ListByAuthenticatedUser(ctx, &gh.RepositoryListByAuthenticatedUserOptions{
		Sort:        "updated",
		ListOptions: gh.ListOptions{PerPage: 50},
	})
	if err != nil {
		return nil, fmt.Errorf("list repositories: %w", err)
	}
	out := make([]Repo, 0, len(repos))
	for _, r := range repos {
		out = append(out, toRepo(r))
	}
	return out, nil
}

// SearchRepos searches repositories by query, most recently updated first.
func (c *Client) SearchRepos(ctx context.Context, query string, limit int) ([]Repo, error) {
	if limit <= 0 {
		limit = 10
	}
	result, _, err := c.gh.Search.Repositories(ctx, query, &gh.SearchOptions{
		Sort:        "updated",
		Order:       "desc",
		ListOptions: gh.ListOptions{PerPage: limit},
	})
	if err != nil {
		return nil, fmt.Errorf("search repositories: %w", err)
	}
	out := make([]Repo, 0, len(result.Repositories))
	for _, r := range result.Repositories {
		out = append(out, toRepo(r))
	}
	return out, nil
}

// ListBranches returns the branches of a repository.
func (c *Client) ListBranches(ctx context.Context, owner, name string) ([]Branch, error) {
	branches, _, err := c.gh.Repositories.ListBranches(ctx, owner, name, &gh.BranchListOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	})
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	out := make([]Branch, 0, len(branches))
	for _, b := range branches {
		out = append(out, Branch{
			Name:      b.GetName(),
			Protected: b.GetProtected(),
		})
	}
	return out, nil
}

func toRepo(r *gh.Repository) Repo {
	return Repo{
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Owner:       r.GetOwner().GetLogin(),
		Description: r.GetDescription(),
		Stars:       r.GetStargazersCount(),
		Language:    r.GetLanguage(),
		HTMLURL:     r.GetHTMLURL(),
		UpdatedAt:   r.GetUpdatedAt().Time,
	}
}
