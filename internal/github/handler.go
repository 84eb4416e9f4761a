package github

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"repolens-backend/internal/shared/server/respond"
)

// Handler exposes repository and branch listing endpoints.
type Handler struct {
	// DefaultToken is used when the request carries no X-GitHub-Token header.
	DefaultToken string
}

// NewHandler constructs a Handler.
func NewHandler(defaultToken string) *Handler {
	return &Handler{DefaultToken: defaultToken}
}

// RegisterRoutes attaches GitHub listing routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/github/repos", h.listRepos)
	rg.GET("/github/repos/:owner/:name/branches", h.listBranches)
}

func (h *Handler) token(c *gin.Context) string {
	if tok := strings.TrimSpace(c.GetHeader("X-GitHub-Token")); tok != "" {
		return tok
	}
	return h.DefaultToken
}

func (h *Handler) listRepos(c *gin.Context) {
	ctx := c.Request.Context()
	client := NewClient(ctx, h.token(c))

	if query := strings.TrimSpace(c.Query("q")); query != "" {
		repos, err := client.SearchRepos(ctx, query, 10)
		if err != nil {
			respond.Error(c, http.StatusBadGateway, "github_error", "failed to search repositories", nil)
			return
		}
		respond.OK(c, gin.H{"repos": repos})
		return
	}

	repos, err := client.ListUserRepos(ctx)
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "github_error", "failed to fetch repositories", nil)
		return
	}
	respond.OK(c, gin.H{"repos": repos})
}

func (h *Handler) listBranches(c *gin.Context) {
	ctx := c.Request.Context()
	owner := c.Param("owner")
	name := c.Param("name")
	if owner == "" || name == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "owner and name are required", nil)
		return
	}

	client := NewClient(ctx, h.token(c))
	branches, err := client.ListBranches(ctx, owner, name)
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "github_error", "failed to fetch branches", nil)
		return
	}

	respond.OK(c, gin.H{
		"branches":      branches,
		"defaultBranch": DefaultBranch(branches),
	})
}
