package analyses

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"repolens-backend/internal/github"
	"repolens-backend/internal/shared/server/middleware"
	"repolens-backend/internal/shared/server/respond"
	"repolens-backend/internal/webhook"
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.runAnalysis)
	rg.GET("/analyses", h.listAnalyses)
	rg.GET("/analyses/:id", h.getAnalysis)
}

type runRequest struct {
	RepoURL string `json:"repoUrl"`
	Owner   string `json:"owner"`
	Name    string `json:"name"`
	Branch  string `json:"branch"`
}

func (r runRequest) target() (webhook.RepoData, error) {
	owner, name := strings.TrimSpace(r.Owner), strings.TrimSpace(r.Name)
	if url := strings.TrimSpace(r.RepoURL); url != "" {
		var err error
		owner, name, err = github.ParseRepoURL(url)
		if err != nil {
			return webhook.RepoData{}, err
		}
	}
	if owner == "" || name == "" {
		return webhook.RepoData{}, errors.New("owner and name are required")
	}
	branch := strings.TrimSpace(r.Branch)
	if branch == "" {
		branch = "main"
	}
	return webhook.RepoData{RepoOwner: owner, RepoName: name, Branch: branch}, nil
}

func (h *Handler) runAnalysis(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	target, err := req.target()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	analysis, err := h.Svc.Run(c.Request.Context(), userID, target)
	if err != nil {
		respondPipelineError(c, err)
		return
	}

	respond.Created(c, analysisPayload(analysis))
}

func (h *Handler) getAnalysis(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	analysisID := c.Param("id")
	if analysisID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "analysis id is required", nil)
		return
	}

	analysis, err := h.Svc.Get(c.Request.Context(), userID, analysisID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		}
		return
	}

	respond.OK(c, analysisPayload(analysis))
}

func (h *Handler) listAnalyses(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 10
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	analyses, err := h.Svc.List(c.Request.Context(), userID, limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		return
	}

	items := make([]gin.H, 0, len(analyses))
	for _, a := range analyses {
		items = append(items, analysisPayload(a))
	}
	respond.OK(c, gin.H{"analyses": items})
}

func analysisPayload(a Analysis) gin.H {
	return gin.H{
		"id":        a.ID,
		"repo":      a.Repo,
		"result":    a.Result,
		"createdAt": a.CreatedAt,
	}
}

func respondPipelineError(c *gin.Context, err error) {
	var perr *PipelineError
	if !errors.As(err, &perr) {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "analysis failed", nil)
		return
	}

	status := http.StatusInternalServerError
	switch perr.Kind {
	case KindQuotaExceeded, KindRateLimited:
		status = http.StatusTooManyRequests
	case KindTimeout:
		status = http.StatusGatewayTimeout
	case KindNetworkUnreachable, KindEndpointMisconfigured, KindUpstreamServerError,
		KindEmptyOrMalformedResponse, KindMalformedPayloadJSON, KindMissingRequiredField:
		status = http.StatusBadGateway
	}

	respond.Error(c, status, strings.ToLower(string(perr.Kind)), perr.Message, gin.H{
		"retryable": perr.Kind.Retryable(),
	})
}
