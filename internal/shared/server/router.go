package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"repolens-backend/internal/analyses"
	"repolens-backend/internal/github"
	"repolens-backend/internal/quota"
	"repolens-backend/internal/shared/config"
	"repolens-backend/internal/shared/metrics"
	"repolens-backend/internal/shared/server/middleware"
	"repolens-backend/internal/shared/server/respond"
	"repolens-backend/internal/shared/storage/db"
	"repolens-backend/internal/webhook"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(cfg.Env),
		middleware.RateLimit(rateLimitConfig()),
	)

	// Dependencies
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var quotaSvc *quota.Service
	if sqlDB != nil {
		quotaSvc = quota.NewPostgresService(quota.NewPGStore(sqlDB))
	} else {
		quotaSvc = quota.NewService()
	}
	quotaHandler := quota.NewHandler(quotaSvc)

	var analysisRepo analyses.Repo
	if sqlDB != nil {
		analysisRepo = &analyses.PGRepo{DB: sqlDB}
	} else {
		analysisRepo = analyses.NewMemoryRepo()
	}

	var analysisClient analyses.AnalysisClient
	if client, err := webhook.NewClient(cfg.AnalysisWebhookURL); err != nil {
		log.Printf("analysis webhook disabled: %v", err)
	} else {
		analysisClient = client
	}
	analysisSvc := &analyses.Service{Repo: analysisRepo, Quota: quotaSvc, Client: analysisClient}
	analysisHandler := analyses.NewHandler(analysisSvc)

	githubHandler := github.NewHandler(cfg.GitHubToken)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	registerMeRoutes(api)
	analysisHandler.RegisterRoutes(api)
	quotaHandler.RegisterRoutes(api)
	githubHandler.RegisterRoutes(api)
	if cfg.Env == "dev" {
		dev := api.Group("/dev")
		quotaHandler.RegisterDevRoutes(dev)
	}

	return r
}

// rateLimitConfig keeps analysis runs scarce while letting result polling
// stay responsive.
func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && c.Request.URL.Path == "/api/v1/analyses" {
				return "ANALYZE"
			}
			if c.Request.Method == http.MethodGet {
				return "POLLING"
			}
			return "DEFAULT"
		},
		Rules: map[string]middleware.RateLimitRule{
			"ANALYZE": {Rate: 0.2, Burst: 2},
			"POLLING": {Rate: 5, Burst: 20},
			"DEFAULT": {Rate: 2, Burst: 5},
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
