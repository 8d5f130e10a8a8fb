// Package http assembles the gin route tree and the HTTP server lifecycle.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/SupplyGuard-Compliance/internal/config"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/auth"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SupplyGuard-Compliance/internal/interfaces/http/handlers"
	"github.com/turtacn/SupplyGuard-Compliance/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies for the
// complete route tree.
type RouterConfig struct {
	Suppliers   *handlers.SupplierHandler
	Assessments *handlers.AssessmentHandler
	Entities    *handlers.EntityHandler
	Graph       *handlers.GraphHandler
	Ingestion   *handlers.IngestionHandler
	Audit       *handlers.AuditHandler
	Health      *handlers.HealthHandler

	Verifier     auth.TokenVerifier
	Multitenancy config.MultitenancyConfig

	Logger         logging.Logger
	Metrics        *prometheus.AppMetrics
	MetricsHandler http.Handler
}

// NewRouter builds the route tree: public probes and metrics, then the
// authenticated, tenant-scoped /api/v1 group.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(cfg.Logger, cfg.Metrics))

	if cfg.Health != nil {
		r.GET("/healthz", cfg.Health.Liveness)
		r.GET("/readyz", cfg.Health.Readiness)
	}
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	api := r.Group("/api/v1")
	api.Use(middleware.Auth(cfg.Verifier))
	api.Use(middleware.Tenant(cfg.Multitenancy))

	if h := cfg.Suppliers; h != nil {
		api.GET("/suppliers", h.List)
		api.GET("/suppliers/search", h.Search)
		api.POST("/suppliers", middleware.RequireAnalyst(), h.Create)
		api.GET("/suppliers/:supplierID", h.Get)
		api.POST("/suppliers/:supplierID/resolve", middleware.RequireAnalyst(), h.Resolve)
		api.POST("/suppliers/:supplierID/links", middleware.RequireAnalyst(), h.ConfirmLink)
	}

	if h := cfg.Assessments; h != nil {
		api.POST("/suppliers/:supplierID/assessments", middleware.RequireAnalyst(), h.Run)
		api.GET("/suppliers/:supplierID/assessments", h.History)
		api.GET("/scoring-configs", h.ListConfigs)
		api.POST("/scoring-configs", middleware.RequireAdmin(), h.CreateConfig)
		api.POST("/scoring-configs/:version/activate", middleware.RequireAdmin(), h.ActivateConfig)
	}

	if h := cfg.Entities; h != nil {
		api.GET("/entities/:entityID", h.Get)
		api.GET("/entities/:entityID/designations", h.ListDesignations)
		api.POST("/entities/:entityID/designations", middleware.RequireAdmin(), h.AddDesignation)
	}

	if h := cfg.Graph; h != nil {
		api.POST("/graph/triples", middleware.RequireAnalyst(), h.IngestTriples)
		api.GET("/graph/risk/:name", h.Risk)
		api.GET("/graph/neighborhood/:name", h.Neighborhood)
	}

	if h := cfg.Ingestion; h != nil {
		api.POST("/imports", middleware.RequireAnalyst(), h.Import)
		api.GET("/imports", h.ListRuns)
		api.GET("/imports/:runID", h.GetRun)
	}

	if h := cfg.Audit; h != nil {
		api.GET("/audit", h.List)
	}

	return r
}
