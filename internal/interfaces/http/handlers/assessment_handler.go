package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/SupplyGuard-Compliance/internal/application/scoring"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/assessment"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
)

// AssessmentHandler serves assessment runs, history and scoring-config
// administration.
type AssessmentHandler struct {
	engine scoring.Service
}

// NewAssessmentHandler creates the handler.
func NewAssessmentHandler(engine scoring.Service) *AssessmentHandler {
	return &AssessmentHandler{engine: engine}
}

// Run executes a scoring pass for the supplier.
func (h *AssessmentHandler) Run(c *gin.Context) {
	id, ok := pathID(c, "supplierID")
	if !ok {
		return
	}
	out, err := h.engine.Assess(c.Request.Context(), &scoring.AssessInput{
		TenantID:   tenantFrom(c),
		SupplierID: id,
		Actor:      actorFrom(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// History lists the supplier's assessment records, newest first.
func (h *AssessmentHandler) History(c *gin.Context) {
	id, ok := pathID(c, "supplierID")
	if !ok {
		return
	}
	page := pagination(c)
	records, total, err := h.engine.History(c.Request.Context(), tenantFrom(c), id, page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, records, total, page)
}

type createConfigRequest struct {
	SanctionsWeight              float64 `json:"sanctions_weight"`
	DesignationFailWeight        float64 `json:"designation_fail_weight"`
	DesignationConditionalWeight float64 `json:"designation_conditional_weight"`
	Version                      string  `json:"version" binding:"required"`
	Active                       bool    `json:"active"`
}

// CreateConfig persists a new scoring configuration.
func (h *AssessmentHandler) CreateConfig(c *gin.Context) {
	var req createConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidParam("invalid request body"))
		return
	}
	cfg := &assessment.ScoringConfig{
		SanctionsWeight:              req.SanctionsWeight,
		DesignationFailWeight:        req.DesignationFailWeight,
		DesignationConditionalWeight: req.DesignationConditionalWeight,
		Version:                      req.Version,
		Active:                       req.Active,
	}
	if err := h.engine.CreateConfig(c.Request.Context(), tenantFrom(c), cfg); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cfg)
}

// ActivateConfig switches the active scoring policy.
func (h *AssessmentHandler) ActivateConfig(c *gin.Context) {
	version := c.Param("version")
	if version == "" {
		respondError(c, errors.InvalidParam("config version is required"))
		return
	}
	cfg, err := h.engine.ActivateConfig(c.Request.Context(), tenantFrom(c), version)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// ListConfigs returns every scoring configuration.
func (h *AssessmentHandler) ListConfigs(c *gin.Context) {
	configs, err := h.engine.ListConfigs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": configs})
}
