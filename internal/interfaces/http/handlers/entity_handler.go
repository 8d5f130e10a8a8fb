package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appscreening "github.com/turtacn/SupplyGuard-Compliance/internal/application/screening"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/entity"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/screening"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
)

// EntityHandler serves canonical-entity lookups and designation
// administration.
type EntityHandler struct {
	entities entity.Repository
	checks   appscreening.Service
}

// NewEntityHandler creates the handler.
func NewEntityHandler(entities entity.Repository, checks appscreening.Service) *EntityHandler {
	return &EntityHandler{entities: entities, checks: checks}
}

// Get returns one canonical entity with aliases.
func (h *EntityHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "entityID")
	if !ok {
		return
	}
	e, err := h.entities.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// ListDesignations returns the entity's designations.
func (h *EntityHandler) ListDesignations(c *gin.Context) {
	id, ok := pathID(c, "entityID")
	if !ok {
		return
	}
	listed, err := h.checks.ListDesignations(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": listed})
}

type addDesignationRequest struct {
	Authority string `json:"authority" binding:"required"`
	Program   string `json:"program" binding:"required"`
}

// AddDesignation attaches a designation to an entity.
func (h *EntityHandler) AddDesignation(c *gin.Context) {
	id, ok := pathID(c, "entityID")
	if !ok {
		return
	}
	var req addDesignationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidParam("invalid request body"))
		return
	}
	d, err := h.checks.AddDesignation(c.Request.Context(), tenantFrom(c), id,
		screening.Authority(req.Authority), req.Program)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}
