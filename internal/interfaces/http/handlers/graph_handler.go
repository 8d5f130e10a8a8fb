package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/SupplyGuard-Compliance/internal/application/graphrisk"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/graph"
	"github.com/turtacn/SupplyGuard-Compliance/internal/intelligence/extraction"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
)

// GraphHandler serves the ownership-graph endpoints: triple intake, risk
// propagation and neighborhood views.
type GraphHandler struct {
	graphRisk graphrisk.Service
}

// NewGraphHandler creates the handler.
func NewGraphHandler(graphRisk graphrisk.Service) *GraphHandler {
	return &GraphHandler{graphRisk: graphRisk}
}

type ingestTriplesRequest struct {
	Triples []extraction.Triple `json:"triples" binding:"required"`
}

// IngestTriples admits extracted relationship candidates into the graph.
func (h *GraphHandler) IngestTriples(c *gin.Context) {
	var req ingestTriplesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidParam("invalid request body"))
		return
	}
	res, err := h.graphRisk.IngestTriples(c.Request.Context(), req.Triples)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Risk returns the graph risk contribution for an entity name.
func (h *GraphHandler) Risk(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		respondError(c, errors.InvalidParam("entity name is required"))
		return
	}
	contribution := h.graphRisk.Propagate(c.Request.Context(), name)
	c.JSON(http.StatusOK, gin.H{"entity": name, "contribution": contribution})
}

// Neighborhood returns the bounded subgraph around an entity.
func (h *GraphHandler) Neighborhood(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		respondError(c, errors.InvalidParam("entity name is required"))
		return
	}
	hops := graph.MaxTraversalHops
	if raw := c.Query("hops"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, errors.InvalidParam("invalid hops parameter"))
			return
		}
		hops = v
	}
	sub, err := h.graphRisk.Neighborhood(c.Request.Context(), name, hops)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}
