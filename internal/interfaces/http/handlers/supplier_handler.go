package handlers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/SupplyGuard-Compliance/internal/application/resolution"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/audit"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/entity"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/supplier"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/internal/intelligence/namematch"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

const (
	// minSearchScore is the similarity floor for fuzzy supplier search.
	minSearchScore = 60.0
	// searchScanLimit bounds how many suppliers one search pass scores.
	searchScanLimit = 5000
)

// SupplierHandler serves supplier registration, lookup and resolution.
type SupplierHandler struct {
	suppliers supplier.Repository
	resolver  resolution.Service
	auditLog  audit.Repository
	logger    logging.Logger
}

// NewSupplierHandler creates the handler.
func NewSupplierHandler(suppliers supplier.Repository, resolver resolution.Service, auditLog audit.Repository, logger logging.Logger) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers, resolver: resolver, auditLog: auditLog, logger: logger}
}

type createSupplierRequest struct {
	Name     string `json:"name" binding:"required"`
	Country  string `json:"country"`
	Industry string `json:"industry"`
	// Resolve triggers entity resolution immediately after registration.
	Resolve bool `json:"resolve"`
}

type createSupplierResponse struct {
	Supplier   *supplier.Supplier `json:"supplier"`
	Resolution *resolution.Result `json:"resolution,omitempty"`
}

// Create registers a supplier and optionally resolves it in the same call.
func (h *SupplierHandler) Create(c *gin.Context) {
	var req createSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidParam("invalid request body"))
		return
	}

	tenant := tenantFrom(c)
	sup, err := supplier.New(tenant, req.Name, req.Country, req.Industry)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.suppliers.Create(c.Request.Context(), sup); err != nil {
		respondError(c, err)
		return
	}

	if err := h.auditLog.Create(c.Request.Context(), &audit.Entry{
		TenantID:   tenant,
		Actor:      actorFrom(c),
		Action:     audit.ActionSupplierCreated,
		Resource:   "supplier",
		ResourceID: sup.ID,
		Detail:     sup.Name,
	}); err != nil {
		h.logger.Warn("failed to record supplier audit entry", logging.Err(err))
	}

	resp := createSupplierResponse{Supplier: sup}
	if req.Resolve {
		res, err := h.resolver.Resolve(c.Request.Context(), &resolution.ResolveInput{
			TenantID:   tenant,
			SupplierID: sup.ID,
			Actor:      actorFrom(c),
		})
		if err != nil {
			// Registration already succeeded; surface the resolution
			// failure without rolling it back.
			h.logger.Warn("inline resolution failed",
				logging.Int64("supplier_id", int64(sup.ID)), logging.Err(err))
		} else {
			resp.Resolution = res
		}
	}
	c.JSON(http.StatusCreated, resp)
}

// Get returns one supplier with its entity links.
func (h *SupplierHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "supplierID")
	if !ok {
		return
	}
	sup, err := h.suppliers.GetByID(c.Request.Context(), tenantFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	links, err := h.suppliers.ListLinks(c.Request.Context(), sup.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"supplier": sup, "links": links})
}

// List returns suppliers filtered by query parameters.
func (h *SupplierHandler) List(c *gin.Context) {
	page := pagination(c)
	filter := supplier.ListFilter{
		NameQuery: c.Query("q"),
		Country:   c.Query("country"),
		Industry:  c.Query("industry"),
	}
	items, total, err := h.suppliers.List(c.Request.Context(), tenantFrom(c), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, items, total, page)
}

type supplierMatch struct {
	Supplier *supplier.Supplier `json:"supplier"`
	Score    float64            `json:"score"`
}

// Search ranks suppliers by name similarity against the query, floor 60.
func (h *SupplierHandler) Search(c *gin.Context) {
	query := entity.Normalize(strings.TrimSpace(c.Query("q")))
	if query == "" {
		respondError(c, errors.InvalidParam("search query is required"))
		return
	}

	var matches []supplierMatch
	scan := common.Pagination{Page: 1, PageSize: 200}
	for scanned := 0; scanned < searchScanLimit; scan.Page++ {
		items, total, err := h.suppliers.List(c.Request.Context(), tenantFrom(c), supplier.ListFilter{}, scan)
		if err != nil {
			respondError(c, err)
			return
		}
		for _, s := range items {
			score := namematch.Score(query, s.NormalizedName)
			if score >= minSearchScore {
				matches = append(matches, supplierMatch{Supplier: s, Score: score})
			}
		}
		scanned += len(items)
		if len(items) == 0 || int64(scanned) >= total {
			break
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Supplier.ID < matches[j].Supplier.ID
	})

	page := pagination(c)
	total := int64(len(matches))
	start := int(page.Offset())
	if start > len(matches) {
		start = len(matches)
	}
	end := start + page.PageSize
	if end > len(matches) {
		end = len(matches)
	}
	respondPage(c, matches[start:end], total, page)
}

// Resolve runs entity resolution for an existing supplier.
func (h *SupplierHandler) Resolve(c *gin.Context) {
	id, ok := pathID(c, "supplierID")
	if !ok {
		return
	}
	res, err := h.resolver.Resolve(c.Request.Context(), &resolution.ResolveInput{
		TenantID:   tenantFrom(c),
		SupplierID: id,
		Actor:      actorFrom(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type confirmLinkRequest struct {
	EntityID common.ID `json:"entity_id" binding:"required"`
}

// ConfirmLink persists an analyst-approved suggestion.
func (h *SupplierHandler) ConfirmLink(c *gin.Context) {
	id, ok := pathID(c, "supplierID")
	if !ok {
		return
	}
	var req confirmLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidParam("invalid request body"))
		return
	}
	link, err := h.resolver.ConfirmLink(c.Request.Context(), &resolution.ResolveInput{
		TenantID:   tenantFrom(c),
		SupplierID: id,
		Actor:      actorFrom(c),
	}, req.EntityID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}
