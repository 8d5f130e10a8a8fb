package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/audit"
)

// AuditHandler serves the audit trail.
type AuditHandler struct {
	auditLog audit.Repository
}

// NewAuditHandler creates the handler.
func NewAuditHandler(auditLog audit.Repository) *AuditHandler {
	return &AuditHandler{auditLog: auditLog}
}

// List returns the tenant's audit entries, newest first.  Supports
// actor/action/resource query filters.
func (h *AuditHandler) List(c *gin.Context) {
	page := pagination(c)
	filter := audit.Filter{
		Actor:    c.Query("actor"),
		Action:   c.Query("action"),
		Resource: c.Query("resource"),
	}
	entries, total, err := h.auditLog.List(c.Request.Context(), tenantFrom(c), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, entries, total, page)
}
