package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/SupplyGuard-Compliance/internal/config"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

// Tenant resolves the tenant scope for the request.  A tenant carried in the
// token claims wins; otherwise the configured header is consulted.  When the
// deployment requires tenancy, requests without either are rejected.
func Tenant(cfg config.MultitenancyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tenant common.TenantID

		if p := Principal(c); p != nil && p.TenantID != 0 {
			tenant = common.TenantID(p.TenantID)
		} else if raw := c.GetHeader(cfg.TenantHeader); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id < 0 {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"code": "COMMON_002", "message": "invalid tenant header",
				})
				return
			}
			tenant = common.TenantID(id)
		}

		if cfg.RequireTenant && tenant.IsGlobal() {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code": "COMMON_002", "message": "tenant is required",
			})
			return
		}

		c.Set(ContextKeyTenantID, tenant)
		c.Next()
	}
}
