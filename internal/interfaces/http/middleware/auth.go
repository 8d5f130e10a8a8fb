// Package middleware provides the gin middleware chain for the HTTP API:
// authentication, tenant scoping, request logging and metrics.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/auth"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

// Context keys set by the middleware chain.
const (
	ContextKeyPrincipal = "principal"
	ContextKeyTenantID  = "tenant_id"
)

// Principal returns the authenticated principal from the gin context.
func Principal(c *gin.Context) *auth.Principal {
	if v, ok := c.Get(ContextKeyPrincipal); ok {
		if p, ok := v.(*auth.Principal); ok {
			return p
		}
	}
	return nil
}

// TenantID returns the resolved tenant from the gin context.
func TenantID(c *gin.Context) common.TenantID {
	if v, ok := c.Get(ContextKeyTenantID); ok {
		if t, ok := v.(common.TenantID); ok {
			return t
		}
	}
	return 0
}

// Auth verifies the bearer token and stores the principal in the context.
func Auth(verifier auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": "COMMON_003", "message": "missing bearer token",
			})
			return
		}

		principal, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": "COMMON_003", "message": "invalid or expired token",
			})
			return
		}

		c.Set(ContextKeyPrincipal, principal)
		c.Next()
	}
}

// RequireAnalyst rejects principals below the analyst role.
func RequireAnalyst() gin.HandlerFunc { return requireRank(auth.CanAssess) }

// RequireAdmin rejects principals below the admin role.
func RequireAdmin() gin.HandlerFunc { return requireRank(auth.CanAdminister) }

func requireRank(allowed func(*auth.Principal) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := Principal(c)
		if p == nil || !allowed(p) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code": "COMMON_004", "message": "insufficient role",
			})
			return
		}
		c.Next()
	}
}
