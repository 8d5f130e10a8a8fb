// Package handlers implements the gin HTTP handlers for the compliance API.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/SupplyGuard-Compliance/internal/interfaces/http/middleware"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

// respondError maps application errors onto HTTP responses, masking internal
// detail for 5xx codes.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = "internal server error"
	}
	c.JSON(status, common.ErrorDetail{Code: string(code), Message: message})
}

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (common.ID, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(c, errors.InvalidParam("invalid path parameter").WithDetail(name))
		return 0, false
	}
	return common.ID(id), true
}

// pagination parses page/page_size query parameters with safe bounds.
func pagination(c *gin.Context) common.Pagination {
	page := common.Pagination{Page: 1, PageSize: 20}
	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		page.Page = v
	}
	if v, err := strconv.Atoi(c.Query("page_size")); err == nil {
		page.PageSize = v
	}
	page = page.Normalize()
	return page
}

// pagedResponse is the standard list envelope.
type pagedResponse struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func respondPage(c *gin.Context, items interface{}, total int64, page common.Pagination) {
	c.JSON(http.StatusOK, pagedResponse{
		Items:    items,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

func tenantFrom(c *gin.Context) common.TenantID { return middleware.TenantID(c) }

func actorFrom(c *gin.Context) common.UserID {
	if p := middleware.Principal(c); p != nil {
		return common.UserID(p.Subject)
	}
	return ""
}
