package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/SupplyGuard-Compliance/internal/application/ingestion"
)

// maxImportBytes bounds the accepted CSV upload size.
const maxImportBytes = 32 << 20 // 32 MiB

// IngestionHandler serves bulk supplier imports.
type IngestionHandler struct {
	imports ingestion.Service
}

// NewIngestionHandler creates the handler.
func NewIngestionHandler(imports ingestion.Service) *IngestionHandler {
	return &IngestionHandler{imports: imports}
}

// Import accepts a CSV body (or multipart "file" field) of supplier rows.
func (h *IngestionHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)

	var reader io.Reader = c.Request.Body
	source := c.Query("source")

	if file, header, err := c.Request.FormFile("file"); err == nil {
		defer file.Close()
		reader = file
		if source == "" {
			source = header.Filename
		}
	}

	run, err := h.imports.ImportCSV(c.Request.Context(), &ingestion.ImportInput{
		TenantID: tenantFrom(c),
		Source:   source,
		Actor:    actorFrom(c),
	}, reader)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, run)
}

// GetRun returns one import run.
func (h *IngestionHandler) GetRun(c *gin.Context) {
	id, ok := pathID(c, "runID")
	if !ok {
		return
	}
	run, err := h.imports.GetRun(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// ListRuns returns the tenant's import history.
func (h *IngestionHandler) ListRuns(c *gin.Context) {
	page := pagination(c)
	runs, total, err := h.imports.ListRuns(c.Request.Context(), tenantFrom(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, runs, total, page)
}
