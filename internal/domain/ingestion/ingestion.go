// Package ingestion implements bulk supplier intake: run bookkeeping and the
// high-throughput import contract.
package ingestion

import (
	"context"
	"time"

	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/supplier"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

// RunStatus tracks an import run's lifecycle.
type RunStatus string

const (
	RunRunning   RunStatus = "RUNNING"
	RunCompleted RunStatus = "COMPLETED"
	RunFailed    RunStatus = "FAILED"
)

// Run records one bulk import: where the data came from and how each row
// fared.  Skipped counts rows rejected by the tenant uniqueness constraint
// (duplicates), Failed counts rows that did not parse or validate.
type Run struct {
	ID         common.ID       `json:"id"`
	TenantID   common.TenantID `json:"tenant_id"`
	Source     string          `json:"source"`
	Status     RunStatus       `json:"status"`
	Total      int             `json:"total"`
	Imported   int             `json:"imported"`
	Skipped    int             `json:"skipped"`
	Failed     int             `json:"failed"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}

// Repository defines the persistence contract for bulk imports.
type Repository interface {
	CreateRun(ctx context.Context, r *Run) error
	FinishRun(ctx context.Context, r *Run) error
	GetRun(ctx context.Context, id common.ID) (*Run, error)
	ListRuns(ctx context.Context, tenant common.TenantID, page common.Pagination) ([]*Run, int64, error)

	// BulkInsertSuppliers inserts the batch, silently skipping rows that
	// collide with the (tenant, normalized_name, country) uniqueness
	// constraint.  Returns the number of rows actually inserted.
	BulkInsertSuppliers(ctx context.Context, suppliers []*supplier.Supplier) (int, error)
}
