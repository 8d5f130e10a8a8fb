// Package audit implements the append-only audit trail recorded for every
// state-changing operation on the platform.
package audit

import (
	"context"
	"time"

	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

// Action names follow "<resource>.<verb>".
const (
	ActionSupplierCreated   = "supplier.created"
	ActionSupplierResolved  = "supplier.resolved"
	ActionAssessmentRun     = "assessment.run"
	ActionConfigActivated   = "scoring_config.activated"
	ActionDesignationAdded  = "designation.added"
	ActionIngestionComplete = "ingestion.completed"
)

// Entry is one audit record.  Entries are write-once; there is no update or
// delete path.
type Entry struct {
	ID         common.ID       `json:"id"`
	TenantID   common.TenantID `json:"tenant_id"`
	Actor      common.UserID   `json:"actor"`
	Action     string          `json:"action"`
	Resource   string          `json:"resource"`
	ResourceID common.ID       `json:"resource_id"`
	Detail     string          `json:"detail,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Filter narrows a trail query.  Zero-value fields are ignored.
type Filter struct {
	Actor    string
	Action   string
	Resource string
}

// Repository defines the persistence contract for audit entries.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	List(ctx context.Context, tenant common.TenantID, filter Filter, page common.Pagination) ([]*Entry, int64, error)
}
