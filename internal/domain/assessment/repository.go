package assessment

import (
	"context"

	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

// ConfigRepository defines the persistence contract for scoring
// configurations.
type ConfigRepository interface {
	// GetActive returns the single active configuration, or a NOT_FOUND
	// error when none is marked active.
	GetActive(ctx context.Context) (*ScoringConfig, error)

	// Create persists a new configuration row.  When cfg.Active is set the
	// implementation must atomically deactivate the previous active row.
	Create(ctx context.Context, cfg *ScoringConfig) error

	// Activate marks the given version active and deactivates all others.
	Activate(ctx context.Context, version string) (*ScoringConfig, error)

	List(ctx context.Context) ([]*ScoringConfig, error)
}

// RecordRepository defines the persistence contract for assessment records.
type RecordRepository interface {
	Create(ctx context.Context, r *Record) error
	GetByID(ctx context.Context, id common.ID) (*Record, error)

	// ListBySupplier returns the supplier's assessment history, newest
	// first.
	ListBySupplier(ctx context.Context, supplierID common.ID, page common.Pagination) ([]*Record, int64, error)
}
