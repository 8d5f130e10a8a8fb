package screening

import (
	"context"

	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

// Repository defines the persistence contract for regulatory designations.
type Repository interface {
	Create(ctx context.Context, d *Designation) error

	// ListByEntity returns every designation attached to the entity,
	// ordered by listing date descending.
	ListByEntity(ctx context.Context, entityID common.ID) ([]*Designation, error)

	// ListByEntities returns designations for a set of entities in one
	// round trip, keyed by entity ID.  Used when the designation check
	// walks graph-related parents.
	ListByEntities(ctx context.Context, entityIDs []common.ID) (map[common.ID][]*Designation, error)
}
