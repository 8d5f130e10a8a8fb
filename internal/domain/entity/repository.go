package entity

import (
	"context"

	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

// Repository defines the persistence contract for the canonical-entity
// corpus.  Implementations must enforce a uniqueness constraint on
// NormalizedName so that concurrent create-if-absent attempts cannot mint
// duplicate identities: the losing insert must surface a CONFLICT error.
type Repository interface {
	// Create persists a new entity and assigns its ID.  Returns a CONFLICT
	// error when another row already holds the same normalized name.
	Create(ctx context.Context, e *CanonicalEntity) error

	GetByID(ctx context.Context, id common.ID) (*CanonicalEntity, error)

	// GetByNormalizedName returns the entity whose normalized name equals
	// key exactly, or a NOT_FOUND error.
	GetByNormalizedName(ctx context.Context, key string) (*CanonicalEntity, error)

	// ListAll returns the full corpus with aliases and link counts
	// populated, ordered by ID.  The resolver scores the whole corpus;
	// candidate pre-filtering is a repository implementation concern.
	ListAll(ctx context.Context) ([]*CanonicalEntity, error)

	// AddAlias persists an alternate name for an existing entity.
	AddAlias(ctx context.Context, entityID common.ID, alias *Alias) error

	Count(ctx context.Context) (int64, error)
}
