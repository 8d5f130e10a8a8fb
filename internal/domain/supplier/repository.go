package supplier

import (
	"context"

	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

// ListFilter narrows supplier listings.
type ListFilter struct {
	// NameQuery, when non-empty, restricts results to suppliers whose
	// normalized name contains the normalized query.
	NameQuery string
	Country   string
	Industry  string
}

// Repository defines the persistence contract for suppliers and their entity
// links.  Tenant scoping rule: a tenant sees its own rows plus global (zero
// tenant) rows.  Implementations must enforce uniqueness of
// (tenant, normalized_name, country) and surface violations as CONFLICT.
type Repository interface {
	Create(ctx context.Context, s *Supplier) error
	GetByID(ctx context.Context, tenant common.TenantID, id common.ID) (*Supplier, error)
	List(ctx context.Context, tenant common.TenantID, filter ListFilter, page common.Pagination) ([]*Supplier, int64, error)
	Update(ctx context.Context, s *Supplier) error

	// CreateLink persists a resolution link and increments the linked
	// entity's corroboration count.
	CreateLink(ctx context.Context, link *EntityLink) error
	ListLinks(ctx context.Context, supplierID common.ID) ([]*EntityLink, error)
}
