// Package supplier implements the supplier bounded context: tenant-scoped
// business-relationship records and their resolution links into the
// canonical-entity corpus.
package supplier

import (
	"time"

	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/entity"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

// ResolutionMethod records how a supplier-entity link was established.
type ResolutionMethod string

const (
	// MethodAutomatic marks links whose similarity cleared the acceptance
	// threshold without human review.
	MethodAutomatic ResolutionMethod = "AUTOMATIC"
	// MethodManual marks links confirmed (or pending confirmation) by an
	// analyst, including below-threshold suggestions.
	MethodManual ResolutionMethod = "MANUAL"
)

// Supplier is a business relationship under compliance monitoring.  Rows with
// a zero tenant ID are global seed data visible to every tenant.
type Supplier struct {
	ID             common.ID       `json:"id"`
	TenantID       common.TenantID `json:"tenant_id"`
	Name           string          `json:"name"`
	NormalizedName string          `json:"normalized_name"`
	Country        string          `json:"country,omitempty"`
	Industry       string          `json:"industry,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// EntityLink joins a supplier to a canonical entity with the confidence of
// that resolution.  A supplier may carry several links (ambiguous
// resolution); the highest-confidence link is the authoritative one.
type EntityLink struct {
	ID         common.ID        `json:"id"`
	SupplierID common.ID        `json:"supplier_id"`
	EntityID   common.ID        `json:"entity_id"`
	Confidence float64          `json:"confidence"` // [0,100]
	Method     ResolutionMethod `json:"method"`
	CreatedAt  time.Time        `json:"created_at"`
}

// New constructs a Supplier from a raw registration request, deriving the
// normalized name.  Returns a VALIDATION error for names that normalize to
// nothing.
func New(tenantID common.TenantID, name, country, industry string) (*Supplier, error) {
	normalized := entity.Normalize(name)
	if normalized == "" {
		return nil, errors.InvalidParam("supplier name is empty after normalization")
	}
	now := time.Now().UTC()
	return &Supplier{
		TenantID:       tenantID,
		Name:           name,
		NormalizedName: normalized,
		Country:        country,
		Industry:       industry,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// NewLink constructs an EntityLink, validating the confidence range.
func NewLink(supplierID, entityID common.ID, confidence float64, method ResolutionMethod) (*EntityLink, error) {
	if confidence < 0 || confidence > 100 {
		return nil, errors.InvalidParam("link confidence out of range [0,100]")
	}
	switch method {
	case MethodAutomatic, MethodManual:
	default:
		return nil, errors.InvalidParam("unsupported resolution method").WithDetail(string(method))
	}
	return &EntityLink{
		SupplierID: supplierID,
		EntityID:   entityID,
		Confidence: confidence,
		Method:     method,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// AuthoritativeLink picks the link the scoring engine should trust: the
// highest confidence, ties broken by earliest creation then lowest ID.
// Returns nil for an empty slice.
func AuthoritativeLink(links []*EntityLink) *EntityLink {
	var best *EntityLink
	for _, l := range links {
		switch {
		case best == nil:
			best = l
		case l.Confidence != best.Confidence:
			if l.Confidence > best.Confidence {
				best = l
			}
		case !l.CreatedAt.Equal(best.CreatedAt):
			if l.CreatedAt.Before(best.CreatedAt) {
				best = l
			}
		case l.ID < best.ID:
			best = l
		}
	}
	return best
}
