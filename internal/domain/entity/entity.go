// Package entity implements the canonical-entity bounded context: the
// append-only corpus of real-world organizations and individuals that
// suppliers resolve against.  All business rules concerning canonical
// identities live here; persistence is handled by the repository layer.
package entity

import (
	"time"

	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

// Kind classifies what a canonical entity represents.
type Kind string

const (
	KindCompany    Kind = "COMPANY"
	KindIndividual Kind = "INDIVIDUAL"
	// KindUnknown is assigned to entities minted by the resolver when no
	// existing identity matched; later enrichment may reclassify them.
	KindUnknown Kind = "UNKNOWN"
)

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindCompany, KindIndividual, KindUnknown:
		return true
	}
	return false
}

// Alias is an alternate name for a canonical entity.  Aliases widen match
// recall: the resolver scores a candidate by its canonical name and every
// alias, keeping the best.
type Alias struct {
	ID             common.ID `json:"id"`
	EntityID       common.ID `json:"entity_id"`
	Name           string    `json:"name"`
	NormalizedName string    `json:"normalized_name"`
	CreatedAt      time.Time `json:"created_at"`
}

// CanonicalEntity is the identity record for a real-world organization or
// individual.  Rows are append-only: normal operation never deletes one, and
// mutation is limited to adding aliases or correcting metadata.
type CanonicalEntity struct {
	ID             common.ID `json:"id"`
	Name           string    `json:"name"`
	NormalizedName string    `json:"normalized_name"`
	Kind           Kind      `json:"kind"`
	Country        string    `json:"country,omitempty"`
	Aliases        []Alias   `json:"aliases,omitempty"`

	// LinkCount is the number of supplier links referencing this entity.
	// Maintained by the repository; used as the corroboration tie-breaker
	// during resolution.
	LinkCount int64 `json:"link_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New constructs a CanonicalEntity from a raw name, deriving the normalized
// form.  Returns a VALIDATION error when the name normalizes to nothing.
func New(name string, kind Kind, country string) (*CanonicalEntity, error) {
	normalized := Normalize(name)
	if normalized == "" {
		return nil, errors.InvalidParam("entity name is empty after normalization")
	}
	if !kind.Valid() {
		return nil, errors.InvalidParam("unsupported entity kind").WithDetail(string(kind))
	}
	now := time.Now().UTC()
	return &CanonicalEntity{
		Name:           name,
		NormalizedName: normalized,
		Kind:           kind,
		Country:        country,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// AddAlias attaches an alternate name.  Duplicate normalized forms (including
// the canonical name itself) are ignored so alias lists stay minimal.
func (e *CanonicalEntity) AddAlias(name string) bool {
	normalized := Normalize(name)
	if normalized == "" || normalized == e.NormalizedName {
		return false
	}
	for _, a := range e.Aliases {
		if a.NormalizedName == normalized {
			return false
		}
	}
	e.Aliases = append(e.Aliases, Alias{
		EntityID:       e.ID,
		Name:           name,
		NormalizedName: normalized,
		CreatedAt:      time.Now().UTC(),
	})
	e.UpdatedAt = time.Now().UTC()
	return true
}

// MatchNames returns every normalized form this entity answers to: the
// canonical normalized name first, then each alias's.
func (e *CanonicalEntity) MatchNames() []string {
	names := make([]string, 0, 1+len(e.Aliases))
	names = append(names, e.NormalizedName)
	for _, a := range e.Aliases {
		names = append(names, a.NormalizedName)
	}
	return names
}
