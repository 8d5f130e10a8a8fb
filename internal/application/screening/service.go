// Package screening provides the application-level signal producers consumed
// by the scoring engine: the sanctions check, the regulatory-designation
// check and the adverse-media signal.
package screening

import (
	"context"
	"fmt"

	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/audit"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/entity"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/graph"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/screening"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

// ownershipRelations are the edge types along which a parent's designation
// taints a subsidiary.
var ownershipRelations = []string{"owns", "controls", "acquired"}

// Service runs the designation-backed screening checks against a resolved
// canonical entity.
type Service interface {
	// SanctionsCheck fails when the entity carries a designation from a
	// sanctions authority (OFAC, UN, EU).
	SanctionsCheck(ctx context.Context, e *entity.CanonicalEntity) (screening.SignalResult, error)

	// DesignationCheck fails on any direct designation, returns CONDITIONAL
	// when only a graph-related owner carries one, and passes otherwise.
	DesignationCheck(ctx context.Context, e *entity.CanonicalEntity) (screening.SignalResult, error)

	// AddDesignation records a new designation against an entity.
	AddDesignation(ctx context.Context, tenant common.TenantID, entityID common.ID, authority screening.Authority, program string) (*screening.Designation, error)

	// ListDesignations returns the designations attached to an entity.
	ListDesignations(ctx context.Context, entityID common.ID) ([]*screening.Designation, error)
}

type serviceImpl struct {
	designations screening.Repository
	entities     entity.Repository
	graph        graph.Store
	auditLog     audit.Repository
	logger       logging.Logger
}

// NewService creates the screening service.
func NewService(
	designations screening.Repository,
	entities entity.Repository,
	graphStore graph.Store,
	auditLog audit.Repository,
	logger logging.Logger,
) Service {
	return &serviceImpl{
		designations: designations,
		entities:     entities,
		graph:        graphStore,
		auditLog:     auditLog,
		logger:       logger,
	}
}

func (s *serviceImpl) SanctionsCheck(ctx context.Context, e *entity.CanonicalEntity) (screening.SignalResult, error) {
	listed, err := s.designations.ListByEntity(ctx, e.ID)
	if err != nil {
		return screening.SignalResult{}, err
	}
	for _, d := range listed {
		if screening.IsSanctionsAuthority(d.Authority) {
			return screening.Fail(fmt.Sprintf("entity %q is sanctioned by %s (%s)", e.Name, d.Authority, d.Program)), nil
		}
	}
	return screening.Pass("no sanctions designations found"), nil
}

func (s *serviceImpl) DesignationCheck(ctx context.Context, e *entity.CanonicalEntity) (screening.SignalResult, error) {
	direct, err := s.designations.ListByEntity(ctx, e.ID)
	if err != nil {
		return screening.SignalResult{}, err
	}
	if len(direct) > 0 {
		d := direct[0]
		return screening.Fail(fmt.Sprintf("entity %q is designated by %s (%s)", e.Name, d.Authority, d.Program)), nil
	}

	tainted, err := s.designatedOwner(ctx, e)
	if err != nil {
		// The graph walk widens the check but must not block it.
		s.logger.Warn("owner designation walk degraded",
			logging.String("entity", e.NormalizedName), logging.Err(err))
	} else if tainted != "" {
		return screening.Conditional(fmt.Sprintf("related entity %q carries a regulatory designation", tainted)), nil
	}
	return screening.Pass("no regulatory designations found"), nil
}

// designatedOwner returns the name of the first graph-related owner carrying
// a designation, or "" when there is none.
func (s *serviceImpl) designatedOwner(ctx context.Context, e *entity.CanonicalEntity) (string, error) {
	seen := map[string]bool{}
	var owners []*entity.CanonicalEntity
	for _, relType := range ownershipRelations {
		names, err := s.graph.RelatedByType(ctx, e.NormalizedName, relType, graph.DirectionIn)
		if err != nil {
			return "", err
		}
		for _, name := range names {
			if seen[name] {
				continue
			}
			seen[name] = true
			owner, err := s.entities.GetByNormalizedName(ctx, name)
			if err != nil {
				// Graph nodes without a corpus row cannot carry designations.
				continue
			}
			owners = append(owners, owner)
		}
	}
	if len(owners) == 0 {
		return "", nil
	}

	ids := make([]common.ID, len(owners))
	for i, o := range owners {
		ids[i] = o.ID
	}
	byEntity, err := s.designations.ListByEntities(ctx, ids)
	if err != nil {
		return "", err
	}
	for _, o := range owners {
		if len(byEntity[o.ID]) > 0 {
			return o.Name, nil
		}
	}
	return "", nil
}

func (s *serviceImpl) AddDesignation(ctx context.Context, tenant common.TenantID, entityID common.ID, authority screening.Authority, program string) (*screening.Designation, error) {
	if _, err := s.entities.GetByID(ctx, entityID); err != nil {
		return nil, err
	}
	d, err := screening.NewDesignation(entityID, authority, program)
	if err != nil {
		return nil, err
	}
	if err := s.designations.Create(ctx, d); err != nil {
		return nil, err
	}

	if err := s.auditLog.Create(ctx, &audit.Entry{
		TenantID:   tenant,
		Action:     audit.ActionDesignationAdded,
		Resource:   "designation",
		ResourceID: d.ID,
		Detail:     fmt.Sprintf("%s/%s on entity %d", authority, program, entityID),
	}); err != nil {
		s.logger.Warn("failed to record designation audit entry", logging.Err(err))
	}
	return d, nil
}

func (s *serviceImpl) ListDesignations(ctx context.Context, entityID common.ID) ([]*screening.Designation, error) {
	return s.designations.ListByEntity(ctx, entityID)
}
