// Package resolution provides the application-level service that links
// suppliers to canonical entities by fuzzy name similarity.
package resolution

import (
	"context"
	"fmt"
	"time"

	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/audit"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/entity"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/graph"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/supplier"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SupplyGuard-Compliance/internal/intelligence/namematch"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

// Resolution thresholds on the [0,100] similarity scale.
const (
	// AutoLinkThreshold is the score at or above which a match links
	// automatically.
	AutoLinkThreshold = 80.0
	// SuggestThreshold is the score at or above which a match is surfaced
	// for manual confirmation.  Below it, a fresh entity is minted.
	SuggestThreshold = 60.0
)

// Outcome classifies what a resolution did.
type Outcome string

const (
	OutcomeMatched   Outcome = "matched"
	OutcomeSuggested Outcome = "suggested"
	OutcomeCreated   Outcome = "created"
)

// ResolveInput identifies the supplier to resolve.
type ResolveInput struct {
	TenantID   common.TenantID
	SupplierID common.ID
	Actor      common.UserID
}

// Candidate is one scored entity offered for manual confirmation.
type Candidate struct {
	EntityID   common.ID `json:"entity_id"`
	EntityName string    `json:"entity_name"`
	Confidence float64   `json:"confidence"`
}

// Result reports the outcome of a resolution.
type Result struct {
	Outcome    Outcome                 `json:"outcome"`
	Entity     *entity.CanonicalEntity `json:"entity,omitempty"`
	Link       *supplier.EntityLink    `json:"link,omitempty"`
	Confidence float64                 `json:"confidence"`
	// Candidates holds the suggestions awaiting manual confirmation; only
	// populated for OutcomeSuggested.
	Candidates []Candidate `json:"candidates,omitempty"`
	NewEntity  bool        `json:"new_entity"`
}

// Service resolves suppliers against the canonical-entity corpus.
type Service interface {
	// Resolve scores the supplier's name against the corpus and either
	// links automatically, returns suggestions, or mints a new entity.
	Resolve(ctx context.Context, input *ResolveInput) (*Result, error)

	// ConfirmLink persists an analyst-approved link to the chosen entity.
	ConfirmLink(ctx context.Context, input *ResolveInput, entityID common.ID) (*supplier.EntityLink, error)
}

type serviceImpl struct {
	entities  entity.Repository
	suppliers supplier.Repository
	graph     graph.Store
	auditLog  audit.Repository
	events    kafka.Publisher
	logger    logging.Logger
	metrics   *prometheus.AppMetrics
}

// NewService creates the resolution service.
func NewService(
	entities entity.Repository,
	suppliers supplier.Repository,
	graphStore graph.Store,
	auditLog audit.Repository,
	events kafka.Publisher,
	logger logging.Logger,
	metrics *prometheus.AppMetrics,
) Service {
	if metrics == nil {
		metrics = prometheus.NewNopAppMetrics()
	}
	return &serviceImpl{
		entities:  entities,
		suppliers: suppliers,
		graph:     graphStore,
		auditLog:  auditLog,
		events:    events,
		logger:    logger,
		metrics:   metrics,
	}
}

// scored pairs an entity with its best similarity across all match names.
type scored struct {
	entity *entity.CanonicalEntity
	score  float64
}

func (s *serviceImpl) Resolve(ctx context.Context, input *ResolveInput) (*Result, error) {
	start := time.Now()

	sup, err := s.suppliers.GetByID(ctx, input.TenantID, input.SupplierID)
	if err != nil {
		return nil, err
	}
	if sup.NormalizedName == "" {
		return nil, errors.InvalidParam("supplier name is empty after normalization")
	}

	best, runnersUp, err := s.scoreCorpus(ctx, sup.NormalizedName)
	if err != nil {
		return nil, err
	}

	var result *Result
	switch {
	case best != nil && best.score >= AutoLinkThreshold:
		result, err = s.linkAutomatic(ctx, sup, best)
	case best != nil && best.score >= SuggestThreshold:
		result = s.suggest(best, runnersUp)
	default:
		result, err = s.createAndLink(ctx, sup)
	}
	if err != nil {
		return nil, err
	}

	s.metrics.ResolutionsTotal.WithLabelValues(string(result.Outcome)).Inc()
	s.metrics.ResolutionConfidence.WithLabelValues(string(result.Outcome)).Observe(result.Confidence)
	s.metrics.ResolutionDuration.WithLabelValues().Observe(time.Since(start).Seconds())

	s.logger.Info("supplier resolved",
		logging.Int64("supplier_id", int64(sup.ID)),
		logging.String("outcome", string(result.Outcome)),
		logging.Float64("confidence", result.Confidence))
	return result, nil
}

// scoreCorpus scores every corpus entity against the normalized supplier name
// and returns the winner plus the remaining suggestion-band candidates.
// Ranking is deterministic: score desc, then link count desc, then lowest ID.
func (s *serviceImpl) scoreCorpus(ctx context.Context, normalized string) (*scored, []scored, error) {
	corpus, err := s.entities.ListAll(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrCodeResolutionFailed, "failed to load entity corpus")
	}

	var candidates []scored
	for _, e := range corpus {
		bestScore := 0.0
		for _, name := range e.MatchNames() {
			if sc := namematch.Score(normalized, name); sc > bestScore {
				bestScore = sc
			}
		}
		if bestScore >= SuggestThreshold {
			candidates = append(candidates, scored{entity: e, score: bestScore})
		}
	}
	if len(candidates) == 0 {
		return nil, nil, nil
	}

	bestIdx := 0
	for i := 1; i < len(candidates); i++ {
		if better(candidates[i], candidates[bestIdx]) {
			bestIdx = i
		}
	}
	best := candidates[bestIdx]
	rest := append(candidates[:bestIdx:bestIdx], candidates[bestIdx+1:]...)
	return &best, rest, nil
}

func better(a, b scored) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.entity.LinkCount != b.entity.LinkCount {
		return a.entity.LinkCount > b.entity.LinkCount
	}
	return a.entity.ID < b.entity.ID
}

func (s *serviceImpl) linkAutomatic(ctx context.Context, sup *supplier.Supplier, best *scored) (*Result, error) {
	link, err := supplier.NewLink(sup.ID, best.entity.ID, best.score, supplier.MethodAutomatic)
	if err != nil {
		return nil, err
	}
	if err := s.suppliers.CreateLink(ctx, link); err != nil {
		return nil, err
	}
	s.afterLink(ctx, sup, best.entity, link, false)
	return &Result{
		Outcome:    OutcomeMatched,
		Entity:     best.entity,
		Link:       link,
		Confidence: best.score,
	}, nil
}

func (s *serviceImpl) suggest(best *scored, rest []scored) *Result {
	candidates := make([]Candidate, 0, 1+len(rest))
	for _, c := range append([]scored{*best}, rest...) {
		if c.score >= AutoLinkThreshold {
			continue
		}
		candidates = append(candidates, Candidate{
			EntityID:   c.entity.ID,
			EntityName: c.entity.Name,
			Confidence: c.score,
		})
	}
	return &Result{
		Outcome:    OutcomeSuggested,
		Confidence: best.score,
		Candidates: candidates,
	}
}

// createAndLink mints a new canonical entity for an unmatched supplier.  The
// uniqueness constraint on normalized names arbitrates concurrent mints: a
// CONFLICT from Create means another writer won, so the insert is retried
// once as a lookup.
func (s *serviceImpl) createAndLink(ctx context.Context, sup *supplier.Supplier) (*Result, error) {
	e, err := entity.New(sup.Name, entity.KindUnknown, sup.Country)
	if err != nil {
		return nil, err
	}

	created := true
	if err := s.entities.Create(ctx, e); err != nil {
		if !errors.IsConflict(err) {
			return nil, err
		}
		existing, lookupErr := s.entities.GetByNormalizedName(ctx, e.NormalizedName)
		if lookupErr != nil {
			return nil, errors.Wrap(err, errors.ErrCodeEntityDuplicate, "entity create conflicted and lookup failed")
		}
		e = existing
		created = false
	}

	link, err := supplier.NewLink(sup.ID, e.ID, 100, supplier.MethodAutomatic)
	if err != nil {
		return nil, err
	}
	if err := s.suppliers.CreateLink(ctx, link); err != nil {
		return nil, err
	}
	s.afterLink(ctx, sup, e, link, created)
	return &Result{
		Outcome:    OutcomeCreated,
		Entity:     e,
		Link:       link,
		Confidence: 100,
		NewEntity:  created,
	}, nil
}

func (s *serviceImpl) ConfirmLink(ctx context.Context, input *ResolveInput, entityID common.ID) (*supplier.EntityLink, error) {
	sup, err := s.suppliers.GetByID(ctx, input.TenantID, input.SupplierID)
	if err != nil {
		return nil, err
	}
	e, err := s.entities.GetByID(ctx, entityID)
	if err != nil {
		return nil, err
	}

	confidence := 0.0
	for _, name := range e.MatchNames() {
		if sc := namematch.Score(sup.NormalizedName, name); sc > confidence {
			confidence = sc
		}
	}

	link, err := supplier.NewLink(sup.ID, e.ID, confidence, supplier.MethodManual)
	if err != nil {
		return nil, err
	}
	if err := s.suppliers.CreateLink(ctx, link); err != nil {
		return nil, err
	}
	s.afterLink(ctx, sup, e, link, false)
	s.metrics.ResolutionsTotal.WithLabelValues("confirmed").Inc()
	return link, nil
}

// afterLink performs the best-effort side effects of a persisted link: graph
// node upsert, audit entry and event publication.  Failures are logged, never
// propagated.
func (s *serviceImpl) afterLink(ctx context.Context, sup *supplier.Supplier, e *entity.CanonicalEntity, link *supplier.EntityLink, isNew bool) {
	if err := s.graph.MergeEntityNode(ctx, e.NormalizedName); err != nil {
		s.metrics.GraphWriteFailuresTotal.WithLabelValues().Inc()
		s.logger.Warn("failed to merge entity node into graph",
			logging.String("entity", e.NormalizedName), logging.Err(err))
	}

	if err := s.auditLog.Create(ctx, &audit.Entry{
		TenantID:   sup.TenantID,
		Action:     audit.ActionSupplierResolved,
		Resource:   "supplier",
		ResourceID: sup.ID,
		Detail:     fmt.Sprintf("linked to entity %d (%s) at %.1f via %s", e.ID, e.Name, link.Confidence, link.Method),
	}); err != nil {
		s.logger.Warn("failed to record resolution audit entry", logging.Err(err))
	}

	payload := kafka.EntityResolvedPayload{
		SupplierID: int64(sup.ID),
		EntityID:   int64(e.ID),
		EntityName: e.Name,
		Confidence: link.Confidence,
		Method:     string(link.Method),
		NewEntity:  isNew,
		ResolvedAt: time.Now().UTC(),
	}
	env, err := kafka.NewEnvelope(kafka.TopicEntityResolved, "resolution", payload)
	if err == nil {
		err = s.events.PublishEvent(ctx, kafka.TopicEntityResolved, fmt.Sprintf("%d", sup.ID), env)
	}
	if err != nil {
		s.metrics.EventsPublishedTotal.WithLabelValues(kafka.TopicEntityResolved, "error").Inc()
		s.logger.Warn("failed to publish resolution event", logging.Err(err))
		return
	}
	s.metrics.EventsPublishedTotal.WithLabelValues(kafka.TopicEntityResolved, "ok").Inc()
}
