// Package scoring implements the assessment engine: it loads the active
// scoring policy, collects the screening signals, aggregates them into a
// bounded score, classifies the verdict and persists the run.
package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/turtacn/SupplyGuard-Compliance/internal/application/graphrisk"
	appscreening "github.com/turtacn/SupplyGuard-Compliance/internal/application/screening"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/assessment"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/audit"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/entity"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/screening"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/supplier"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

// AssessInput identifies the supplier to assess.
type AssessInput struct {
	TenantID   common.TenantID
	SupplierID common.ID
	Actor      common.UserID
}

// SignalBreakdown carries the raw per-signal results of one run.
type SignalBreakdown struct {
	Sanctions   screening.SignalResult `json:"sanctions"`
	Designation screening.SignalResult `json:"designation"`
	Media       float64                `json:"media"`
	Graph       float64                `json:"graph"`
}

// Output is the full assessment result: the persisted record with
// explanations and brief, plus the signal breakdown.
type Output struct {
	*assessment.Result
	Signals SignalBreakdown `json:"signals"`
}

// Service is the scoring engine surface.
type Service interface {
	// Assess runs a full scoring pass for a resolved supplier.
	Assess(ctx context.Context, input *AssessInput) (*Output, error)

	// History returns the supplier's assessment records, newest first.
	History(ctx context.Context, tenant common.TenantID, supplierID common.ID, page common.Pagination) ([]*assessment.Record, int64, error)

	// CreateConfig persists a new scoring configuration.
	CreateConfig(ctx context.Context, tenant common.TenantID, cfg *assessment.ScoringConfig) error

	// ActivateConfig switches the active policy to the named version.
	ActivateConfig(ctx context.Context, tenant common.TenantID, version string) (*assessment.ScoringConfig, error)

	ListConfigs(ctx context.Context) ([]*assessment.ScoringConfig, error)
}

type engine struct {
	configs   assessment.ConfigRepository
	records   assessment.RecordRepository
	suppliers supplier.Repository
	entities  entity.Repository
	checks    appscreening.Service
	media     appscreening.MediaSignal
	graphRisk graphrisk.Service
	auditLog  audit.Repository
	events    kafka.Publisher
	logger    logging.Logger
	metrics   *prometheus.AppMetrics
}

// NewService creates the scoring engine.
func NewService(
	configs assessment.ConfigRepository,
	records assessment.RecordRepository,
	suppliers supplier.Repository,
	entities entity.Repository,
	checks appscreening.Service,
	media appscreening.MediaSignal,
	graphRisk graphrisk.Service,
	auditLog audit.Repository,
	events kafka.Publisher,
	logger logging.Logger,
	metrics *prometheus.AppMetrics,
) Service {
	if metrics == nil {
		metrics = prometheus.NewNopAppMetrics()
	}
	return &engine{
		configs:   configs,
		records:   records,
		suppliers: suppliers,
		entities:  entities,
		checks:    checks,
		media:     media,
		graphRisk: graphRisk,
		auditLog:  auditLog,
		events:    events,
		logger:    logger,
		metrics:   metrics,
	}
}

func (e *engine) Assess(ctx context.Context, input *AssessInput) (*Output, error) {
	start := time.Now()

	sup, err := e.suppliers.GetByID(ctx, input.TenantID, input.SupplierID)
	if err != nil {
		return nil, err
	}
	ent, err := e.authoritativeEntity(ctx, sup)
	if err != nil {
		return nil, err
	}

	cfg, err := e.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	signals := e.collectSignals(ctx, ent)
	score, explanations := aggregate(cfg, signals)
	verdict := assessment.Classify(score)

	record := &assessment.Record{
		SupplierID:    sup.ID,
		Score:         score,
		Verdict:       verdict,
		ConfigVersion: cfg.Version,
	}
	if err := e.records.Create(ctx, record); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePersistenceFailure, "failed to persist assessment record")
	}

	e.afterAssess(ctx, input, sup, record)
	e.metrics.AssessmentsTotal.WithLabelValues(string(verdict)).Inc()
	e.metrics.AssessmentScore.WithLabelValues().Observe(score)
	e.metrics.AssessmentDuration.WithLabelValues().Observe(time.Since(start).Seconds())

	e.logger.Info("assessment completed",
		logging.Int64("supplier_id", int64(sup.ID)),
		logging.Float64("score", score),
		logging.String("verdict", string(verdict)),
		logging.String("config_version", cfg.Version))

	return &Output{
		Result: &assessment.Result{
			Record:       record,
			Explanations: explanations,
			Brief:        assessment.BriefFor(verdict),
		},
		Signals: signals,
	}, nil
}

// authoritativeEntity resolves the supplier's highest-confidence link to its
// canonical entity.
func (e *engine) authoritativeEntity(ctx context.Context, sup *supplier.Supplier) (*entity.CanonicalEntity, error) {
	links, err := e.suppliers.ListLinks(ctx, sup.ID)
	if err != nil {
		return nil, err
	}
	link := supplier.AuthoritativeLink(links)
	if link == nil {
		return nil, errors.New(errors.ErrCodeValidation, "supplier has no resolved entity").
			WithDetail(fmt.Sprintf("supplier %d", sup.ID))
	}
	return e.entities.GetByID(ctx, link.EntityID)
}

// loadConfig reads the active scoring policy.  When none is active it
// persists and uses the default.  Any other failure is fatal for the run.
func (e *engine) loadConfig(ctx context.Context) (*assessment.ScoringConfig, error) {
	cfg, err := e.configs.GetActive(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.IsNotFound(err) {
		return nil, errors.Wrap(err, errors.ErrCodeConfigMissing, "failed to load scoring config")
	}

	cfg = assessment.DefaultScoringConfig()
	if err := e.configs.Create(ctx, cfg); err != nil {
		if errors.IsConflict(err) {
			// Another run persisted the default concurrently.
			return e.configs.GetActive(ctx)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigMissing, "failed to persist default scoring config")
	}
	e.logger.Info("persisted default scoring config", logging.String("version", cfg.Version))
	return cfg, nil
}

// collectSignals runs the four signal producers.  Every producer is
// fail-open: a failure degrades its contribution to zero and is surfaced
// through metrics and logs, never as a run error.
func (e *engine) collectSignals(ctx context.Context, ent *entity.CanonicalEntity) SignalBreakdown {
	signals := SignalBreakdown{
		Sanctions:   screening.Pass("sanctions check unavailable"),
		Designation: screening.Pass("designation check unavailable"),
	}

	if res, err := e.checks.SanctionsCheck(ctx, ent); err != nil {
		e.degraded(ctx, "sanctions", ent, err)
	} else {
		signals.Sanctions = res
	}

	if res, err := e.checks.DesignationCheck(ctx, ent); err != nil {
		e.degraded(ctx, "designation", ent, err)
	} else {
		signals.Designation = res
	}

	if contribution, err := e.media.Contribution(ctx, ent.NormalizedName); err != nil {
		e.degraded(ctx, "media", ent, err)
	} else {
		signals.Media = contribution
	}

	// Propagate degrades internally.
	signals.Graph = e.graphRisk.Propagate(ctx, ent.NormalizedName)
	return signals
}

func (e *engine) degraded(_ context.Context, signal string, ent *entity.CanonicalEntity, err error) {
	e.metrics.SignalFailuresTotal.WithLabelValues(signal).Inc()
	e.logger.Warn("signal degraded to zero contribution",
		logging.String("signal", signal),
		logging.String("entity", ent.NormalizedName),
		logging.Err(err))
}

// aggregate combines the weighted signal contributions into a bounded score
// with ordered explanations: sanctions, designation, media, graph.
func aggregate(cfg *assessment.ScoringConfig, s SignalBreakdown) (float64, []string) {
	score := 0.0
	var explanations []string

	if s.Sanctions.Status == screening.StatusFail {
		score += cfg.SanctionsWeight
		explanations = append(explanations, s.Sanctions.Reason)
	}

	switch s.Designation.Status {
	case screening.StatusFail:
		score += cfg.DesignationFailWeight
		explanations = append(explanations, s.Designation.Reason)
	case screening.StatusConditional:
		score += cfg.DesignationConditionalWeight
		explanations = append(explanations, s.Designation.Reason)
	}

	if s.Media > 0 {
		score += s.Media
		explanations = append(explanations, fmt.Sprintf("adverse media signal contributed %.1f points", s.Media))
	}

	if s.Graph > 0 {
		score += s.Graph
		explanations = append(explanations, fmt.Sprintf("ownership-graph exposure contributed %.0f points", s.Graph))
	}

	if score > assessment.MaxScore {
		score = assessment.MaxScore
	}
	return score, explanations
}

// afterAssess performs the best-effort side effects of a persisted record.
func (e *engine) afterAssess(ctx context.Context, input *AssessInput, sup *supplier.Supplier, record *assessment.Record) {
	if err := e.auditLog.Create(ctx, &audit.Entry{
		TenantID:   sup.TenantID,
		Actor:      input.Actor,
		Action:     audit.ActionAssessmentRun,
		Resource:   "assessment",
		ResourceID: record.ID,
		Detail:     fmt.Sprintf("supplier %d scored %.1f (%s)", sup.ID, record.Score, record.Verdict),
	}); err != nil {
		e.logger.Warn("failed to record assessment audit entry", logging.Err(err))
	}

	payload := kafka.AssessmentCompletedPayload{
		AssessmentID:  int64(record.ID),
		SupplierID:    int64(sup.ID),
		TenantID:      int64(sup.TenantID),
		Score:         record.Score,
		Verdict:       string(record.Verdict),
		ConfigVersion: record.ConfigVersion,
		AssessedAt:    time.Now().UTC(),
	}
	env, err := kafka.NewEnvelope(kafka.TopicAssessmentCompleted, "scoring", payload)
	if err == nil {
		err = e.events.PublishEvent(ctx, kafka.TopicAssessmentCompleted, fmt.Sprintf("%d", sup.ID), env)
	}
	if err != nil {
		e.metrics.EventsPublishedTotal.WithLabelValues(kafka.TopicAssessmentCompleted, "error").Inc()
		e.logger.Warn("failed to publish assessment event", logging.Err(err))
		return
	}
	e.metrics.EventsPublishedTotal.WithLabelValues(kafka.TopicAssessmentCompleted, "ok").Inc()
}

func (e *engine) History(ctx context.Context, tenant common.TenantID, supplierID common.ID, page common.Pagination) ([]*assessment.Record, int64, error) {
	if _, err := e.suppliers.GetByID(ctx, tenant, supplierID); err != nil {
		return nil, 0, err
	}
	page = page.Normalize()
	return e.records.ListBySupplier(ctx, supplierID, page)
}

func (e *engine) CreateConfig(ctx context.Context, tenant common.TenantID, cfg *assessment.ScoringConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := e.configs.Create(ctx, cfg); err != nil {
		return err
	}
	if cfg.Active {
		e.auditConfig(ctx, tenant, cfg)
	}
	return nil
}

func (e *engine) ActivateConfig(ctx context.Context, tenant common.TenantID, version string) (*assessment.ScoringConfig, error) {
	cfg, err := e.configs.Activate(ctx, version)
	if err != nil {
		return nil, err
	}
	e.auditConfig(ctx, tenant, cfg)
	return cfg, nil
}

func (e *engine) auditConfig(ctx context.Context, tenant common.TenantID, cfg *assessment.ScoringConfig) {
	if err := e.auditLog.Create(ctx, &audit.Entry{
		TenantID:   tenant,
		Action:     audit.ActionConfigActivated,
		Resource:   "scoring_config",
		ResourceID: cfg.ID,
		Detail:     fmt.Sprintf("version %s activated", cfg.Version),
	}); err != nil {
		e.logger.Warn("failed to record config audit entry", logging.Err(err))
	}
}

func (e *engine) ListConfigs(ctx context.Context) ([]*assessment.ScoringConfig, error) {
	return e.configs.List(ctx)
}
