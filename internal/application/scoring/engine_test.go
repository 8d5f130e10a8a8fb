package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SupplyGuard-Compliance/internal/application/graphrisk"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/assessment"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/audit"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/entity"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/graph"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/screening"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/supplier"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/internal/intelligence/extraction"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

type fakeConfigRepo struct {
	active    *assessment.ScoringConfig
	getErr    error
	createErr error
	created   []*assessment.ScoringConfig
}

func (r *fakeConfigRepo) GetActive(context.Context) (*assessment.ScoringConfig, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if r.active == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no active scoring config")
	}
	return r.active, nil
}

func (r *fakeConfigRepo) Create(_ context.Context, cfg *assessment.ScoringConfig) error {
	if r.createErr != nil {
		return r.createErr
	}
	cfg.ID = common.ID(len(r.created) + 1)
	r.created = append(r.created, cfg)
	if cfg.Active {
		r.active = cfg
	}
	return nil
}

func (r *fakeConfigRepo) Activate(_ context.Context, version string) (*assessment.ScoringConfig, error) {
	for _, cfg := range r.created {
		if cfg.Version == version {
			cfg.Active = true
			r.active = cfg
			return cfg, nil
		}
	}
	return nil, errors.New(errors.ErrCodeConfigMissing, "scoring config version not found")
}

func (r *fakeConfigRepo) List(context.Context) ([]*assessment.ScoringConfig, error) {
	return r.created, nil
}

type fakeRecordRepo struct {
	records   []*assessment.Record
	createErr error
}

func (r *fakeRecordRepo) Create(_ context.Context, rec *assessment.Record) error {
	if r.createErr != nil {
		return r.createErr
	}
	rec.ID = common.ID(len(r.records) + 1)
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeRecordRepo) GetByID(_ context.Context, id common.ID) (*assessment.Record, error) {
	for _, rec := range r.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, errors.New(errors.ErrCodeAssessmentNotFound, "assessment not found")
}

func (r *fakeRecordRepo) ListBySupplier(_ context.Context, supplierID common.ID, _ common.Pagination) ([]*assessment.Record, int64, error) {
	var out []*assessment.Record
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].SupplierID == supplierID {
			out = append(out, r.records[i])
		}
	}
	return out, int64(len(out)), nil
}

type fakeSupplierRepo struct {
	supplier *supplier.Supplier
	links    []*supplier.EntityLink
}

func (r *fakeSupplierRepo) Create(context.Context, *supplier.Supplier) error { return nil }

func (r *fakeSupplierRepo) GetByID(_ context.Context, _ common.TenantID, id common.ID) (*supplier.Supplier, error) {
	if r.supplier != nil && r.supplier.ID == id {
		return r.supplier, nil
	}
	return nil, errors.New(errors.ErrCodeSupplierNotFound, "supplier not found")
}

func (r *fakeSupplierRepo) List(context.Context, common.TenantID, supplier.ListFilter, common.Pagination) ([]*supplier.Supplier, int64, error) {
	return nil, 0, nil
}
func (r *fakeSupplierRepo) Update(context.Context, *supplier.Supplier) error { return nil }
func (r *fakeSupplierRepo) CreateLink(context.Context, *supplier.EntityLink) error {
	return nil
}
func (r *fakeSupplierRepo) ListLinks(context.Context, common.ID) ([]*supplier.EntityLink, error) {
	return r.links, nil
}

type fakeEntityRepo struct{ entity *entity.CanonicalEntity }

func (r *fakeEntityRepo) Create(context.Context, *entity.CanonicalEntity) error { return nil }
func (r *fakeEntityRepo) GetByID(_ context.Context, id common.ID) (*entity.CanonicalEntity, error) {
	if r.entity != nil && r.entity.ID == id {
		return r.entity, nil
	}
	return nil, errors.New(errors.ErrCodeEntityNotFound, "entity not found")
}
func (r *fakeEntityRepo) GetByNormalizedName(context.Context, string) (*entity.CanonicalEntity, error) {
	return nil, errors.New(errors.ErrCodeEntityNotFound, "entity not found")
}
func (r *fakeEntityRepo) ListAll(context.Context) ([]*entity.CanonicalEntity, error) { return nil, nil }
func (r *fakeEntityRepo) AddAlias(context.Context, common.ID, *entity.Alias) error   { return nil }
func (r *fakeEntityRepo) Count(context.Context) (int64, error)                       { return 0, nil }

type fakeChecks struct {
	sanctions      screening.SignalResult
	sanctionsErr   error
	designation    screening.SignalResult
	designationErr error
}

func (f *fakeChecks) SanctionsCheck(context.Context, *entity.CanonicalEntity) (screening.SignalResult, error) {
	return f.sanctions, f.sanctionsErr
}

func (f *fakeChecks) DesignationCheck(context.Context, *entity.CanonicalEntity) (screening.SignalResult, error) {
	return f.designation, f.designationErr
}

func (f *fakeChecks) AddDesignation(context.Context, common.TenantID, common.ID, screening.Authority, string) (*screening.Designation, error) {
	return nil, nil
}

func (f *fakeChecks) ListDesignations(context.Context, common.ID) ([]*screening.Designation, error) {
	return nil, nil
}

type fakeMedia struct {
	contribution float64
	err          error
}

func (f *fakeMedia) Contribution(context.Context, string) (float64, error) {
	return f.contribution, f.err
}

type fakeGraphRisk struct{ contribution float64 }

func (f *fakeGraphRisk) Propagate(context.Context, string) float64 { return f.contribution }
func (f *fakeGraphRisk) IngestTriples(context.Context, []extraction.Triple) (*graphrisk.IngestResult, error) {
	return nil, nil
}
func (f *fakeGraphRisk) Neighborhood(context.Context, string, int) (*graph.Subgraph, error) {
	return nil, nil
}

type fakeAuditRepo struct{ entries []*audit.Entry }

func (r *fakeAuditRepo) Create(_ context.Context, e *audit.Entry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeAuditRepo) List(context.Context, common.TenantID, audit.Filter, common.Pagination) ([]*audit.Entry, int64, error) {
	return nil, 0, nil
}

type deps struct {
	configs   *fakeConfigRepo
	records   *fakeRecordRepo
	suppliers *fakeSupplierRepo
	entities  *fakeEntityRepo
	checks    *fakeChecks
	media     *fakeMedia
	graphRisk *fakeGraphRisk
	auditLog  *fakeAuditRepo
}

func newDeps() *deps {
	sup, _ := supplier.New(1, "Acme Inc.", "US", "manufacturing")
	sup.ID = 10
	ent, _ := entity.New("Acme", entity.KindCompany, "US")
	ent.ID = 1
	return &deps{
		configs:   &fakeConfigRepo{},
		records:   &fakeRecordRepo{},
		suppliers: &fakeSupplierRepo{supplier: sup, links: []*supplier.EntityLink{{ID: 1, SupplierID: 10, EntityID: 1, Confidence: 100, Method: supplier.MethodAutomatic}}},
		entities:  &fakeEntityRepo{entity: ent},
		checks: &fakeChecks{
			sanctions:   screening.Pass("no sanctions designations found"),
			designation: screening.Pass("no regulatory designations found"),
		},
		media:     &fakeMedia{},
		graphRisk: &fakeGraphRisk{},
		auditLog:  &fakeAuditRepo{},
	}
}

func (d *deps) service() Service {
	return NewService(d.configs, d.records, d.suppliers, d.entities, d.checks, d.media,
		d.graphRisk, d.auditLog, kafka.NopPublisher{}, logging.NewNopLogger(), nil)
}

func assess(t *testing.T, d *deps) *Output {
	t.Helper()
	out, err := d.service().Assess(context.Background(), &AssessInput{TenantID: 1, SupplierID: 10})
	require.NoError(t, err)
	return out
}

func TestAssess_CleanSupplierPasses(t *testing.T) {
	t.Parallel()

	d := newDeps()
	out := assess(t, d)

	assert.Equal(t, 0.0, out.Record.Score)
	assert.Equal(t, assessment.VerdictPass, out.Record.Verdict)
	assert.Equal(t, assessment.BriefPass, out.Brief)
	assert.Empty(t, out.Explanations)
	assert.Equal(t, "v1", out.Record.ConfigVersion)
}

func TestAssess_PersistsDefaultConfigWhenNoneActive(t *testing.T) {
	t.Parallel()

	d := newDeps()
	assess(t, d)

	require.Len(t, d.configs.created, 1)
	cfg := d.configs.created[0]
	assert.Equal(t, "v1", cfg.Version)
	assert.Equal(t, 70.0, cfg.SanctionsWeight)
	assert.Equal(t, 30.0, cfg.DesignationFailWeight)
	assert.Equal(t, 15.0, cfg.DesignationConditionalWeight)
	assert.True(t, cfg.Active)

	// The next run reads the persisted default instead of minting another.
	assess(t, d)
	assert.Len(t, d.configs.created, 1)
}

func TestAssess_SanctionedAndDesignatedSupplierFails(t *testing.T) {
	t.Parallel()

	d := newDeps()
	d.checks.sanctions = screening.Fail(`entity "Acme" is sanctioned by OFAC (SDN)`)
	d.checks.designation = screening.Fail(`entity "Acme" is designated by OFAC (SDN)`)
	out := assess(t, d)

	assert.Equal(t, 100.0, out.Record.Score)
	assert.Equal(t, assessment.VerdictFail, out.Record.Verdict)
	assert.Equal(t, assessment.BriefFail, out.Brief)
	require.Len(t, out.Explanations, 2)
	assert.Contains(t, out.Explanations[0], "sanctioned")
}

func TestAssess_ConditionalOnlyPasses(t *testing.T) {
	t.Parallel()

	d := newDeps()
	d.checks.designation = screening.Conditional(`related entity "Globex" carries a regulatory designation`)
	out := assess(t, d)

	assert.Equal(t, 15.0, out.Record.Score)
	assert.Equal(t, assessment.VerdictPass, out.Record.Verdict)
	require.Len(t, out.Explanations, 1)
}

func TestAssess_VerdictBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		media float64
		want  assessment.Verdict
	}{
		{39, assessment.VerdictPass},
		{40, assessment.VerdictConditional},
		{74, assessment.VerdictConditional},
		{75, assessment.VerdictFail},
	}
	for _, tt := range tests {
		d := newDeps()
		d.media.contribution = tt.media
		out := assess(t, d)
		assert.Equal(t, tt.want, out.Record.Verdict, "media=%v", tt.media)
		assert.Equal(t, tt.media, out.Record.Score)
	}
}

func TestAssess_ScoreIsCapped(t *testing.T) {
	t.Parallel()

	d := newDeps()
	d.checks.sanctions = screening.Fail("sanctioned")
	d.checks.designation = screening.Fail("designated")
	d.media.contribution = 25
	d.graphRisk.contribution = 50
	out := assess(t, d)

	assert.Equal(t, 100.0, out.Record.Score)
	assert.Equal(t, assessment.VerdictFail, out.Record.Verdict)
}

func TestAssess_ExplanationOrder(t *testing.T) {
	t.Parallel()

	d := newDeps()
	d.checks.sanctions = screening.Fail("sanctions finding")
	d.checks.designation = screening.Conditional("designation finding")
	d.media.contribution = 10
	d.graphRisk.contribution = 20
	out := assess(t, d)

	require.Len(t, out.Explanations, 4)
	assert.Equal(t, "sanctions finding", out.Explanations[0])
	assert.Equal(t, "designation finding", out.Explanations[1])
	assert.Contains(t, out.Explanations[2], "adverse media")
	assert.Contains(t, out.Explanations[3], "graph")
}

func TestAssess_Monotonicity(t *testing.T) {
	t.Parallel()

	base := newDeps()
	baseline := assess(t, base).Record.Score

	richer := []func(*deps){
		func(d *deps) { d.checks.sanctions = screening.Fail("sanctioned") },
		func(d *deps) { d.checks.designation = screening.Fail("designated") },
		func(d *deps) { d.checks.designation = screening.Conditional("related finding") },
		func(d *deps) { d.media.contribution = 5 },
		func(d *deps) { d.graphRisk.contribution = 10 },
	}
	for _, apply := range richer {
		d := newDeps()
		apply(d)
		assert.GreaterOrEqual(t, assess(t, d).Record.Score, baseline)
	}
}

func TestAssess_SignalFailureIsFailOpen(t *testing.T) {
	t.Parallel()

	d := newDeps()
	d.checks.sanctionsErr = errors.New(errors.ErrCodeSignalUnavailable, "collaborator down")
	d.media.err = errors.New(errors.ErrCodeSignalUnavailable, "media down")
	d.checks.designation = screening.Conditional("related finding")
	out := assess(t, d)

	assert.Equal(t, 15.0, out.Record.Score)
	assert.Equal(t, assessment.VerdictPass, out.Record.Verdict)
}

func TestAssess_ConfigLoadFailureIsFatal(t *testing.T) {
	t.Parallel()

	d := newDeps()
	d.configs.getErr = errors.New(errors.ErrCodeDatabaseError, "connection lost")
	_, err := d.service().Assess(context.Background(), &AssessInput{TenantID: 1, SupplierID: 10})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigMissing, errors.GetCode(err))
	assert.Empty(t, d.records.records)
}

func TestAssess_PersistFailureIsFatal(t *testing.T) {
	t.Parallel()

	d := newDeps()
	d.records.createErr = errors.New(errors.ErrCodeDatabaseError, "insert failed")
	_, err := d.service().Assess(context.Background(), &AssessInput{TenantID: 1, SupplierID: 10})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodePersistenceFailure, errors.GetCode(err))
}

func TestAssess_UnresolvedSupplierRejected(t *testing.T) {
	t.Parallel()

	d := newDeps()
	d.suppliers.links = nil
	_, err := d.service().Assess(context.Background(), &AssessInput{TenantID: 1, SupplierID: 10})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestAssess_RecordsAuditEntry(t *testing.T) {
	t.Parallel()

	d := newDeps()
	assess(t, d)

	require.Len(t, d.auditLog.entries, 1)
	assert.Equal(t, audit.ActionAssessmentRun, d.auditLog.entries[0].Action)
}

func TestHistory(t *testing.T) {
	t.Parallel()

	d := newDeps()
	assess(t, d)
	assess(t, d)

	records, total, err := d.service().History(context.Background(), 1, 10, common.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, records, 2)
	assert.Greater(t, records[0].ID, records[1].ID, "history must be newest first")
}

func TestCreateAndActivateConfig(t *testing.T) {
	t.Parallel()

	d := newDeps()
	svc := d.service()

	cfg := &assessment.ScoringConfig{
		SanctionsWeight:              80,
		DesignationFailWeight:        25,
		DesignationConditionalWeight: 10,
		Version:                      "v2",
	}
	require.NoError(t, svc.CreateConfig(context.Background(), 1, cfg))

	activated, err := svc.ActivateConfig(context.Background(), 1, "v2")
	require.NoError(t, err)
	assert.True(t, activated.Active)

	d.checks.sanctions = screening.Fail("sanctioned")
	out := assess(t, d)
	assert.Equal(t, 80.0, out.Record.Score)
	assert.Equal(t, "v2", out.Record.ConfigVersion)

	bad := &assessment.ScoringConfig{Version: "", SanctionsWeight: 70}
	err = svc.CreateConfig(context.Background(), 1, bad)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}
