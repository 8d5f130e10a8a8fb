package ingestion

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/audit"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/ingestion"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/supplier"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

type fakeRunRepo struct {
	runs      []*ingestion.Run
	inserted  []*supplier.Supplier
	seen      map[string]bool
	insertErr error
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{seen: map[string]bool{}}
}

func (r *fakeRunRepo) CreateRun(_ context.Context, run *ingestion.Run) error {
	run.ID = common.ID(len(r.runs) + 1)
	r.runs = append(r.runs, run)
	return nil
}

func (r *fakeRunRepo) FinishRun(context.Context, *ingestion.Run) error { return nil }

func (r *fakeRunRepo) GetRun(_ context.Context, id common.ID) (*ingestion.Run, error) {
	for _, run := range r.runs {
		if run.ID == id {
			return run, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "run not found")
}

func (r *fakeRunRepo) ListRuns(context.Context, common.TenantID, common.Pagination) ([]*ingestion.Run, int64, error) {
	return r.runs, int64(len(r.runs)), nil
}

func (r *fakeRunRepo) BulkInsertSuppliers(_ context.Context, batch []*supplier.Supplier) (int, error) {
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	inserted := 0
	for _, s := range batch {
		key := s.NormalizedName + "|" + s.Country
		if r.seen[key] {
			continue
		}
		r.seen[key] = true
		r.inserted = append(r.inserted, s)
		inserted++
	}
	return inserted, nil
}

type fakeAuditRepo struct{ entries []*audit.Entry }

func (r *fakeAuditRepo) Create(_ context.Context, e *audit.Entry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeAuditRepo) List(context.Context, common.TenantID, audit.Filter, common.Pagination) ([]*audit.Entry, int64, error) {
	return nil, 0, nil
}

func TestImportCSV(t *testing.T) {
	t.Parallel()

	repo := newFakeRunRepo()
	auditRepo := &fakeAuditRepo{}
	svc := NewService(repo, auditRepo, kafka.NopPublisher{}, logging.NewNopLogger())

	csvData := strings.Join([]string{
		"name,country,industry",
		"Acme Inc.,US,manufacturing",
		"Globex GmbH,DE,logistics",
		"Acme Corp,US,manufacturing", // duplicate of Acme Inc. after normalization
		",US,retail",                 // empty name fails validation
	}, "\n")

	run, err := svc.ImportCSV(context.Background(),
		&ImportInput{TenantID: 1, Source: "suppliers.csv"}, strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, ingestion.RunCompleted, run.Status)
	assert.Equal(t, 4, run.Total)
	assert.Equal(t, 2, run.Imported)
	assert.Equal(t, 1, run.Skipped)
	assert.Equal(t, 1, run.Failed)

	require.Len(t, repo.inserted, 2)
	assert.Equal(t, "acme", repo.inserted[0].NormalizedName)
	assert.Equal(t, "globex", repo.inserted[1].NormalizedName)

	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, audit.ActionIngestionComplete, auditRepo.entries[0].Action)
}

func TestImportCSV_MissingNameColumn(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRunRepo(), &fakeAuditRepo{}, kafka.NopPublisher{}, logging.NewNopLogger())

	_, err := svc.ImportCSV(context.Background(),
		&ImportInput{TenantID: 1}, strings.NewReader("country,industry\nUS,retail"))
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestImportCSV_InsertFailureMarksRunFailed(t *testing.T) {
	t.Parallel()

	repo := newFakeRunRepo()
	repo.insertErr = errors.New(errors.ErrCodeDatabaseError, "insert failed")
	svc := NewService(repo, &fakeAuditRepo{}, kafka.NopPublisher{}, logging.NewNopLogger())

	_, err := svc.ImportCSV(context.Background(),
		&ImportInput{TenantID: 1}, strings.NewReader("name\nAcme"))
	require.Error(t, err)

	require.Len(t, repo.runs, 1)
	assert.Equal(t, ingestion.RunFailed, repo.runs[0].Status)
}

func TestListRuns(t *testing.T) {
	t.Parallel()

	repo := newFakeRunRepo()
	svc := NewService(repo, &fakeAuditRepo{}, kafka.NopPublisher{}, logging.NewNopLogger())

	_, err := svc.ImportCSV(context.Background(),
		&ImportInput{TenantID: 1}, strings.NewReader("name\nAcme"))
	require.NoError(t, err)

	runs, total, err := svc.ListRuns(context.Background(), 1, common.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, runs, 1)

	got, err := svc.GetRun(context.Background(), runs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, runs[0].ID, got.ID)
}
