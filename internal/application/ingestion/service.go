// Package ingestion provides the application-level bulk supplier import:
// CSV parsing, run bookkeeping and batched persistence.
package ingestion

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/audit"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/ingestion"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/supplier"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

// batchSize bounds how many rows go into one bulk insert.
const batchSize = 500

// csvColumns is the required header of a supplier import file.
var csvColumns = []string{"name", "country", "industry"}

// ImportInput describes one bulk import request.
type ImportInput struct {
	TenantID common.TenantID
	Source   string
	Actor    common.UserID
}

// Service runs bulk supplier imports.
type Service interface {
	// ImportCSV parses supplier rows from r and persists them, skipping
	// duplicates.  The returned run carries the per-row accounting.
	ImportCSV(ctx context.Context, input *ImportInput, r io.Reader) (*ingestion.Run, error)

	GetRun(ctx context.Context, id common.ID) (*ingestion.Run, error)
	ListRuns(ctx context.Context, tenant common.TenantID, page common.Pagination) ([]*ingestion.Run, int64, error)
}

type serviceImpl struct {
	runs     ingestion.Repository
	auditLog audit.Repository
	events   kafka.Publisher
	logger   logging.Logger
}

// NewService creates the ingestion service.
func NewService(runs ingestion.Repository, auditLog audit.Repository, events kafka.Publisher, logger logging.Logger) Service {
	return &serviceImpl{runs: runs, auditLog: auditLog, events: events, logger: logger}
}

func (s *serviceImpl) ImportCSV(ctx context.Context, input *ImportInput, r io.Reader) (*ingestion.Run, error) {
	if input.Source == "" {
		input.Source = "csv"
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "failed to read CSV header")
	}
	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	run := &ingestion.Run{
		TenantID:  input.TenantID,
		Source:    input.Source,
		Status:    ingestion.RunRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := s.runs.CreateRun(ctx, run); err != nil {
		return nil, err
	}

	var batch []*supplier.Supplier
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			run.Failed++
			run.Total++
			continue
		}
		run.Total++

		sup, err := rowToSupplier(input.TenantID, row, columns)
		if err != nil {
			run.Failed++
			continue
		}
		batch = append(batch, sup)

		if len(batch) >= batchSize {
			if err := s.flush(ctx, run, batch); err != nil {
				return nil, s.fail(ctx, run, err)
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := s.flush(ctx, run, batch); err != nil {
			return nil, s.fail(ctx, run, err)
		}
	}

	run.Status = ingestion.RunCompleted
	if err := s.runs.FinishRun(ctx, run); err != nil {
		return nil, err
	}
	s.afterImport(ctx, input, run)

	s.logger.Info("supplier import completed",
		logging.Int64("run_id", int64(run.ID)),
		logging.Int("total", run.Total),
		logging.Int("imported", run.Imported),
		logging.Int("skipped", run.Skipped),
		logging.Int("failed", run.Failed))
	return run, nil
}

func mapColumns(header []string) (map[string]int, error) {
	columns := map[string]int{}
	for i, h := range header {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range csvColumns[:1] {
		if _, ok := columns[required]; !ok {
			return nil, errors.New(errors.ErrCodeValidation, "CSV is missing required column").WithDetail(required)
		}
	}
	return columns, nil
}

func rowToSupplier(tenant common.TenantID, row []string, columns map[string]int) (*supplier.Supplier, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	return supplier.New(tenant, field("name"), field("country"), field("industry"))
}

func (s *serviceImpl) flush(ctx context.Context, run *ingestion.Run, batch []*supplier.Supplier) error {
	inserted, err := s.runs.BulkInsertSuppliers(ctx, batch)
	if err != nil {
		return err
	}
	run.Imported += inserted
	run.Skipped += len(batch) - inserted
	return nil
}

// fail marks the run FAILED, preserving the original error for the caller.
func (s *serviceImpl) fail(ctx context.Context, run *ingestion.Run, cause error) error {
	run.Status = ingestion.RunFailed
	if err := s.runs.FinishRun(ctx, run); err != nil {
		s.logger.Error("failed to mark import run as failed",
			logging.Int64("run_id", int64(run.ID)), logging.Err(err))
	}
	return cause
}

func (s *serviceImpl) afterImport(ctx context.Context, input *ImportInput, run *ingestion.Run) {
	if err := s.auditLog.Create(ctx, &audit.Entry{
		TenantID:   run.TenantID,
		Actor:      input.Actor,
		Action:     audit.ActionIngestionComplete,
		Resource:   "ingestion_run",
		ResourceID: run.ID,
		Detail:     fmt.Sprintf("%d imported, %d skipped, %d failed of %d", run.Imported, run.Skipped, run.Failed, run.Total),
	}); err != nil {
		s.logger.Warn("failed to record import audit entry", logging.Err(err))
	}

	payload := kafka.IngestionCompletedPayload{
		RunID:    int64(run.ID),
		TenantID: int64(run.TenantID),
		Source:   run.Source,
		Total:    run.Total,
		Imported: run.Imported,
		Skipped:  run.Skipped,
		Failed:   run.Failed,
	}
	env, err := kafka.NewEnvelope(kafka.TopicIngestionCompleted, "ingestion", payload)
	if err == nil {
		err = s.events.PublishEvent(ctx, kafka.TopicIngestionCompleted, fmt.Sprintf("%d", run.ID), env)
	}
	if err != nil {
		s.logger.Warn("failed to publish ingestion event", logging.Err(err))
	}
}

func (s *serviceImpl) GetRun(ctx context.Context, id common.ID) (*ingestion.Run, error) {
	return s.runs.GetRun(ctx, id)
}

func (s *serviceImpl) ListRuns(ctx context.Context, tenant common.TenantID, page common.Pagination) ([]*ingestion.Run, int64, error) {
	page = page.Normalize()
	return s.runs.ListRuns(ctx, tenant, page)
}
