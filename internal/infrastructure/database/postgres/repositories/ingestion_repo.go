package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/ingestion"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/supplier"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

// pgxIngestionRepo uses pgx directly: bulk import is the one write path hot
// enough to justify batching below database/sql.
type pgxIngestionRepo struct {
	pool *pgxpool.Pool
	log  logging.Logger
}

// NewPgxIngestionRepo returns the bulk-import repository backed by a pgx
// pool.
func NewPgxIngestionRepo(pool *pgxpool.Pool, log logging.Logger) ingestion.Repository {
	return &pgxIngestionRepo{pool: pool, log: log}
}

func (r *pgxIngestionRepo) CreateRun(ctx context.Context, run *ingestion.Run) error {
	query := `
		INSERT INTO ingestion_runs (tenant_id, source, status, total)
		VALUES ($1, $2, $3, $4)
		RETURNING id, started_at
	`
	err := r.pool.QueryRow(ctx, query,
		int64(run.TenantID), run.Source, string(run.Status), run.Total,
	).Scan(&run.ID, &run.StartedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create ingestion run")
	}
	return nil
}

func (r *pgxIngestionRepo) FinishRun(ctx context.Context, run *ingestion.Run) error {
	query := `
		UPDATE ingestion_runs
		SET status = $2, imported = $3, skipped = $4, failed = $5, finished_at = NOW()
		WHERE id = $1
		RETURNING finished_at
	`
	err := r.pool.QueryRow(ctx, query,
		run.ID, string(run.Status), run.Imported, run.Skipped, run.Failed,
	).Scan(&run.FinishedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return errors.New(errors.ErrCodeNotFound, "ingestion run not found")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to finish ingestion run")
	}
	return nil
}

func (r *pgxIngestionRepo) GetRun(ctx context.Context, id common.ID) (*ingestion.Run, error) {
	query := `
		SELECT id, tenant_id, source, status, total, imported, skipped, failed, started_at, finished_at
		FROM ingestion_runs WHERE id = $1
	`
	return scanRun(r.pool.QueryRow(ctx, query, id))
}

func (r *pgxIngestionRepo) ListRuns(ctx context.Context, tenant common.TenantID, page common.Pagination) ([]*ingestion.Run, int64, error) {
	page = page.Normalize()

	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM ingestion_runs WHERE tenant_id = $1`, int64(tenant)).Scan(&total)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count ingestion runs")
	}

	query := `
		SELECT id, tenant_id, source, status, total, imported, skipped, failed, started_at, finished_at
		FROM ingestion_runs
		WHERE tenant_id = $1
		ORDER BY started_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, int64(tenant), page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list ingestion runs")
	}
	defer rows.Close()

	var out []*ingestion.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate ingestion runs")
	}
	return out, total, nil
}

// BulkInsertSuppliers batches one INSERT per row, skipping duplicates rather
// than aborting the batch.  The NOT EXISTS guard spans the tenant's visible
// set (own rows plus global tenant-0 rows), which the per-tenant unique
// constraint alone cannot cover; ON CONFLICT still arbitrates concurrent
// same-tenant inserts.
func (r *pgxIngestionRepo) BulkInsertSuppliers(ctx context.Context, suppliers []*supplier.Supplier) (int, error) {
	if len(suppliers) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO suppliers (tenant_id, name, normalized_name, country, industry)
		SELECT $1, $2, $3, $4, $5
		WHERE NOT EXISTS (
			SELECT 1 FROM suppliers
			WHERE (tenant_id = $1 OR tenant_id = 0)
			  AND normalized_name = $3 AND COALESCE(country, '') = COALESCE($4, '')
		)
		ON CONFLICT (tenant_id, normalized_name, country) DO NOTHING
	`
	for _, s := range suppliers {
		batch.Queue(query, int64(s.TenantID), s.Name, s.NormalizedName, s.Country, s.Industry)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range suppliers {
		tag, err := results.Exec()
		if err != nil {
			return inserted, errors.Wrap(err, errors.ErrCodeDatabaseError, "bulk supplier insert failed")
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func scanRun(row pgx.Row) (*ingestion.Run, error) {
	run := &ingestion.Run{}
	var tenant int64
	var status string
	err := row.Scan(&run.ID, &tenant, &run.Source, &status, &run.Total,
		&run.Imported, &run.Skipped, &run.Failed, &run.StartedAt, &run.FinishedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.New(errors.ErrCodeNotFound, "ingestion run not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan ingestion run")
	}
	run.TenantID = common.TenantID(tenant)
	run.Status = ingestion.RunStatus(status)
	return run, nil
}
