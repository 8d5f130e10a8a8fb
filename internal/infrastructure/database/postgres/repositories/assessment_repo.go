package repositories

import (
	"context"
	"database/sql"

	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/assessment"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/database/postgres"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Scoring configuration
// ─────────────────────────────────────────────────────────────────────────────

type postgresConfigRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
}

// NewPostgresConfigRepo returns the scoring-configuration repository backed
// by PostgreSQL.  A partial unique index over active rows guarantees at most
// one configuration is active.
func NewPostgresConfigRepo(conn *postgres.Connection, log logging.Logger) assessment.ConfigRepository {
	return &postgresConfigRepo{conn: conn, log: log, executor: conn.DB()}
}

const configColumns = `
	id, sanctions_weight, designation_fail_weight, designation_conditional_weight,
	version, active, created_at
`

func (r *postgresConfigRepo) GetActive(ctx context.Context) (*assessment.ScoringConfig, error) {
	query := `SELECT ` + configColumns + ` FROM scoring_configs WHERE active`
	cfg, err := scanConfig(r.executor.QueryRowContext(ctx, query))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (r *postgresConfigRepo) Create(ctx context.Context, cfg *assessment.ScoringConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !cfg.Active {
		return r.insert(ctx, r.executor, cfg)
	}

	// Deactivating the predecessor and inserting the replacement must be one
	// atomic switch: a reader between the two statements would otherwise see
	// no active config and bootstrap a default.
	tx, err := r.conn.DB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin config creation")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE scoring_configs SET active = FALSE WHERE active`); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to deactivate previous config")
	}
	if err := r.insert(ctx, tx, cfg); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to commit config creation")
	}
	return nil
}

func (r *postgresConfigRepo) insert(ctx context.Context, executor queryExecutor, cfg *assessment.ScoringConfig) error {
	query := `
		INSERT INTO scoring_configs
			(sanctions_weight, designation_fail_weight, designation_conditional_weight, version, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := executor.QueryRowContext(ctx, query,
		cfg.SanctionsWeight, cfg.DesignationFailWeight, cfg.DesignationConditionalWeight,
		cfg.Version, cfg.Active,
	).Scan(&cfg.ID, &cfg.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return errors.Wrap(err, errors.ErrCodeConflict, "scoring config version already exists").
				WithDetail(cfg.Version)
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create scoring config")
	}
	return nil
}

// Activate runs the deactivate-then-activate pair in one transaction so no
// concurrent reader ever observes zero active configs mid-switch.
func (r *postgresConfigRepo) Activate(ctx context.Context, version string) (*assessment.ScoringConfig, error) {
	tx, err := r.conn.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin config activation")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE scoring_configs SET active = FALSE WHERE active`); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to deactivate previous config")
	}

	query := `UPDATE scoring_configs SET active = TRUE WHERE version = $1 RETURNING ` + configColumns
	cfg, err := scanConfig(tx.QueryRowContext(ctx, query, version))
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.New(errors.ErrCodeConfigMissing, "scoring config version not found").
				WithDetail(version)
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to commit config activation")
	}
	return cfg, nil
}

func (r *postgresConfigRepo) List(ctx context.Context) ([]*assessment.ScoringConfig, error) {
	query := `SELECT ` + configColumns + ` FROM scoring_configs ORDER BY created_at DESC, id DESC`
	rows, err := r.executor.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list scoring configs")
	}
	defer rows.Close()

	var out []*assessment.ScoringConfig
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate scoring configs")
	}
	return out, nil
}

func scanConfig(s scanner) (*assessment.ScoringConfig, error) {
	cfg := &assessment.ScoringConfig{}
	err := s.Scan(&cfg.ID, &cfg.SanctionsWeight, &cfg.DesignationFailWeight,
		&cfg.DesignationConditionalWeight, &cfg.Version, &cfg.Active, &cfg.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(errors.ErrCodeNotFound, "no active scoring config")
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan scoring config")
	}
	return cfg, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Assessment records
// ─────────────────────────────────────────────────────────────────────────────

type postgresRecordRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
}

// NewPostgresRecordRepo returns the assessment-record repository backed by
// PostgreSQL.  Records are append-only; no update or delete path exists.
func NewPostgresRecordRepo(conn *postgres.Connection, log logging.Logger) assessment.RecordRepository {
	return &postgresRecordRepo{conn: conn, log: log, executor: conn.DB()}
}

func (r *postgresRecordRepo) Create(ctx context.Context, rec *assessment.Record) error {
	query := `
		INSERT INTO assessment_records (supplier_id, score, verdict, config_version)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.executor.QueryRowContext(ctx, query,
		rec.SupplierID, rec.Score, string(rec.Verdict), rec.ConfigVersion,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodePersistenceFailure, "failed to persist assessment record")
	}
	return nil
}

func (r *postgresRecordRepo) GetByID(ctx context.Context, id common.ID) (*assessment.Record, error) {
	query := `
		SELECT id, supplier_id, score, verdict, config_version, created_at
		FROM assessment_records WHERE id = $1
	`
	return scanRecord(r.executor.QueryRowContext(ctx, query, id))
}

func (r *postgresRecordRepo) ListBySupplier(ctx context.Context, supplierID common.ID, page common.Pagination) ([]*assessment.Record, int64, error) {
	page = page.Normalize()

	var total int64
	err := r.executor.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM assessment_records WHERE supplier_id = $1`, supplierID).Scan(&total)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count assessment records")
	}

	query := `
		SELECT id, supplier_id, score, verdict, config_version, created_at
		FROM assessment_records
		WHERE supplier_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.executor.QueryContext(ctx, query, supplierID, page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list assessment records")
	}
	defer rows.Close()

	var out []*assessment.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate assessment records")
	}
	return out, total, nil
}

func scanRecord(s scanner) (*assessment.Record, error) {
	rec := &assessment.Record{}
	var verdict string
	err := s.Scan(&rec.ID, &rec.SupplierID, &rec.Score, &verdict, &rec.ConfigVersion, &rec.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(errors.ErrCodeAssessmentNotFound, "assessment record not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan assessment record")
	}
	rec.Verdict = assessment.Verdict(verdict)
	return rec, nil
}
