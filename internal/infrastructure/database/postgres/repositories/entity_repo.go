package repositories

import (
	"context"
	"database/sql"

	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/entity"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/database/postgres"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

type postgresEntityRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
}

// NewPostgresEntityRepo returns the canonical-entity repository backed by
// PostgreSQL.  The unique index on normalized_name is the serialization point
// that keeps concurrent create-if-absent attempts from minting duplicates.
func NewPostgresEntityRepo(conn *postgres.Connection, log logging.Logger) entity.Repository {
	return &postgresEntityRepo{conn: conn, log: log, executor: conn.DB()}
}

func (r *postgresEntityRepo) Create(ctx context.Context, e *entity.CanonicalEntity) error {
	query := `
		INSERT INTO canonical_entities (name, normalized_name, kind, country)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.executor.QueryRowContext(ctx, query,
		e.Name, e.NormalizedName, string(e.Kind), nullString(e.Country),
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return errors.Wrap(err, errors.ErrCodeEntityDuplicate,
				"canonical entity already exists").WithDetail(e.NormalizedName)
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create canonical entity")
	}
	return nil
}

func (r *postgresEntityRepo) GetByID(ctx context.Context, id common.ID) (*entity.CanonicalEntity, error) {
	query := `
		SELECT id, name, normalized_name, kind, COALESCE(country, ''), link_count, created_at, updated_at
		FROM canonical_entities WHERE id = $1
	`
	e, err := scanEntity(r.executor.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadAliases(ctx, map[common.ID]*entity.CanonicalEntity{e.ID: e}); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *postgresEntityRepo) GetByNormalizedName(ctx context.Context, key string) (*entity.CanonicalEntity, error) {
	query := `
		SELECT id, name, normalized_name, kind, COALESCE(country, ''), link_count, created_at, updated_at
		FROM canonical_entities WHERE normalized_name = $1
	`
	e, err := scanEntity(r.executor.QueryRowContext(ctx, query, key))
	if err != nil {
		return nil, err
	}
	if err := r.loadAliases(ctx, map[common.ID]*entity.CanonicalEntity{e.ID: e}); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *postgresEntityRepo) ListAll(ctx context.Context) ([]*entity.CanonicalEntity, error) {
	query := `
		SELECT id, name, normalized_name, kind, COALESCE(country, ''), link_count, created_at, updated_at
		FROM canonical_entities ORDER BY id
	`
	rows, err := r.executor.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list canonical entities")
	}
	defer rows.Close()

	var out []*entity.CanonicalEntity
	byID := make(map[common.ID]*entity.CanonicalEntity)
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		byID[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate canonical entities")
	}
	if err := r.loadAliases(ctx, byID); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postgresEntityRepo) AddAlias(ctx context.Context, entityID common.ID, a *entity.Alias) error {
	query := `
		INSERT INTO entity_aliases (entity_id, name, normalized_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (entity_id, normalized_name) DO NOTHING
		RETURNING id, created_at
	`
	err := r.executor.QueryRowContext(ctx, query, entityID, a.Name, a.NormalizedName).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			// Alias already present; treated as a no-op.
			return nil
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to add entity alias")
	}
	a.EntityID = entityID
	return nil
}

func (r *postgresEntityRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM canonical_entities`).Scan(&n)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count canonical entities")
	}
	return n, nil
}

// loadAliases populates the Aliases slice of every entity in byID.
func (r *postgresEntityRepo) loadAliases(ctx context.Context, byID map[common.ID]*entity.CanonicalEntity) error {
	if len(byID) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, int64(id))
	}

	query := `
		SELECT id, entity_id, name, normalized_name, created_at
		FROM entity_aliases WHERE entity_id = ANY($1) ORDER BY id
	`
	rows, err := r.executor.QueryContext(ctx, query, int64Array(ids))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load entity aliases")
	}
	defer rows.Close()

	for rows.Next() {
		var a entity.Alias
		if err := rows.Scan(&a.ID, &a.EntityID, &a.Name, &a.NormalizedName, &a.CreatedAt); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan entity alias")
		}
		if e, ok := byID[a.EntityID]; ok {
			e.Aliases = append(e.Aliases, a)
		}
	}
	return rows.Err()
}

func scanEntity(s scanner) (*entity.CanonicalEntity, error) {
	e := &entity.CanonicalEntity{}
	var kind string
	err := s.Scan(&e.ID, &e.Name, &e.NormalizedName, &kind, &e.Country,
		&e.LinkCount, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(errors.ErrCodeEntityNotFound, "canonical entity not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan canonical entity")
	}
	e.Kind = entity.Kind(kind)
	return e, nil
}
