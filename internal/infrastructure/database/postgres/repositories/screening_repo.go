package repositories

import (
	"context"

	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/screening"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/database/postgres"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

type postgresScreeningRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
}

// NewPostgresScreeningRepo returns the regulatory-designation repository
// backed by PostgreSQL.
func NewPostgresScreeningRepo(conn *postgres.Connection, log logging.Logger) screening.Repository {
	return &postgresScreeningRepo{conn: conn, log: log, executor: conn.DB()}
}

func (r *postgresScreeningRepo) Create(ctx context.Context, d *screening.Designation) error {
	query := `
		INSERT INTO regulatory_designations (entity_id, authority, program, listed_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.executor.QueryRowContext(ctx, query,
		d.EntityID, string(d.Authority), d.Program, d.ListedAt,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return errors.Wrap(err, errors.ErrCodeConflict, "designation already recorded")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create designation")
	}
	return nil
}

func (r *postgresScreeningRepo) ListByEntity(ctx context.Context, entityID common.ID) ([]*screening.Designation, error) {
	byEntity, err := r.ListByEntities(ctx, []common.ID{entityID})
	if err != nil {
		return nil, err
	}
	return byEntity[entityID], nil
}

func (r *postgresScreeningRepo) ListByEntities(ctx context.Context, entityIDs []common.ID) (map[common.ID][]*screening.Designation, error) {
	out := make(map[common.ID][]*screening.Designation, len(entityIDs))
	if len(entityIDs) == 0 {
		return out, nil
	}
	ids := make([]int64, len(entityIDs))
	for i, id := range entityIDs {
		ids[i] = int64(id)
	}

	query := `
		SELECT id, entity_id, authority, program, listed_at, created_at
		FROM regulatory_designations
		WHERE entity_id = ANY($1)
		ORDER BY listed_at DESC, id
	`
	rows, err := r.executor.QueryContext(ctx, query, int64Array(ids))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list designations")
	}
	defer rows.Close()

	for rows.Next() {
		d := &screening.Designation{}
		var authority string
		if err := rows.Scan(&d.ID, &d.EntityID, &authority, &d.Program, &d.ListedAt, &d.CreatedAt); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan designation")
		}
		d.Authority = screening.Authority(authority)
		out[d.EntityID] = append(out[d.EntityID], d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate designations")
	}
	return out, nil
}
