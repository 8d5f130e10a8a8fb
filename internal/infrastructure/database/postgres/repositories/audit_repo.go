package repositories

import (
	"context"
	"fmt"

	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/audit"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/database/postgres"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

type postgresAuditRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
}

// NewPostgresAuditRepo returns the audit-trail repository backed by
// PostgreSQL.
func NewPostgresAuditRepo(conn *postgres.Connection, log logging.Logger) audit.Repository {
	return &postgresAuditRepo{conn: conn, log: log, executor: conn.DB()}
}

func (r *postgresAuditRepo) Create(ctx context.Context, e *audit.Entry) error {
	query := `
		INSERT INTO audit_log (tenant_id, actor, action, resource, resource_id, detail)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.executor.QueryRowContext(ctx, query,
		int64(e.TenantID), string(e.Actor), e.Action, e.Resource, e.ResourceID, nullString(e.Detail),
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to write audit entry")
	}
	return nil
}

func (r *postgresAuditRepo) List(ctx context.Context, tenant common.TenantID, filter audit.Filter, page common.Pagination) ([]*audit.Entry, int64, error) {
	page = page.Normalize()

	cond := "tenant_id = $1"
	args := []interface{}{int64(tenant)}
	if filter.Actor != "" {
		args = append(args, filter.Actor)
		cond += fmt.Sprintf(" AND actor = $%d", len(args))
	}
	if filter.Action != "" {
		args = append(args, filter.Action)
		cond += fmt.Sprintf(" AND action = $%d", len(args))
	}
	if filter.Resource != "" {
		args = append(args, filter.Resource)
		cond += fmt.Sprintf(" AND resource = $%d", len(args))
	}

	var total int64
	err := r.executor.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_log WHERE `+cond, args...).Scan(&total)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count audit entries")
	}

	query := fmt.Sprintf(`
		SELECT id, tenant_id, actor, action, resource, resource_id, COALESCE(detail, ''), created_at
		FROM audit_log
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, cond, len(args)+1, len(args)+2)
	args = append(args, page.PageSize, page.Offset())
	rows, err := r.executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list audit entries")
	}
	defer rows.Close()

	var out []*audit.Entry
	for rows.Next() {
		e := &audit.Entry{}
		var tenantID int64
		var actor string
		if err := rows.Scan(&e.ID, &tenantID, &actor, &e.Action, &e.Resource,
			&e.ResourceID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan audit entry")
		}
		e.TenantID = common.TenantID(tenantID)
		e.Actor = common.UserID(actor)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate audit entries")
	}
	return out, total, nil
}
