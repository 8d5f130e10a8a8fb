package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/entity"
	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/supplier"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/database/postgres"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

type postgresSupplierRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
}

// NewPostgresSupplierRepo returns the supplier repository backed by
// PostgreSQL.
func NewPostgresSupplierRepo(conn *postgres.Connection, log logging.Logger) supplier.Repository {
	return &postgresSupplierRepo{conn: conn, log: log, executor: conn.DB()}
}

func (r *postgresSupplierRepo) Create(ctx context.Context, s *supplier.Supplier) error {
	// The table constraint is per-tenant; uniqueness holds over the tenant's
	// visible set, which also spans global (tenant 0) rows, so shadowing a
	// global seed supplier has to be caught here.
	check := `SELECT EXISTS (
		SELECT 1 FROM suppliers
		WHERE ` + tenantScope + ` AND normalized_name = $2 AND COALESCE(country, '') = $3
	)`
	var exists bool
	if err := r.executor.QueryRowContext(ctx, check,
		int64(s.TenantID), s.NormalizedName, s.Country).Scan(&exists); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to check supplier uniqueness")
	}
	if exists {
		return errors.New(errors.ErrCodeSupplierDuplicate,
			"supplier already visible to this tenant").WithDetail(s.NormalizedName)
	}

	query := `
		INSERT INTO suppliers (tenant_id, name, normalized_name, country, industry)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.executor.QueryRowContext(ctx, query,
		int64(s.TenantID), s.Name, s.NormalizedName, s.Country, nullString(s.Industry),
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return errors.Wrap(err, errors.ErrCodeSupplierDuplicate,
				"supplier already registered for this tenant").WithDetail(s.NormalizedName)
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create supplier")
	}
	return nil
}

// tenantScope restricts rows to the tenant's visible set: its own rows plus
// global (tenant 0) seed rows.
const tenantScope = `(tenant_id = $1 OR tenant_id = 0)`

func (r *postgresSupplierRepo) GetByID(ctx context.Context, tenant common.TenantID, id common.ID) (*supplier.Supplier, error) {
	query := `
		SELECT id, tenant_id, name, normalized_name, COALESCE(country, ''), COALESCE(industry, ''),
		       created_at, updated_at
		FROM suppliers WHERE ` + tenantScope + ` AND id = $2
	`
	return scanSupplier(r.executor.QueryRowContext(ctx, query, int64(tenant), id))
}

func (r *postgresSupplierRepo) List(ctx context.Context, tenant common.TenantID, filter supplier.ListFilter, page common.Pagination) ([]*supplier.Supplier, int64, error) {
	page = page.Normalize()

	where := []string{tenantScope}
	args := []interface{}{int64(tenant)}
	if filter.NameQuery != "" {
		args = append(args, "%"+entity.Normalize(filter.NameQuery)+"%")
		where = append(where, fmt.Sprintf("normalized_name LIKE $%d", len(args)))
	}
	if filter.Country != "" {
		args = append(args, filter.Country)
		where = append(where, fmt.Sprintf("country = $%d", len(args)))
	}
	if filter.Industry != "" {
		args = append(args, filter.Industry)
		where = append(where, fmt.Sprintf("industry = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM suppliers WHERE ` + cond
	if err := r.executor.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count suppliers")
	}

	args = append(args, page.PageSize, page.Offset())
	query := fmt.Sprintf(`
		SELECT id, tenant_id, name, normalized_name, COALESCE(country, ''), COALESCE(industry, ''),
		       created_at, updated_at
		FROM suppliers WHERE %s ORDER BY id LIMIT $%d OFFSET $%d
	`, cond, len(args)-1, len(args))

	rows, err := r.executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list suppliers")
	}
	defer rows.Close()

	var out []*supplier.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate suppliers")
	}
	return out, total, nil
}

func (r *postgresSupplierRepo) Update(ctx context.Context, s *supplier.Supplier) error {
	query := `
		UPDATE suppliers SET
			name = $2, normalized_name = $3, country = $4, industry = $5, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.executor.ExecContext(ctx, query,
		s.ID, s.Name, s.NormalizedName, s.Country, nullString(s.Industry))
	if err != nil {
		if isUniqueViolation(err, "") {
			return errors.Wrap(err, errors.ErrCodeSupplierDuplicate, "supplier already registered for this tenant")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update supplier")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New(errors.ErrCodeSupplierNotFound, "supplier not found")
	}
	return nil
}

func (r *postgresSupplierRepo) CreateLink(ctx context.Context, link *supplier.EntityLink) error {
	query := `
		INSERT INTO supplier_entity_links (supplier_id, entity_id, confidence, method)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.executor.QueryRowContext(ctx, query,
		link.SupplierID, link.EntityID, link.Confidence, string(link.Method),
	).Scan(&link.ID, &link.CreatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create supplier-entity link")
	}

	// Corroboration count feeds the resolver's tie-break.
	_, err = r.executor.ExecContext(ctx,
		`UPDATE canonical_entities SET link_count = link_count + 1 WHERE id = $1`, link.EntityID)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to bump entity link count")
	}
	return nil
}

func (r *postgresSupplierRepo) ListLinks(ctx context.Context, supplierID common.ID) ([]*supplier.EntityLink, error) {
	query := `
		SELECT id, supplier_id, entity_id, confidence, method, created_at
		FROM supplier_entity_links WHERE supplier_id = $1 ORDER BY confidence DESC, id
	`
	rows, err := r.executor.QueryContext(ctx, query, supplierID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list supplier links")
	}
	defer rows.Close()

	var out []*supplier.EntityLink
	for rows.Next() {
		l := &supplier.EntityLink{}
		var method string
		if err := rows.Scan(&l.ID, &l.SupplierID, &l.EntityID, &l.Confidence, &method, &l.CreatedAt); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan supplier link")
		}
		l.Method = supplier.ResolutionMethod(method)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate supplier links")
	}
	return out, nil
}

func scanSupplier(s scanner) (*supplier.Supplier, error) {
	sp := &supplier.Supplier{}
	var tenant int64
	err := s.Scan(&sp.ID, &tenant, &sp.Name, &sp.NormalizedName, &sp.Country, &sp.Industry,
		&sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(errors.ErrCodeSupplierNotFound, "supplier not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan supplier")
	}
	sp.TenantID = common.TenantID(tenant)
	return sp, nil
}
