// Package repositories contains the PostgreSQL implementations of the domain
// persistence contracts.
package repositories

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
)

// queryExecutor abstracts sql.DB and sql.Tx so repositories run unchanged
// inside transactions.
type queryExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// uniqueViolation SQLSTATE per the PostgreSQL documentation.
const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a unique-constraint violation,
// optionally matching a specific constraint name.
func isUniqueViolation(err error, constraint string) bool {
	pqErr, ok := err.(*pq.Error)
	if !ok || pqErr.Code != uniqueViolationCode {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// nullString maps an optional text column.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// int64Array adapts a slice for a bigint[] query parameter.
func int64Array(v []int64) interface{} {
	return pq.Array(v)
}
