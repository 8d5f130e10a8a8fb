// Package common defines the shared primitive types used across every layer
// of the SupplyGuard-Compliance platform.  It must not import any other
// platform package.
package common

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ID is the stable integer identifier used for all relational rows
// (suppliers, canonical entities, designations, assessments).
type ID int64

// UserID identifies an authenticated principal.
type UserID string

// TenantID identifies the owning organization of tenant-scoped rows.
// The zero value means "global" (seed data visible to every tenant).
type TenantID int64

// IsGlobal reports whether the tenant ID denotes globally-visible seed data.
func (t TenantID) IsGlobal() bool { return t == 0 }

// Metadata is an open-ended key-value bag attached to audit records.
type Metadata map[string]interface{}

// Timestamp is a time.Time alias with RFC 3339 JSON serialization.
type Timestamp time.Time

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(time.RFC3339))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("common: invalid timestamp %q: %w", s, err)
	}
	*t = Timestamp(parsed)
	return nil
}

// Time returns the underlying time.Time.
func (t Timestamp) Time() time.Time { return time.Time(t) }

// Pagination defines parameters for paginated requests and responses.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total,omitempty"`
}

// Normalize clamps pagination parameters to safe bounds.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 200 {
		p.PageSize = 50
	}
	return p
}

// Offset returns the SQL offset for the current page.
func (p Pagination) Offset() int { return (p.Page - 1) * p.PageSize }

// ErrorDetail provides structured error information for API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// NewRequestID returns a fresh UUID v4 string for request/event correlation.
func NewRequestID() string { return uuid.NewString() }
