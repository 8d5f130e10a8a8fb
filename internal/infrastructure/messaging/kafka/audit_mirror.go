package kafka

import (
	"context"
	"fmt"

	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/audit"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

// auditMirror decorates an audit.Repository so that every persisted entry is
// also published to the audit topic.  Publishing is best-effort: a broker
// failure never fails the write.
type auditMirror struct {
	next   audit.Repository
	events Publisher
	logger logging.Logger
}

// NewAuditMirror wraps next with event mirroring.
func NewAuditMirror(next audit.Repository, events Publisher, log logging.Logger) audit.Repository {
	return &auditMirror{next: next, events: events, logger: log}
}

func (m *auditMirror) Create(ctx context.Context, e *audit.Entry) error {
	if err := m.next.Create(ctx, e); err != nil {
		return err
	}

	env, err := NewEnvelope(TopicAuditLog, "audit", e)
	if err != nil {
		m.logger.Warn("failed to build audit event envelope", logging.Err(err))
		return nil
	}
	key := fmt.Sprintf("%d:%s", e.TenantID, e.Action)
	if err := m.events.PublishEvent(ctx, TopicAuditLog, key, env); err != nil {
		m.logger.Warn("failed to mirror audit entry to kafka",
			logging.String("action", e.Action), logging.Err(err))
	}
	return nil
}

func (m *auditMirror) List(ctx context.Context, tenant common.TenantID, filter audit.Filter, page common.Pagination) ([]*audit.Entry, int64, error) {
	return m.next.List(ctx, tenant, filter, page)
}
