package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SupplyGuard-Compliance/internal/domain/audit"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/types/common"
)

type memAuditRepo struct {
	entries   []*audit.Entry
	createErr error
}

func (r *memAuditRepo) Create(_ context.Context, e *audit.Entry) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *memAuditRepo) List(context.Context, common.TenantID, audit.Filter, common.Pagination) ([]*audit.Entry, int64, error) {
	return r.entries, int64(len(r.entries)), nil
}

func TestAuditMirror_PublishesAfterWrite(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	next := &memAuditRepo{}
	repo := NewAuditMirror(next, NewProducerWithWriter(w, logging.NewNopLogger()), logging.NewNopLogger())

	entry := &audit.Entry{TenantID: 1, Actor: "analyst", Action: audit.ActionSupplierCreated, Resource: "supplier", ResourceID: 9}
	require.NoError(t, repo.Create(context.Background(), entry))

	require.Len(t, next.entries, 1)
	require.Len(t, w.messages, 1)
	assert.Equal(t, TopicAuditLog, w.messages[0].Topic)

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &env))
	assert.Equal(t, "supplyguard.audit", env.Source)

	var got audit.Entry
	require.NoError(t, json.Unmarshal(env.Payload, &got))
	assert.Equal(t, audit.ActionSupplierCreated, got.Action)
}

func TestAuditMirror_BrokerFailureDoesNotFailWrite(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{err: errors.New("broker down")}
	next := &memAuditRepo{}
	repo := NewAuditMirror(next, NewProducerWithWriter(w, logging.NewNopLogger()), logging.NewNopLogger())

	err := repo.Create(context.Background(), &audit.Entry{TenantID: 1, Action: audit.ActionAssessmentRun, Resource: "assessment"})
	require.NoError(t, err)
	assert.Len(t, next.entries, 1)
}

func TestAuditMirror_WriteFailurePropagates(t *testing.T) {
	t.Parallel()

	next := &memAuditRepo{createErr: errors.New("db down")}
	repo := NewAuditMirror(next, NopPublisher{}, logging.NewNopLogger())

	err := repo.Create(context.Background(), &audit.Entry{Action: audit.ActionAssessmentRun})
	require.Error(t, err)
}
