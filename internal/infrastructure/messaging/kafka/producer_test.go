package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SupplyGuard-Compliance/internal/config"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
)

type fakeWriter struct {
	messages []kafkago.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestProducer_PublishEvent(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	p := NewProducerWithWriter(w, logging.NewNopLogger())

	env, err := NewEnvelope(TopicAssessmentCompleted, "scoring", AssessmentCompletedPayload{
		AssessmentID: 7,
		SupplierID:   42,
		Score:        85,
		Verdict:      "FAIL",
	})
	require.NoError(t, err)

	require.NoError(t, p.PublishEvent(context.Background(), TopicAssessmentCompleted, "42", env))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, TopicAssessmentCompleted, msg.Topic)
	assert.Equal(t, []byte("42"), msg.Key)

	var got EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, TopicAssessmentCompleted, got.EventType)
	assert.Equal(t, "supplyguard.scoring", got.Source)
	assert.NotEmpty(t, got.EventID)

	var payload AssessmentCompletedPayload
	require.NoError(t, json.Unmarshal(got.Payload, &payload))
	assert.Equal(t, int64(42), payload.SupplierID)
	assert.Equal(t, "FAIL", payload.Verdict)

	sent, failed, _ := p.Metrics()
	assert.Equal(t, int64(1), sent)
	assert.Equal(t, int64(0), failed)
}

func TestProducer_PublishEvent_Validation(t *testing.T) {
	t.Parallel()

	p := NewProducerWithWriter(&fakeWriter{}, logging.NewNopLogger())

	err := p.PublishEvent(context.Background(), "", "k", &EventEnvelope{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	err = p.PublishEvent(context.Background(), TopicAuditLog, "k", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestProducer_PublishEvent_WriteFailure(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{err: errors.New("broker down")}
	p := NewProducerWithWriter(w, logging.NewNopLogger())

	env, err := NewEnvelope(TopicAuditLog, "audit", map[string]string{"action": "supplier.created"})
	require.NoError(t, err)

	err = p.PublishEvent(context.Background(), TopicAuditLog, "1", env)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeExternalService, apperrors.GetCode(err))

	_, failed, _ := p.Metrics()
	assert.Equal(t, int64(1), failed)
}

func TestProducer_Close(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	p := NewProducerWithWriter(w, logging.NewNopLogger())

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
	require.NoError(t, p.Close())

	err := p.PublishEvent(context.Background(), TopicAuditLog, "k", &EventEnvelope{})
	assert.Equal(t, ErrProducerClosed, err)
}

func TestNewPublisher_Disabled(t *testing.T) {
	t.Parallel()

	pub := NewPublisher(config.KafkaConfig{Enabled: false}, logging.NewNopLogger())
	_, ok := pub.(NopPublisher)
	require.True(t, ok)
	assert.NoError(t, pub.PublishEvent(context.Background(), TopicAuditLog, "k", nil))
	assert.NoError(t, pub.Close())
}
