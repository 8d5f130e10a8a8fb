// Package kafka publishes domain events for assessments, resolutions and
// audit trails.  Publishing is best-effort: callers treat failures as
// non-fatal and the whole package can be disabled through configuration.
package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/SupplyGuard-Compliance/internal/config"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
)

// ErrProducerClosed is returned by Publish after Close.
var ErrProducerClosed = errors.New(errors.ErrCodeInternal, "producer closed")

// Publisher is the event publishing surface used by application services.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, env *EventEnvelope) error
	Close() error
}

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ProducerMetrics holds producer counters.
type ProducerMetrics struct {
	MessagesSent   atomic.Int64
	MessagesFailed atomic.Int64
	BytesSent      atomic.Int64
}

// Producer publishes envelopes to Kafka.
type Producer struct {
	writer  WriterInterface
	logger  logging.Logger
	closed  atomic.Bool
	metrics ProducerMetrics
}

// NewPublisher builds a Publisher from configuration.  When Kafka is
// disabled a no-op publisher is returned so callers never need to branch.
func NewPublisher(cfg config.KafkaConfig, log logging.Logger) Publisher {
	if !cfg.Enabled {
		log.Info("Kafka disabled, events will not be published")
		return NopPublisher{}
	}
	return NewProducer(cfg, log)
}

// NewProducer creates a Producer against the configured brokers.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) *Producer {
	retries := cfg.ProducerRetries
	if retries <= 0 {
		retries = 3
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}

	var acks kafka.RequiredAcks
	switch cfg.RequiredAcks {
	case 0:
		acks = kafka.RequireNone
	case -1:
		acks = kafka.RequireAll
	default:
		acks = kafka.RequireOne
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		MaxAttempts:  retries + 1,
		BatchSize:    batchSize,
		BatchTimeout: time.Second,
		WriteTimeout: writeTimeout,
		RequiredAcks: acks,
		Transport:    &kafka.Transport{DialTimeout: 10 * time.Second},
	}

	return &Producer{writer: writer, logger: log}
}

// NewProducerWithWriter wraps an existing writer (for testing).
func NewProducerWithWriter(w WriterInterface, log logging.Logger) *Producer {
	return &Producer{writer: w, logger: log}
}

// PublishEvent serializes the envelope and writes it keyed by key, so events
// for the same supplier land on the same partition in order.
func (p *Producer) PublishEvent(ctx context.Context, topic, key string, env *EventEnvelope) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	if topic == "" {
		return errors.New(errors.ErrCodeValidation, "topic is required")
	}
	if env == nil {
		return errors.New(errors.ErrCodeValidation, "event envelope is required")
	}

	value, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event envelope")
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(env.EventType)},
			{Key: "event_id", Value: []byte(env.EventID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.MessagesFailed.Add(1)
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to publish event")
	}

	p.metrics.MessagesSent.Add(1)
	p.metrics.BytesSent.Add(int64(len(value)))
	p.logger.Debug("event published",
		logging.String("topic", topic),
		logging.String("event_type", env.EventType))
	return nil
}

// Metrics returns a counter snapshot.
func (p *Producer) Metrics() (sent, failed, bytes int64) {
	return p.metrics.MessagesSent.Load(), p.metrics.MessagesFailed.Load(), p.metrics.BytesSent.Load()
}

// Close flushes and closes the writer.  Safe to call more than once.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.logger.Info("Kafka producer closed", logging.Int64("sent", p.metrics.MessagesSent.Load()))
	return err
}

// NopPublisher drops all events.  Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishEvent(context.Context, string, string, *EventEnvelope) error { return nil }
func (NopPublisher) Close() error                                                      { return nil }
