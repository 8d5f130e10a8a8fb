package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
)

// Topic constants.
const (
	TopicAssessmentCompleted = "assessment.completed"
	TopicEntityResolved      = "entity.resolved"
	TopicIngestionCompleted  = "ingestion.completed"
	TopicAuditLog            = "audit.log"
)

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	TraceID       string            `json:"trace_id,omitempty"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// AssessmentCompletedPayload is emitted after a risk assessment persists.
type AssessmentCompletedPayload struct {
	AssessmentID  int64     `json:"assessment_id"`
	SupplierID    int64     `json:"supplier_id"`
	TenantID      int64     `json:"tenant_id"`
	Score         float64   `json:"score"`
	Verdict       string    `json:"verdict"`
	ConfigVersion string    `json:"config_version"`
	AssessedAt    time.Time `json:"assessed_at"`
}

// EntityResolvedPayload is emitted after a supplier links to a canonical
// entity.
type EntityResolvedPayload struct {
	SupplierID int64     `json:"supplier_id"`
	EntityID   int64     `json:"entity_id"`
	EntityName string    `json:"entity_name"`
	Confidence float64   `json:"confidence"`
	Method     string    `json:"method"`
	NewEntity  bool      `json:"new_entity"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// IngestionCompletedPayload is emitted when a bulk supplier import finishes.
type IngestionCompletedPayload struct {
	RunID    int64  `json:"run_id"`
	TenantID int64  `json:"tenant_id"`
	Source   string `json:"source"`
	Total    int    `json:"total"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
}

// NewEnvelope wraps a payload into a versioned envelope.
func NewEnvelope(eventType, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event payload")
	}
	return &EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		Source:        "supplyguard." + source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "1.0",
		Payload:       data,
	}, nil
}

// TopicForEventType maps an event type to its topic.
func TopicForEventType(eventType string) string {
	switch eventType {
	case TopicAssessmentCompleted, TopicEntityResolved, TopicIngestionCompleted, TopicAuditLog:
		return eventType
	default:
		return TopicAuditLog
	}
}
