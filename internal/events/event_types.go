package events

import (
	"time"

	"github.com/spec-kit/workload-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRecordCreated EventType = "record_created"
	EventRecordUpdated EventType = "record_updated"
	EventRecordDeleted EventType = "record_deleted"
	EventImageUploaded EventType = "image_uploaded"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role     domain.Role `json:"role"`
	Identity string      `json:"identity,omitempty"`
}

// Event represents a collection mutation emitted by entity modules.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Kind      domain.Kind `json:"kind"`
	RecordID  int         `json:"record_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RecordCreatedPayload payload.
type RecordCreatedPayload struct {
	Code string `json:"code"`
}

// RecordUpdatedPayload payload.
type RecordUpdatedPayload struct {
	Code string `json:"code"`
}

// RecordDeletedPayload payload.
type RecordDeletedPayload struct {
	Code string `json:"code"`
}

// ImageUploadedPayload payload.
type ImageUploadedPayload struct {
	Code        string `json:"code"`
	ContentType string `json:"content_type"`
	SizeBytes   int    `json:"size_bytes"`
}
