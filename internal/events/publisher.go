// Package events carries the outbound notification events the service emits
// after successful state transitions. Publishing is fire-and-forget: a
// failure here is logged by the caller and never rolls back the write that
// triggered it.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event source and schema version stamped on every envelope.
const (
	EventSource  = "attendify-service"
	EventVersion = "1.0"
)

// Event types.
const (
	TypeEnrollmentApproved  = "enrollment.approved"
	TypeEnrollmentDeclined  = "enrollment.declined"
	TypeEnrollmentRemoved   = "enrollment.removed"
	TypeAttendanceCorrected = "attendance.corrected"
	TypeBulkNotification    = "system.bulk_notification"
)

// Event is the versioned envelope published to the notification consumer.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent stamps a new envelope for the given type and payload.
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes events to the notification transport.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
