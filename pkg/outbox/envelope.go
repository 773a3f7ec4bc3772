package outbox

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
	"github.com/google/uuid"
)

// ActorRef identifies who produced the event.
type ActorRef struct {
	UserID   uuid.UUID      `json:"userId"`
	UserType enums.UserType `json:"userType,omitempty"`
}

// AggregateRef names the entity the event is about.
type AggregateRef struct {
	Type enums.OutboxAggregateType `json:"type"`
	ID   uuid.UUID                 `json:"id"`
}

// PayloadEnvelope is the JSON stored in outbox_events.payload and published as the
// Pub/Sub message body. EventID equals the outbox row id, so consumers can dedupe on it.
type PayloadEnvelope struct {
	Version    int                   `json:"version"`
	EventID    string                `json:"eventId"`
	EventType  enums.OutboxEventType `json:"eventType,omitempty"`
	Aggregate  *AggregateRef         `json:"aggregate,omitempty"`
	OccurredAt time.Time             `json:"occurredAt"`
	Actor      *ActorRef             `json:"actor,omitempty"`
	Data       json.RawMessage       `json:"data"`
}

// HasData reports whether Data holds a non-null JSON value.
func (e PayloadEnvelope) HasData() bool {
	trimmed := bytes.TrimSpace(e.Data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// DecodeEnvelope parses a stored payload column.
func DecodeEnvelope(raw []byte) (PayloadEnvelope, error) {
	var envelope PayloadEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return PayloadEnvelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return envelope, nil
}
