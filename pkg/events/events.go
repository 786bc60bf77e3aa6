package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType identifies a row-level change on one of the realtime tables.
type EventType string

const (
	EventMessageCreated     EventType = "message.created"
	EventMessageUpdated     EventType = "message.updated"
	EventChatCreated        EventType = "chat.created"
	EventChatUpdated        EventType = "chat.updated"
	EventTypingChanged      EventType = "typing.changed"
	EventProfileUpdated     EventType = "profile.updated"
	EventPresenceChanged    EventType = "presence.changed"
	EventParticipantUpdated EventType = "participant.updated"
)

// Event is a typed delta describing a single row change. ChatID scopes the
// event to a chat's participants; events without one fan out to every
// connected client (profile and presence updates).
type Event struct {
	Type       EventType       `json:"type"`
	ChatID     *uuid.UUID      `json:"chat_id,omitempty"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewEvent marshals payload into a delta event stamped with the current time.
func NewEvent(eventType EventType, chatID *uuid.UUID, payload interface{}) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		Type:       eventType,
		ChatID:     chatID,
		Payload:    data,
		OccurredAt: time.Now().UTC(),
	}, nil
}

type Handler func(ctx context.Context, event Event) error

type Publisher interface {
	Publish(ctx context.Context, channel string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler Handler) error
}

type Broker interface {
	Publisher
	Subscriber
}
