// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"context"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each event represents something significant that
// happened in the recognition domain.
const (
	EventKudosSubmitted EventType = "kudos.submitted"
	EventLikeToggled    EventType = "kudos.like_toggled"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

// EventType implements Event.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a BaseEvent stamped with the current UTC time.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

// KudosSubmittedEvent is published after a kudos event is appended to the store.
type KudosSubmittedEvent struct {
	BaseEvent
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	Category    string `json:"category"`
}

// LikeToggledEvent is published after a like toggle is applied.
type LikeToggledEvent struct {
	BaseEvent
	UserID    string `json:"user_id"`
	Liked     bool   `json:"liked"`
	LikeCount int    `json:"like_count"`
}

// EventHandler processes a single domain event.
type EventHandler interface {
	// Handle processes the event. Errors are logged by the bus, never
	// propagated back to the publisher.
	Handle(ctx context.Context, event Event) error

	// Name returns the handler name for logging.
	Name() string
}

// EventHandlerFunc adapts a function to the EventHandler interface.
type EventHandlerFunc struct {
	HandlerName string
	Fn          func(ctx context.Context, event Event) error
}

// Handle implements EventHandler.
func (f EventHandlerFunc) Handle(ctx context.Context, event Event) error {
	return f.Fn(ctx, event)
}

// Name implements EventHandler.
func (f EventHandlerFunc) Name() string {
	return f.HandlerName
}

// EventPublisher publishes domain events to interested subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher discards all events. Useful in tests and in the worker binary.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(ctx context.Context, event Event) error {
	return nil
}
