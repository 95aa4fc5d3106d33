package events

import (
	"context"
	"time"
)

const (
	SubscriptionCreated   = "SUBSCRIPTION_CREATED"
	SubscriptionUpgraded  = "SUBSCRIPTION_UPGRADED"
	SubscriptionEnded     = "SUBSCRIPTION_ENDED"
	SubscriptionRemoved   = "SUBSCRIPTION_REMOVED"
	PropertyViewConsumed  = "PROPERTY_VIEW_CONSUMED"
	SubscriptionTopicRoot = "events"
)

// Types lists every event type the entitlement engine emits.
var Types = []string{
	SubscriptionCreated,
	SubscriptionUpgraded,
	SubscriptionEnded,
	SubscriptionRemoved,
	PropertyViewConsumed,
}

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SUBSCRIPTION_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher delivers events to whatever bus is configured.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func NewEvent(eventType string, data map[string]interface{}, at time.Time) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: at}
}

// Subject is the bus subject an event is published on.
func Subject(event Event) string {
	return SubscriptionTopicRoot + "." + event.EventType()
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }

// NopPublisher discards every event.
func NopPublisher() Publisher { return nopPublisher{} }
