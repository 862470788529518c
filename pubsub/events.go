// Package pubsub provides the event primitives used across stratagem:
// a synchronous Signal for registry lifecycle notifications and a
// channel-backed Broker for streaming consumers such as log followers.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	RegisteredEvent   EventType = "registered"
	UnregisteredEvent EventType = "unregistered"
	ReloadedEvent     EventType = "reloaded"
	CreatedEvent      EventType = "created"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	ID        string
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
