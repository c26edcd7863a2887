// Package pubsub provides a generic publish/subscribe event system used to
// fan out log entries, value changes and catalog reloads to Bubble Tea
// programs.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// LoggedEvent carries a formatted log entry.
	LoggedEvent EventType = "logged"
	// ValueChangedEvent carries a new canonical value after an edit.
	ValueChangedEvent EventType = "value_changed"
	// CatalogReloadedEvent signals that the placeholder catalog was replaced.
	CatalogReloadedEvent EventType = "catalog_reloaded"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
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
