// Package eventstore records build history as an append-only event log in SQLite.
package eventstore

import (
	"context"
	"time"
)

// Store defines the interface for persisting and retrieving events.
type Store interface {
	// Append adds a new event to the store.
	Append(ctx context.Context, buildID, eventType string, payload []byte, metadata map[string]string) error

	// GetByBuildID retrieves all events for a specific build.
	GetByBuildID(ctx context.Context, buildID string) ([]Event, error)

	// GetRange retrieves events within a time range.
	GetRange(ctx context.Context, start, end time.Time) ([]Event, error)

	// Close closes the store and releases resources.
	Close() error
}

// AppendEvent stores e.
func AppendEvent(ctx context.Context, s Store, e Event) error {
	return s.Append(ctx, e.BuildID(), e.Type(), e.Payload(), e.Metadata())
}
