package shell

import (
	"context"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
)

// EventStore defines the interface needed by command and query handlers for event store operations.
// Both postgresengine.EventStore and *memoryengine.EventStore satisfy it.
type EventStore interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		event eventstore.StorableEvent,
		additionalEvents ...eventstore.StorableEvent,
	) error
}

// Notifier broadcasts ledger events to interested listeners.
// Publish is called synchronously right after the commit. It must not block: implementations
// queue the event and drop it when they can not keep up. It has no way to report failures.
type Notifier interface {
	Publish(eventName string, payload any)
}

// Logger is satisfied by *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
