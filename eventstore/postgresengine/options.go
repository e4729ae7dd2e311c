package postgresengine

import (
	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
)

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithTableName sets the table name for the EventStore.
func WithTableName(tableName string) Option {
	return func(es *EventStore) error {
		if tableName == "" {
			return eventstore.ErrEmptyEventsTableName
		}

		es.eventTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the EventStore.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Event counts, durations, concurrency conflicts (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.logger = logger
		return nil
	}
}

// WithMetrics sets the collector which receives query and append durations, event counts,
// concurrency conflicts and database errors.
func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the collector which receives one span per Query and Append.
func WithTracing(collector eventstore.TracingCollector) Option {
	return func(es *EventStore) error {
		es.tracingCollector = collector
		return nil
	}
}
