package eventstore

import (
	"context"
	"time"
)

// Logger is satisfied by *slog.Logger and receives SQL at debug level, operational information at info level,
// non-critical issues at warn level and failures at error level.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsCollector receives durations, counters and values from the engines.
// Implementations must be safe for concurrent use.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// SpanContext is an active span which can be annotated before it is finished.
type SpanContext interface {
	SetStatus(status string)
	AddAttribute(key, value string)
}

// TracingCollector opens a span per Query and Append.
type TracingCollector interface {
	StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext)
	FinishSpan(span SpanContext, status string, attrs map[string]string)
}

// Metric names reported by the engines.
const (
	MetricQueryDuration        = "eventstore_query_duration_seconds"
	MetricAppendDuration       = "eventstore_append_duration_seconds"
	MetricEventsQueried        = "eventstore_events_queried"
	MetricEventsAppended       = "eventstore_events_appended"
	MetricConcurrencyConflicts = "eventstore_concurrency_conflicts_total"
	MetricDatabaseErrors       = "eventstore_database_errors_total"
)

// Span names, label keys and label values used with the collectors.
const (
	SpanNameQuery  = "eventstore.query"
	SpanNameAppend = "eventstore.append"

	LabelOperation   = "operation"
	LabelStatus      = "status"
	LabelErrorType   = "error_type"
	LabelEventCount  = "event_count"
	LabelExpectedSeq = "expected_sequence"
	LabelMaxSeq      = "max_sequence"

	OperationQuery  = "query"
	OperationAppend = "append"

	StatusSuccess  = "success"
	StatusError    = "error"
	StatusConflict = "conflict"
)
