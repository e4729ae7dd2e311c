// Package memoryengine provides an in-process implementation of the event store.
//
// It honors the same contract as the Postgres engine: a global, gap-free sequence number,
// Filter semantics with payload predicates on top-level string values, and conditional
// appends guarded by the maximum sequence number of the filtered stream.
// It is meant for tests, demos and single-process deployments.
package memoryengine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
)

const (
	logMsgQueryCompleted      = "eventstore operation: query completed"
	logMsgEventsAppended      = "eventstore operation: events appended"
	logMsgConcurrencyConflict = "eventstore operation: concurrency conflict detected"
	logAttrEventCount         = "event_count"
	logAttrExpectedSequence   = "expected_sequence"
	logAttrActualSequence     = "actual_sequence"
)

type record struct {
	sequenceNumber eventstore.MaxSequenceNumberUint
	event          eventstore.StorableEvent
}

func (r record) lookup(key eventstore.FilterKeyString) (eventstore.FilterValString, bool) {
	return r.event.PayloadString(key)
}

// EventStore keeps all events in memory, guarded by a single RWMutex.
type EventStore struct {
	mu      sync.RWMutex
	records []record
	logger  eventstore.Logger
	metrics eventstore.MetricsCollector
}

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore)

// WithLogger sets the logger for the EventStore.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) {
		es.logger = logger
	}
}

// WithMetrics sets the collector which receives durations, event counts and concurrency conflicts.
func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) {
		es.metrics = collector
	}
}

// NewEventStore creates an empty EventStore.
func NewEventStore(options ...Option) *EventStore {
	es := &EventStore{
		records: make([]record, 0),
	}

	for _, option := range options {
		option(es)
	}

	return es
}

// Query returns all events matching the filter in sequence order together with the highest
// sequence number among them (0 if none match).
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	if err := ctx.Err(); err != nil {
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}

	start := time.Now()

	es.mu.RLock()
	defer es.mu.RUnlock()

	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, rec := range es.records {
		if !filter.Matches(rec.event.EventType, rec.lookup) {
			continue
		}

		eventStream = append(eventStream, rec.event)
		maxSequenceNumber = rec.sequenceNumber
	}

	es.logInfo(logMsgQueryCompleted, logAttrEventCount, len(eventStream))
	es.record(eventstore.OperationQuery, eventstore.StatusSuccess, len(eventStream), time.Since(start))

	return eventStream, maxSequenceNumber, nil
}

// Append stores the events atomically, but only if the highest sequence number among events
// matching the filter still equals expectedMaxSequenceNumber.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	if err := ctx.Err(); err != nil {
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	start := time.Now()
	allEvents := eventstore.StorableEvents{event}
	allEvents = append(allEvents, additionalEvents...)

	for _, e := range allEvents {
		if _, err := eventstore.BuildStorableEvent(e.EventType, e.OccurredAt, e.PayloadJSON, e.MetadataJSON); err != nil {
			return errors.Join(eventstore.ErrAppendingEventFailed, err)
		}
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	actual := eventstore.MaxSequenceNumberUint(0)
	for _, rec := range es.records {
		if filter.Matches(rec.event.EventType, rec.lookup) {
			actual = rec.sequenceNumber
		}
	}

	if actual != expectedMaxSequenceNumber {
		es.logInfo(logMsgConcurrencyConflict, logAttrExpectedSequence, expectedMaxSequenceNumber, logAttrActualSequence, actual)
		es.record(eventstore.OperationAppend, eventstore.StatusConflict, 0, time.Since(start))
		return eventstore.ErrConcurrencyConflict
	}

	next := eventstore.MaxSequenceNumberUint(len(es.records))
	for _, e := range allEvents {
		next++
		es.records = append(es.records, record{sequenceNumber: next, event: e})
	}

	es.logInfo(logMsgEventsAppended, logAttrEventCount, len(allEvents))
	es.record(eventstore.OperationAppend, eventstore.StatusSuccess, len(allEvents), time.Since(start))

	return nil
}

// Len returns the number of stored events.
func (es *EventStore) Len() int {
	es.mu.RLock()
	defer es.mu.RUnlock()

	return len(es.records)
}

func (es *EventStore) logInfo(msg string, args ...any) {
	if es.logger != nil {
		es.logger.Info(msg, args...)
	}
}

func (es *EventStore) record(operation string, status string, eventCount int, duration time.Duration) {
	if es.metrics == nil {
		return
	}

	labels := map[string]string{eventstore.LabelOperation: operation, eventstore.LabelStatus: status}

	durationMetric, countMetric := eventstore.MetricQueryDuration, eventstore.MetricEventsQueried
	if operation == eventstore.OperationAppend {
		durationMetric, countMetric = eventstore.MetricAppendDuration, eventstore.MetricEventsAppended
	}

	es.metrics.RecordDuration(durationMetric, duration, labels)

	if status == eventstore.StatusConflict {
		es.metrics.IncrementCounter(eventstore.MetricConcurrencyConflicts, labels)
		return
	}

	es.metrics.RecordValue(countMetric, float64(eventCount), labels)
}
