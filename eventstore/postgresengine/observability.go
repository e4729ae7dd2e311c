package postgresengine

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
)

const (
	errorTypeBuildQuery   = "build_query"
	errorTypeDBQuery      = "database_query"
	errorTypeScanRow      = "scan_row"
	errorTypeBuildEvent   = "build_storable_event"
	errorTypeDBExec       = "database_exec"
	errorTypeRowsAffected = "rows_affected"
)

// operationObserver reports one Query or Append to the configured metrics and tracing collectors.
type operationObserver struct {
	es        EventStore
	operation string
	span      eventstore.SpanContext
	start     time.Time
}

func (es EventStore) startObservation(
	ctx context.Context,
	operation string,
	spanName string,
	attrs map[string]string,
) (*operationObserver, context.Context) {

	observer := &operationObserver{es: es, operation: operation, start: time.Now()}

	if es.tracingCollector != nil {
		attrs[eventstore.LabelOperation] = operation
		ctx, observer.span = es.tracingCollector.StartSpan(ctx, spanName, attrs)
	}

	return observer, ctx
}

func (es EventStore) startQueryObservation(ctx context.Context) (*operationObserver, context.Context) {
	return es.startObservation(ctx, eventstore.OperationQuery, eventstore.SpanNameQuery, map[string]string{})
}

func (es EventStore) startAppendObservation(
	ctx context.Context,
	events eventstore.StorableEvents,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (*operationObserver, context.Context) {

	return es.startObservation(ctx, eventstore.OperationAppend, eventstore.SpanNameAppend, map[string]string{
		eventstore.LabelEventCount:  strconv.Itoa(len(events)),
		eventstore.LabelExpectedSeq: strconv.FormatUint(uint64(expectedMaxSequenceNumber), 10),
	})
}

func (o *operationObserver) durationMetric() string {
	if o.operation == eventstore.OperationQuery {
		return eventstore.MetricQueryDuration
	}

	return eventstore.MetricAppendDuration
}

func (o *operationObserver) countMetric() string {
	if o.operation == eventstore.OperationQuery {
		return eventstore.MetricEventsQueried
	}

	return eventstore.MetricEventsAppended
}

func (o *operationObserver) labels(status string) map[string]string {
	return map[string]string{eventstore.LabelOperation: o.operation, eventstore.LabelStatus: status}
}

func (o *operationObserver) success(eventCount int, maxSequenceNumber eventstore.MaxSequenceNumberUint) {
	duration := time.Since(o.start)

	if metrics := o.es.metricsCollector; metrics != nil {
		metrics.RecordDuration(o.durationMetric(), duration, o.labels(eventstore.StatusSuccess))
		metrics.RecordValue(o.countMetric(), float64(eventCount), o.labels(eventstore.StatusSuccess))
	}

	attrs := map[string]string{
		eventstore.LabelEventCount: strconv.Itoa(eventCount),
		logAttrDurationMS:          fmt.Sprintf("%.2f", toMilliseconds(duration)),
	}

	// the global sequence of appended events is not known, the insert does not return it
	if o.operation == eventstore.OperationQuery {
		attrs[eventstore.LabelMaxSeq] = strconv.FormatUint(uint64(maxSequenceNumber), 10)
	}

	o.finishSpan(eventstore.StatusSuccess, attrs)
}

func (o *operationObserver) conflict() {
	duration := time.Since(o.start)

	if metrics := o.es.metricsCollector; metrics != nil {
		metrics.RecordDuration(o.durationMetric(), duration, o.labels(eventstore.StatusConflict))
		metrics.IncrementCounter(eventstore.MetricConcurrencyConflicts, o.labels(eventstore.StatusConflict))
	}

	o.finishSpan(eventstore.StatusConflict, map[string]string{
		logAttrDurationMS: fmt.Sprintf("%.2f", toMilliseconds(duration)),
	})
}

func (o *operationObserver) failure(errorType string) {
	duration := time.Since(o.start)

	if metrics := o.es.metricsCollector; metrics != nil {
		labels := o.labels(eventstore.StatusError)
		metrics.RecordDuration(o.durationMetric(), duration, labels)

		labels[eventstore.LabelErrorType] = errorType
		metrics.IncrementCounter(eventstore.MetricDatabaseErrors, labels)
	}

	o.finishSpan(eventstore.StatusError, map[string]string{eventstore.LabelErrorType: errorType})
}

func (o *operationObserver) finishSpan(status string, attrs map[string]string) {
	if o.span == nil {
		return
	}

	o.span.SetStatus(status)
	o.es.tracingCollector.FinishSpan(o.span, status, attrs)
}

// logQueryWithDuration logs SQL queries with execution time at debug level if the logger is configured.
func (es EventStore) logQueryWithDuration(sqlQuery string, action string, duration time.Duration) {
	if es.logger != nil {
		es.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (es EventStore) logOperation(action string, args ...any) {
	if es.logger != nil {
		es.logger.Info(logMsgOperation+action, args...)
	}
}

func (es EventStore) logError(msg string, args ...any) {
	if es.logger != nil {
		es.logger.Error(msg, args...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
