package eventstore

import (
	"errors"
)

var (
	// ErrEmptyEventsTableName is returned when an empty events table name is supplied.
	ErrEmptyEventsTableName = errors.New("events table name must not be empty")

	// ErrNilDatabaseConnection is returned when a nil database connection is supplied.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrConcurrencyConflict is returned by Append when another event matching the same Filter
	// was appended after the expected MaxSequenceNumberUint was read.
	ErrConcurrencyConflict = errors.New("concurrency error, no rows were affected")

	// ErrQueryingEventsFailed is returned when the underlying store fails to execute a query.
	ErrQueryingEventsFailed = errors.New("querying events failed")

	// ErrScanningDBRowFailed is returned when a result row can not be scanned.
	ErrScanningDBRowFailed = errors.New("scanning db row failed")

	// ErrBuildingStorableEventFailed is returned when a stored row can not be turned into a StorableEvent.
	ErrBuildingStorableEventFailed = errors.New("building storable event failed")

	// ErrBuildingQueryFailed is returned when a SQL statement can not be built.
	ErrBuildingQueryFailed = errors.New("building query failed")

	// ErrAppendingEventFailed is returned when the underlying store fails to execute an append.
	ErrAppendingEventFailed = errors.New("appending the event failed")

	// ErrGettingRowsAffectedFailed is returned when the number of appended rows can not be determined.
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")

	// ErrCreatingSchemaFailed is returned when the events table or its indexes can not be created.
	ErrCreatingSchemaFailed = errors.New("creating the event store schema failed")
)

// MaxSequenceNumberUint is a type alias for uint, representing the maximum sequence number for a "dynamic event stream".
type MaxSequenceNumberUint = uint

// IsTransientStoreError reports whether err was caused by the store itself (connection loss, failing statements),
// as opposed to a business decision or a concurrency conflict.
func IsTransientStoreError(err error) bool {
	return errors.Is(err, ErrQueryingEventsFailed) || errors.Is(err, ErrAppendingEventFailed)
}
