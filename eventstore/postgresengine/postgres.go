package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/eventstore/postgresengine/internal/adapters"
)

const (
	defaultEventTableName          = "events"
	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgRowsAffectedFailed       = "failed to get rows affected count"
	logMsgQueryCompleted           = "query completed"
	logMsgEventsAppended           = "events appended"
	logMsgConcurrencyConflict      = "concurrency conflict detected"
	logMsgSQLExecuted              = "executed sql for: "
	logMsgOperation                = "eventstore operation: "
	logAttrError                   = "error"
	logAttrQuery                   = "query"
	logAttrEventCount              = "event_count"
	logAttrDurationMS              = "duration_ms"
	logAttrExpectedEvents          = "expected_events"
	logAttrRowsAffected            = "rows_affected"
	logAttrExpectedSequence        = "expected_sequence"
	logActionQuery                 = "query"
	logActionAppend                = "append"
	colEventType                   = "event_type"
	colOccurredAt                  = "occurred_at"
	colPayload                     = "payload"
	colMetadata                    = "metadata"
	colSequenceNumber              = "sequence_number"
	cteContext                     = "context"
	cteVals                        = "vals"
	dialectPostgres                = "postgres"
	aliasMaxSeq                    = "max_seq"
	castText                       = "?::text"
	castTimestamp                  = "?::timestamp with time zone"
	castJsonb                      = "?::jsonb"
	payloadContains                = colPayload + " @> ?::jsonb"
	funcAdvisoryXactLock           = "pg_advisory_xact_lock"
	funcHashText                   = "hashtext"
)

type (
	sqlQueryString    = string
	rowsAffectedInt64 = int64
)

// EventStore is the Postgres engine of the event store.
// It works on top of pgxpool.Pool, sql.DB or sqlx.DB and builds its SQL with goqu.
//
// Appends are serialised per events table through a transaction scoped advisory lock, so the conditional
// INSERT of one writer always sees the committed events of the previous one.
type EventStore struct {
	db               adapters.DBAdapter
	eventTableName   string
	appendLockQuery  sqlQueryString
	logger           eventstore.Logger
	metricsCollector eventstore.MetricsCollector
	tracingCollector eventstore.TracingCollector
}

type queryResultRow struct {
	eventType         string
	payload           []byte
	metadata          []byte
	occurredAt        time.Time
	maxSequenceNumber eventstore.MaxSequenceNumberUint
}

// NewEventStoreFromPGXPool creates a new EventStore using a pgx Pool with optional configuration.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(db), options...)
}

// NewEventStoreFromSQLDB creates a new EventStore using a sql.DB with optional configuration.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db), options...)
}

// NewEventStoreFromSQLX creates a new EventStore using a sqlx.DB with optional configuration.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db), options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (EventStore, error) {
	es := EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
	}

	for _, option := range options {
		if err := option(&es); err != nil {
			return EventStore{}, err
		}
	}

	lockQuery, err := es.buildAppendLockQuery()
	if err != nil {
		return EventStore{}, err
	}
	es.appendLockQuery = lockQuery

	return es, nil
}

// Query retrieves events from the Postgres event store based on the provided eventstore.Filter criteria
// and returns them as eventstore.StorableEvents
// as well as the MaxSequenceNumberUint for this "dynamic event stream" at the time of the query.
func (es EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	var empty eventstore.StorableEvents

	observer, ctx := es.startQueryObservation(ctx)

	sqlQuery, buildQueryErr := es.buildSelectQuery(filter)
	if buildQueryErr != nil {
		es.logError(logMsgBuildSelectQueryFailed, logAttrError, buildQueryErr.Error())
		observer.failure(errorTypeBuildQuery)
		return empty, 0, buildQueryErr
	}

	start := time.Now()
	rows, queryErr := es.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	es.logQueryWithDuration(sqlQuery, logActionQuery, duration)

	if queryErr != nil {
		es.logError(logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)
		observer.failure(errorTypeDBQuery)
		return empty, 0, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}
	defer es.closeRows(rows)

	eventStream, maxSequenceNumber, scanErr := es.processQueryResults(rows)
	if scanErr != nil {
		observer.failure(queryErrorType(scanErr))
		return empty, 0, scanErr
	}

	es.logOperation(
		logMsgQueryCompleted,
		logAttrEventCount, len(eventStream),
		logAttrDurationMS, toMilliseconds(duration))
	observer.success(len(eventStream), maxSequenceNumber)

	return eventStream, maxSequenceNumber, nil
}

func queryErrorType(err error) string {
	switch {
	case errors.Is(err, eventstore.ErrScanningDBRowFailed):
		return errorTypeScanRow
	case errors.Is(err, eventstore.ErrBuildingStorableEventFailed):
		return errorTypeBuildEvent
	default:
		return errorTypeDBQuery
	}
}

// closeRows safely closes database rows and logs any errors.
func (es EventStore) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil && es.logger != nil {
		es.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

// processQueryResults converts database rows to storable events.
func (es EventStore) processQueryResults(rows adapters.DBRows) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	var empty eventstore.StorableEvents
	result := queryResultRow{}
	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for rows.Next() {
		rowScanErr := rows.Scan(&result.eventType, &result.occurredAt, &result.payload, &result.metadata, &result.maxSequenceNumber)
		if rowScanErr != nil {
			es.logError(logMsgScanRowFailed, logAttrError, rowScanErr.Error())
			return empty, 0, errors.Join(eventstore.ErrScanningDBRowFailed, rowScanErr)
		}

		event, buildStorableErr := eventstore.BuildStorableEvent(result.eventType, result.occurredAt, result.payload, result.metadata)
		if buildStorableErr != nil {
			es.logError(logMsgBuildStorableEventFailed, logAttrError, buildStorableErr.Error())
			return empty, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildStorableErr)
		}

		eventStream = append(eventStream, event)
		maxSequenceNumber = result.maxSequenceNumber
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		es.logError(logMsgDBQueryFailed, logAttrError, rowsErr.Error())
		return empty, 0, errors.Join(eventstore.ErrQueryingEventsFailed, rowsErr)
	}

	return eventStream, maxSequenceNumber, nil
}

// Append attempts to append one or multiple eventstore.StorableEvent(s) onto the Postgres event store respecting
// concurrency constraints for this "dynamic event stream" based on the provided eventstore.Filter criteria
// and the expected MaxSequenceNumberUint.
//
// The provided eventstore.Filter criteria should be the same as the ones used for the Query before making the
// business decisions.
func (es EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	allEvents := eventstore.StorableEvents{event}
	allEvents = append(allEvents, additionalEvents...)

	observer, ctx := es.startAppendObservation(ctx, allEvents, expectedMaxSequenceNumber)

	sqlQuery, buildQueryErr := es.buildInsertQuery(allEvents, filter, expectedMaxSequenceNumber)
	if buildQueryErr != nil {
		es.logError(logMsgBuildInsertQueryFailed, logAttrError, buildQueryErr.Error(), logAttrEventCount, len(allEvents))
		observer.failure(errorTypeBuildQuery)
		return buildQueryErr
	}

	start := time.Now()
	rowsAffected, execErr := es.executeAppendQuery(ctx, sqlQuery)
	duration := time.Since(start)
	if execErr != nil {
		if errors.Is(execErr, eventstore.ErrGettingRowsAffectedFailed) {
			observer.failure(errorTypeRowsAffected)
		} else {
			observer.failure(errorTypeDBExec)
		}
		return execErr
	}

	if rowsAffected < int64(len(allEvents)) {
		es.logOperation(
			logMsgConcurrencyConflict,
			logAttrExpectedEvents, len(allEvents),
			logAttrRowsAffected, rowsAffected,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
		)
		observer.conflict()

		return eventstore.ErrConcurrencyConflict
	}

	es.logOperation(
		logMsgEventsAppended,
		logAttrEventCount, len(allEvents),
		logAttrDurationMS, toMilliseconds(duration),
	)
	observer.success(len(allEvents), 0)

	return nil
}

// executeAppendQuery takes the append lock and executes the conditional insert in one transaction.
// It returns the number of rows affected.
func (es EventStore) executeAppendQuery(ctx context.Context, sqlQuery string) (rowsAffectedInt64, error) {
	var rowsAffected rowsAffectedInt64

	start := time.Now()
	txErr := es.db.WithTx(ctx, func(tx adapters.DBExecutor) error {
		if _, lockErr := tx.Exec(ctx, es.appendLockQuery); lockErr != nil {
			return lockErr
		}

		result, execErr := tx.Exec(ctx, sqlQuery)
		if execErr != nil {
			return execErr
		}

		affected, rowsAffectedErr := result.RowsAffected()
		if rowsAffectedErr != nil {
			return errors.Join(eventstore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
		}
		rowsAffected = affected

		return nil
	})
	es.logQueryWithDuration(sqlQuery, logActionAppend, time.Since(start))

	if errors.Is(txErr, eventstore.ErrGettingRowsAffectedFailed) {
		es.logError(logMsgRowsAffectedFailed, logAttrError, txErr.Error())
		return 0, txErr
	}

	if txErr != nil {
		es.logError(logMsgDBExecFailed, logAttrError, txErr.Error(), logAttrQuery, sqlQuery)
		return 0, errors.Join(eventstore.ErrAppendingEventFailed, txErr)
	}

	return rowsAffected, nil
}

// buildAppendLockQuery builds the statement which serialises appends on the events table
// until the surrounding transaction ends.
func (es EventStore) buildAppendLockQuery() (sqlQueryString, error) {
	lockStmt := goqu.Dialect(dialectPostgres).
		Select(goqu.Func(funcAdvisoryXactLock, goqu.Func(funcHashText, es.eventTableName)))

	sqlQuery, _, toSQLErr := lockStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es EventStore) buildSelectQuery(filter eventstore.Filter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	whereClause, err := es.buildWhereClause(filter)
	if err != nil {
		return "", err
	}

	if whereClause != nil {
		selectStmt = selectStmt.Where(whereClause)
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// buildInsertQuery builds an INSERT ... SELECT which only inserts if the max sequence number of the
// filtered stream still equals the expected one.
func (es EventStore) buildInsertQuery(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt := builder.
		From(es.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	whereClause, err := es.buildWhereClause(filter)
	if err != nil {
		return "", err
	}

	if whereClause != nil {
		cteStmt = cteStmt.Where(whereClause)
	}

	valuesStmt := es.valuesSelect(builder, events[0])
	for _, event := range events[1:] {
		valuesStmt = valuesStmt.UnionAll(es.valuesSelect(builder, event))
	}

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(
					fmt.Sprintf("%s.%s", cteVals, colEventType),
					fmt.Sprintf("%s.%s", cteVals, colOccurredAt),
					fmt.Sprintf("%s.%s", cteVals, colPayload),
					fmt.Sprintf("%s.%s", cteVals, colMetadata),
				).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es EventStore) valuesSelect(builder goqu.DialectWrapper, event eventstore.StorableEvent) *goqu.SelectDataset {
	return builder.Select(
		goqu.L(castText, event.EventType).As(colEventType),
		goqu.L(castTimestamp, event.OccurredAt).As(colOccurredAt),
		goqu.L(castJsonb, string(event.PayloadJSON)).As(colPayload),
		goqu.L(castJsonb, string(event.MetadataJSON)).As(colMetadata),
	)
}

// buildWhereClause translates the filter, returns nil for the empty filter.
func (es EventStore) buildWhereClause(filter eventstore.Filter) (exp.Expression, error) {
	if len(filter.Items()) == 0 {
		return nil, nil
	}

	itemsExpressions := make([]exp.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		itemExpressions := make([]exp.Expression, 0, 2)

		if len(item.EventTypes()) > 0 {
			itemExpressions = append(itemExpressions, goqu.C(colEventType).In(item.EventTypes()))
		}

		predicateExpressions := make([]exp.Expression, 0, len(item.Predicates()))
		for _, predicate := range item.Predicates() {
			containsJSON, err := jsoniter.ConfigFastest.MarshalToString(map[string]string{predicate.Key(): predicate.Val()})
			if err != nil {
				return nil, errors.Join(eventstore.ErrBuildingQueryFailed, err)
			}

			predicateExpressions = append(predicateExpressions, goqu.L(payloadContains, containsJSON))
		}

		if len(predicateExpressions) > 0 {
			if item.AllPredicatesMustMatch() {
				itemExpressions = append(itemExpressions, goqu.And(predicateExpressions...))
			} else {
				itemExpressions = append(itemExpressions, goqu.Or(predicateExpressions...))
			}
		}

		itemsExpressions = append(itemsExpressions, goqu.And(itemExpressions...))
	}

	return goqu.Or(itemsExpressions...), nil
}
