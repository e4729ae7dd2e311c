package memoryengine_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/eventstore/memoryengine"
)

func storable(t *testing.T, eventType string, payload string) eventstore.StorableEvent {
	t.Helper()

	event, err := eventstore.BuildStorableEventWithEmptyMetadata(eventType, time.Now(), []byte(payload))
	require.NoError(t, err)

	return event
}

func bookFilter(bookID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("BookCopyBorrowed", "BookCopyReturned").
		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
}

func Test_Query_EmptyStore(t *testing.T) {
	es := memoryengine.NewEventStore()

	events, maxSeq, err := es.Query(context.Background(), bookFilter("b-1"))

	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, uint(0), maxSeq)
}

func Test_Query_ReturnsOnlyMatchingEventsInOrder(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := memoryengine.NewEventStore()
	require.NoError(t, es.Append(ctx, bookFilter("b-1"), 0, storable(t, "BookCopyBorrowed", `{"BookID":"b-1","ReaderID":"r-1"}`)))
	require.NoError(t, es.Append(ctx, bookFilter("b-2"), 0, storable(t, "BookCopyBorrowed", `{"BookID":"b-2","ReaderID":"r-1"}`)))
	require.NoError(t, es.Append(ctx, bookFilter("b-1"), 1, storable(t, "BookCopyReturned", `{"BookID":"b-1","ReaderID":"r-1"}`)))

	// act
	events, maxSeq, err := es.Query(ctx, bookFilter("b-1"))

	// assert
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "BookCopyBorrowed", events[0].EventType)
	assert.Equal(t, "BookCopyReturned", events[1].EventType)
	assert.Equal(t, uint(3), maxSeq)
	assert.Equal(t, 3, es.Len())
}

func Test_Query_NonStringPayloadValuesNeverMatch(t *testing.T) {
	ctx := context.Background()
	es := memoryengine.NewEventStore()
	require.NoError(t, es.Append(ctx, bookFilter("1"), 0, storable(t, "BookCopyBorrowed", `{"BookID":1}`)))

	events, _, err := es.Query(ctx, bookFilter("1"))

	require.NoError(t, err)
	assert.Empty(t, events)
}

func Test_Append_RejectsStaleExpectation(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := memoryengine.NewEventStore()
	require.NoError(t, es.Append(ctx, bookFilter("b-1"), 0, storable(t, "BookCopyBorrowed", `{"BookID":"b-1"}`)))

	// act
	err := es.Append(ctx, bookFilter("b-1"), 0, storable(t, "BookCopyBorrowed", `{"BookID":"b-1"}`))

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.Equal(t, 1, es.Len())
}

func Test_Append_UnrelatedStreamsDoNotConflict(t *testing.T) {
	ctx := context.Background()
	es := memoryengine.NewEventStore()
	require.NoError(t, es.Append(ctx, bookFilter("b-1"), 0, storable(t, "BookCopyBorrowed", `{"BookID":"b-1"}`)))

	err := es.Append(ctx, bookFilter("b-2"), 0, storable(t, "BookCopyBorrowed", `{"BookID":"b-2"}`))

	assert.NoError(t, err)
}

func Test_Append_MultipleEventsAtomically(t *testing.T) {
	ctx := context.Background()
	es := memoryengine.NewEventStore()

	err := es.Append(
		ctx,
		bookFilter("b-1"),
		0,
		storable(t, "BookCopyBorrowed", `{"BookID":"b-1"}`),
		storable(t, "BookCopyReturned", `{"BookID":"b-1"}`),
	)

	require.NoError(t, err)
	_, maxSeq, err := es.Query(ctx, bookFilter("b-1"))
	require.NoError(t, err)
	assert.Equal(t, uint(2), maxSeq)
}

func Test_Append_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	es := memoryengine.NewEventStore()

	err := es.Append(ctx, bookFilter("b-1"), 0, storable(t, "BookCopyBorrowed", `{"BookID":"b-1"}`))

	assert.True(t, eventstore.IsTransientStoreError(err))
}

func Test_Append_ConcurrentWritersOnlyOneWins(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := memoryengine.NewEventStore()
	var wins atomic.Int32
	var wg sync.WaitGroup

	// act
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, maxSeq, err := es.Query(ctx, bookFilter("b-1"))
			if err != nil || maxSeq != 0 {
				return
			}
			if es.Append(ctx, bookFilter("b-1"), maxSeq, storable(t, "BookCopyBorrowed", `{"BookID":"b-1"}`)) == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	// assert
	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, 1, es.Len())
}

type tally struct {
	mu       sync.Mutex
	counters map[string]int
	values   map[string]float64
}

func (m *tally) RecordDuration(string, time.Duration, map[string]string) {}

func (m *tally) IncrementCounter(metric string, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counters[metric]++
}

func (m *tally) RecordValue(metric string, value float64, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[metric] += value
}

func Test_Append_ReportsConflictsAndAppendedEvents(t *testing.T) {
	// arrange
	ctx := context.Background()
	metrics := &tally{counters: map[string]int{}, values: map[string]float64{}}
	es := memoryengine.NewEventStore(memoryengine.WithMetrics(metrics))

	// act
	require.NoError(t, es.Append(ctx, bookFilter("b-1"), 0, storable(t, "BookCopyBorrowed", `{"BookID":"b-1"}`)))
	err := es.Append(ctx, bookFilter("b-1"), 0, storable(t, "BookCopyBorrowed", `{"BookID":"b-1"}`))
	_, _, queryErr := es.Query(ctx, bookFilter("b-1"))

	// assert
	require.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	require.NoError(t, queryErr)
	assert.Equal(t, 1, metrics.counters[eventstore.MetricConcurrencyConflicts])
	assert.Equal(t, float64(1), metrics.values[eventstore.MetricEventsAppended])
	assert.Equal(t, float64(1), metrics.values[eventstore.MetricEventsQueried])
}

func Test_Append_RejectsEventsNotBuiltThroughTheFactory(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := memoryengine.NewEventStore()
	handBuilt := eventstore.StorableEvent{EventType: "BookCopyBorrowed", PayloadJSON: []byte(`["b-1"]`), MetadataJSON: []byte(`{}`)}

	// act
	err := es.Append(ctx, bookFilter("b-1"), 0, handBuilt)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrAppendingEventFailed)
	assert.ErrorIs(t, err, eventstore.ErrPayloadNotAnObject)
	assert.Equal(t, 0, es.Len())
}
