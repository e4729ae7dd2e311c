package postgresengine_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
	"github.com/AntonStoeckl/library-lending-ledger/testutil/fixtures"
	"github.com/AntonStoeckl/library-lending-ledger/testutil/postgreswrapper"
)

func toStorable(t *testing.T, event core.DomainEvent) eventstore.StorableEvent {
	t.Helper()

	storableEvent, err := shell.StorableEventFrom(event, shell.NewCommandMetadata())
	require.NoError(t, err)

	return storableEvent
}

func Test_Postgres_Append_When_NoEvent_Matches_TheFilter(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := postgreswrapper.New(t).EventStore
	fixtures.Seed(t, es, fixtures.BookAdded(uuid.New(), 1))
	bookID := uuid.New()
	filter := shell.BuildBookEventFilter(bookID)

	_, maxSequenceNumber, err := es.Query(ctx, filter)
	require.NoError(t, err)

	// act
	err = es.Append(ctx, filter, maxSequenceNumber, toStorable(t, fixtures.BookAdded(bookID, 2)))

	// assert
	require.NoError(t, err)
	assert.Equal(t, eventstore.MaxSequenceNumberUint(0), maxSequenceNumber)
	assert.Equal(t, 2, fixtures.ProjectBook(t, es, bookID).TotalCopies)
}

func Test_Postgres_Append_When_A_ConcurrencyConflict_ShouldHappen(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := postgreswrapper.New(t).EventStore
	bookID, readerID := uuid.New(), uuid.New()
	fixtures.Seed(t, es, fixtures.BookAdded(bookID, 1))
	filter := shell.BuildBookEventFilter(bookID)

	_, maxSequenceNumber, err := es.Query(ctx, filter)
	require.NoError(t, err)

	fixtures.Seed(t, es, fixtures.Borrowed(bookID, readerID)) // concurrent append

	// act
	err = es.Append(ctx, filter, maxSequenceNumber, toStorable(t, core.BuildBookRemovedFromCatalog(bookID, fixtures.FakeClock)))

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
}

func Test_Postgres_Append_MultipleEvents_IsAtomic(t *testing.T) {
	ctx := context.Background()
	es := postgreswrapper.New(t).EventStore
	bookID, readerID := uuid.New(), uuid.New()
	filter := shell.BuildBookEventFilter(bookID)

	err := es.Append(ctx, filter, 0,
		toStorable(t, fixtures.BookAdded(bookID, 1)),
		toStorable(t, fixtures.Borrowed(bookID, readerID)),
	)
	require.NoError(t, err)

	events, maxSequenceNumber, err := es.Query(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.NotZero(t, maxSequenceNumber)
}

func Test_Postgres_Query_With_Filter(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := postgreswrapper.New(t).EventStore
	book1, book2, reader1, reader2 := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	fixtures.Seed(t, es,
		fixtures.BookAdded(book1, 2),
		fixtures.BookAdded(book2, 2),
		fixtures.Borrowed(book1, reader1),
		fixtures.Borrowed(book2, reader1),
		fixtures.Borrowed(book2, reader2),
		fixtures.Returned(book2, reader1),
	)

	testCases := []struct {
		description       string
		filter            eventstore.Filter
		expectedNumEvents int
	}{
		{
			description:       "all events of one book",
			filter:            shell.BuildBookEventFilter(book2),
			expectedNumEvents: 4,
		},
		{
			description: "loan events of one reader",
			filter: eventstore.BuildEventFilter().
				Matching().
				AnyEventTypeOf(core.BookCopyBorrowedEventType, core.BookCopyReturnedEventType).
				AndAnyPredicateOf(eventstore.P("ReaderID", reader1.String())).
				Finalize(),
			expectedNumEvents: 3,
		},
		{
			description: "one reader on one book",
			filter: eventstore.BuildEventFilter().
				Matching().
				AnyEventTypeOf(core.BookCopyBorrowedEventType).
				AndAllPredicatesOf(eventstore.P("BookID", book2.String()), eventstore.P("ReaderID", reader2.String())).
				Finalize(),
			expectedNumEvents: 1,
		},
		{
			description: "catalog additions or returns",
			filter: eventstore.BuildEventFilter().
				Matching().
				AnyEventTypeOf(core.BookAddedToCatalogEventType).
				OrMatching().
				AnyEventTypeOf(core.BookCopyReturnedEventType).
				Finalize(),
			expectedNumEvents: 3,
		},
		{
			description:       "everything",
			filter:            eventstore.BuildEventFilter().MatchingAnyEvent(),
			expectedNumEvents: 6,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// act
			events, _, err := es.Query(ctx, tc.filter)

			// assert
			require.NoError(t, err)
			assert.Len(t, events, tc.expectedNumEvents)
		})
	}
}

func Test_Postgres_ConcurrentAppends_With_TheSameExpectedSequence_OnlyOneWins(t *testing.T) {
	// arrange
	const writers = 20
	ctx := context.Background()
	es := postgreswrapper.New(t).EventStore
	bookID := uuid.New()
	fixtures.Seed(t, es, fixtures.BookAdded(bookID, 1))
	filter := shell.BuildBookEventFilter(bookID)

	_, maxSequenceNumber, err := es.Query(ctx, filter)
	require.NoError(t, err)

	events := make([]eventstore.StorableEvent, writers)
	for i := range events {
		events[i] = toStorable(t, fixtures.Borrowed(bookID, uuid.New()))
	}

	var wg sync.WaitGroup
	start := make(chan struct{})
	results := make(chan error, writers)

	// act
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(event eventstore.StorableEvent) {
			defer wg.Done()
			<-start
			results <- es.Append(ctx, filter, maxSequenceNumber, event)
		}(events[i])
	}
	close(start)
	wg.Wait()
	close(results)

	// assert
	successes, conflicts := 0, 0
	for appendErr := range results {
		switch {
		case appendErr == nil:
			successes++
		case errors.Is(appendErr, eventstore.ErrConcurrencyConflict):
			conflicts++
		default:
			t.Errorf("unexpected append error: %v", appendErr)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, writers-1, conflicts)
	assert.Equal(t, 1, fixtures.ProjectBook(t, es, bookID).BorrowedCopies())
}
