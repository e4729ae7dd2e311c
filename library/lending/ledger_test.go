package lending_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/lending"
	"github.com/AntonStoeckl/library-lending-ledger/library/notifier"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
	"github.com/AntonStoeckl/library-lending-ledger/testutil/fixtures"
	"github.com/AntonStoeckl/library-lending-ledger/testutil/postgreswrapper"
)

type publishedEvent struct {
	name    string
	payload any
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (n *recordingNotifier) Publish(eventName string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.events = append(n.events, publishedEvent{name: eventName, payload: payload})
}

func (n *recordingNotifier) published() []publishedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]publishedEvent(nil), n.events...)
}

func newLedger(t *testing.T, es shell.EventStore, notifier shell.Notifier) *lending.Ledger {
	t.Helper()

	return lending.NewLedger(
		es,
		lending.WithNotifier(notifier),
		lending.WithClock(func() time.Time { return fixtures.FakeClock }),
		lending.WithRetryOptions(shell.WithBaseDelay(time.Millisecond)),
	)
}

func Test_Ledger_BorrowTwice_IsRejectedAndLeavesStateUnchanged(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := fixtures.NewEventStore()
	bookID, readerID := uuid.New(), uuid.New()
	fixtures.Seed(t, es, fixtures.BookAdded(bookID, 1))
	notifier := &recordingNotifier{}
	ledger := newLedger(t, es, notifier)

	// act
	book, err := ledger.Borrow(ctx, bookID, readerID)
	require.NoError(t, err)
	_, secondErr := ledger.Borrow(ctx, bookID, readerID)

	// assert
	assert.Equal(t, 1, book.BorrowedCopies())
	assert.ErrorIs(t, secondErr, core.ErrAlreadyBorrowed)
	assert.ErrorIs(t, secondErr, core.ErrConflict)
	assert.Equal(t, 1, fixtures.ProjectBook(t, es, bookID).BorrowedCopies())

	require.Len(t, notifier.published(), 1)
	assert.Equal(t, lending.BookBorrowedEvent, notifier.published()[0].name)
	assert.Equal(t, lending.BookBorrowed{
		BookID:         bookID.String(),
		UserID:         readerID.String(),
		BorrowedCopies: 1,
	}, notifier.published()[0].payload)
}

func Test_Ledger_BorrowWithoutCopies_IsRejected(t *testing.T) {
	ctx := context.Background()
	es := fixtures.NewEventStore()
	bookID, holder, other := uuid.New(), uuid.New(), uuid.New()
	fixtures.Seed(t, es, fixtures.BookAdded(bookID, 1), fixtures.Borrowed(bookID, holder))

	_, err := newLedger(t, es, &recordingNotifier{}).Borrow(ctx, bookID, other)

	assert.ErrorIs(t, err, core.ErrNoCopiesAvailable)
}

func Test_Ledger_TwoPhaseReturn(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := fixtures.NewEventStore()
	bookID, readerID := uuid.New(), uuid.New()
	fixtures.Seed(t, es, fixtures.BookAdded(bookID, 1), fixtures.Borrowed(bookID, readerID))
	notifier := &recordingNotifier{}
	ledger := newLedger(t, es, notifier)

	// act
	requested, err := ledger.RequestReturn(ctx, bookID, readerID)
	require.NoError(t, err)
	_, err = ledger.RequestReturn(ctx, bookID, readerID)
	require.NoError(t, err)
	returned, err := ledger.ConfirmReturn(ctx, bookID, readerID)
	require.NoError(t, err)

	// assert
	loan, ok := requested.Borrowers.Get(readerID.String())
	require.True(t, ok)
	assert.True(t, loan.ReturnRequested)
	assert.Equal(t, 1, requested.BorrowedCopies())
	assert.Equal(t, 0, returned.BorrowedCopies())

	published := notifier.published()
	require.Len(t, published, 2)
	assert.Equal(t, lending.BookReturnRequestedEvent, published[0].name)
	assert.Equal(t, lending.BookReturnedEvent, published[1].name)
	assert.Equal(t, lending.BookReturned{
		BookID:         bookID.String(),
		UserID:         readerID.String(),
		BorrowedCopies: 0,
		ReturnedAt:     core.ToOccurredAt(fixtures.FakeClock),
	}, published[1].payload)
}

func Test_Ledger_PublishesInCommitOrder(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := fixtures.NewEventStore()
	bookID, readerID := uuid.New(), uuid.New()
	fixtures.Seed(t, es, fixtures.BookAdded(bookID, 1))
	notifier := &recordingNotifier{}
	ledger := newLedger(t, es, notifier)

	// act
	for i := 0; i < 5; i++ {
		_, err := ledger.Borrow(ctx, bookID, readerID)
		require.NoError(t, err)
		_, err = ledger.ConfirmReturn(ctx, bookID, readerID)
		require.NoError(t, err)
	}

	// assert
	published := notifier.published()
	require.Len(t, published, 10)
	for i, event := range published {
		if i%2 == 0 {
			assert.Equal(t, lending.BookBorrowedEvent, event.name)
			assert.Equal(t, 1, event.payload.(lending.BookBorrowed).BorrowedCopies)
			continue
		}
		assert.Equal(t, lending.BookReturnedEvent, event.name)
		assert.Equal(t, 0, event.payload.(lending.BookReturned).BorrowedCopies)
	}
}

type panickingNotifier struct{}

func (panickingNotifier) Publish(string, any) {
	panic("listener exploded")
}

func Test_Ledger_PanickingNotifier_DoesNotFailTheOperation(t *testing.T) {
	ctx := context.Background()
	es := fixtures.NewEventStore()
	bookID, readerID := uuid.New(), uuid.New()
	fixtures.Seed(t, es, fixtures.BookAdded(bookID, 1))

	book, err := newLedger(t, es, panickingNotifier{}).Borrow(ctx, bookID, readerID)

	require.NoError(t, err)
	assert.Equal(t, 1, book.BorrowedCopies())
	assert.Equal(t, 1, fixtures.ProjectBook(t, es, bookID).BorrowedCopies())
}

func Test_Ledger_SaturatedHub_DoesNotDelayBorrow(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := fixtures.NewEventStore()
	bookIDs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, bookID := range bookIDs {
		fixtures.Seed(t, es, fixtures.BookAdded(bookID, 1))
	}
	hub := notifier.NewHub(notifier.WithQueueSize(1)) // never started, the queue stays full
	ledger := newLedger(t, es, hub)

	// act
	started := time.Now()
	for _, bookID := range bookIDs {
		_, err := ledger.Borrow(ctx, bookID, uuid.New())
		require.NoError(t, err)
	}

	// assert
	assert.Less(t, time.Since(started), time.Second)
	assert.Equal(t, uint64(2), hub.Dropped())
}

func Test_Ledger_ConfirmReturnWithoutLoan_IsRejected(t *testing.T) {
	ctx := context.Background()
	es := fixtures.NewEventStore()
	bookID := uuid.New()
	fixtures.Seed(t, es, fixtures.BookAdded(bookID, 1))
	eventsBefore := es.Len()

	_, err := newLedger(t, es, &recordingNotifier{}).ConfirmReturn(ctx, bookID, uuid.New())

	assert.ErrorIs(t, err, core.ErrNotBorrowed)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, eventsBefore, es.Len())
}

func Test_Ledger_ConcurrentBorrowsOfLastCopy(t *testing.T) {
	engines := []struct {
		name       string
		eventStore func(t *testing.T) shell.EventStore
	}{
		{
			name:       "memory",
			eventStore: func(*testing.T) shell.EventStore { return fixtures.NewEventStore() },
		},
		{
			name:       "postgres",
			eventStore: func(t *testing.T) shell.EventStore { return postgreswrapper.New(t).EventStore },
		},
	}

	for _, engine := range engines {
		t.Run(engine.name, func(t *testing.T) {
			// arrange
			const borrowers = 20
			ctx := context.Background()
			es := engine.eventStore(t)
			bookID := uuid.New()
			fixtures.Seed(t, es, fixtures.BookAdded(bookID, 1))
			ledger := newLedger(t, es, &recordingNotifier{})

			var wg sync.WaitGroup
			start := make(chan struct{})
			errs := make(chan error, borrowers)

			// act
			for i := 0; i < borrowers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					_, err := ledger.Borrow(ctx, bookID, uuid.New())
					errs <- err
				}()
			}
			close(start)
			wg.Wait()
			close(errs)

			// assert
			successes := 0
			for err := range errs {
				if err == nil {
					successes++
					continue
				}
				assert.ErrorIs(t, err, core.ErrConflict)
			}

			assert.Equal(t, 1, successes)
			book := fixtures.ProjectBook(t, es, bookID)
			assert.Equal(t, 1, book.BorrowedCopies())
			assert.Equal(t, book.Borrowers.Len(), book.BorrowedCopies())
		})
	}
}

func Test_Ledger_CatalogLifecycle(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := fixtures.NewEventStore()
	bookID := uuid.New()
	ledger := lending.NewLedger(es,
		lending.WithClock(func() time.Time { return fixtures.FakeClock }),
		lending.WithIDGenerator(func() uuid.UUID { return bookID }),
	)

	// act + assert
	added, err := ledger.AddBook(ctx, core.BookDetails{Title: " Dune ", Author: "Frank Herbert"})
	require.NoError(t, err)
	assert.Equal(t, bookID.String(), added.BookID)
	assert.Equal(t, "Dune", added.Title)
	assert.Equal(t, 1, added.TotalCopies)

	revised, err := ledger.ReviseBook(ctx, bookID, core.BookDetails{TotalCopies: 4, Category: "Fiction"})
	require.NoError(t, err)
	assert.Equal(t, "Dune", revised.Title)
	assert.Equal(t, 4, revised.TotalCopies)
	assert.Equal(t, "Fiction", revised.Category)

	books, err := ledger.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)

	got, err := ledger.GetBook(ctx, bookID)
	require.NoError(t, err)
	assert.Equal(t, revised.BookDetails, got.BookDetails)

	require.NoError(t, ledger.RemoveBook(ctx, bookID))

	_, err = ledger.GetBook(ctx, bookID)
	assert.ErrorIs(t, err, core.ErrBookNotFound)

	books, err = ledger.ListBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func Test_Ledger_AddBookWithoutTitle_IsRejected(t *testing.T) {
	_, err := lending.NewLedger(fixtures.NewEventStore()).AddBook(context.Background(), core.BookDetails{Author: "Anonymous"})

	assert.ErrorIs(t, err, core.ErrTitleAuthorRequired)
	assert.ErrorIs(t, err, core.ErrInvalidRequest)
}

func Test_Ledger_BorrowersOfAndBorrowedBy(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := fixtures.NewEventStore()
	bookID, readerID := uuid.New(), uuid.New()
	fixtures.Seed(t, es,
		fixtures.ReaderRegistered(readerID, "Ada", "ada@example.com", core.RoleUser),
		fixtures.BookAdded(bookID, 2),
		fixtures.Borrowed(bookID, readerID),
	)
	ledger := newLedger(t, es, &recordingNotifier{})

	// act
	borrowers, err := ledger.BorrowersOf(ctx, bookID)
	require.NoError(t, err)
	borrowed, err := ledger.BorrowedBy(ctx, readerID)
	require.NoError(t, err)

	// assert
	require.Len(t, borrowers.Borrowers, 1)
	assert.Equal(t, "Ada", borrowers.Borrowers[0].Name)
	require.Len(t, borrowed, 1)
	assert.Equal(t, bookID.String(), borrowed[0].Book.BookID)
}

type failingEventStore struct {
	err   error
	block bool
}

func (s failingEventStore) Query(ctx context.Context, _ eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {
	if s.block {
		<-ctx.Done()
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, ctx.Err())
	}

	return nil, 0, s.err
}

func (s failingEventStore) Append(
	context.Context,
	eventstore.Filter,
	eventstore.MaxSequenceNumberUint,
	eventstore.StorableEvent,
	...eventstore.StorableEvent,
) error {
	return s.err
}

func Test_Ledger_StoreFailuresSurfaceAsUnavailable(t *testing.T) {
	// arrange
	storeErr := errors.Join(eventstore.ErrQueryingEventsFailed, errors.New("connection reset by peer"))
	ledger := lending.NewLedger(
		failingEventStore{err: storeErr},
		lending.WithRetryOptions(shell.WithBaseDelay(time.Millisecond)),
	)

	// act
	_, err := ledger.Borrow(context.Background(), uuid.New(), uuid.New())

	// assert
	assert.ErrorIs(t, err, core.ErrUnavailable)
	assert.ErrorIs(t, err, eventstore.ErrQueryingEventsFailed)
}

func Test_Ledger_OperationTimeoutSurfacesAsUnavailable(t *testing.T) {
	ledger := lending.NewLedger(
		failingEventStore{block: true},
		lending.WithOperationTimeout(20*time.Millisecond),
	)

	_, err := ledger.GetBook(context.Background(), uuid.New())

	assert.ErrorIs(t, err, core.ErrUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type countingMetrics struct {
	mu       sync.Mutex
	counters map[string][]map[string]string
	values   map[string][]float64
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{counters: map[string][]map[string]string{}, values: map[string][]float64{}}
}

func (m *countingMetrics) RecordDuration(string, time.Duration, map[string]string) {}

func (m *countingMetrics) IncrementCounter(metric string, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counters[metric] = append(m.counters[metric], labels)
}

func (m *countingMetrics) RecordValue(metric string, value float64, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[metric] = append(m.values[metric], value)
}

func Test_Ledger_RecordsCommandMetrics(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := fixtures.NewEventStore()
	bookID, readerID := uuid.New(), uuid.New()
	fixtures.Seed(t, es, fixtures.BookAdded(bookID, 1))
	metrics := newCountingMetrics()
	ledger := lending.NewLedger(es, lending.WithMetrics(metrics))

	// act
	_, err := ledger.Borrow(ctx, bookID, readerID)
	require.NoError(t, err)
	_, err = ledger.Borrow(ctx, bookID, readerID)
	require.Error(t, err)

	// assert
	calls := metrics.counters[shell.CommandCallsMetric]
	require.Len(t, calls, 2)
	assert.Equal(t, map[string]string{shell.LabelCommand: "borrow", shell.LabelStatus: shell.StatusSuccess}, calls[0])
	assert.Equal(t, map[string]string{shell.LabelCommand: "borrow", shell.LabelStatus: shell.StatusRejected}, calls[1])
	assert.Equal(t, []float64{1, 1}, metrics.values[shell.CommandAttemptsMetric])
}
