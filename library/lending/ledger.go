package lending

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-ledger/library/features/command/addbook"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/command/borrowbook"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/command/confirmreturn"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/command/removebook"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/command/requestreturn"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/command/revisebook"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/query/bookborrowers"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/query/bookdetails"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/query/booksborrowedbyreader"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/query/booksincatalog"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

const defaultOperationTimeout = 5 * time.Second

// Ledger runs the lending and catalog operations against an event store.
type Ledger struct {
	borrow        borrowbook.CommandHandler
	requestReturn requestreturn.CommandHandler
	confirmReturn confirmreturn.CommandHandler
	addBook       addbook.CommandHandler
	reviseBook    revisebook.CommandHandler
	removeBook    removebook.CommandHandler

	catalog    booksincatalog.QueryHandler
	details    bookdetails.QueryHandler
	borrowers  bookborrowers.QueryHandler
	borrowedBy booksborrowedbyreader.QueryHandler

	notifier         shell.Notifier
	logger           shell.Logger
	metrics          shell.MetricsCollector
	clock            func() time.Time
	newID            func() uuid.UUID
	operationTimeout time.Duration
	retryOptions     []shell.RetryOption
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithNotifier sets the notifier that receives the ledger events.
func WithNotifier(notifier shell.Notifier) Option {
	return func(l *Ledger) {
		l.notifier = notifier
	}
}

// WithLogger sets the logger.
func WithLogger(logger shell.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// WithMetrics sets the collector which receives duration, outcome and retry behavior of every command.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(l *Ledger) {
		l.metrics = collector
	}
}

// WithClock replaces time.Now as the source of event timestamps.
func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) {
		l.clock = clock
	}
}

// WithIDGenerator replaces uuid.New for new book ids.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(l *Ledger) {
		l.newID = newID
	}
}

// WithOperationTimeout bounds every operation, retries included. Non-positive values are ignored.
func WithOperationTimeout(timeout time.Duration) Option {
	return func(l *Ledger) {
		if timeout > 0 {
			l.operationTimeout = timeout
		}
	}
}

// WithRetryOptions configures the retry behavior of all command handlers.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(l *Ledger) {
		l.retryOptions = opts
	}
}

// NewLedger creates a Ledger on top of the event store.
func NewLedger(eventStore shell.EventStore, opts ...Option) *Ledger {
	l := &Ledger{
		notifier:         noopNotifier{},
		logger:           noopLogger{},
		clock:            time.Now,
		newID:            uuid.New,
		operationTimeout: defaultOperationTimeout,
	}

	for _, opt := range opts {
		opt(l)
	}

	l.borrow = borrowbook.NewCommandHandler(eventStore, borrowbook.WithRetryOptions(l.retryOptions...))
	l.requestReturn = requestreturn.NewCommandHandler(eventStore, requestreturn.WithRetryOptions(l.retryOptions...))
	l.confirmReturn = confirmreturn.NewCommandHandler(eventStore, confirmreturn.WithRetryOptions(l.retryOptions...))
	l.addBook = addbook.NewCommandHandler(eventStore, addbook.WithRetryOptions(l.retryOptions...))
	l.reviseBook = revisebook.NewCommandHandler(eventStore, revisebook.WithRetryOptions(l.retryOptions...))
	l.removeBook = removebook.NewCommandHandler(eventStore, removebook.WithRetryOptions(l.retryOptions...))

	l.catalog = booksincatalog.NewQueryHandler(eventStore, booksincatalog.WithLogger(l.logger))
	l.details = bookdetails.NewQueryHandler(eventStore)
	l.borrowers = bookborrowers.NewQueryHandler(eventStore)
	l.borrowedBy = booksborrowedbyreader.NewQueryHandler(eventStore)

	return l
}

func (l *Ledger) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, l.operationTimeout)
}

func (l *Ledger) logResult(operation string, started time.Time, result shell.HandlerResult, args ...any) {
	shell.RecordCommandMetrics(l.metrics, operation, result, nil, time.Since(started))

	args = append(args,
		"operation", operation,
		"idempotent", result.Idempotent,
		"attempts", result.RetryAttempts,
		"retry_delay", result.TotalRetryDelay,
	)

	l.logger.Info("ledger operation committed", args...)
}

func (l *Ledger) logFailure(operation string, started time.Time, result shell.HandlerResult, err error, args ...any) {
	shell.RecordCommandMetrics(l.metrics, operation, result, err, time.Since(started))

	args = append(args, "operation", operation, "attempts", result.RetryAttempts, "error", err.Error())

	if shell.IsBusinessError(err) {
		l.logger.Debug("ledger operation rejected", args...)
		return
	}

	l.logger.Error("ledger operation failed", args...)
}

type noopNotifier struct{}

func (noopNotifier) Publish(string, any) {}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
