package addbook

import (
	"context"

	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

// CommandHandler orchestrates the command processing workflow: Query -> Unmarshal -> Decide -> Append,
// retried as a whole on concurrency conflicts.
type CommandHandler struct {
	eventStore   shell.EventStore
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(eventStore shell.EventStore, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventStore: eventStore,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the command and returns the state of the book afterwards.
// HandlerResult.Idempotent is true when the book had been added before.
func (h CommandHandler) Handle(ctx context.Context, command Command) (core.Book, shell.HandlerResult, error) {
	var book core.Book
	var isIdempotent bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		book, isIdempotent, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return core.Book{}, shell.NewErrorResult(retryMetrics), err
	}

	if isIdempotent {
		return book, shell.NewIdempotentResult(retryMetrics), nil
	}

	return book, shell.NewSuccessResult(retryMetrics), nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.Book, bool, error) {
	filter := BuildEventFilter(command.BookID)

	// Query phase
	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return core.Book{}, false, err
	}

	// Unmarshal phase
	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return core.Book{}, false, err
	}

	// Business logic phase
	result := Decide(history, command)
	if decisionErr := result.HasError(); decisionErr != nil {
		return core.Book{}, false, decisionErr
	}

	if result.IsIdempotent() {
		book, projectErr := core.ProjectBook(history, command.BookID.String())
		return book, true, projectErr
	}

	// Append phase
	storableEvent, err := shell.StorableEventFrom(result.Event, shell.NewCommandMetadata())
	if err != nil {
		return core.Book{}, false, err
	}

	if err = h.eventStore.Append(ctx, filter, maxSequenceNumber, storableEvent); err != nil {
		return core.Book{}, false, err
	}

	book, err := core.ProjectBook(append(history, result.Event), command.BookID.String())

	return book, false, err
}
