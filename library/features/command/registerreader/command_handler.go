package registerreader

import (
	"context"

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

// Handle executes the complete command processing workflow with retry logic.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var isIdempotent bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		idempotent, execErr := h.executeCommand(retryCtx, command)
		isIdempotent = idempotent

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	if isIdempotent {
		return shell.NewIdempotentResult(retryMetrics), nil
	}

	return shell.NewSuccessResult(retryMetrics), nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (bool, error) {
	filter := BuildEventFilter(command.Registration.Email)

	// Query phase
	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return false, err
	}

	// Unmarshal phase
	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return false, err
	}

	// Business logic phase
	result := Decide(history, command)
	if decisionErr := result.HasError(); decisionErr != nil {
		return false, decisionErr
	}

	if result.IsIdempotent() {
		return true, nil
	}

	// Append phase
	storableEvent, err := shell.StorableEventFrom(result.Event, shell.NewCommandMetadata())
	if err != nil {
		return false, err
	}

	return false, h.eventStore.Append(ctx, filter, maxSequenceNumber, storableEvent)
}
