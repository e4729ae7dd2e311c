package booksincatalog

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

// QueryHandler orchestrates the query processing workflow: Query -> Unmarshal -> Project.
type QueryHandler struct {
	eventStore shell.EventStore
	logger     shell.Logger
}

// Option defines a functional option for configuring QueryHandler.
type Option func(*QueryHandler)

// WithLogger sets the logger for the QueryHandler.
func WithLogger(logger shell.Logger) Option {
	return func(h *QueryHandler) {
		h.logger = logger
	}
}

// NewQueryHandler creates a new QueryHandler with the provided EventStore dependency and options.
func NewQueryHandler(eventStore shell.EventStore, opts ...Option) QueryHandler {
	h := QueryHandler{
		eventStore: eventStore,
	}

	for _, opt := range opts {
		opt(&h)
	}

	return h
}

// Handle executes the query.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BooksInCatalog, error) {
	start := time.Now()

	storableEvents, maxSeq, err := h.eventStore.Query(ctx, BuildEventFilter())
	if err != nil {
		return BooksInCatalog{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return BooksInCatalog{}, err
	}

	result, err := ProjectBooksInCatalog(history, maxSeq)
	if err != nil {
		return BooksInCatalog{}, err
	}

	if h.logger != nil {
		h.logger.Debug("query completed", "query_type", query.QueryType(), "books", result.Count, "duration", time.Since(start))
	}

	return result, nil
}
