package bookborrowers

import (
	"context"

	"github.com/AntonStoeckl/library-lending-ledger/library/features/query/bookdetails"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

// QueryHandler orchestrates the two-phase query: book stream, then reader registrations.
type QueryHandler struct {
	eventStore shell.EventStore
	books      bookdetails.QueryHandler
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.EventStore) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
		books:      bookdetails.NewQueryHandler(eventStore),
	}
}

// Handle executes the query. A book that is not in the catalog yields ErrBookNotFound.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BookBorrowers, error) {
	book, err := h.books.Handle(ctx, bookdetails.BuildQuery(query.BookID))
	if err != nil {
		return BookBorrowers{}, err
	}

	readerIDs := readerIDsOf(book)
	if len(readerIDs) == 0 {
		return ProjectBorrowers(book, nil), nil
	}

	storableEvents, _, err := h.eventStore.Query(ctx, BuildReaderEventFilter(readerIDs))
	if err != nil {
		return BookBorrowers{}, err
	}

	readerHistory, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return BookBorrowers{}, err
	}

	return ProjectBorrowers(book, readerHistory), nil
}
