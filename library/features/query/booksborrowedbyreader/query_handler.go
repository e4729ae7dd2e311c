package booksborrowedbyreader

import (
	"context"

	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

// QueryHandler orchestrates the two-phase query: loan events of the reader, then the book streams.
type QueryHandler struct {
	eventStore shell.EventStore
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.EventStore) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle executes the query.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BooksBorrowedByReader, error) {
	readerID := query.ReaderID.String()

	storableEvents, _, err := h.eventStore.Query(ctx, BuildLoanEventFilter(readerID))
	if err != nil {
		return BooksBorrowedByReader{}, err
	}

	loanHistory, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return BooksBorrowedByReader{}, err
	}

	bookIDs := OpenLoanBookIDs(loanHistory)
	if len(bookIDs) == 0 {
		return ProjectBorrowedBooks(nil, nil, readerID)
	}

	storableEvents, _, err = h.eventStore.Query(ctx, BuildBookEventFilter(bookIDs))
	if err != nil {
		return BooksBorrowedByReader{}, err
	}

	bookHistory, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return BooksBorrowedByReader{}, err
	}

	return ProjectBorrowedBooks(bookHistory, bookIDs, readerID)
}
