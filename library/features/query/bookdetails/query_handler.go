package bookdetails

import (
	"context"

	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

// QueryHandler orchestrates the query processing workflow: Query -> Unmarshal -> Project.
type QueryHandler struct {
	eventStore shell.EventStore
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.EventStore) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle executes the query.
func (h QueryHandler) Handle(ctx context.Context, query Query) (core.Book, error) {
	storableEvents, _, err := h.eventStore.Query(ctx, BuildEventFilter(query.BookID))
	if err != nil {
		return core.Book{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return core.Book{}, err
	}

	return ProjectBookDetails(history, query.BookID)
}
