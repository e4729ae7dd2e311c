package readerbyemail

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
func (h QueryHandler) Handle(ctx context.Context, query Query) (core.Reader, error) {
	if query.Email == "" {
		return core.Reader{}, core.ErrReaderNotFound
	}

	storableEvents, _, err := h.eventStore.Query(ctx, BuildEventFilter(query.Email))
	if err != nil {
		return core.Reader{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return core.Reader{}, err
	}

	return ProjectReader(history, query.Email)
}
