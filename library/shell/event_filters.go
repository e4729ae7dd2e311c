package shell

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
)

// BookEventTypes are all event types that change the state of a book.
func BookEventTypes() []string {
	return []string{
		core.BookAddedToCatalogEventType,
		core.BookDetailsRevisedEventType,
		core.BookRemovedFromCatalogEventType,
		core.BookCopyBorrowedEventType,
		core.BookReturnRequestedEventType,
		core.BookCopyReturnedEventType,
	}
}

// BuildBookEventFilter creates the filter for the complete stream of one book.
// It is the consistency boundary of every ledger and catalog command on that book.
func BuildBookEventFilter(bookID uuid.UUID) eventstore.Filter {
	types := BookEventTypes()

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(types[0], types[1:]...).
		AndAnyPredicateOf(eventstore.P("BookID", bookID.String())).
		Finalize()
}
