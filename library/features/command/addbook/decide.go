package addbook

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
)

// Decide implements the business logic to add a book to the catalog.
// This is a pure function with no side effects.
//
// Business Rules:
//
//	GIVEN: A book with BookID and its details
//	WHEN: AddBook command is received
//	THEN: BookAddedToCatalog event is generated
//	ERROR: "Title and author are required" if one of them is empty
//	ERROR: "Total copies must be at least 1" if totalCopies is negative
//	IDEMPOTENCY: If the book was already added, no event is generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if command.Details.Title == "" || command.Details.Author == "" {
		return core.ErrorDecision(core.ErrTitleAuthorRequired)
	}

	if command.Details.TotalCopies < 1 {
		return core.ErrorDecision(core.ErrInvalidTotalCopies)
	}

	for _, event := range history {
		if e, ok := event.(core.BookAddedToCatalog); ok && e.BookID == command.BookID.String() {
			return core.IdempotentDecision()
		}
	}

	return core.SuccessDecision(
		core.BuildBookAddedToCatalog(command.BookID, command.Details, command.OccurredAt),
	)
}

// BuildEventFilter creates the filter for querying whether the book was added before.
func BuildEventFilter(bookID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookAddedToCatalogEventType).
		AndAnyPredicateOf(eventstore.P("BookID", bookID.String())).
		Finalize()
}
