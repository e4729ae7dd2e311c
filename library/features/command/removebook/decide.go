package removebook

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

// Decide implements the business logic to remove a book from the catalog.
// This is a pure function with no side effects.
//
// Business Rules:
//
//	GIVEN: A book with BookID
//	WHEN: RemoveBook command is received
//	THEN: BookRemovedFromCatalog event is generated
//	ERROR: "Book not found" if the book was never added or was already removed
//	ERROR: "Book still has open loans" if any copy is borrowed
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	book, err := core.ProjectBook(history, command.BookID.String())
	if err != nil {
		return core.ErrorDecision(err)
	}

	if !book.InCatalog {
		return core.ErrorDecision(core.ErrBookNotFound)
	}

	if book.BorrowedCopies() > 0 {
		return core.ErrorDecision(core.ErrBookHasOpenLoans)
	}

	return core.SuccessDecision(
		core.BuildBookRemovedFromCatalog(command.BookID, command.OccurredAt),
	)
}

// BuildEventFilter creates the filter for querying all events of the book.
func BuildEventFilter(bookID uuid.UUID) eventstore.Filter {
	return shell.BuildBookEventFilter(bookID)
}
