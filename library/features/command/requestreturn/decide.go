package requestreturn

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

// Decide implements the business logic of the first phase of a return.
// This is a pure function with no side effects.
//
// Business Rules:
//
//	GIVEN: A book with BookID and a reader with ReaderID
//	WHEN: RequestReturn command is received
//	THEN: BookReturnRequested event is generated, the copy stays borrowed
//	ERROR: "Book not found" if the book was never added or was removed
//	ERROR: "Book is not borrowed by this user" if the reader holds no open loan
//	IDEMPOTENCY: If the return was already requested, no event is generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	book, err := core.ProjectBook(history, command.BookID.String())
	if err != nil {
		return core.ErrorDecision(err)
	}

	if !book.InCatalog {
		return core.ErrorDecision(core.ErrBookNotFound)
	}

	loan, hasLoan := book.Borrowers.Get(command.ReaderID.String())
	if !hasLoan {
		return core.ErrorDecision(core.ErrNotBorrowed)
	}

	if loan.ReturnRequested {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildBookReturnRequested(command.BookID, command.ReaderID, command.OccurredAt),
	)
}

// BuildEventFilter creates the filter for querying all events of the book.
func BuildEventFilter(bookID uuid.UUID) eventstore.Filter {
	return shell.BuildBookEventFilter(bookID)
}
