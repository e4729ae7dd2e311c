package confirmreturn

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

// Decide implements the business logic of the second phase of a return.
// This is a pure function with no side effects.
//
// Business Rules:
//
//	GIVEN: A book with BookID and a borrower with ReaderID
//	WHEN: ConfirmReturn command is received
//	THEN: BookCopyReturned event is generated, the loan is closed
//	ERROR: "Book not found" if the book was never added or was removed
//	ERROR: "Book is not borrowed by this user" if the reader holds no open loan
//
// A return can be confirmed whether or not the reader requested it first.
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	book, err := core.ProjectBook(history, command.BookID.String())
	if err != nil {
		return core.ErrorDecision(err)
	}

	if !book.InCatalog {
		return core.ErrorDecision(core.ErrBookNotFound)
	}

	if _, hasLoan := book.Borrowers.Get(command.ReaderID.String()); !hasLoan {
		return core.ErrorDecision(core.ErrNotBorrowed)
	}

	return core.SuccessDecision(
		core.BuildBookCopyReturned(command.BookID, command.ReaderID, command.OccurredAt),
	)
}

// BuildEventFilter creates the filter for querying all events of the book.
func BuildEventFilter(bookID uuid.UUID) eventstore.Filter {
	return shell.BuildBookEventFilter(bookID)
}
