package borrowbook

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

// Decide implements the business logic to determine whether a copy can be lent to the reader.
// This is a pure function with no side effects.
//
// Business Rules:
//
//	GIVEN: A book with BookID and a reader with ReaderID
//	WHEN: BorrowBook command is received
//	THEN: BookCopyBorrowed event is generated
//	ERROR: "Book not found" if the book was never added or was removed
//	ERROR: "You already borrowed this book" if the reader holds an open loan on it
//	ERROR: "No copies available" if all copies are lent out
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	book, err := core.ProjectBook(history, command.BookID.String())
	if err != nil {
		return core.ErrorDecision(err)
	}

	if !book.InCatalog {
		return core.ErrorDecision(core.ErrBookNotFound)
	}

	if _, hasLoan := book.Borrowers.Get(command.ReaderID.String()); hasLoan {
		return core.ErrorDecision(core.ErrAlreadyBorrowed)
	}

	if book.AvailableCopies() <= 0 {
		return core.ErrorDecision(core.ErrNoCopiesAvailable)
	}

	return core.SuccessDecision(
		core.BuildBookCopyBorrowed(command.BookID, command.ReaderID, command.OccurredAt),
	)
}

// BuildEventFilter creates the filter for querying all events of the book.
func BuildEventFilter(bookID uuid.UUID) eventstore.Filter {
	return shell.BuildBookEventFilter(bookID)
}
