package revisebook

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

// Decide implements the business logic to revise the details of a book.
// This is a pure function with no side effects.
//
// Business Rules:
//
//	GIVEN: A book with BookID and the requested changes
//	WHEN: ReviseBook command is received
//	THEN: BookDetailsRevised event with the merged details is generated
//	ERROR: "Book not found" if the book was never added or was removed
//	ERROR: "Total copies must be at least 1" if totalCopies is negative
//	ERROR: "Total copies can not be lower than borrowed copies" if it would break the copy accounting
//	IDEMPOTENCY: If the merged details equal the current ones, no event is generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if command.Changes.TotalCopies < 0 {
		return core.ErrorDecision(core.ErrInvalidTotalCopies)
	}

	book, err := core.ProjectBook(history, command.BookID.String())
	if err != nil {
		return core.ErrorDecision(err)
	}

	if !book.InCatalog {
		return core.ErrorDecision(core.ErrBookNotFound)
	}

	merged := merge(book.BookDetails, command.Changes)

	if merged.TotalCopies < book.BorrowedCopies() {
		return core.ErrorDecision(core.ErrTotalCopiesTooLow)
	}

	if merged == book.BookDetails {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildBookDetailsRevised(command.BookID, merged, command.OccurredAt),
	)
}

func merge(current core.BookDetails, changes core.BookDetails) core.BookDetails {
	merged := current

	if changes.Title != "" {
		merged.Title = changes.Title
	}

	if changes.Author != "" {
		merged.Author = changes.Author
	}

	if changes.Description != "" {
		merged.Description = changes.Description
	}

	if changes.Category != "" {
		merged.Category = changes.Category
	}

	if changes.TotalCopies != 0 {
		merged.TotalCopies = changes.TotalCopies
	}

	return merged
}

// BuildEventFilter creates the filter for querying all events of the book.
// Borrowing events are part of it, so a concurrent borrow invalidates the revision and vice versa.
func BuildEventFilter(bookID uuid.UUID) eventstore.Filter {
	return shell.BuildBookEventFilter(bookID)
}
