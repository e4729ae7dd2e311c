package bookdetails

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

// ProjectBookDetails builds the current state of the book.
// A book that was never added or has been removed yields ErrBookNotFound.
func ProjectBookDetails(history core.DomainEvents, bookID uuid.UUID) (core.Book, error) {
	book, err := core.ProjectBook(history, bookID.String())
	if err != nil {
		return core.Book{}, err
	}

	if !book.InCatalog {
		return core.Book{}, core.ErrBookNotFound
	}

	return book, nil
}

// BuildEventFilter creates the filter for querying the stream of the book.
func BuildEventFilter(bookID uuid.UUID) eventstore.Filter {
	return shell.BuildBookEventFilter(bookID)
}
