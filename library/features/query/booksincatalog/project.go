package booksincatalog

import (
	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

// ProjectBooksInCatalog builds the catalog from the history of all books.
// This is a pure function with no side effects.
func ProjectBooksInCatalog(history core.DomainEvents, maxSequenceNumber eventstore.MaxSequenceNumberUint) (BooksInCatalog, error) {
	books, err := core.ProjectCatalog(history)
	if err != nil {
		return BooksInCatalog{}, err
	}

	return BooksInCatalog{
		Books:          books,
		Count:          len(books),
		SequenceNumber: maxSequenceNumber,
	}, nil
}

// BuildEventFilter creates the filter for querying the events of all books.
func BuildEventFilter() eventstore.Filter {
	types := shell.BookEventTypes()

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(types[0], types[1:]...).
		Finalize()
}
