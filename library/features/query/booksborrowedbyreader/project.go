package booksborrowedbyreader

import (
	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

// OpenLoanBookIDs returns the ids of the books the reader has borrowed and not yet returned,
// in the order they were borrowed.
func OpenLoanBookIDs(loanHistory core.DomainEvents) []core.BookIDString {
	open := make(map[core.BookIDString]bool)
	order := make([]core.BookIDString, 0)

	for _, event := range loanHistory {
		switch e := event.(type) {
		case core.BookCopyBorrowed:
			if !open[e.BookID] {
				order = append(order, e.BookID)
			}
			open[e.BookID] = true

		case core.BookCopyReturned:
			open[e.BookID] = false
		}
	}

	ids := make([]core.BookIDString, 0, len(order))
	for _, bookID := range order {
		if open[bookID] {
			ids = append(ids, bookID)
		}
	}

	return ids
}

// ProjectBorrowedBooks builds the books behind the given ids and keeps those
// on which the reader holds an open loan.
func ProjectBorrowedBooks(
	bookHistory core.DomainEvents,
	bookIDs []core.BookIDString,
	readerID core.ReaderIDString,
) (BooksBorrowedByReader, error) {
	result := BooksBorrowedByReader{
		ReaderID: readerID,
		Books:    make([]BorrowedBook, 0, len(bookIDs)),
	}

	for _, bookID := range bookIDs {
		book, err := core.ProjectBook(bookHistory, bookID)
		if err != nil {
			return BooksBorrowedByReader{}, err
		}

		loan, ok := book.Borrowers.Get(readerID)
		if !ok {
			continue
		}

		result.Books = append(result.Books, BorrowedBook{Book: book, Loan: loan})
	}

	return result, nil
}

// BuildLoanEventFilter creates the filter for the loan events of the reader.
func BuildLoanEventFilter(readerID core.ReaderIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookCopyBorrowedEventType, core.BookCopyReturnedEventType).
		AndAnyPredicateOf(eventstore.P("ReaderID", readerID)).
		Finalize()
}

// BuildBookEventFilter creates the filter for the streams of the given books.
// It must only be called with at least one book id.
func BuildBookEventFilter(bookIDs []core.BookIDString) eventstore.Filter {
	types := shell.BookEventTypes()

	predicates := make([]eventstore.FilterPredicate, 0, len(bookIDs))
	for _, bookID := range bookIDs {
		predicates = append(predicates, eventstore.P("BookID", bookID))
	}

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(types[0], types[1:]...).
		AndAnyPredicateOf(predicates[0], predicates[1:]...).
		Finalize()
}
