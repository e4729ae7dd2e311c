package bookborrowers

import (
	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
)

// ProjectBorrowers joins the open loans of the book with the registrations of the readers.
// Loans of readers without a registration keep empty name and email.
func ProjectBorrowers(book core.Book, readerHistory core.DomainEvents) BookBorrowers {
	readers := core.ProjectReaders(readerHistory)
	loans := book.Borrowers.All()

	result := BookBorrowers{
		Book:      book,
		Borrowers: make([]BorrowerInfo, 0, len(loans)),
	}

	for _, loan := range loans {
		reader := readers[loan.ReaderID]
		result.Borrowers = append(result.Borrowers, BorrowerInfo{
			ReaderID:        loan.ReaderID,
			Name:            reader.Name,
			Email:           reader.Email,
			BorrowedAt:      loan.BorrowedAt,
			ReturnRequested: loan.ReturnRequested,
		})
	}

	return result
}

// BuildReaderEventFilter creates the filter for the registrations of the given readers.
// It must only be called with at least one reader id.
func BuildReaderEventFilter(readerIDs []core.ReaderIDString) eventstore.Filter {
	predicates := make([]eventstore.FilterPredicate, 0, len(readerIDs))
	for _, readerID := range readerIDs {
		predicates = append(predicates, eventstore.P("ReaderID", readerID))
	}

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.ReaderRegisteredEventType).
		AndAnyPredicateOf(predicates[0], predicates[1:]...).
		Finalize()
}

func readerIDsOf(book core.Book) []core.ReaderIDString {
	loans := book.Borrowers.All()
	ids := make([]core.ReaderIDString, 0, len(loans))
	for _, loan := range loans {
		ids = append(ids, loan.ReaderID)
	}

	return ids
}
