package lending

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/command/borrowbook"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/command/confirmreturn"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/command/requestreturn"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/query/bookborrowers"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/query/booksborrowedbyreader"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

// Borrow lends one copy of the book to the reader.
func (l *Ledger) Borrow(ctx context.Context, bookID uuid.UUID, readerID uuid.UUID) (core.Book, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	started := time.Now()

	book, result, err := l.borrow.Handle(ctx, borrowbook.BuildCommand(bookID, readerID, l.clock()))
	if err != nil {
		l.logFailure("borrow", started, result, err, "book_id", bookID, "reader_id", readerID)
		return core.Book{}, shell.ClassifyError(err)
	}

	l.logResult("borrow", started, result, "book_id", bookID, "reader_id", readerID)
	l.publish(BookBorrowedEvent, BookBorrowed{
		BookID:         book.BookID,
		UserID:         readerID.String(),
		BorrowedCopies: book.BorrowedCopies(),
	})

	return book, nil
}

// RequestReturn flags the open loan of the reader as waiting for confirmation.
// Requesting again is a success without any new event or notification.
func (l *Ledger) RequestReturn(ctx context.Context, bookID uuid.UUID, readerID uuid.UUID) (core.Book, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	started := time.Now()

	book, result, err := l.requestReturn.Handle(ctx, requestreturn.BuildCommand(bookID, readerID, l.clock()))
	if err != nil {
		l.logFailure("request_return", started, result, err, "book_id", bookID, "reader_id", readerID)
		return core.Book{}, shell.ClassifyError(err)
	}

	l.logResult("request_return", started, result, "book_id", bookID, "reader_id", readerID)
	if !result.Idempotent {
		l.publish(BookReturnRequestedEvent, BookReturnRequested{
			BookID: book.BookID,
			UserID: readerID.String(),
		})
	}

	return book, nil
}

// ConfirmReturn closes the open loan of the target reader.
func (l *Ledger) ConfirmReturn(ctx context.Context, bookID uuid.UUID, targetReaderID uuid.UUID) (core.Book, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	started := time.Now()

	returnedAt := l.clock()

	book, result, err := l.confirmReturn.Handle(ctx, confirmreturn.BuildCommand(bookID, targetReaderID, returnedAt))
	if err != nil {
		l.logFailure("confirm_return", started, result, err, "book_id", bookID, "reader_id", targetReaderID)
		return core.Book{}, shell.ClassifyError(err)
	}

	l.logResult("confirm_return", started, result, "book_id", bookID, "reader_id", targetReaderID)
	l.publish(BookReturnedEvent, BookReturned{
		BookID:         book.BookID,
		UserID:         targetReaderID.String(),
		BorrowedCopies: book.BorrowedCopies(),
		ReturnedAt:     core.ToOccurredAt(returnedAt),
	})

	return book, nil
}

// BorrowersOf returns the open loans of the book with the readers resolved.
func (l *Ledger) BorrowersOf(ctx context.Context, bookID uuid.UUID) (bookborrowers.BookBorrowers, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	result, err := l.borrowers.Handle(ctx, bookborrowers.BuildQuery(bookID))
	if err != nil {
		return bookborrowers.BookBorrowers{}, shell.ClassifyError(err)
	}

	return result, nil
}

// BorrowedBy returns the books the reader currently holds, ordered by borrow time.
func (l *Ledger) BorrowedBy(ctx context.Context, readerID uuid.UUID) ([]booksborrowedbyreader.BorrowedBook, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	result, err := l.borrowedBy.Handle(ctx, booksborrowedbyreader.BuildQuery(readerID))
	if err != nil {
		return nil, shell.ClassifyError(err)
	}

	return result.Books, nil
}
