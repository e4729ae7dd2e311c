package lending

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/command/addbook"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/command/removebook"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/command/revisebook"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/query/bookdetails"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/query/booksincatalog"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

// AddBook adds a new book to the catalog. A TotalCopies of 0 means one copy.
func (l *Ledger) AddBook(ctx context.Context, details core.BookDetails) (core.Book, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	started := time.Now()

	bookID := l.newID()
	command := addbook.BuildCommand(
		bookID,
		details.Title,
		details.Author,
		details.Description,
		details.Category,
		details.TotalCopies,
		l.clock(),
	)

	book, result, err := l.addBook.Handle(ctx, command)
	if err != nil {
		l.logFailure("add_book", started, result, err, "book_id", bookID)
		return core.Book{}, shell.ClassifyError(err)
	}

	l.logResult("add_book", started, result, "book_id", bookID)

	return book, nil
}

// ReviseBook applies a partial update. Empty text fields and a zero TotalCopies keep the current value.
func (l *Ledger) ReviseBook(ctx context.Context, bookID uuid.UUID, changes core.BookDetails) (core.Book, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	started := time.Now()

	book, result, err := l.reviseBook.Handle(ctx, revisebook.BuildCommand(bookID, changes, l.clock()))
	if err != nil {
		l.logFailure("revise_book", started, result, err, "book_id", bookID)
		return core.Book{}, shell.ClassifyError(err)
	}

	l.logResult("revise_book", started, result, "book_id", bookID)

	return book, nil
}

// RemoveBook removes a book without open loans from the catalog.
func (l *Ledger) RemoveBook(ctx context.Context, bookID uuid.UUID) error {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	started := time.Now()

	_, result, err := l.removeBook.Handle(ctx, removebook.BuildCommand(bookID, l.clock()))
	if err != nil {
		l.logFailure("remove_book", started, result, err, "book_id", bookID)
		return shell.ClassifyError(err)
	}

	l.logResult("remove_book", started, result, "book_id", bookID)

	return nil
}

// ListBooks returns all books in the catalog in the order they were added.
func (l *Ledger) ListBooks(ctx context.Context) ([]core.Book, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	result, err := l.catalog.Handle(ctx, booksincatalog.BuildQuery())
	if err != nil {
		return nil, shell.ClassifyError(err)
	}

	return result.Books, nil
}

// GetBook returns one book of the catalog.
func (l *Ledger) GetBook(ctx context.Context, bookID uuid.UUID) (core.Book, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	book, err := l.details.Handle(ctx, bookdetails.BuildQuery(bookID))
	if err != nil {
		return core.Book{}, shell.ClassifyError(err)
	}

	return book, nil
}
