package booksborrowedbyreader_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-ledger/library/features/query/booksborrowedbyreader"
	"github.com/AntonStoeckl/library-lending-ledger/testutil/fixtures"
)

func Test_QueryHandler_Handle_ListsOpenLoansOnly(t *testing.T) {
	// arrange
	es := fixtures.NewEventStore()
	readerID, otherReaderID := uuid.New(), uuid.New()
	returnedBook, requestedBook, activeBook, foreignBook := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	fixtures.Seed(t, es,
		fixtures.BookAdded(returnedBook, 1),
		fixtures.BookAdded(requestedBook, 1),
		fixtures.BookAdded(activeBook, 2),
		fixtures.BookAdded(foreignBook, 1),
		fixtures.Borrowed(returnedBook, readerID),
		fixtures.Borrowed(requestedBook, readerID),
		fixtures.Borrowed(activeBook, readerID),
		fixtures.Borrowed(activeBook, otherReaderID),
		fixtures.Borrowed(foreignBook, otherReaderID),
		fixtures.ReturnRequested(requestedBook, readerID),
		fixtures.Returned(returnedBook, readerID),
	)

	// act
	result, err := booksborrowedbyreader.NewQueryHandler(es).
		Handle(context.Background(), booksborrowedbyreader.BuildQuery(readerID))

	// assert
	require.NoError(t, err)
	require.Len(t, result.Books, 2)

	assert.Equal(t, requestedBook.String(), result.Books[0].Book.BookID)
	assert.True(t, result.Books[0].Loan.ReturnRequested)

	assert.Equal(t, activeBook.String(), result.Books[1].Book.BookID)
	assert.False(t, result.Books[1].Loan.ReturnRequested)
	assert.Equal(t, 2, result.Books[1].Book.BorrowedCopies())
}

func Test_QueryHandler_Handle_ReborrowedBookIsListedOnce(t *testing.T) {
	es := fixtures.NewEventStore()
	readerID, bookID := uuid.New(), uuid.New()
	fixtures.Seed(t, es,
		fixtures.BookAdded(bookID, 1),
		fixtures.Borrowed(bookID, readerID),
		fixtures.Returned(bookID, readerID),
		fixtures.Borrowed(bookID, readerID),
	)

	result, err := booksborrowedbyreader.NewQueryHandler(es).
		Handle(context.Background(), booksborrowedbyreader.BuildQuery(readerID))

	require.NoError(t, err)
	require.Len(t, result.Books, 1)
	assert.Equal(t, bookID.String(), result.Books[0].Book.BookID)
}

func Test_QueryHandler_Handle_NoLoans(t *testing.T) {
	result, err := booksborrowedbyreader.NewQueryHandler(fixtures.NewEventStore()).
		Handle(context.Background(), booksborrowedbyreader.BuildQuery(uuid.New()))

	require.NoError(t, err)
	assert.Empty(t, result.Books)
}
