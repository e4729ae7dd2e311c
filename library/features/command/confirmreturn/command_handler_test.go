package confirmreturn_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/command/confirmreturn"
	"github.com/AntonStoeckl/library-lending-ledger/testutil/fixtures"
)

func Test_CommandHandler_Handle_RemovesLoanAfterRequest(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := fixtures.NewEventStore()
	bookID, readerID, otherID := uuid.New(), uuid.New(), uuid.New()
	fixtures.Seed(t, es,
		fixtures.BookAdded(bookID, 2),
		fixtures.Borrowed(bookID, readerID),
		fixtures.Borrowed(bookID, otherID),
		fixtures.ReturnRequested(bookID, readerID),
	)
	handler := confirmreturn.NewCommandHandler(es)

	// act
	book, _, err := handler.Handle(ctx, confirmreturn.BuildCommand(bookID, readerID, fixtures.FakeClock))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, book.BorrowedCopies())
	_, stillOpen := book.Borrowers.Get(readerID.String())
	assert.False(t, stillOpen)
	_, otherOpen := book.Borrowers.Get(otherID.String())
	assert.True(t, otherOpen)
}

func Test_CommandHandler_Handle_ConfirmWithoutPriorRequest(t *testing.T) {
	ctx := context.Background()
	es := fixtures.NewEventStore()
	bookID, readerID := uuid.New(), uuid.New()
	fixtures.Seed(t, es, fixtures.BookAdded(bookID, 1), fixtures.Borrowed(bookID, readerID))

	book, _, err := confirmreturn.NewCommandHandler(es).Handle(ctx, confirmreturn.BuildCommand(bookID, readerID, fixtures.FakeClock))

	require.NoError(t, err)
	assert.Equal(t, 0, book.BorrowedCopies())
}

func Test_CommandHandler_Handle_NotBorrowedLeavesStateUnchanged(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := fixtures.NewEventStore()
	bookID, holder := uuid.New(), uuid.New()
	fixtures.Seed(t, es, fixtures.BookAdded(bookID, 1), fixtures.Borrowed(bookID, holder))
	eventsBefore := es.Len()

	// act
	_, _, err := confirmreturn.NewCommandHandler(es).Handle(ctx, confirmreturn.BuildCommand(bookID, uuid.New(), fixtures.FakeClock))

	// assert
	assert.ErrorIs(t, err, core.ErrNotBorrowed)
	assert.Equal(t, eventsBefore, es.Len())
	assert.Equal(t, 1, fixtures.ProjectBook(t, es, bookID).BorrowedCopies())
}

func Test_CommandHandler_Handle_SecondConfirmFails(t *testing.T) {
	ctx := context.Background()
	es := fixtures.NewEventStore()
	bookID, readerID := uuid.New(), uuid.New()
	fixtures.Seed(t, es, fixtures.BookAdded(bookID, 1), fixtures.Borrowed(bookID, readerID))
	handler := confirmreturn.NewCommandHandler(es)

	_, _, err := handler.Handle(ctx, confirmreturn.BuildCommand(bookID, readerID, fixtures.FakeClock))
	require.NoError(t, err)
	_, _, err = handler.Handle(ctx, confirmreturn.BuildCommand(bookID, readerID, fixtures.FakeClock))

	assert.ErrorIs(t, err, core.ErrNotBorrowed)
}
