package requestreturn_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/command/requestreturn"
	"github.com/AntonStoeckl/library-lending-ledger/testutil/fixtures"
)

func Test_CommandHandler_Handle_FlagsLoanAndKeepsCopyBorrowed(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := fixtures.NewEventStore()
	bookID, readerID := uuid.New(), uuid.New()
	fixtures.Seed(t, es, fixtures.BookAdded(bookID, 1), fixtures.Borrowed(bookID, readerID))
	handler := requestreturn.NewCommandHandler(es)

	// act
	book, result, err := handler.Handle(ctx, requestreturn.BuildCommand(bookID, readerID, fixtures.FakeClock))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)
	assert.Equal(t, 1, book.BorrowedCopies())
	loan, ok := book.Borrowers.Get(readerID.String())
	require.True(t, ok)
	assert.True(t, loan.ReturnRequested)
}

func Test_CommandHandler_Handle_RepeatedRequestIsIdempotent(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := fixtures.NewEventStore()
	bookID, readerID := uuid.New(), uuid.New()
	fixtures.Seed(t, es,
		fixtures.BookAdded(bookID, 1),
		fixtures.Borrowed(bookID, readerID),
		fixtures.ReturnRequested(bookID, readerID),
	)
	eventsBefore := es.Len()
	handler := requestreturn.NewCommandHandler(es)

	// act
	book, result, err := handler.Handle(ctx, requestreturn.BuildCommand(bookID, readerID, fixtures.FakeClock))

	// assert
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, eventsBefore, es.Len())
	loan, _ := book.Borrowers.Get(readerID.String())
	assert.True(t, loan.ReturnRequested)
}

func Test_CommandHandler_Handle_Errors(t *testing.T) {
	bookID, readerID := uuid.New(), uuid.New()

	testCases := []struct {
		description string
		history     []core.DomainEvent
		expected    error
	}{
		{"book not found", nil, core.ErrBookNotFound},
		{"not borrowed", []core.DomainEvent{fixtures.BookAdded(bookID, 1)}, core.ErrNotBorrowed},
		{"borrowed by someone else", []core.DomainEvent{fixtures.BookAdded(bookID, 1), fixtures.Borrowed(bookID, uuid.New())}, core.ErrNotBorrowed},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			es := fixtures.NewEventStore()
			fixtures.Seed(t, es, tc.history...)
			eventsBefore := es.Len()

			_, _, err := requestreturn.NewCommandHandler(es).Handle(
				context.Background(),
				requestreturn.BuildCommand(bookID, readerID, fixtures.FakeClock),
			)

			assert.ErrorIs(t, err, tc.expected)
			assert.Equal(t, eventsBefore, es.Len())
		})
	}
}
