package booksincatalog_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/query/booksincatalog"
	"github.com/AntonStoeckl/library-lending-ledger/testutil/fixtures"
)

func Test_QueryHandler_Handle_EmptyCatalog(t *testing.T) {
	result, err := booksincatalog.NewQueryHandler(fixtures.NewEventStore()).Handle(context.Background(), booksincatalog.BuildQuery())

	require.NoError(t, err)
	assert.Empty(t, result.Books)
	assert.Equal(t, 0, result.Count)
}

func Test_QueryHandler_Handle_ListsBooksWithCopyCounts(t *testing.T) {
	// arrange
	es := fixtures.NewEventStore()
	first, second, removed := uuid.New(), uuid.New(), uuid.New()
	readerID := uuid.New()
	fixtures.Seed(t, es,
		fixtures.BookAdded(first, 2),
		fixtures.BookAdded(removed, 1),
		fixtures.BookAdded(second, 1),
		fixtures.ReaderRegistered(readerID, "Ada", "ada@example.com", core.RoleUser),
		fixtures.Borrowed(first, readerID),
		core.BuildBookRemovedFromCatalog(removed, fixtures.FakeClock),
	)

	// act
	result, err := booksincatalog.NewQueryHandler(es).Handle(context.Background(), booksincatalog.BuildQuery())

	// assert
	require.NoError(t, err)
	require.Equal(t, 2, result.Count)
	assert.Equal(t, first.String(), result.Books[0].BookID)
	assert.Equal(t, 1, result.Books[0].BorrowedCopies())
	assert.Equal(t, second.String(), result.Books[1].BookID)
	assert.Equal(t, uint(6), result.SequenceNumber)
}
