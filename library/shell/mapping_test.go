package shell_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

func Test_StorableEventFrom_And_DomainEventFrom(t *testing.T) {
	bookID, readerID := uuid.New(), uuid.New()
	now := time.Now()

	testCases := []struct {
		description string
		event       core.DomainEvent
	}{
		{"book added", core.BuildBookAddedToCatalog(bookID, core.BookDetails{Title: "Dune", Author: "Herbert", TotalCopies: 2}, now)},
		{"book revised", core.BuildBookDetailsRevised(bookID, core.BookDetails{Title: "Dune", Author: "Herbert", TotalCopies: 3}, now)},
		{"book removed", core.BuildBookRemovedFromCatalog(bookID, now)},
		{"copy borrowed", core.BuildBookCopyBorrowed(bookID, readerID, now)},
		{"return requested", core.BuildBookReturnRequested(bookID, readerID, now)},
		{"copy returned", core.BuildBookCopyReturned(bookID, readerID, now)},
		{"reader registered", core.BuildReaderRegistered(readerID, core.Registration{Name: "Ada", Email: "ada@example.com", Role: core.RoleUser}, now)},
		{"email verified", core.BuildReaderEmailVerified(readerID.String(), "ada@example.com", now)},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// act
			storable, err := shell.StorableEventFrom(tc.event, shell.NewCommandMetadata())
			require.NoError(t, err)
			mapped, err := shell.DomainEventFrom(storable)

			// assert
			require.NoError(t, err)
			assert.Equal(t, tc.event.IsEventType(), storable.EventType)
			assert.Equal(t, tc.event, mapped)
		})
	}
}

func Test_StorableEventFrom_PayloadKeysMatchFilterPredicates(t *testing.T) {
	bookID, readerID := uuid.New(), uuid.New()

	storable, err := shell.StorableEventFrom(core.BuildBookCopyBorrowed(bookID, readerID, time.Now()), shell.NewCommandMetadata())

	require.NoError(t, err)
	assert.Contains(t, string(storable.PayloadJSON), `"BookID":"`+bookID.String()+`"`)
	assert.Contains(t, string(storable.PayloadJSON), `"ReaderID":"`+readerID.String()+`"`)
}

func Test_EventMetadataFrom(t *testing.T) {
	metadata := shell.NewCommandMetadata()
	storable, err := shell.StorableEventFrom(core.BuildBookRemovedFromCatalog(uuid.New(), time.Now()), metadata)
	require.NoError(t, err)

	extracted, err := shell.EventMetadataFrom(storable)

	require.NoError(t, err)
	assert.Equal(t, metadata, extracted)
	assert.Equal(t, extracted.MessageID, extracted.CorrelationID)
}

func Test_DomainEventFrom_UnknownEventType(t *testing.T) {
	storable, err := eventstore.BuildStorableEventWithEmptyMetadata("SomethingElse", time.Now(), []byte(`{}`))
	require.NoError(t, err)

	_, err = shell.DomainEventFrom(storable)

	assert.ErrorIs(t, err, shell.ErrMappingToDomainEventUnknownEventType)
}
