package fixtures

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

// FakeClock is the fixed point in time most fixtures are relative to.
var FakeClock = time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

// NewEventStore returns an empty in-memory event store.
func NewEventStore() *memoryengine.EventStore {
	return memoryengine.NewEventStore()
}

// Seed appends the given domain events unconditionally to the store.
func Seed(t *testing.T, es shell.EventStore, events ...core.DomainEvent) {
	t.Helper()

	ctx := context.Background()
	filter := eventstore.BuildEventFilter().MatchingAnyEvent()

	for _, event := range events {
		_, maxSequenceNumber, err := es.Query(ctx, filter)
		require.NoError(t, err)

		storableEvent, err := shell.StorableEventFrom(event, shell.NewCommandMetadata())
		require.NoError(t, err)

		require.NoError(t, es.Append(ctx, filter, maxSequenceNumber, storableEvent))
	}
}

// History returns all stored events mapped to domain events.
func History(t *testing.T, es shell.EventStore) core.DomainEvents {
	t.Helper()

	storableEvents, _, err := es.Query(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, err)

	history, err := shell.DomainEventsFrom(storableEvents)
	require.NoError(t, err)

	return history
}

// BookAdded builds a BookAddedToCatalog event with the given number of copies.
func BookAdded(bookID uuid.UUID, totalCopies int) core.DomainEvent {
	return core.BuildBookAddedToCatalog(
		bookID,
		core.BookDetails{
			Title:       "Learning Domain-Driven Design",
			Author:      "Vlad Khononov",
			Description: "Aligning software architecture and business strategy",
			Category:    "Software",
			TotalCopies: totalCopies,
		},
		FakeClock,
	)
}

// Borrowed builds a BookCopyBorrowed event.
func Borrowed(bookID uuid.UUID, readerID uuid.UUID) core.DomainEvent {
	return core.BuildBookCopyBorrowed(bookID, readerID, FakeClock.Add(time.Hour))
}

// ReturnRequested builds a BookReturnRequested event.
func ReturnRequested(bookID uuid.UUID, readerID uuid.UUID) core.DomainEvent {
	return core.BuildBookReturnRequested(bookID, readerID, FakeClock.Add(2*time.Hour))
}

// Returned builds a BookCopyReturned event.
func Returned(bookID uuid.UUID, readerID uuid.UUID) core.DomainEvent {
	return core.BuildBookCopyReturned(bookID, readerID, FakeClock.Add(3*time.Hour))
}

// ReaderRegistered builds a ReaderRegistered event for a verified reader with the given role.
func ReaderRegistered(readerID uuid.UUID, name string, email string, role core.RoleString) core.DomainEvent {
	return core.BuildReaderRegistered(
		readerID,
		core.Registration{
			Name:         name,
			Email:        email,
			PasswordHash: "not-a-real-hash",
			Role:         role,
			Verified:     true,
		},
		FakeClock,
	)
}

// ProjectBook returns the current state of the book in the store.
func ProjectBook(t *testing.T, es shell.EventStore, bookID uuid.UUID) core.Book {
	t.Helper()

	book, err := core.ProjectBook(History(t, es), bookID.String())
	require.NoError(t, err)

	return book
}
