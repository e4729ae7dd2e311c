package core

import (
	"time"

	"github.com/google/uuid"
)

// BookCopyBorrowedEventType is the event type identifier.
const BookCopyBorrowedEventType = "BookCopyBorrowed"

// BookCopyBorrowed represents when a reader borrowed one copy of a book.
type BookCopyBorrowed struct {
	EventType  EventTypeString
	BookID     BookIDString
	ReaderID   ReaderIDString
	OccurredAt OccurredAtTS
}

// BuildBookCopyBorrowed creates a new BookCopyBorrowed event.
func BuildBookCopyBorrowed(bookID uuid.UUID, readerID uuid.UUID, occurredAt time.Time) BookCopyBorrowed {
	return BookCopyBorrowed{
		EventType:  BookCopyBorrowedEventType,
		BookID:     bookID.String(),
		ReaderID:   readerID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookCopyBorrowed) IsEventType() string {
	return BookCopyBorrowedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookCopyBorrowed) HasOccurredAt() time.Time {
	return e.OccurredAt
}
