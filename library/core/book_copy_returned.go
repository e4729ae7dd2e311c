package core

import (
	"time"

	"github.com/google/uuid"
)

// BookCopyReturnedEventType is the event type identifier.
const BookCopyReturnedEventType = "BookCopyReturned"

// BookCopyReturned represents when an admin confirmed the return of a copy, closing the loan.
type BookCopyReturned struct {
	EventType  EventTypeString
	BookID     BookIDString
	ReaderID   ReaderIDString
	OccurredAt OccurredAtTS
}

// BuildBookCopyReturned creates a new BookCopyReturned event.
func BuildBookCopyReturned(bookID uuid.UUID, readerID uuid.UUID, occurredAt time.Time) BookCopyReturned {
	return BookCopyReturned{
		EventType:  BookCopyReturnedEventType,
		BookID:     bookID.String(),
		ReaderID:   readerID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookCopyReturned) IsEventType() string {
	return BookCopyReturnedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookCopyReturned) HasOccurredAt() time.Time {
	return e.OccurredAt
}
