package core

import (
	"time"

	"github.com/google/uuid"
)

// BookReturnRequestedEventType is the event type identifier.
const BookReturnRequestedEventType = "BookReturnRequested"

// BookReturnRequested represents when a borrowing reader asked to return their copy.
type BookReturnRequested struct {
	EventType  EventTypeString
	BookID     BookIDString
	ReaderID   ReaderIDString
	OccurredAt OccurredAtTS
}

// BuildBookReturnRequested creates a new BookReturnRequested event.
func BuildBookReturnRequested(bookID uuid.UUID, readerID uuid.UUID, occurredAt time.Time) BookReturnRequested {
	return BookReturnRequested{
		EventType:  BookReturnRequestedEventType,
		BookID:     bookID.String(),
		ReaderID:   readerID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookReturnRequested) IsEventType() string {
	return BookReturnRequestedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookReturnRequested) HasOccurredAt() time.Time {
	return e.OccurredAt
}
