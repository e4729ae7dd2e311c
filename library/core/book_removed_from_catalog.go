package core

import (
	"time"

	"github.com/google/uuid"
)

// BookRemovedFromCatalogEventType is the event type identifier.
const BookRemovedFromCatalogEventType = "BookRemovedFromCatalog"

// BookRemovedFromCatalog represents when a book is removed from the catalog.
type BookRemovedFromCatalog struct {
	EventType  EventTypeString
	BookID     BookIDString
	OccurredAt OccurredAtTS
}

// BuildBookRemovedFromCatalog creates a new BookRemovedFromCatalog event.
func BuildBookRemovedFromCatalog(bookID uuid.UUID, occurredAt time.Time) BookRemovedFromCatalog {
	return BookRemovedFromCatalog{
		EventType:  BookRemovedFromCatalogEventType,
		BookID:     bookID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookRemovedFromCatalog) IsEventType() string {
	return BookRemovedFromCatalogEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookRemovedFromCatalog) HasOccurredAt() time.Time {
	return e.OccurredAt
}
