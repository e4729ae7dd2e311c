package core

import (
	"time"

	"github.com/google/uuid"
)

// BookAddedToCatalogEventType is the event type identifier.
const BookAddedToCatalogEventType = "BookAddedToCatalog"

// BookAddedToCatalog represents when a book with its copies is added to the catalog.
type BookAddedToCatalog struct {
	EventType   EventTypeString
	BookID      BookIDString
	Title       string
	Author      string
	Description string
	Category    string
	TotalCopies int
	OccurredAt  OccurredAtTS
}

// BuildBookAddedToCatalog creates a new BookAddedToCatalog event.
func BuildBookAddedToCatalog(
	bookID uuid.UUID,
	details BookDetails,
	occurredAt time.Time,
) BookAddedToCatalog {

	return BookAddedToCatalog{
		EventType:   BookAddedToCatalogEventType,
		BookID:      bookID.String(),
		Title:       details.Title,
		Author:      details.Author,
		Description: details.Description,
		Category:    details.Category,
		TotalCopies: details.TotalCopies,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookAddedToCatalog) IsEventType() string {
	return BookAddedToCatalogEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookAddedToCatalog) HasOccurredAt() time.Time {
	return e.OccurredAt
}
