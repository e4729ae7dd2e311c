package core

import (
	"time"

	"github.com/google/uuid"
)

// BookDetailsRevisedEventType is the event type identifier.
const BookDetailsRevisedEventType = "BookDetailsRevised"

// BookDetailsRevised carries the complete details of a book after an admin revised them.
type BookDetailsRevised struct {
	EventType   EventTypeString
	BookID      BookIDString
	Title       string
	Author      string
	Description string
	Category    string
	TotalCopies int
	OccurredAt  OccurredAtTS
}

// BuildBookDetailsRevised creates a new BookDetailsRevised event.
func BuildBookDetailsRevised(bookID uuid.UUID, details BookDetails, occurredAt time.Time) BookDetailsRevised {
	return BookDetailsRevised{
		EventType:   BookDetailsRevisedEventType,
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
func (e BookDetailsRevised) IsEventType() string {
	return BookDetailsRevisedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookDetailsRevised) HasOccurredAt() time.Time {
	return e.OccurredAt
}
