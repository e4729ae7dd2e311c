package core

import (
	"time"
)

// ReaderEmailVerifiedEventType is the event type identifier.
const ReaderEmailVerifiedEventType = "ReaderEmailVerified"

// ReaderEmailVerified represents when a reader confirmed their email with the verification code.
type ReaderEmailVerified struct {
	EventType  EventTypeString
	ReaderID   ReaderIDString
	Email      string
	OccurredAt OccurredAtTS
}

// BuildReaderEmailVerified creates a new ReaderEmailVerified event.
func BuildReaderEmailVerified(readerID ReaderIDString, email string, occurredAt time.Time) ReaderEmailVerified {
	return ReaderEmailVerified{
		EventType:  ReaderEmailVerifiedEventType,
		ReaderID:   readerID,
		Email:      email,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ReaderEmailVerified) IsEventType() string {
	return ReaderEmailVerifiedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReaderEmailVerified) HasOccurredAt() time.Time {
	return e.OccurredAt
}
