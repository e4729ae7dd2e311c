package core

import (
	"time"
)

// BookIDString represents a book identifier
type BookIDString = string

// ReaderIDString represents a reader identifier
type ReaderIDString = string

// EventTypeString represents the type identifier of a domain event
type EventTypeString = string

// RoleString represents the role of a reader
type RoleString = string

// OccurredAtTS represents when an event occurred
type OccurredAtTS = time.Time

const (
	// RoleUser is the role of every self-registered reader.
	RoleUser RoleString = "user"

	// RoleAdmin is the role of catalog administrators.
	RoleAdmin RoleString = "admin"
)

// ToOccurredAt converts a time to OccurredAtTS with UTC normalization and microsecond precision
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}
