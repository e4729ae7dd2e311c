package core

import (
	"time"

	"github.com/google/uuid"
)

// ReaderRegisteredEventType is the event type identifier.
const ReaderRegisteredEventType = "ReaderRegistered"

// ReaderRegistered represents when a reader account was created.
// Accounts created by an operator are registered as already verified and carry no verification code.
type ReaderRegistered struct {
	EventType                 EventTypeString
	ReaderID                  ReaderIDString
	Name                      string
	Email                     string
	PasswordHash              string
	Role                      RoleString
	Verified                  bool
	VerificationCode          string
	VerificationCodeExpiresAt time.Time
	OccurredAt                OccurredAtTS
}

// Registration bundles the account data of a ReaderRegistered event.
type Registration struct {
	Name                      string
	Email                     string
	PasswordHash              string
	Role                      RoleString
	Verified                  bool
	VerificationCode          string
	VerificationCodeExpiresAt time.Time
}

// BuildReaderRegistered creates a new ReaderRegistered event.
func BuildReaderRegistered(readerID uuid.UUID, registration Registration, occurredAt time.Time) ReaderRegistered {
	return ReaderRegistered{
		EventType:                 ReaderRegisteredEventType,
		ReaderID:                  readerID.String(),
		Name:                      registration.Name,
		Email:                     registration.Email,
		PasswordHash:              registration.PasswordHash,
		Role:                      registration.Role,
		Verified:                  registration.Verified,
		VerificationCode:          registration.VerificationCode,
		VerificationCodeExpiresAt: ToOccurredAt(registration.VerificationCodeExpiresAt),
		OccurredAt:                ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ReaderRegistered) IsEventType() string {
	return ReaderRegisteredEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReaderRegistered) HasOccurredAt() time.Time {
	return e.OccurredAt
}
