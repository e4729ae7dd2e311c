package core

import (
	"time"
)

// Reader is the state of one account projected from its event history.
type Reader struct {
	ReaderID                  ReaderIDString
	Name                      string
	Email                     string
	PasswordHash              string
	Role                      RoleString
	Verified                  bool
	VerificationCode          string
	VerificationCodeExpiresAt time.Time
	Registered                bool
}

// IsAdmin reports whether the reader has the admin role.
func (r Reader) IsAdmin() bool {
	return r.Role == RoleAdmin
}

// ProjectReaders builds all registered readers keyed by reader id.
func ProjectReaders(history DomainEvents) map[ReaderIDString]Reader {
	readers := make(map[ReaderIDString]Reader)

	for _, event := range history {
		switch e := event.(type) {
		case ReaderRegistered:
			readers[e.ReaderID] = Reader{
				ReaderID:                  e.ReaderID,
				Name:                      e.Name,
				Email:                     e.Email,
				PasswordHash:              e.PasswordHash,
				Role:                      e.Role,
				Verified:                  e.Verified,
				VerificationCode:          e.VerificationCode,
				VerificationCodeExpiresAt: e.VerificationCodeExpiresAt,
				Registered:                true,
			}

		case ReaderEmailVerified:
			if r, ok := readers[e.ReaderID]; ok {
				r.Verified = true
				r.VerificationCode = ""
				r.VerificationCodeExpiresAt = time.Time{}
				readers[e.ReaderID] = r
			}
		}
	}

	return readers
}

// ProjectReaderByEmail returns the reader registered with the given email.
// Registered is false if there is none.
func ProjectReaderByEmail(history DomainEvents, email string) Reader {
	for _, r := range ProjectReaders(history) {
		if r.Email == email {
			return r
		}
	}

	return Reader{}
}
