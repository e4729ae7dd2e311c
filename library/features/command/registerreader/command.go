package registerreader

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-ledger/library/core"
)

const (
	commandType = "RegisterReader"
)

// Command represents the intent to register a new reader account.
type Command struct {
	ReaderID     uuid.UUID
	Registration core.Registration
	OccurredAt   core.OccurredAtTS
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
// The email is normalized to lower case.
func BuildCommand(readerID uuid.UUID, registration core.Registration, occurredAt time.Time) Command {
	registration.Name = strings.TrimSpace(registration.Name)
	registration.Email = NormalizeEmail(registration.Email)

	return Command{
		ReaderID:     readerID,
		Registration: registration,
		OccurredAt:   core.ToOccurredAt(occurredAt),
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
