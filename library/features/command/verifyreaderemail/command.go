package verifyreaderemail

import (
	"strings"
	"time"

	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/command/registerreader"
)

const (
	commandType = "VerifyReaderEmail"
)

// Command represents the intent of a reader to verify their email.
type Command struct {
	Email      string
	Code       string
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(email string, code string, occurredAt time.Time) Command {
	return Command{
		Email:      registerreader.NormalizeEmail(email),
		Code:       strings.TrimSpace(code),
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
