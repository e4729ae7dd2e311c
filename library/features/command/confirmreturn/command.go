package confirmreturn

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-ledger/library/core"
)

const (
	commandType = "ConfirmReturn"
)

// Command represents the intent of an admin to confirm that a reader handed their copy back.
type Command struct {
	BookID     uuid.UUID
	ReaderID   uuid.UUID // the borrower, not the admin
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(bookID uuid.UUID, readerID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		BookID:     bookID,
		ReaderID:   readerID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
