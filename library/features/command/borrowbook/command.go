package borrowbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-ledger/library/core"
)

const (
	commandType = "BorrowBook"
)

// Command represents the intent of a reader to borrow one copy of a book.
type Command struct {
	BookID     uuid.UUID
	ReaderID   uuid.UUID
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
