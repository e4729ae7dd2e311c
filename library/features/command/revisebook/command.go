package revisebook

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-ledger/library/core"
)

const (
	commandType = "ReviseBook"
)

// Command represents the intent of an admin to change the details of a book.
type Command struct {
	BookID     uuid.UUID
	Changes    core.BookDetails
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(bookID uuid.UUID, changes core.BookDetails, occurredAt time.Time) Command {
	changes.Title = strings.TrimSpace(changes.Title)
	changes.Author = strings.TrimSpace(changes.Author)
	changes.Description = strings.TrimSpace(changes.Description)
	changes.Category = strings.TrimSpace(changes.Category)

	return Command{
		BookID:     bookID,
		Changes:    changes,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
