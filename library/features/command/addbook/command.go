package addbook

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-ledger/library/core"
)

const (
	commandType        = "AddBook"
	defaultTotalCopies = 1
)

// Command represents the intent of an admin to add a book to the catalog.
type Command struct {
	BookID     uuid.UUID
	Details    core.BookDetails
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
// Text fields are trimmed and a totalCopies of 0 means one copy.
func BuildCommand(
	bookID uuid.UUID,
	title string,
	author string,
	description string,
	category string,
	totalCopies int,
	occurredAt time.Time,
) Command {

	if totalCopies == 0 {
		totalCopies = defaultTotalCopies
	}

	return Command{
		BookID: bookID,
		Details: core.BookDetails{
			Title:       strings.TrimSpace(title),
			Author:      strings.TrimSpace(author),
			Description: strings.TrimSpace(description),
			Category:    strings.TrimSpace(category),
			TotalCopies: totalCopies,
		},
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
