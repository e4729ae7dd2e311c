package bookborrowers

import (
	"time"

	"github.com/AntonStoeckl/library-lending-ledger/library/core"
)

// BorrowerInfo is an open loan with the borrowing reader resolved.
type BorrowerInfo struct {
	ReaderID        core.ReaderIDString
	Name            string
	Email           string
	BorrowedAt      time.Time
	ReturnRequested bool
}

// BookBorrowers represents the query result.
type BookBorrowers struct {
	Book      core.Book
	Borrowers []BorrowerInfo
}
