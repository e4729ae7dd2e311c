package booksborrowedbyreader

import (
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
)

// BorrowedBook pairs a book with the open loan of the reader.
type BorrowedBook struct {
	Book core.Book
	Loan core.Loan
}

// BooksBorrowedByReader represents the query result, ordered by borrow time.
type BooksBorrowedByReader struct {
	ReaderID core.ReaderIDString
	Books    []BorrowedBook
}
