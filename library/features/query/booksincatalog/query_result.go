package booksincatalog

import (
	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
)

// BooksInCatalog represents the query result containing all books in the catalog.
type BooksInCatalog struct {
	Books          []core.Book
	Count          int
	SequenceNumber eventstore.MaxSequenceNumberUint
}
