package booksborrowedbyreader

import (
	"github.com/google/uuid"
)

const (
	queryType = "BooksBorrowedByReader"
)

// Query represents the intent to list the open loans of a reader.
type Query struct {
	ReaderID uuid.UUID
}

// BuildQuery creates a new Query.
func BuildQuery(readerID uuid.UUID) Query {
	return Query{ReaderID: readerID}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
