package readerbyemail

import (
	"strings"
)

const (
	queryType = "ReaderByEmail"
)

// Query represents the intent to look up a reader by email.
type Query struct {
	Email string
}

// BuildQuery creates a new Query with a normalized email.
func BuildQuery(email string) Query {
	return Query{Email: strings.ToLower(strings.TrimSpace(email))}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
