// Package booksincatalog implements the query for all books currently in the catalog.
//
// This is a read-only operation that projects the current state from the event history
// without modifying any data or generating new events.
package booksincatalog
