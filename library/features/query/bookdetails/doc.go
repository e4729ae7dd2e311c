// Package bookdetails implements the query for the current state of a single book.
package bookdetails
