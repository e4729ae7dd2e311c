// Package bookborrowers implements the query for the open loans of a book
// together with the name and email of each borrowing reader.
//
// The query reads two streams: the book stream to find the open loans, and the
// registrations of exactly the readers holding them.
package bookborrowers
