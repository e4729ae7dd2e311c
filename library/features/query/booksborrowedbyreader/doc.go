// Package booksborrowedbyreader implements the query for the books a reader currently holds.
//
// The loan events of the reader identify the books with an open loan. The streams of exactly
// those books are then projected to return the book summary together with the loan.
package booksborrowedbyreader
