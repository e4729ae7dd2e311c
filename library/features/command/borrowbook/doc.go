// Package borrowbook lends one copy of a book to the calling reader.
//
// The consistency boundary is the complete event stream of the book, so two readers racing
// for the last copy can not both append a BookCopyBorrowed event.
package borrowbook
