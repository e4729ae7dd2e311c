// Package revisebook updates the details of a book in the catalog.
//
// Empty text fields and a zero totalCopies keep the current value. The number of copies can
// not drop below the number of copies currently borrowed.
package revisebook
