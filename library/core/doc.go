// Package core contains the pure domain of the library: domain events, the Book projection
// with its borrower arena, decision results and the error taxonomy.
//
// Nothing in here performs I/O. Command and query slices feed event histories into the
// functions of this package and act on the returned values.
package core
