// Package lending provides the Ledger, the single entry point for lending and catalog operations.
//
// The Ledger composes the command and query slices of library/features, bounds every operation
// by a timeout, classifies store failures into the error kinds of library/core, and broadcasts
// the ledger events through a shell.Notifier after they were committed.
package lending
