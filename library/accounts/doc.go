// Package accounts implements registration, email verification, and login of readers.
//
// Accounts are event sourced like the ledger: registrations and verifications are appended by the
// registerreader and verifyreaderemail slices, login reads them through the readerbyemail query.
package accounts
