// Package readerbyemail implements the lookup of a reader account by its email address.
// It backs the login flow.
package readerbyemail
