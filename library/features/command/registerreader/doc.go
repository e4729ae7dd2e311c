// Package registerreader creates a reader account.
//
// The consistency boundary is the set of registrations with the same email, which makes
// the email unique even under concurrent registrations.
package registerreader
