// Package confirmreturn closes the open loan of a reader on behalf of an admin.
// The loan is removed and the copy becomes available again.
package confirmreturn
