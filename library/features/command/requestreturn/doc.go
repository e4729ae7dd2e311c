// Package requestreturn flags the open loan of the calling reader as return requested.
// The copy stays checked out until an admin confirms the return.
package requestreturn
