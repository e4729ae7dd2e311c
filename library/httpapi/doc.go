// Package httpapi exposes the ledger, the catalog, and the accounts over HTTP with gin.
//
// Every error response has the body {"message": "..."}.
package httpapi
