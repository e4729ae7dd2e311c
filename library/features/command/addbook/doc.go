// Package addbook adds a new book with its number of copies to the catalog.
package addbook
