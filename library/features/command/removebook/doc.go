// Package removebook removes a book from the catalog. Books with open loans can not be removed.
package removebook
