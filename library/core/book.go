package core

import (
	"errors"
	"fmt"
	"time"
)

// BookDetails are the descriptive, admin-maintained attributes of a book.
type BookDetails struct {
	Title       string
	Author      string
	Description string
	Category    string
	TotalCopies int
}

// Loan is an open borrow record linking a reader to one copy of a book.
// It moves forward only: active, then returnRequested, then removed by a confirmed return.
type Loan struct {
	ReaderID        ReaderIDString
	BorrowedAt      time.Time
	ReturnRequested bool
}

// Borrowers holds the open loans of one book.
// Loans are stored in an arena keyed by reader id, the order slice keeps the borrow order.
type Borrowers struct {
	loans map[ReaderIDString]*Loan
	order []ReaderIDString
}

// Len returns the number of open loans.
func (b Borrowers) Len() int {
	return len(b.order)
}

// Get returns the open loan of the given reader.
func (b Borrowers) Get(readerID ReaderIDString) (Loan, bool) {
	loan, ok := b.loans[readerID]
	if !ok {
		return Loan{}, false
	}

	return *loan, true
}

// All returns copies of the open loans in borrow order.
func (b Borrowers) All() []Loan {
	all := make([]Loan, 0, len(b.order))
	for _, readerID := range b.order {
		all = append(all, *b.loans[readerID])
	}

	return all
}

func (b *Borrowers) add(loan Loan) error {
	if b.loans == nil {
		b.loans = make(map[ReaderIDString]*Loan)
	}

	if _, exists := b.loans[loan.ReaderID]; exists {
		return fmt.Errorf("reader %s already holds an open loan", loan.ReaderID)
	}

	b.loans[loan.ReaderID] = &loan
	b.order = append(b.order, loan.ReaderID)

	return nil
}

func (b *Borrowers) flagReturnRequested(readerID ReaderIDString) error {
	loan, ok := b.loans[readerID]
	if !ok {
		return fmt.Errorf("return requested by reader %s without open loan", readerID)
	}

	loan.ReturnRequested = true

	return nil
}

func (b *Borrowers) remove(readerID ReaderIDString) error {
	if _, ok := b.loans[readerID]; !ok {
		return fmt.Errorf("return confirmed for reader %s without open loan", readerID)
	}

	delete(b.loans, readerID)
	for i, id := range b.order {
		if id == readerID {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}

	return nil
}

// Book is the state of one catalog entry projected from its event history.
type Book struct {
	BookID BookIDString
	BookDetails
	Borrowers Borrowers
	InCatalog bool
	AddedAt   time.Time
}

// BorrowedCopies is derived from the open loans, so it always equals Borrowers.Len().
func (b Book) BorrowedCopies() int {
	return b.Borrowers.Len()
}

// AvailableCopies returns how many copies can still be borrowed.
func (b Book) AvailableCopies() int {
	return b.TotalCopies - b.BorrowedCopies()
}

// apply folds one event of this book into the state.
// Events that would break a ledger invariant yield ErrInconsistentHistory.
func (b *Book) apply(event DomainEvent) error {
	var err error

	switch e := event.(type) {
	case BookAddedToCatalog:
		b.BookID = e.BookID
		b.BookDetails = BookDetails{
			Title:       e.Title,
			Author:      e.Author,
			Description: e.Description,
			Category:    e.Category,
			TotalCopies: e.TotalCopies,
		}
		b.InCatalog = true
		b.AddedAt = e.OccurredAt

	case BookDetailsRevised:
		b.BookDetails = BookDetails{
			Title:       e.Title,
			Author:      e.Author,
			Description: e.Description,
			Category:    e.Category,
			TotalCopies: e.TotalCopies,
		}

	case BookRemovedFromCatalog:
		if b.BorrowedCopies() > 0 {
			err = fmt.Errorf("book %s removed with %d open loans", b.BookID, b.BorrowedCopies())
		}
		b.InCatalog = false

	case BookCopyBorrowed:
		if !b.InCatalog {
			err = fmt.Errorf("book %s borrowed while not in catalog", e.BookID)
			break
		}
		err = b.Borrowers.add(Loan{ReaderID: e.ReaderID, BorrowedAt: e.OccurredAt})

	case BookReturnRequested:
		err = b.Borrowers.flagReturnRequested(e.ReaderID)

	case BookCopyReturned:
		err = b.Borrowers.remove(e.ReaderID)
	}

	if err != nil {
		return errors.Join(ErrInconsistentHistory, err)
	}

	if b.BorrowedCopies() > b.TotalCopies {
		return errors.Join(
			ErrInconsistentHistory,
			fmt.Errorf("book %s has %d open loans for %d copies", b.BookID, b.BorrowedCopies(), b.TotalCopies),
		)
	}

	return nil
}

// ProjectBook builds the current state of one book by replaying the history.
// Events of other books are ignored. A book that was never added has InCatalog == false.
func ProjectBook(history DomainEvents, bookID BookIDString) (Book, error) {
	book := Book{BookID: bookID}

	for _, event := range history {
		if bookIDOf(event) != bookID {
			continue
		}

		if err := book.apply(event); err != nil {
			return Book{}, err
		}
	}

	return book, nil
}

// ProjectCatalog builds the state of all books in the history that are currently in the catalog,
// ordered by the time they were added.
func ProjectCatalog(history DomainEvents) ([]Book, error) {
	books := make(map[BookIDString]*Book)
	order := make([]BookIDString, 0)

	for _, event := range history {
		bookID := bookIDOf(event)
		if bookID == "" {
			continue
		}

		book, ok := books[bookID]
		if !ok {
			book = &Book{BookID: bookID}
			books[bookID] = book
			order = append(order, bookID)
		}

		if err := book.apply(event); err != nil {
			return nil, err
		}
	}

	catalog := make([]Book, 0, len(order))
	for _, bookID := range order {
		if books[bookID].InCatalog {
			catalog = append(catalog, *books[bookID])
		}
	}

	return catalog, nil
}

func bookIDOf(event DomainEvent) BookIDString {
	switch e := event.(type) {
	case BookAddedToCatalog:
		return e.BookID
	case BookDetailsRevised:
		return e.BookID
	case BookRemovedFromCatalog:
		return e.BookID
	case BookCopyBorrowed:
		return e.BookID
	case BookReturnRequested:
		return e.BookID
	case BookCopyReturned:
		return e.BookID
	default:
		return ""
	}
}
