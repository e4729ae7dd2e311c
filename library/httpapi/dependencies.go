package httpapi

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-ledger/library/accessgate"
	"github.com/AntonStoeckl/library-lending-ledger/library/accounts"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/query/bookborrowers"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/query/booksborrowedbyreader"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

// Ledger is the lending and catalog surface used by the handlers. *lending.Ledger satisfies it.
type Ledger interface {
	Borrow(ctx context.Context, bookID uuid.UUID, readerID uuid.UUID) (core.Book, error)
	RequestReturn(ctx context.Context, bookID uuid.UUID, readerID uuid.UUID) (core.Book, error)
	ConfirmReturn(ctx context.Context, bookID uuid.UUID, targetReaderID uuid.UUID) (core.Book, error)
	BorrowersOf(ctx context.Context, bookID uuid.UUID) (bookborrowers.BookBorrowers, error)
	BorrowedBy(ctx context.Context, readerID uuid.UUID) ([]booksborrowedbyreader.BorrowedBook, error)

	AddBook(ctx context.Context, details core.BookDetails) (core.Book, error)
	ReviseBook(ctx context.Context, bookID uuid.UUID, changes core.BookDetails) (core.Book, error)
	RemoveBook(ctx context.Context, bookID uuid.UUID) error
	ListBooks(ctx context.Context) ([]core.Book, error)
	GetBook(ctx context.Context, bookID uuid.UUID) (core.Book, error)
}

// Accounts is the account surface used by the handlers. *accounts.Service satisfies it.
type Accounts interface {
	Register(ctx context.Context, name string, email string, password string) error
	VerifyEmail(ctx context.Context, email string, code string) error
	Login(ctx context.Context, email string, password string) (accounts.LoginResult, error)
}

// Dependencies are the collaborators of the router.
type Dependencies struct {
	Ledger   Ledger
	Accounts Accounts
	Gate     *accessgate.Gate
	Events   http.HandlerFunc
	Logger   shell.Logger
}
