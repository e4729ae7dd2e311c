package core

import (
	"errors"
)

// Error kinds. Every error returned to a caller of the library is classified by exactly one of them.
var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrUnavailable    = errors.New("unavailable")
)

// kindError is a specific, human-readable error that unwraps to its kind.
type kindError struct {
	kind error
	msg  string
}

func (e kindError) Error() string {
	return e.msg
}

func (e kindError) Unwrap() error {
	return e.kind
}

// NewKindError creates a specific error with the given message classified under kind.
func NewKindError(kind error, msg string) error {
	return kindError{kind: kind, msg: msg}
}

// Lending and catalog errors.
var (
	ErrBookNotFound        = NewKindError(ErrNotFound, "Book not found")
	ErrNoCopiesAvailable   = NewKindError(ErrConflict, "No copies available")
	ErrAlreadyBorrowed     = NewKindError(ErrConflict, "You already borrowed this book")
	ErrNotBorrowed         = NewKindError(ErrNotFound, "Book is not borrowed by this user")
	ErrBookHasOpenLoans    = NewKindError(ErrConflict, "Book still has open loans")
	ErrTotalCopiesTooLow   = NewKindError(ErrConflict, "Total copies can not be lower than borrowed copies")
	ErrTitleAuthorRequired = NewKindError(ErrInvalidRequest, "Title and author are required")
	ErrInvalidTotalCopies  = NewKindError(ErrInvalidRequest, "Total copies must be at least 1")
	ErrInvalidBookID       = NewKindError(ErrInvalidRequest, "Invalid book id")
	ErrInvalidUserID       = NewKindError(ErrInvalidRequest, "Invalid user id")
)

// Account errors.
var (
	ErrAllFieldsRequired        = NewKindError(ErrInvalidRequest, "All fields are required")
	ErrEmailAlreadyRegistered   = NewKindError(ErrConflict, "Email already registered")
	ErrEmailAndCodeRequired     = NewKindError(ErrInvalidRequest, "Email and verification code are required")
	ErrEmailAndPasswordRequired = NewKindError(ErrInvalidRequest, "Email and password required")
	ErrReaderNotFound           = NewKindError(ErrNotFound, "User not found")
	ErrIncorrectCode            = NewKindError(ErrInvalidRequest, "Incorrect verification code")
	ErrCodeExpired              = NewKindError(ErrInvalidRequest, "Verification code has expired")
	ErrEmailNotVerified         = NewKindError(ErrUnauthorized, "Please verify your email first")
	ErrIncorrectPassword        = NewKindError(ErrUnauthorized, "Incorrect password")
)

// ErrInconsistentHistory is returned when an event history violates a ledger invariant.
// It is never retried and never self-healed.
var ErrInconsistentHistory = errors.New("inconsistent event history")

// MessageOf returns the message of the specific error in err's tree.
// ok is false when err carries no specific error.
func MessageOf(err error) (msg string, ok bool) {
	var specific kindError
	if errors.As(err, &specific) {
		return specific.msg, true
	}

	return "", false
}
