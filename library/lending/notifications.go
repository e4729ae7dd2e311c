package lending

import (
	"fmt"
	"time"
)

// Names of the events broadcast through the notifier.
const (
	BookBorrowedEvent        = "bookBorrowed"
	BookReturnRequestedEvent = "bookReturnRequested"
	BookReturnedEvent        = "bookReturned"
)

// BookBorrowed is the payload of BookBorrowedEvent.
type BookBorrowed struct {
	BookID         string `json:"bookId"`
	UserID         string `json:"userId"`
	BorrowedCopies int    `json:"borrowedCopies"`
}

// BookReturnRequested is the payload of BookReturnRequestedEvent.
type BookReturnRequested struct {
	BookID string `json:"bookId"`
	UserID string `json:"userId"`
}

// BookReturned is the payload of BookReturnedEvent.
type BookReturned struct {
	BookID         string    `json:"bookId"`
	UserID         string    `json:"userId"`
	BorrowedCopies int       `json:"borrowedCopies"`
	ReturnedAt     time.Time `json:"returnedAt"`
}

// publish hands the event to the notifier on the caller's goroutine, so events leave in commit order.
// A panicking notifier is logged and never fails the committed operation.
func (l *Ledger) publish(eventName string, payload any) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("notifier panicked", "event", eventName, "panic", fmt.Sprint(r))
		}
	}()

	l.notifier.Publish(eventName, payload)
}
