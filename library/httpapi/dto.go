package httpapi

import (
	"time"

	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/query/bookborrowers"
	"github.com/AntonStoeckl/library-lending-ledger/library/features/query/booksborrowedbyreader"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type bookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Category    string `json:"category"`
	TotalCopies int    `json:"totalCopies"`
}

func (r bookRequest) details() core.BookDetails {
	return core.BookDetails{
		Title:       r.Title,
		Author:      r.Author,
		Description: r.Description,
		Category:    r.Category,
		TotalCopies: r.TotalCopies,
	}
}

type confirmReturnRequest struct {
	UserID string `json:"userId"`
}

type returnRequest struct {
	UserID       string `json:"userId"`
	AdminConfirm bool   `json:"adminConfirm"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type loanResponse struct {
	UserID          string    `json:"userId"`
	BorrowedAt      time.Time `json:"borrowedAt"`
	ReturnRequested bool      `json:"returnRequested"`
}

type bookResponse struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Author          string         `json:"author"`
	Description     string         `json:"description"`
	Category        string         `json:"category"`
	TotalCopies     int            `json:"totalCopies"`
	BorrowedCopies  int            `json:"borrowedCopies"`
	AvailableCopies int            `json:"availableCopies"`
	Borrowers       []loanResponse `json:"borrowers,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
}

type borrowerResponse struct {
	User            userResponse `json:"user"`
	BorrowedAt      time.Time    `json:"borrowedAt"`
	ReturnRequested bool         `json:"returnRequested"`
}

type borrowedBookResponse struct {
	Book bookResponse `json:"book"`
	Loan loanResponse `json:"loan"`
}

// toBookResponse maps a book. Public views never carry borrower data.
func toBookResponse(book core.Book, withBorrowers bool) bookResponse {
	response := bookResponse{
		ID:              book.BookID,
		Title:           book.Title,
		Author:          book.Author,
		Description:     book.Description,
		Category:        book.Category,
		TotalCopies:     book.TotalCopies,
		BorrowedCopies:  book.BorrowedCopies(),
		AvailableCopies: book.AvailableCopies(),
		CreatedAt:       book.AddedAt,
	}

	if withBorrowers {
		response.Borrowers = make([]loanResponse, 0, book.Borrowers.Len())
		for _, loan := range book.Borrowers.All() {
			response.Borrowers = append(response.Borrowers, toLoanResponse(loan))
		}
	}

	return response
}

func toBookResponses(books []core.Book, withBorrowers bool) []bookResponse {
	responses := make([]bookResponse, 0, len(books))
	for _, book := range books {
		responses = append(responses, toBookResponse(book, withBorrowers))
	}

	return responses
}

func toLoanResponse(loan core.Loan) loanResponse {
	return loanResponse{
		UserID:          loan.ReaderID,
		BorrowedAt:      loan.BorrowedAt,
		ReturnRequested: loan.ReturnRequested,
	}
}

func toBorrowerResponses(result bookborrowers.BookBorrowers) []borrowerResponse {
	responses := make([]borrowerResponse, 0, len(result.Borrowers))
	for _, borrower := range result.Borrowers {
		responses = append(responses, borrowerResponse{
			User: userResponse{
				ID:    borrower.ReaderID,
				Name:  borrower.Name,
				Email: borrower.Email,
			},
			BorrowedAt:      borrower.BorrowedAt,
			ReturnRequested: borrower.ReturnRequested,
		})
	}

	return responses
}

func toBorrowedBookResponses(borrowed []booksborrowedbyreader.BorrowedBook) []borrowedBookResponse {
	responses := make([]borrowedBookResponse, 0, len(borrowed))
	for _, item := range borrowed {
		responses = append(responses, borrowedBookResponse{
			Book: toBookResponse(item.Book, false),
			Loan: toLoanResponse(item.Loan),
		})
	}

	return responses
}
