package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-ledger/library/accessgate"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
)

func bookIDParam(c *gin.Context) (uuid.UUID, error) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, core.ErrInvalidBookID
	}

	return bookID, nil
}

// callerID returns the id of the authenticated reader. RequireAuth must have run.
func callerID(c *gin.Context) (uuid.UUID, error) {
	identity, ok := accessgate.IdentityFrom(c)
	if !ok {
		return uuid.Nil, accessgate.ErrMissingToken
	}

	readerID, err := uuid.Parse(identity.ID)
	if err != nil {
		return uuid.Nil, core.ErrInvalidUserID
	}

	return readerID, nil
}

func (r *router) listPublicBooks(c *gin.Context) {
	books, err := r.ledger.ListBooks(c.Request.Context())
	if err != nil {
		r.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookResponses(books, false))
}

func (r *router) getPublicBook(c *gin.Context) {
	bookID, err := bookIDParam(c)
	if err != nil {
		r.respondError(c, err)
		return
	}

	book, err := r.ledger.GetBook(c.Request.Context(), bookID)
	if err != nil {
		r.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookResponse(book, false))
}

func (r *router) listBooks(c *gin.Context) {
	books, err := r.ledger.ListBooks(c.Request.Context())
	if err != nil {
		r.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookResponses(books, true))
}

func (r *router) getBook(c *gin.Context) {
	bookID, err := bookIDParam(c)
	if err != nil {
		r.respondError(c, err)
		return
	}

	book, err := r.ledger.GetBook(c.Request.Context(), bookID)
	if err != nil {
		r.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookResponse(book, true))
}

func (r *router) myBorrowedBooks(c *gin.Context) {
	readerID, err := callerID(c)
	if err != nil {
		r.respondError(c, err)
		return
	}

	borrowed, err := r.ledger.BorrowedBy(c.Request.Context(), readerID)
	if err != nil {
		r.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBorrowedBookResponses(borrowed))
}

func (r *router) bookBorrowers(c *gin.Context) {
	bookID, err := bookIDParam(c)
	if err != nil {
		r.respondError(c, err)
		return
	}

	result, err := r.ledger.BorrowersOf(c.Request.Context(), bookID)
	if err != nil {
		r.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"borrowers": toBorrowerResponses(result)})
}

func (r *router) addBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		r.respondError(c, errMalformedBody)
		return
	}

	book, err := r.ledger.AddBook(c.Request.Context(), req.details())
	if err != nil {
		r.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Book created", "book": toBookResponse(book, true)})
}

func (r *router) reviseBook(c *gin.Context) {
	bookID, err := bookIDParam(c)
	if err != nil {
		r.respondError(c, err)
		return
	}

	var req bookRequest
	if err = c.ShouldBindJSON(&req); err != nil {
		r.respondError(c, errMalformedBody)
		return
	}

	book, err := r.ledger.ReviseBook(c.Request.Context(), bookID, req.details())
	if err != nil {
		r.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book updated", "book": toBookResponse(book, true)})
}

func (r *router) removeBook(c *gin.Context) {
	bookID, err := bookIDParam(c)
	if err != nil {
		r.respondError(c, err)
		return
	}

	if err = r.ledger.RemoveBook(c.Request.Context(), bookID); err != nil {
		r.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
}
