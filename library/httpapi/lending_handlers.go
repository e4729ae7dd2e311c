package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-ledger/library/accessgate"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
)

func (r *router) borrow(c *gin.Context) {
	bookID, err := bookIDParam(c)
	if err != nil {
		r.respondError(c, err)
		return
	}

	readerID, err := callerID(c)
	if err != nil {
		r.respondError(c, err)
		return
	}

	book, err := r.ledger.Borrow(c.Request.Context(), bookID, readerID)
	if err != nil {
		r.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book borrowed successfully", "book": toBookResponse(book, true)})
}

func (r *router) requestReturn(c *gin.Context) {
	bookID, err := bookIDParam(c)
	if err != nil {
		r.respondError(c, err)
		return
	}

	readerID, err := callerID(c)
	if err != nil {
		r.respondError(c, err)
		return
	}

	r.doRequestReturn(c, bookID, readerID)
}

func (r *router) confirmReturn(c *gin.Context) {
	bookID, err := bookIDParam(c)
	if err != nil {
		r.respondError(c, err)
		return
	}

	var req confirmReturnRequest
	if c.Request.ContentLength != 0 {
		if err = c.ShouldBindJSON(&req); err != nil {
			r.respondError(c, errMalformedBody)
			return
		}
	}

	targetID, err := targetReaderID(c, req.UserID)
	if err != nil {
		r.respondError(c, err)
		return
	}

	r.doConfirmReturn(c, bookID, targetID)
}

// compatibilityReturn serves the single return route of older clients.
// adminConfirm is only honored after the caller was checked for the admin role,
// and a plain request always acts on the caller's own loan.
func (r *router) compatibilityReturn(c *gin.Context) {
	bookID, err := bookIDParam(c)
	if err != nil {
		r.respondError(c, err)
		return
	}

	var req returnRequest
	if c.Request.ContentLength != 0 {
		if err = c.ShouldBindJSON(&req); err != nil {
			r.respondError(c, errMalformedBody)
			return
		}
	}

	if !req.AdminConfirm {
		readerID, callerErr := callerID(c)
		if callerErr != nil {
			r.respondError(c, callerErr)
			return
		}

		r.doRequestReturn(c, bookID, readerID)
		return
	}

	identity, _ := accessgate.IdentityFrom(c)
	if !identity.IsAdmin() {
		r.respondError(c, accessgate.ErrAdminRequired)
		return
	}

	targetID, err := targetReaderID(c, req.UserID)
	if err != nil {
		r.respondError(c, err)
		return
	}

	r.doConfirmReturn(c, bookID, targetID)
}

// targetReaderID resolves whose loan an admin confirms. Without a userId it is the caller's own.
func targetReaderID(c *gin.Context, userID string) (uuid.UUID, error) {
	if userID == "" {
		return callerID(c)
	}

	targetID, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, core.ErrInvalidUserID
	}

	return targetID, nil
}

func (r *router) doRequestReturn(c *gin.Context, bookID uuid.UUID, readerID uuid.UUID) {
	book, err := r.ledger.RequestReturn(c.Request.Context(), bookID, readerID)
	if err != nil {
		r.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Return requested", "book": toBookResponse(book, true)})
}

func (r *router) doConfirmReturn(c *gin.Context, bookID uuid.UUID, targetID uuid.UUID) {
	book, err := r.ledger.ConfirmReturn(c.Request.Context(), bookID, targetID)
	if err != nil {
		r.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book returned successfully", "book": toBookResponse(book, true)})
}
