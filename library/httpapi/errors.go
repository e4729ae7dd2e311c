package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
)

var errMalformedBody = core.NewKindError(core.ErrInvalidRequest, "Malformed request body")

// statusOf maps an error kind to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, core.ErrEmailAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrConflict), errors.Is(err, core.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, core.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fallbackMessage is used for errors which carry no message of their own.
func fallbackMessage(err error, status int) string {
	switch {
	case errors.Is(err, eventstore.ErrConcurrencyConflict):
		return "The book was changed concurrently, please retry"
	case status == http.StatusBadRequest:
		return "Invalid request"
	case status == http.StatusServiceUnavailable:
		return "Service temporarily unavailable"
	default:
		return "Internal Server Error"
	}
}

func (r *router) respondError(c *gin.Context, err error) {
	status := statusOf(err)

	message, ok := core.MessageOf(err)
	if !ok {
		message = fallbackMessage(err, status)
	}

	if status >= http.StatusInternalServerError {
		r.logger.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "status", status, "error", err.Error())
	}

	c.AbortWithStatusJSON(status, gin.H{"message": message})
}
