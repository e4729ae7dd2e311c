package shell

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
)

// ClassifyError joins store and timeout failures onto the error kinds of library/core.
// Errors that already carry a kind, and errors that fit none, are returned unchanged.
func ClassifyError(err error) error {
	switch {
	case err == nil:
		return nil

	case IsBusinessError(err):
		return err

	case errors.Is(err, eventstore.ErrConcurrencyConflict):
		return errors.Join(core.ErrConflict, err)

	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return errors.Join(core.ErrUnavailable, err)

	case eventstore.IsTransientStoreError(err):
		return errors.Join(core.ErrUnavailable, err)

	default:
		return err
	}
}

// IsBusinessError reports errors that reject a request rather than signal a failure.
func IsBusinessError(err error) bool {
	return errors.Is(err, core.ErrNotFound) ||
		errors.Is(err, core.ErrConflict) ||
		errors.Is(err, core.ErrInvalidRequest) ||
		errors.Is(err, core.ErrUnauthorized) ||
		errors.Is(err, core.ErrForbidden)
}
