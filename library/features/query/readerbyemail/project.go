package readerbyemail

import (
	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
)

// ProjectReader returns the reader registered with the email or ErrReaderNotFound.
func ProjectReader(history core.DomainEvents, email string) (core.Reader, error) {
	reader := core.ProjectReaderByEmail(history, email)
	if !reader.Registered {
		return core.Reader{}, core.ErrReaderNotFound
	}

	return reader, nil
}

// BuildEventFilter creates the filter for the registration and verification of the email.
func BuildEventFilter(email string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.ReaderRegisteredEventType, core.ReaderEmailVerifiedEventType).
		AndAnyPredicateOf(eventstore.P("Email", email)).
		Finalize()
}
