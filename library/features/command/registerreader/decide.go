package registerreader

import (
	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
)

// Decide implements the business logic to register a reader.
// This is a pure function with no side effects.
//
// Business Rules:
//
//	GIVEN: A reader with ReaderID, name, email and password hash
//	WHEN: RegisterReader command is received
//	THEN: ReaderRegistered event is generated
//	ERROR: "All fields are required" if name, email or password hash is empty
//	ERROR: "Email already registered" if another reader uses the email
//	IDEMPOTENCY: If this reader was already registered with the email, no event is generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	registration := command.Registration
	if registration.Name == "" || registration.Email == "" || registration.PasswordHash == "" {
		return core.ErrorDecision(core.ErrAllFieldsRequired)
	}

	existing := core.ProjectReaderByEmail(history, registration.Email)
	if existing.Registered {
		if existing.ReaderID == command.ReaderID.String() {
			return core.IdempotentDecision()
		}

		return core.ErrorDecision(core.ErrEmailAlreadyRegistered)
	}

	return core.SuccessDecision(
		core.BuildReaderRegistered(command.ReaderID, registration, command.OccurredAt),
	)
}

// BuildEventFilter creates the filter for querying all registrations with the given email.
func BuildEventFilter(email string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.ReaderRegisteredEventType).
		AndAnyPredicateOf(eventstore.P("Email", email)).
		Finalize()
}
