package verifyreaderemail

import (
	"crypto/subtle"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
)

// Decide implements the business logic to verify the email of a reader.
// This is a pure function with no side effects.
//
// Business Rules:
//
//	GIVEN: A registered reader with the email
//	WHEN: VerifyReaderEmail command is received with the right, unexpired code
//	THEN: ReaderEmailVerified event is generated
//	ERROR: "Email and verification code are required" if one of them is empty
//	ERROR: "User not found" if no reader is registered with the email
//	ERROR: "Incorrect verification code" if the code does not match
//	ERROR: "Verification code has expired" if the code is older than its expiry
//	IDEMPOTENCY: If the email is already verified, no event is generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if command.Email == "" || command.Code == "" {
		return core.ErrorDecision(core.ErrEmailAndCodeRequired)
	}

	reader := core.ProjectReaderByEmail(history, command.Email)
	if !reader.Registered {
		return core.ErrorDecision(core.ErrReaderNotFound)
	}

	if reader.Verified {
		return core.IdempotentDecision()
	}

	if subtle.ConstantTimeCompare([]byte(reader.VerificationCode), []byte(command.Code)) != 1 {
		return core.ErrorDecision(core.ErrIncorrectCode)
	}

	if command.OccurredAt.After(reader.VerificationCodeExpiresAt) {
		return core.ErrorDecision(core.ErrCodeExpired)
	}

	return core.SuccessDecision(
		core.BuildReaderEmailVerified(reader.ReaderID, reader.Email, command.OccurredAt),
	)
}

// BuildEventFilter creates the filter for querying the registration and verification of the email.
func BuildEventFilter(email string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.ReaderRegisteredEventType, core.ReaderEmailVerifiedEventType).
		AndAnyPredicateOf(eventstore.P("Email", email)).
		Finalize()
}
