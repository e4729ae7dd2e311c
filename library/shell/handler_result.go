package shell

import "time"

// HandlerResult represents the outcome of a command handler execution.
// It captures the business outcome (idempotency) and the retry metadata.
type HandlerResult struct {
	// Idempotent indicates that no state change was needed and nothing was appended.
	Idempotent bool

	// RetryAttempts is the total number of attempts made (1 for no retries, 2+ for retries).
	RetryAttempts int

	// TotalRetryDelay is the cumulative time spent in backoff delays.
	TotalRetryDelay time.Duration

	// LastErrorType describes the type of the final error encountered during retries.
	LastErrorType string

	// RetriesExhausted indicates whether retries stopped because the attempt budget was used up.
	RetriesExhausted bool
}

// NewSuccessResult creates a HandlerResult for successful operations (non-idempotent).
func NewSuccessResult(retryMetrics RetryMetrics) HandlerResult {
	return newResult(false, retryMetrics)
}

// NewIdempotentResult creates a HandlerResult for idempotent operations.
func NewIdempotentResult(retryMetrics RetryMetrics) HandlerResult {
	return newResult(true, retryMetrics)
}

// NewErrorResult creates a HandlerResult for failed operations.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return newResult(false, retryMetrics)
}

func newResult(idempotent bool, retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		Idempotent:       idempotent,
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}
