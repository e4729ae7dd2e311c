package shell

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
)

const (
	defaultMaxAttempts          = 6
	defaultMaxTransientAttempts = 3
	defaultBaseDelay            = 10 * time.Millisecond
	defaultJitterFactor         = 0.3
)

const (
	errorTypeNone                    = "none"
	errorTypeConcurrencyConflict     = "concurrency_conflict"
	errorTypeTransientStoreFailure   = "transient_store_failure"
	errorTypeContextCanceled         = "context_canceled"
	errorTypeContextDeadlineExceeded = "context_deadline_exceeded"
	errorTypeOther                   = "other"
)

var (
	// ErrInvalidMaxAttempts is returned when max attempts are not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned when the base delay is negative.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrInvalidJitterFactor is returned when the jitter factor is not between 0.0 and 1.0.
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// RetryableFunc represents a function that can be retried.
type RetryableFunc func(ctx context.Context) error

// RetryMetrics describes how a retried execution went.
type RetryMetrics struct {
	Attempts         int
	TotalDelay       time.Duration
	LastErrorType    string
	RetriesExhausted bool
}

// retryConfig holds configuration for exponential backoff retry logic.
type retryConfig struct {
	maxAttempts          int
	maxTransientAttempts int
	baseDelay            time.Duration
	jitterFactor         float64
}

// RetryWithExponentialBackoff runs fn and retries it with exponential backoff and jitter.
//
// Retry Schedule (default): 0 ms, 10 ms, 20 ms, 40 ms, 80 ms, 160 ms (with 30% jitter)
//
// Concurrency conflicts are retried up to maxAttempts. Transient store failures are retried too,
// but only until maxTransientAttempts attempts have failed that way. All other errors,
// business rule violations included, fail fast.
func RetryWithExponentialBackoff(
	ctx context.Context,
	fn RetryableFunc,
	options ...RetryOption,
) (RetryMetrics, error) {

	config := &retryConfig{
		maxAttempts:          defaultMaxAttempts,
		maxTransientAttempts: defaultMaxTransientAttempts,
		baseDelay:            defaultBaseDelay,
		jitterFactor:         defaultJitterFactor,
	}

	for _, option := range options {
		if err := option(config); err != nil {
			return RetryMetrics{}, err
		}
	}

	metrics := RetryMetrics{LastErrorType: errorTypeNone}
	transientFailures := 0

	var lastErr error

	for attempt := 0; attempt < config.maxAttempts; attempt++ {
		if attempt > 0 {
			// Exponential backoff: baseDelay * 2^(attempt-1)
			delay := config.baseDelay * time.Duration(1<<(attempt-1))
			jitter := rand.Float64() * float64(delay) * config.jitterFactor //nolint:gosec // math/rand is sufficient for jitter
			backoffDelay := delay + time.Duration(jitter)

			select {
			case <-time.After(backoffDelay):
				metrics.TotalDelay += backoffDelay
			case <-ctx.Done():
				metrics.LastErrorType = errorTypeOf(ctx.Err())
				return metrics, ctx.Err()
			}
		}

		metrics.Attempts++

		lastErr = fn(ctx)
		if lastErr == nil {
			metrics.LastErrorType = errorTypeNone
			return metrics, nil
		}

		metrics.LastErrorType = errorTypeOf(lastErr)

		switch {
		case errors.Is(lastErr, eventstore.ErrConcurrencyConflict):
			continue

		case isTransientError(lastErr):
			transientFailures++
			if transientFailures >= config.maxTransientAttempts {
				metrics.RetriesExhausted = true
				return metrics, lastErr
			}

		default:
			return metrics, lastErr
		}
	}

	metrics.RetriesExhausted = true

	return metrics, lastErr
}

// isTransientError reports store failures that may succeed on a later attempt.
// Timeouts and cancellations are not among them: retrying them under overload only makes it worse.
func isTransientError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return eventstore.IsTransientStoreError(err)
}

func errorTypeOf(err error) string {
	switch {
	case err == nil:
		return errorTypeNone
	case errors.Is(err, eventstore.ErrConcurrencyConflict):
		return errorTypeConcurrencyConflict
	case errors.Is(err, context.Canceled):
		return errorTypeContextCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return errorTypeContextDeadlineExceeded
	case eventstore.IsTransientStoreError(err):
		return errorTypeTransientStoreFailure
	default:
		return errorTypeOther
	}
}

// RetryOption configures retry behavior using the functional options pattern.
type RetryOption func(*retryConfig) error

// WithMaxAttempts sets the maximum number of attempts for concurrency conflicts.
func WithMaxAttempts(attempts int) RetryOption {
	return func(config *retryConfig) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		config.maxAttempts = attempts

		return nil
	}
}

// WithMaxTransientAttempts sets how many attempts may fail with a transient store error.
func WithMaxTransientAttempts(attempts int) RetryOption {
	return func(config *retryConfig) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		config.maxTransientAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the base delay for exponential backoff.
// Actual delays: baseDelay, baseDelay*2, baseDelay*4, baseDelay*8, etc.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(config *retryConfig) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		config.baseDelay = delay

		return nil
	}
}

// WithJitterFactor sets the jitter factor to prevent thundering herd problems.
// Valid range: 0.0 (no jitter) to 1.0 (100% jitter).
func WithJitterFactor(factor float64) RetryOption {
	return func(config *retryConfig) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}

		config.jitterFactor = factor

		return nil
	}
}
