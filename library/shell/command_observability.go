package shell

import (
	"time"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
)

// Metrics reported per command.
const (
	CommandDurationMetric         = "ledger_command_duration_seconds"
	CommandCallsMetric            = "ledger_command_calls_total"
	CommandAttemptsMetric         = "ledger_command_attempts"
	CommandRetryDelayMetric       = "ledger_command_retry_delay_seconds"
	CommandRetriesExhaustedMetric = "ledger_command_retries_exhausted_total"
)

// Command outcomes used as the status label.
const (
	StatusSuccess    = "success"
	StatusIdempotent = "idempotent"
	StatusRejected   = "rejected"
	StatusError      = "error"
)

// Label keys of the command metrics.
const (
	LabelCommand       = "command"
	LabelStatus        = "status"
	LabelLastErrorType = "last_error_type"
)

// MetricsCollector is the collector the engines report to, shared by the command handlers.
type MetricsCollector = eventstore.MetricsCollector

// CommandStatus classifies the outcome of a command for metrics and logs.
func CommandStatus(result HandlerResult, err error) string {
	switch {
	case err == nil && result.Idempotent:
		return StatusIdempotent
	case err == nil:
		return StatusSuccess
	case IsBusinessError(err):
		return StatusRejected
	default:
		return StatusError
	}
}

// RecordCommandMetrics reports duration, outcome and retry behavior of one command.
// A nil collector records nothing.
func RecordCommandMetrics(
	collector MetricsCollector,
	command string,
	result HandlerResult,
	err error,
	duration time.Duration,
) {
	if collector == nil {
		return
	}

	labels := map[string]string{
		LabelCommand: command,
		LabelStatus:  CommandStatus(result, err),
	}

	collector.RecordDuration(CommandDurationMetric, duration, labels)
	collector.IncrementCounter(CommandCallsMetric, labels)
	collector.RecordValue(CommandAttemptsMetric, float64(result.RetryAttempts), labels)

	if result.TotalRetryDelay > 0 {
		collector.RecordDuration(CommandRetryDelayMetric, result.TotalRetryDelay, labels)
	}

	if result.RetriesExhausted {
		collector.IncrementCounter(CommandRetriesExhaustedMetric, map[string]string{
			LabelCommand:       command,
			LabelLastErrorType: result.LastErrorType,
		})
	}
}
