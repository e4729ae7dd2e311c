package shell_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

type metricsSpy struct {
	durations map[string]time.Duration
	counters  map[string]map[string]string
	values    map[string]float64
}

func newMetricsSpy() *metricsSpy {
	return &metricsSpy{
		durations: map[string]time.Duration{},
		counters:  map[string]map[string]string{},
		values:    map[string]float64{},
	}
}

func (m *metricsSpy) RecordDuration(metric string, duration time.Duration, _ map[string]string) {
	m.durations[metric] = duration
}

func (m *metricsSpy) IncrementCounter(metric string, labels map[string]string) {
	m.counters[metric] = labels
}

func (m *metricsSpy) RecordValue(metric string, value float64, _ map[string]string) {
	m.values[metric] = value
}

func Test_CommandStatus(t *testing.T) {
	testCases := []struct {
		description string
		result      shell.HandlerResult
		err         error
		expected    string
	}{
		{"committed", shell.HandlerResult{}, nil, shell.StatusSuccess},
		{"nothing to change", shell.HandlerResult{Idempotent: true}, nil, shell.StatusIdempotent},
		{"business rule violated", shell.HandlerResult{}, core.ErrNoCopiesAvailable, shell.StatusRejected},
		{"store failure", shell.HandlerResult{}, errors.New("connection reset"), shell.StatusError},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, shell.CommandStatus(tc.result, tc.err))
		})
	}
}

func Test_RecordCommandMetrics_ReportsRetries(t *testing.T) {
	// arrange
	metrics := newMetricsSpy()
	result := shell.HandlerResult{
		RetryAttempts:    6,
		TotalRetryDelay:  300 * time.Millisecond,
		LastErrorType:    "concurrency_conflict",
		RetriesExhausted: true,
	}

	// act
	shell.RecordCommandMetrics(metrics, "borrow", result, errors.New("conflict"), time.Second)

	// assert
	assert.Equal(t, time.Second, metrics.durations[shell.CommandDurationMetric])
	assert.Equal(t, 300*time.Millisecond, metrics.durations[shell.CommandRetryDelayMetric])
	assert.Equal(t, float64(6), metrics.values[shell.CommandAttemptsMetric])
	assert.Equal(t, shell.StatusError, metrics.counters[shell.CommandCallsMetric][shell.LabelStatus])
	assert.Equal(t, "concurrency_conflict", metrics.counters[shell.CommandRetriesExhaustedMetric][shell.LabelLastErrorType])
}

func Test_RecordCommandMetrics_WithoutCollector(t *testing.T) {
	assert.NotPanics(t, func() {
		shell.RecordCommandMetrics(nil, "borrow", shell.HandlerResult{}, nil, time.Millisecond)
	})
}
