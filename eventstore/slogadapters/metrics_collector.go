package slogadapters

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
)

const (
	logMsgMetric   = "metric"
	logAttrMetric  = "metric"
	logAttrKind    = "kind"
	logAttrValue   = "value"
	logAttrTotal   = "total"
	logAttrLabels  = "labels"
	kindDuration   = "duration"
	kindCounter    = "counter"
	kindValue      = "value"
	seriesKeyGlue  = "|"
	labelValueGlue = "="
)

// MetricsCollector implements eventstore.MetricsCollector on top of a *slog.Logger.
type MetricsCollector struct {
	logger *slog.Logger
	level  slog.Level

	mu     sync.Mutex
	totals map[string]uint64
}

// MetricsOption configures a MetricsCollector.
type MetricsOption func(*MetricsCollector)

// WithMetricsLevel sets the level of the metric records. The default is debug.
func WithMetricsLevel(level slog.Level) MetricsOption {
	return func(m *MetricsCollector) {
		m.level = level
	}
}

// NewMetricsCollector creates a MetricsCollector which logs through logger.
func NewMetricsCollector(logger *slog.Logger, opts ...MetricsOption) *MetricsCollector {
	m := &MetricsCollector{
		logger: logger,
		level:  slog.LevelDebug,
		totals: make(map[string]uint64),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// RecordDuration logs the duration in seconds.
func (m *MetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	m.log(metric, kindDuration, slog.Float64(logAttrValue, duration.Seconds()), labels)
}

// IncrementCounter adds one to the total of the metric and label set and logs the new total.
func (m *MetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	key := seriesKey(metric, labels)

	m.mu.Lock()
	m.totals[key]++
	total := m.totals[key]
	m.mu.Unlock()

	m.log(metric, kindCounter, slog.Uint64(logAttrTotal, total), labels)
}

// RecordValue logs the value.
func (m *MetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	m.log(metric, kindValue, slog.Float64(logAttrValue, value), labels)
}

// Total returns the current total of a counter.
func (m *MetricsCollector) Total(metric string, labels map[string]string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.totals[seriesKey(metric, labels)]
}

func (m *MetricsCollector) log(metric string, kind string, measurement slog.Attr, labels map[string]string) {
	ctx := context.Background()
	if !m.logger.Enabled(ctx, m.level) {
		return
	}

	m.logger.LogAttrs(ctx, m.level, logMsgMetric,
		slog.String(logAttrMetric, metric),
		slog.String(logAttrKind, kind),
		measurement,
		labelGroup(labels),
	)
}

// seriesKey identifies a metric together with its labels independent of map order.
func seriesKey(metric string, labels map[string]string) string {
	pairs := make([]string, 0, len(labels))
	for key, value := range labels {
		pairs = append(pairs, key+labelValueGlue+value)
	}
	sort.Strings(pairs)

	return metric + seriesKeyGlue + strings.Join(pairs, seriesKeyGlue)
}

func labelGroup(labels map[string]string) slog.Attr {
	keys := make([]string, 0, len(labels))
	for key := range labels {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(keys))
	for _, key := range keys {
		attrs = append(attrs, slog.String(key, labels[key]))
	}

	return slog.Group(logAttrLabels, attrs...)
}

var _ eventstore.MetricsCollector = (*MetricsCollector)(nil)
