package slogadapters

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-ledger/eventstore"
)

const (
	logMsgSpanFinished = "span finished"
	logAttrSpan        = "span"
	logAttrSpanID      = "span_id"
	logAttrParentID    = "parent_span_id"
	logAttrStatus      = "status"
	logAttrDurationMS  = "duration_ms"
	logAttrAttributes  = "attributes"
)

type spanKey struct{}

// TracingCollector implements eventstore.TracingCollector by logging every finished span.
// Spans started from a context which already carries a span record it as their parent.
type TracingCollector struct {
	logger *slog.Logger
	level  slog.Level
	now    func() time.Time
}

// TracingOption configures a TracingCollector.
type TracingOption func(*TracingCollector)

// WithTracingLevel sets the level of the span records. The default is debug.
func WithTracingLevel(level slog.Level) TracingOption {
	return func(t *TracingCollector) {
		t.level = level
	}
}

// NewTracingCollector creates a TracingCollector which logs through logger.
func NewTracingCollector(logger *slog.Logger, opts ...TracingOption) *TracingCollector {
	t := &TracingCollector{
		logger: logger,
		level:  slog.LevelDebug,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Span is the eventstore.SpanContext of a TracingCollector.
type Span struct {
	name     string
	id       uuid.UUID
	parentID uuid.UUID
	started  time.Time

	mu     sync.Mutex
	status string
	attrs  map[string]string
}

// ID returns the id of the span.
func (s *Span) ID() uuid.UUID {
	return s.id
}

// ParentID returns the id of the enclosing span, uuid.Nil for a root span.
func (s *Span) ParentID() uuid.UUID {
	return s.parentID
}

// SetStatus sets the status of the span.
func (s *Span) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = status
}

// AddAttribute adds or replaces an attribute.
func (s *Span) AddAttribute(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attrs[key] = value
}

// SpanFromContext returns the span carried by ctx.
func SpanFromContext(ctx context.Context) (*Span, bool) {
	span, ok := ctx.Value(spanKey{}).(*Span)
	return span, ok
}

// StartSpan starts a span and returns a context carrying it.
func (t *TracingCollector) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, eventstore.SpanContext) {
	span := &Span{
		name:    name,
		id:      uuid.New(),
		started: t.now(),
		attrs:   make(map[string]string, len(attrs)),
	}

	if parent, ok := SpanFromContext(ctx); ok {
		span.parentID = parent.id
	}

	for key, value := range attrs {
		span.attrs[key] = value
	}

	return context.WithValue(ctx, spanKey{}, span), span
}

// FinishSpan logs the span with its status, duration and attributes.
func (t *TracingCollector) FinishSpan(spanCtx eventstore.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*Span)
	if !ok {
		return
	}

	span.mu.Lock()
	span.status = status
	for key, value := range attrs {
		span.attrs[key] = value
	}
	finalAttrs := make(map[string]string, len(span.attrs))
	for key, value := range span.attrs {
		finalAttrs[key] = value
	}
	span.mu.Unlock()

	records := []slog.Attr{
		slog.String(logAttrSpan, span.name),
		slog.String(logAttrSpanID, span.id.String()),
		slog.String(logAttrStatus, status),
		slog.Float64(logAttrDurationMS, float64(t.now().Sub(span.started).Microseconds())/1000),
	}

	if span.parentID != uuid.Nil {
		records = append(records, slog.String(logAttrParentID, span.parentID.String()))
	}

	group := labelGroup(finalAttrs)
	records = append(records, slog.Attr{Key: logAttrAttributes, Value: group.Value})

	t.logger.LogAttrs(context.Background(), t.level, logMsgSpanFinished, records...)
}

var (
	_ eventstore.TracingCollector = (*TracingCollector)(nil)
	_ eventstore.SpanContext      = (*Span)(nil)
)
