// Package slogadapters reports the metrics and spans of the event store engines and the ledger
// through a *slog.Logger.
//
// It is the dependency-free counterpart of an OpenTelemetry bridge: every measurement becomes one
// structured log record, counters additionally keep a running total per label set.
package slogadapters
