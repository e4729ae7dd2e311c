// Package fixtures provides helpers for tests that need an event store with a given history.
package fixtures
