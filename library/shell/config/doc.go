// Package config loads the service configuration from the environment and opens
// the Postgres connections used by the event store engines.
package config
