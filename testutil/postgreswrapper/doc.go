// Package postgreswrapper opens a postgres event store on a throwaway table for integration tests.
//
// Tests are skipped unless LIBRARY_TEST_POSTGRES_DSN is set. LIBRARY_TEST_POSTGRES_DRIVER selects
// pgx (default), sql or sqlx, so the same tests run against every database adapter.
package postgreswrapper
