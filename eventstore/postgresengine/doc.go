// Package postgresengine provides a PostgreSQL implementation of the event store.
//
// Events live in a single table with a global BIGSERIAL sequence number and JSONB payload.
// A Filter is translated into a WHERE clause: event types become an IN list and payload predicates
// become JSONB containment checks (payload @> '{"key":"value"}'), which the GIN index created by
// CreateSchema serves.
//
// Append is a single INSERT ... SELECT statement guarded by the maximum sequence number of the
// filtered stream, so concurrent writers to overlapping streams can not both succeed.
//
// Three database adapters are supported: pgxpool.Pool, sql.DB (lib/pq) and sqlx.DB.
//
//	db, _ := pgxpool.New(context.Background(), dsn)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(
//		db,
//		postgresengine.WithTableName("events"),
//		postgresengine.WithLogger(slog.Default()),
//	)
//	_ = store.CreateSchema(ctx)
package postgresengine
