// Package adapters lets the Postgres engine run on pgxpool.Pool, sql.DB (lib/pq) or sqlx.DB
// through one small DBAdapter interface.
package adapters
