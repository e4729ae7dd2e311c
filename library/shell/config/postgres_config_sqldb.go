package config

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq" // postgres driver
)

// PostgresSQLDB opens and pings a *sql.DB backed by lib/pq for the given DSN.
func PostgresSQLDB(ctx context.Context, dsn string) (*sql.DB, error) {
	const defaultMaxOpenConnections = 50
	const defaultMaxIdleConnections = 10
	const defaultMaxConnLifetime = time.Hour
	const defaultMaxConnIdleTime = time.Minute * 5

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(defaultMaxOpenConnections)
	db.SetMaxIdleConns(defaultMaxIdleConnections)
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, pingErr
	}

	return db, nil
}
