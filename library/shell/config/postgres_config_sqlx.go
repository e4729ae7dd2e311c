package config

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

// PostgresSQLX opens and pings a *sqlx.DB backed by lib/pq for the given DSN.
func PostgresSQLX(ctx context.Context, dsn string) (*sqlx.DB, error) {
	const defaultMaxOpenConnections = 50
	const defaultMaxIdleConnections = 10
	const defaultMaxConnLifetime = time.Hour
	const defaultMaxConnIdleTime = time.Minute * 5

	db, err := sqlx.Open("postgres", dsn)
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
