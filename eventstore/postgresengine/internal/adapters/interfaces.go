package adapters

import "context"

// DBAdapter defines the interface for database operations needed by the event store
type DBAdapter interface {
	Query(ctx context.Context, query string) (DBRows, error)
	Exec(ctx context.Context, query string) (DBResult, error)

	// WithTx runs fn inside a transaction. It commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(tx DBExecutor) error) error
}

// DBExecutor executes statements inside a transaction
type DBExecutor interface {
	Exec(ctx context.Context, query string) (DBResult, error)
}

// DBRows defines the interface for query result rows
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results
type DBResult interface {
	RowsAffected() (int64, error)
}
