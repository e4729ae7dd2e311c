package adapters

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// SQLAdapter implements DBAdapter for sql.DB
type SQLAdapter struct {
	db *sql.DB
}

// NewSQLAdapter creates a new SQL adapter
func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db}
}

func (s *SQLAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return &stdRows{rows: rows}, nil
}

func (s *SQLAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	return s.db.ExecContext(ctx, query)
}

// WithTx runs fn in a database/sql transaction.
func (s *SQLAdapter) WithTx(ctx context.Context, fn func(tx DBExecutor) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	return runStdTx(tx, fn)
}

// SQLXAdapter implements DBAdapter for sqlx.DB
type SQLXAdapter struct {
	db *sqlx.DB
}

// NewSQLXAdapter creates a new SQLX adapter
func NewSQLXAdapter(db *sqlx.DB) *SQLXAdapter {
	return &SQLXAdapter{db: db}
}

func (s *SQLXAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return &stdRows{rows: rows.Rows}, nil
}

func (s *SQLXAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	return s.db.ExecContext(ctx, query)
}

// WithTx runs fn in a sqlx transaction.
func (s *SQLXAdapter) WithTx(ctx context.Context, fn func(tx DBExecutor) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	return runStdTx(tx.Tx, fn)
}

func runStdTx(tx *sql.Tx, fn func(tx DBExecutor) error) error {
	defer func() { _ = tx.Rollback() }() // no-op after Commit

	if err := fn(stdTx{tx: tx}); err != nil {
		return err
	}

	return tx.Commit()
}

// stdTx wraps sql.Tx to implement the DBExecutor interface
type stdTx struct {
	tx *sql.Tx
}

func (s stdTx) Exec(ctx context.Context, query string) (DBResult, error) {
	return s.tx.ExecContext(ctx, query)
}

// stdRows wraps standard library sql.Rows to implement DBRows interface
type stdRows struct {
	rows *sql.Rows
}

func (s *stdRows) Next() bool {
	return s.rows.Next()
}

func (s *stdRows) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

func (s *stdRows) Err() error {
	return s.rows.Err()
}

func (s *stdRows) Close() error {
	return s.rows.Close()
}
