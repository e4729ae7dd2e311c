package adapters

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGXAdapter implements DBAdapter for pgxpool.Pool.
type PGXAdapter struct {
	pool *pgxpool.Pool
}

// NewPGXAdapter creates a new PGX adapter.
func NewPGXAdapter(pool *pgxpool.Pool) *PGXAdapter {
	return &PGXAdapter{pool: pool}
}

// Query executes a query using the pgx pool and returns wrapped rows.
func (p *PGXAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	return &pgxRows{rows: rows}, nil
}

// Exec executes a query using the pgx pool and returns wrapped result.
func (p *PGXAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	tag, err := p.pool.Exec(ctx, query)
	if err != nil {
		return nil, err
	}

	return &pgxResult{tag: tag}, nil
}

// WithTx runs fn in a pgx transaction.
func (p *PGXAdapter) WithTx(ctx context.Context, fn func(tx DBExecutor) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }() // no-op after Commit

	if err = fn(&pgxTx{tx: tx}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// pgxTx wraps pgx.Tx to implement the DBExecutor interface.
type pgxTx struct {
	tx pgx.Tx
}

func (p *pgxTx) Exec(ctx context.Context, query string) (DBResult, error) {
	tag, err := p.tx.Exec(ctx, query)
	if err != nil {
		return nil, err
	}

	return &pgxResult{tag: tag}, nil
}

// pgxRows wraps pgx.Rows to implement the DBRows interface.
type pgxRows struct {
	rows pgx.Rows
}

func (p *pgxRows) Next() bool {
	return p.rows.Next()
}

func (p *pgxRows) Scan(dest ...any) error {
	return p.rows.Scan(dest...)
}

func (p *pgxRows) Err() error {
	return p.rows.Err()
}

func (p *pgxRows) Close() error {
	p.rows.Close()
	return nil
}

// pgxResult wraps pgconn.CommandTag to implement the DBResult interface.
type pgxResult struct {
	tag pgconn.CommandTag
}

func (p *pgxResult) RowsAffected() (int64, error) {
	return p.tag.RowsAffected(), nil
}
