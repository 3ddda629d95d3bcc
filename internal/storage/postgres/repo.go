// Package postgres implements a Postgres-backed storage.Repository using pgx
// v5. Sales rows are append-only facts, so loads go straight through the
// COPY protocol into the target table.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN   string // connection string for pgxpool
	Table string // target table, e.g. "public.ventas"
}

// Repository is a Postgres-backed bulk loader.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewRepository opens a connection pool and returns a Repository plus a
// close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	closeFn := func() { pool.Close() }
	return &Repository{pool: pool, cfg: cfg}, closeFn, nil
}

// Pool exposes the underlying pool for read-side callers (catalog queries,
// reports) that share the pipeline's connection configuration.
func (r *Repository) Pool() *pgxpool.Pool { return r.pool }

// CopyFrom bulk-inserts rows into the configured table via the COPY
// protocol. Postgres errors with detail are surfaced with their SQL state to
// keep load failures diagnosable.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if len(columns) == 0 {
		return 0, fmt.Errorf("postgres: no columns configured")
	}

	n, err := r.pool.CopyFrom(ctx, pgTableIdent(r.cfg.Table), columns, pgx.CopyFromRows(rows))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			return n, fmt.Errorf("copy into %s: %s (%s)", r.cfg.Table, pgErr.Detail, pgErr.SQLState())
		}
		return n, fmt.Errorf("copy into %s: %w", r.cfg.Table, err)
	}
	return n, nil
}

// Exec runs a statement without results.
func (r *Repository) Exec(ctx context.Context, sql string, args ...any) error {
	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// Close releases the pool.
func (r *Repository) Close() { r.pool.Close() }

// pgTableIdent splits a possibly schema-qualified table name into a pgx
// identifier.
func pgTableIdent(table string) pgx.Identifier {
	parts := strings.Split(table, ".")
	return pgx.Identifier(parts)
}
