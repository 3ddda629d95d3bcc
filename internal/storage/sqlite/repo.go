// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql. SQLite has no COPY-style bulk API; batched INSERTs inside a
// single transaction keep load performance acceptable for the volumes this
// pipeline handles. Used for local runs and dry-run inspection.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"ventas/internal/storage"
)

// Config holds SQLite repository configuration.
type Config struct {
	DSN   string // e.g. "file:ventas.db?cache=shared" or a bare path
	Table string
}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens a SQLite database and pings it to fail fast on an
// invalid DSN.
func NewRepository(ctx context.Context, cfg Config) (*Repository, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	return &Repository{db: db, cfg: cfg}, nil
}

// CopyFrom inserts rows into the configured table with a prepared statement
// inside one transaction. Each row must match the columns slice in length
// and order.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("sqlite: no columns configured")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		r.cfg.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		return 0, fmt.Errorf("sqlite: prepare: %w", err)
	}
	defer stmt.Close()

	var n int64
	for _, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("sqlite: row width %d != %d columns", len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return 0, fmt.Errorf("sqlite: insert: %w", err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return n, nil
}

// Exec runs a statement without results.
func (r *Repository) Exec(ctx context.Context, sqlText string, args ...any) error {
	if _, err := r.db.ExecContext(ctx, sqlText, args...); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (r *Repository) Close() { r.db.Close() }

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, Config{DSN: cfg.DSN, Table: cfg.Table})
	})

	storage.RegisterDDL("sqlite", func(ctx context.Context, repo storage.Repository, cfg storage.Config) error {
		ddl := `CREATE TABLE IF NOT EXISTS ` + cfg.Table + ` (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	fecha TEXT NOT NULL,
	producto_id INTEGER NOT NULL,
	cantidad REAL NOT NULL,
	precio_unitario REAL NOT NULL,
	total REAL NOT NULL,
	tienda TEXT,
	vendedor TEXT
)`
		return repo.Exec(ctx, ddl)
	})
}
