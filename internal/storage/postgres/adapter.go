// This file wires the Postgres backend into the storage-agnostic factory.
// Importing the package (even blank) registers the "postgres" kind and its
// DDL bootstrapper; callers then open repositories via storage.New without
// importing pgx themselves.
package postgres

import (
	"context"

	"ventas/internal/storage"
)

// newRepository is a test hook pointing at NewRepository by default.
var newRepository = NewRepository

// wrappedRepo adapts *Repository to storage.Repository, binding the close
// function returned by NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{
			DSN:   cfg.DSN,
			Table: cfg.Table,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("postgres", func(ctx context.Context, repo storage.Repository, cfg storage.Config) error {
		return repo.Exec(ctx, createTableSQL(cfg.Table))
	})
}

// createTableSQL returns the DDL for the sales fact table.
func createTableSQL(table string) string {
	return `CREATE TABLE IF NOT EXISTS ` + table + ` (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	fecha DATE NOT NULL,
	producto_id INTEGER NOT NULL,
	cantidad DOUBLE PRECISION NOT NULL,
	precio_unitario DOUBLE PRECISION NOT NULL,
	total DOUBLE PRECISION NOT NULL,
	tienda TEXT,
	vendedor TEXT
)`
}
