// Package catalog reads the product catalog from the relational backend and
// turns it into the lookup structures the transform stage consumes. The
// catalog is read once per pipeline run; the resulting map is treated as
// immutable for the duration of the run.
package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Rows is the minimal row-iteration surface needed by this package. It is
// satisfied by pgx.Rows, which keeps tests free of a live database.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Querier issues read queries against the backend. Use NewPgx to wrap a
// *pgxpool.Pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// Product is one row of the productos table.
type Product struct {
	ID          int
	Nombre      string
	CategoriaID int
}

// ProductMap builds the name to id mapping from active products in table
// (default "productos"). Names are kept as stored; normalization for matching
// happens in the transform stage.
func ProductMap(ctx context.Context, q Querier, table string, log *zap.Logger) (map[string]int, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if table == "" {
		table = "productos"
	}

	rows, err := q.Query(ctx, `SELECT id, nombre FROM `+table+` WHERE activo`)
	if err != nil {
		return nil, fmt.Errorf("query productos: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var id int
		var nombre string
		if err := rows.Scan(&id, &nombre); err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		out[nombre] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read productos: %w", err)
	}

	log.Info("product catalog loaded", zap.Int("products", len(out)))
	return out, nil
}

// Categories returns the id→name mapping of the categorias table, used to
// label aggregate reports.
func Categories(ctx context.Context, q Querier) (map[int]string, error) {
	rows, err := q.Query(ctx, `SELECT id, nombre FROM categorias`)
	if err != nil {
		return nil, fmt.Errorf("query categorias: %w", err)
	}
	defer rows.Close()

	out := map[int]string{}
	for rows.Next() {
		var id int
		var nombre string
		if err := rows.Scan(&id, &nombre); err != nil {
			return nil, fmt.Errorf("scan categoria: %w", err)
		}
		out[id] = nombre
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read categorias: %w", err)
	}
	return out, nil
}
