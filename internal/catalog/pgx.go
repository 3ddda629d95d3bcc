package catalog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxQuerier adapts *pgxpool.Pool to the Querier interface. pgx.Rows already
// satisfies Rows; only the return type needs bridging.
type pgxQuerier struct{ pool *pgxpool.Pool }

// NewPgx wraps a pgx connection pool as a Querier.
func NewPgx(pool *pgxpool.Pool) Querier { return pgxQuerier{pool: pool} }

func (p pgxQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return p.pool.Query(ctx, sql, args...)
}
