package validate

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// poolQueryer adapts a *pgxpool.Pool to Queryer, the same one-line
// return-type restatement internal/complete and internal/pipeline need
// for the same reason.
type poolQueryer struct {
	pool *pgxpool.Pool
}

// NewPoolQueryer wraps a connection pool for use with the validators in
// this package.
func NewPoolQueryer(pool *pgxpool.Pool) Queryer {
	return poolQueryer{pool: pool}
}

func (p poolQueryer) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return p.pool.QueryRow(ctx, sql, args...)
}

func (p poolQueryer) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return p.pool.Query(ctx, sql, args...)
}
