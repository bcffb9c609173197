package complete

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// poolQueryer adapts a *pgxpool.Pool to Queryer. pgx.Row and pgx.Rows
// already satisfy Row/Rows structurally; Go still requires the
// declared return types to match exactly for interface satisfaction, so
// this one-line wrapper exists purely to restate that fact at the
// compiler's insistence.
type poolQueryer struct {
	pool *pgxpool.Pool
}

// NewPoolQueryer wraps a connection pool for use with GameIsComplete.
func NewPoolQueryer(pool *pgxpool.Pool) Queryer {
	return poolQueryer{pool: pool}
}

func (p poolQueryer) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return p.pool.QueryRow(ctx, sql, args...)
}

func (p poolQueryer) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return p.pool.Query(ctx, sql, args...)
}
