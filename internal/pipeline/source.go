package pipeline

import (
	"context"

	"github.com/preston-bernstein/nba-ingest-core/internal/load"
)

// Source produces one vendor's full row set for a single game: fetch,
// extract, preprocess, and transform collapsed behind one call, so the
// pipeline layer never imports a vendor-specific client directly. Per
// §9's "polymorphism over sources" design note, extractors and
// transformers are injectable strategies selected by a source tag at
// construction, not dispatched through a shared IO facade.
type Source interface {
	Name() string
	FetchGame(ctx context.Context, gameID string) (load.GameRows, error)
}
