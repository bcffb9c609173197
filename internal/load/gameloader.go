package load

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/preston-bernstein/nba-ingest-core/internal/domain"
	"github.com/preston-bernstein/nba-ingest-core/internal/metrics"
)

// Tx is the narrow slice of pgx.Tx's surface GameLoader needs: writing
// statements (singly or batched) and closing out the transaction. Kept
// deliberately smaller than pgx.Tx itself so tests can fake it without
// reimplementing pgx's full transaction interface.
type Tx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Pool opens a new Tx. *pgxpool.Pool satisfies this through
// NewPoolBeginner below, which adapts its real pgx.Tx return value down
// to our narrower Tx interface.
type Pool interface {
	Begin(ctx context.Context) (Tx, error)
}

// poolBeginner adapts a *pgxpool.Pool to Pool: pgx.Tx's method set is a
// superset of Tx's, so the pool's real transaction satisfies Tx without
// any further wrapping.
type poolBeginner struct {
	pool *pgxpool.Pool
}

// NewPoolBeginner wraps a connection pool for use with NewGameLoader.
func NewPoolBeginner(pool *pgxpool.Pool) Pool {
	return poolBeginner{pool: pool}
}

func (p poolBeginner) Begin(ctx context.Context) (Tx, error) {
	return p.pool.Begin(ctx)
}

// GameLoader writes one game's full row set inside a single transaction,
// so a failure partway through never leaves the database with a game row
// and no PBP, or PBP with no box score.
type GameLoader struct {
	pool Pool
	rec  *metrics.Recorder
}

// GameRows bundles every row the loader writes for one game. Rows absent
// from a particular vendor response (e.g. a Bref-only game with no
// shot-chart coordinates) are simply empty slices.
type GameRows struct {
	Game       domain.Game
	Crosswalk  domain.GameIDCrosswalk
	Referees   []domain.Referee
	Alternates []domain.RefereeAlternate
	Lineups    []domain.StartingLineup
	Injuries   []domain.InjurySnapshot
	PBP        []domain.PbpEvent
	Stats      []domain.TeamPlayerStats
	Outcome    *domain.Outcome
}

// NewGameLoader builds a GameLoader over a transaction-capable pool. Use
// NewPoolBeginner(pool) to wrap a real *pgxpool.Pool.
func NewGameLoader(pool Pool, rec *metrics.Recorder) *GameLoader {
	return &GameLoader{pool: pool, rec: rec}
}

// LoadGame writes every row in rows inside one transaction, in
// parent-then-child order: game, crosswalk, referees/alternates,
// lineups, injuries, pbp, shots (derived from pbp), stats, outcome. FK
// constraints are deferred for the transaction's duration so a child row
// referencing a parent written earlier in the same transaction never
// trips a same-statement ordering issue. Any failure rolls the whole
// transaction back — a game is never left half-loaded.
func (l *GameLoader) LoadGame(ctx context.Context, rows GameRows) error {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("load: begin game transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "SET CONSTRAINTS ALL DEFERRED"); err != nil {
		return fmt.Errorf("load: defer constraints: %w", err)
	}

	if err := UpsertGame(ctx, tx, l.rec, rows.Game); err != nil {
		return err
	}
	if rows.Crosswalk.GameID != "" {
		if err := UpsertGameCrosswalk(ctx, tx, l.rec, rows.Crosswalk); err != nil {
			return err
		}
	}
	for _, r := range rows.Referees {
		if err := UpsertReferee(ctx, tx, l.rec, r); err != nil {
			return err
		}
	}
	for _, a := range rows.Alternates {
		if err := UpsertRefereeAlternate(ctx, tx, l.rec, a); err != nil {
			return err
		}
	}
	for _, lu := range rows.Lineups {
		if err := UpsertStartingLineup(ctx, tx, l.rec, lu); err != nil {
			return err
		}
	}
	for _, inj := range rows.Injuries {
		if err := UpsertInjurySnapshot(ctx, tx, l.rec, inj); err != nil {
			return err
		}
	}

	// PBP event counts run into the hundreds per game; pipeline them
	// through pgx.Batch rather than one round trip per event.
	bulk := NewBulkLoader(tx, l.rec, DefaultBatchSize)
	if err := bulk.UpsertPbpEvents(ctx, rows.PBP); err != nil {
		return err
	}
	if err := bulk.UpsertShots(ctx, rows.PBP); err != nil {
		return err
	}

	for _, s := range rows.Stats {
		if err := UpsertTeamPlayerStats(ctx, tx, l.rec, s); err != nil {
			return err
		}
	}
	if rows.Outcome != nil {
		if err := UpsertOutcome(ctx, tx, l.rec, *rows.Outcome); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("load: commit game transaction: %w", err)
	}
	return nil
}
