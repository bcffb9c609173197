package pipeline

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/preston-bernstein/nba-ingest-core/internal/domain"
	"github.com/preston-bernstein/nba-ingest-core/internal/load"
)

// fakeBatchResults/fakeTx/fakePool stand in for the load package's real
// pgx-backed Tx/Pool, mirroring the fakes load's own tests use.
type fakeBatchResults struct{ tag pgconn.CommandTag }

func (f *fakeBatchResults) Exec() (pgconn.CommandTag, error) { return f.tag, nil }
func (f *fakeBatchResults) Query() (pgx.Rows, error)         { panic("not used") }
func (f *fakeBatchResults) QueryRow() pgx.Row                { panic("not used") }
func (f *fakeBatchResults) QueryFunc(scans []any, fn func(pgx.QueryFuncRow) error) (pgconn.CommandTag, error) {
	panic("not used")
}
func (f *fakeBatchResults) Close() error { return nil }

type fakeTx struct {
	execErrOn string
}

func (f *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.execErrOn != "" && sql == f.execErrOn {
		return pgconn.CommandTag{}, errors.New("exec failed")
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return &fakeBatchResults{tag: pgconn.NewCommandTag("INSERT 0 1")}
}

func (f *fakeTx) Commit(ctx context.Context) error   { return nil }
func (f *fakeTx) Rollback(ctx context.Context) error { return nil }

type fakePool struct {
	beginErr error
}

func (f *fakePool) Begin(ctx context.Context) (load.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return &fakeTx{}, nil
}

// fakeSource is a Source that returns a preconfigured GameRows or error
// per game ID.
type fakeSource struct {
	name    string
	rows    map[string]load.GameRows
	errs    map[string]error
	fetched []string
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchGame(ctx context.Context, gameID string) (load.GameRows, error) {
	f.fetched = append(f.fetched, gameID)
	if err, ok := f.errs[gameID]; ok {
		return load.GameRows{}, err
	}
	return f.rows[gameID], nil
}

func gameRowsFor(gameID, home, away string) load.GameRows {
	return load.GameRows{
		Game: domain.Game{GameID: gameID, HomeTricode: home, AwayTricode: away},
		PBP: []domain.PbpEvent{
			{GameID: gameID, EventIdx: 1, Type: domain.EventPeriodBegin},
		},
	}
}

// fakeCheckpointRows replays a fixed set of keys for CheckpointDB.Query.
type fakeCheckpointRows struct {
	keys []string
	idx  int
}

func (r *fakeCheckpointRows) Next() bool { return r.idx < len(r.keys) }
func (r *fakeCheckpointRows) Scan(dest ...any) error {
	*dest[0].(*string) = r.keys[r.idx]
	r.idx++
	return nil
}
func (r *fakeCheckpointRows) Err() error { return nil }
func (r *fakeCheckpointRows) Close()     {}

// fakeCheckpointDB records every Exec call and replays a fixed set of
// keys for Query, regardless of the query text, which is sufficient for
// exercising CheckpointStore's resume-lookup path.
type fakeCheckpointDB struct {
	execSQL       []string
	execErr       error
	resumableKeys []string
}

func (f *fakeCheckpointDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeCheckpointDB) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return &fakeCheckpointRows{keys: f.resumableKeys}, nil
}
