package load

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/preston-bernstein/nba-ingest-core/internal/domain"
	"github.com/preston-bernstein/nba-ingest-core/internal/metrics"
)

// DefaultBatchSize is the number of statements BulkLoader groups into a
// single round trip when none is configured.
const DefaultBatchSize = 1000

// batchQueryer is the subset of pgx.Tx/pgxpool.Pool BulkLoader needs to
// pipeline statements.
type batchQueryer interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// BulkLoader pipelines many diffUpsert-shaped statements through
// pgx.Batch rather than one round trip per row, for high-volume tables
// like pbp_events and shots.
type BulkLoader struct {
	q         batchQueryer
	rec       *metrics.Recorder
	batchSize int
}

// NewBulkLoader builds a BulkLoader over q, batching batchSize statements
// per round trip (DefaultBatchSize when batchSize <= 0).
func NewBulkLoader(q batchQueryer, rec *metrics.Recorder, batchSize int) *BulkLoader {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &BulkLoader{q: q, rec: rec, batchSize: batchSize}
}

// statement is one upsert ready to queue into a pgx.Batch.
type statement struct {
	table string
	sql   string
	args  []any
}

// statementBuilder produces the statement for one row; loaders in this
// package implement it by closing over a single domain row.
type statementBuilder func() statement

// UpsertPbpEvents bulk-loads a game's full PBP slice.
func (b *BulkLoader) UpsertPbpEvents(ctx context.Context, events []domain.PbpEvent) error {
	builders := make([]statementBuilder, len(events))
	for i, e := range events {
		e := e
		builders[i] = func() statement { return pbpEventStatement(e) }
	}
	return b.run(ctx, builders)
}

// UpsertShots bulk-loads every shot-carrying event in a game's PBP slice,
// skipping events with no shot detail.
func (b *BulkLoader) UpsertShots(ctx context.Context, events []domain.PbpEvent) error {
	var builders []statementBuilder
	for _, e := range events {
		if e.Shot == nil {
			continue
		}
		e := e
		builders = append(builders, func() statement { return shotStatement(e) })
	}
	return b.run(ctx, builders)
}

func (b *BulkLoader) run(ctx context.Context, builders []statementBuilder) error {
	for start := 0; start < len(builders); start += b.batchSize {
		end := start + b.batchSize
		if end > len(builders) {
			end = len(builders)
		}
		if err := b.runChunk(ctx, builders[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (b *BulkLoader) runChunk(ctx context.Context, builders []statementBuilder) error {
	batch := &pgx.Batch{}
	stmts := make([]statement, 0, len(builders))
	for _, build := range builders {
		s := build()
		stmts = append(stmts, s)
		batch.Queue(s.sql, s.args...)
	}

	results := b.q.SendBatch(ctx, batch)
	defer results.Close()

	for _, s := range stmts {
		tag, err := results.Exec()
		if err != nil {
			return fmt.Errorf("load: batch upsert %s: %w", s.table, err)
		}
		if b.rec != nil {
			affected := tag.RowsAffected()
			b.rec.RecordRowsUpserted(s.table, affected, boolToInt64(affected == 0))
		}
	}
	return nil
}
