package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/preston-bernstein/nba-ingest-core/internal/domain"
)

// Rows and CheckpointDB narrow pgx's surface to exactly what
// CheckpointStore calls, the same interface-narrowing pattern used by
// internal/load's Tx and internal/complete's Queryer: Go's interface
// satisfaction requires a method's declared return type to match
// exactly, so a one-line pool adapter is cheaper and safer to hand-write
// correctly than to reproduce pgx.Rows' full method set from memory.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

type CheckpointDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

type poolCheckpointDB struct {
	pool *pgxpool.Pool
}

// NewPoolCheckpointDB wraps a real connection pool for use with
// NewCheckpointStore.
func NewPoolCheckpointDB(pool *pgxpool.Pool) CheckpointDB {
	return poolCheckpointDB{pool: pool}
}

func (p poolCheckpointDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.pool.Exec(ctx, sql, args...)
}

func (p poolCheckpointDB) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return p.pool.Query(ctx, sql, args...)
}

// CheckpointStore persists pipeline progress so a resumed run can skip
// (pipeline_name, key, step) units already completed. Checkpointing is
// mandatory — every orchestrator step starts one before doing any work
// and closes it out on the way out, success or failure, per the open
// question this spec resolves in favor of "always checkpoint."
type CheckpointStore struct {
	db CheckpointDB
}

func NewCheckpointStore(db CheckpointDB) *CheckpointStore {
	return &CheckpointStore{db: db}
}

// Start records a step as running, upserting over any prior attempt at
// the same (pipeline, key, step).
func (c *CheckpointStore) Start(ctx context.Context, pipelineName, key, step string) error {
	_, err := c.db.Exec(ctx, `
		INSERT INTO pipeline_checkpoints (pipeline_name, key, step, status, started_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (pipeline_name, key, step) DO UPDATE SET
			status = EXCLUDED.status,
			started_at = EXCLUDED.started_at,
			completed_at = NULL,
			error_message = NULL
	`, pipelineName, key, step, domain.CheckpointRunning, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("pipeline: start checkpoint %s/%s/%s: %w", pipelineName, key, step, err)
	}
	return nil
}

// Complete marks a step completed.
func (c *CheckpointStore) Complete(ctx context.Context, pipelineName, key, step string) error {
	_, err := c.db.Exec(ctx, `
		UPDATE pipeline_checkpoints SET status = $4, completed_at = $5, error_message = NULL
		WHERE pipeline_name = $1 AND key = $2 AND step = $3
	`, pipelineName, key, step, domain.CheckpointCompleted, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("pipeline: complete checkpoint %s/%s/%s: %w", pipelineName, key, step, err)
	}
	return nil
}

// Fail marks a step failed, recording cause's message.
func (c *CheckpointStore) Fail(ctx context.Context, pipelineName, key, step string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	_, err := c.db.Exec(ctx, `
		UPDATE pipeline_checkpoints SET status = $4, completed_at = $5, error_message = $6
		WHERE pipeline_name = $1 AND key = $2 AND step = $3
	`, pipelineName, key, step, domain.CheckpointFailed, time.Now().UTC(), msg)
	if err != nil {
		return fmt.Errorf("pipeline: fail checkpoint %s/%s/%s: %w", pipelineName, key, step, err)
	}
	return nil
}

// PendingOrFailed returns the keys of every checkpoint for pipelineName
// whose status is pending or failed, for resume mode.
func (c *CheckpointStore) PendingOrFailed(ctx context.Context, pipelineName string) ([]string, error) {
	rows, err := c.db.Query(ctx, `
		SELECT DISTINCT key FROM pipeline_checkpoints
		WHERE pipeline_name = $1 AND status IN ($2, $3)
	`, pipelineName, domain.CheckpointPending, domain.CheckpointFailed)
	if err != nil {
		return nil, fmt.Errorf("pipeline: query resumable checkpoints for %s: %w", pipelineName, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("pipeline: scan resumable checkpoint for %s: %w", pipelineName, err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pipeline: iterate resumable checkpoints for %s: %w", pipelineName, err)
	}
	return keys, nil
}
