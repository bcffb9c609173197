package pipeline

import (
	"context"
	"time"

	"github.com/preston-bernstein/nba-ingest-core/internal/domain"
)

const DailyName = "daily"

// DateGameProvider resolves a calendar date to the games scheduled
// that day.
type DateGameProvider interface {
	GamesForDate(ctx context.Context, date string) ([]string, error)
}

// DailyPipeline resolves a date to its games and delegates each one to
// GamePipeline, folding the per-game results into one daily total.
type DailyPipeline struct {
	dates        DateGameProvider
	gamePipeline *GamePipeline
	pool         *workerPool
}

func NewDailyPipeline(dates DateGameProvider, gamePipeline *GamePipeline, workerWidth int) *DailyPipeline {
	return &DailyPipeline{dates: dates, gamePipeline: gamePipeline, pool: newWorkerPool(workerWidth)}
}

func (d *DailyPipeline) Run(ctx context.Context, date string, sourceNames []string) domain.PipelineResult {
	started := time.Now()
	result := domain.PipelineResult{PipelineName: DailyName, RecordCounts: map[string]int{}, StartedAt: started}

	gameIDs, err := d.dates.GamesForDate(ctx, date)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		result.CompletedAt = time.Now()
		result.Duration = result.CompletedAt.Sub(started)
		return result
	}

	gameResults := make([]domain.PipelineResult, len(gameIDs))
	d.pool.run(ctx, len(gameIDs), func(ctx context.Context, i int) error {
		gameResults[i] = d.gamePipeline.Run(ctx, gameIDs[i], sourceNames)
		return nil
	})
	for _, gr := range gameResults {
		mergeInto(&result, gr)
	}

	result.CompletedAt = time.Now()
	result.Duration = result.CompletedAt.Sub(started)
	result.Success = result.Failures == 0
	return result
}
