package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/preston-bernstein/nba-ingest-core/internal/domain"
	"github.com/preston-bernstein/nba-ingest-core/internal/logging"
)

const SeasonName = "season"
const defaultBatchSize = 20
const interBatchPause = 2 * time.Second

// ScheduledGame is one game a GameIDProvider reports for a season or
// date range, carrying just enough status to decide whether it needs
// (re)processing.
type ScheduledGame struct {
	GameID string
	Status domain.GameStatus
}

// GameIDProvider enumerates the games a season or date range covers.
type GameIDProvider interface {
	GamesForSeason(ctx context.Context, season string, from, to *time.Time) ([]ScheduledGame, error)
}

// SeasonPipeline enumerates a season's games, filters to those needing
// work, and runs them through GamePipeline in fixed-size batches with a
// pause between batches to spread load on upstream vendors.
type SeasonPipeline struct {
	games        GameIDProvider
	gamePipeline *GamePipeline
	checkpoints  *CheckpointStore
	pool         *workerPool
	batchSize    int
	logger       *slog.Logger
}

func NewSeasonPipeline(games GameIDProvider, gamePipeline *GamePipeline, checkpoints *CheckpointStore, workerWidth, batchSize int, logger *slog.Logger) *SeasonPipeline {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &SeasonPipeline{
		games:        games,
		gamePipeline: gamePipeline,
		checkpoints:  checkpoints,
		pool:         newWorkerPool(workerWidth),
		batchSize:    batchSize,
		logger:       logger,
	}
}

// shouldProcessGame reports whether a scheduled game needs processing:
// always true for a non-final game (scores and PBP can still change),
// gated by forceRefresh once a game is final.
func shouldProcessGame(status domain.GameStatus, forceRefresh bool) bool {
	if status != domain.StatusFinal {
		return true
	}
	return forceRefresh
}

// Run enumerates season's games (optionally bounded by [from, to]),
// filters them with shouldProcessGame, and runs the survivors through
// GamePipeline in batches, pausing interBatchPause between batches.
func (s *SeasonPipeline) Run(ctx context.Context, season string, from, to *time.Time, sourceNames []string, forceRefresh, resume bool) domain.PipelineResult {
	started := time.Now()
	result := domain.PipelineResult{PipelineName: SeasonName, RecordCounts: map[string]int{}, StartedAt: started}

	scheduled, err := s.games.GamesForSeason(ctx, season, from, to)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		result.CompletedAt = time.Now()
		result.Duration = result.CompletedAt.Sub(started)
		return result
	}

	gameIDs := s.selectGameIDs(ctx, scheduled, forceRefresh, resume)

	for start := 0; start < len(gameIDs); start += s.batchSize {
		end := start + s.batchSize
		if end > len(gameIDs) {
			end = len(gameIDs)
		}
		batch := gameIDs[start:end]

		gameResults := make([]domain.PipelineResult, len(batch))
		s.pool.run(ctx, len(batch), func(ctx context.Context, i int) error {
			gameResults[i] = s.gamePipeline.Run(ctx, batch[i], sourceNames)
			return nil
		})
		for i, gr := range gameResults {
			mergeInto(&result, gr)
			if !gr.Success && s.logger != nil {
				s.logger.Warn("season pipeline game failed", logging.FieldPipeline, SeasonName, logging.FieldGameID, batch[i])
			}
		}

		if end < len(gameIDs) {
			select {
			case <-ctx.Done():
				result.Errors = append(result.Errors, ctx.Err().Error())
				start = len(gameIDs) // stop scheduling further batches
			case <-time.After(interBatchPause):
			}
		}
	}

	result.CompletedAt = time.Now()
	result.Duration = result.CompletedAt.Sub(started)
	result.Success = result.Failures == 0
	return result
}

func (s *SeasonPipeline) selectGameIDs(ctx context.Context, scheduled []ScheduledGame, forceRefresh, resume bool) []string {
	if resume {
		resumable, err := s.checkpoints.PendingOrFailed(ctx, GameName)
		if err == nil {
			return resumable
		}
		if s.logger != nil {
			s.logger.Error("season pipeline resume lookup failed", "error", err)
		}
	}

	var ids []string
	for _, g := range scheduled {
		if shouldProcessGame(g.Status, forceRefresh) {
			ids = append(ids, g.GameID)
		}
	}
	return ids
}

// mergeInto folds one game's result into the season- or daily-level total.
// Called only from the sequential reducer loops in SeasonPipeline.Run and
// DailyPipeline.Run, after workerPool.run's
// WaitGroup has already joined every goroutine in the batch, so there's
// no concurrent access to total to guard against.
func mergeInto(total *domain.PipelineResult, game domain.PipelineResult) {
	if game.Success {
		total.Successes++
	} else {
		total.Failures++
	}
	total.Errors = append(total.Errors, game.Errors...)
	for k, v := range game.RecordCounts {
		total.RecordCounts[k] += v
	}
}
