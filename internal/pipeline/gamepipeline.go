package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/preston-bernstein/nba-ingest-core/internal/domain"
	"github.com/preston-bernstein/nba-ingest-core/internal/load"
	"github.com/preston-bernstein/nba-ingest-core/internal/logging"
	"github.com/preston-bernstein/nba-ingest-core/internal/metrics"
)

const GameName = "game"

// GamePipeline processes one game_id across a chosen subset of
// sources. Each source fetches, extracts, transforms, and loads its own
// row set inside its own transaction (load.GameLoader.LoadGame), so a
// failure partway through one vendor's contribution never rolls back
// another vendor's already-committed rows.
type GamePipeline struct {
	sources     map[string]Source
	loader      *load.GameLoader
	checkpoints *CheckpointStore
	rec         *metrics.Recorder
	logger      *slog.Logger
}

func NewGamePipeline(sources []Source, loader *load.GameLoader, checkpoints *CheckpointStore, rec *metrics.Recorder, logger *slog.Logger) *GamePipeline {
	byName := make(map[string]Source, len(sources))
	for _, s := range sources {
		byName[s.Name()] = s
	}
	return &GamePipeline{sources: byName, loader: loader, checkpoints: checkpoints, rec: rec, logger: logger}
}

// Run fetches and loads gameID from each named source in sourceNames,
// checkpointing each (gameID, source) step. One source's failure is
// recorded and does not stop the remaining sources from running.
func (p *GamePipeline) Run(ctx context.Context, gameID string, sourceNames []string) domain.PipelineResult {
	started := time.Now()
	result := domain.PipelineResult{
		PipelineName: GameName,
		RecordCounts: map[string]int{},
		StartedAt:    started,
	}

	for _, name := range sourceNames {
		src, ok := p.sources[name]
		if !ok {
			result.Failures++
			result.Errors = append(result.Errors, fmt.Sprintf("game %s: unknown source %q", gameID, name))
			continue
		}

		step := name
		if err := p.checkpoints.Start(ctx, GameName, gameID, step); err != nil {
			p.logError("checkpoint start failed", err, gameID, step)
		}

		rows, err := src.FetchGame(ctx, gameID)
		if err == nil {
			err = p.loader.LoadGame(ctx, rows)
		}

		if err != nil {
			result.Failures++
			result.Errors = append(result.Errors, fmt.Sprintf("game %s source %s: %v", gameID, name, err))
			if cpErr := p.checkpoints.Fail(ctx, GameName, gameID, step, err); cpErr != nil {
				p.logError("checkpoint fail failed", cpErr, gameID, step)
			}
			continue
		}

		result.Successes++
		addRecordCounts(result.RecordCounts, rows)
		if cpErr := p.checkpoints.Complete(ctx, GameName, gameID, step); cpErr != nil {
			p.logError("checkpoint complete failed", cpErr, gameID, step)
		}
	}

	result.CompletedAt = time.Now()
	result.Duration = result.CompletedAt.Sub(started)
	result.Success = result.Failures == 0
	if p.rec != nil {
		var cycleErr error
		if !result.Success {
			cycleErr = fmt.Errorf("game %s: %d source failures", gameID, result.Failures)
		}
		p.rec.RecordPipelineCycle(GameName, result.Duration, cycleErr)
	}
	return result
}

func addRecordCounts(counts map[string]int, rows load.GameRows) {
	counts["games"]++
	counts["referees"] += len(rows.Referees)
	counts["referee_alternates"] += len(rows.Alternates)
	counts["starting_lineups"] += len(rows.Lineups)
	counts["injury_snapshots"] += len(rows.Injuries)
	counts["pbp_events"] += len(rows.PBP)
	counts["team_player_stats"] += len(rows.Stats)
	if rows.Outcome != nil {
		counts["outcomes"]++
	}
}

func (p *GamePipeline) logError(msg string, err error, gameID, step string) {
	if p.logger == nil {
		return
	}
	p.logger.Error(msg, logging.FieldGameID, gameID, logging.FieldStep, step, "error", err)
}
