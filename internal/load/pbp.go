package load

import (
	"context"

	"github.com/preston-bernstein/nba-ingest-core/internal/domain"
	"github.com/preston-bernstein/nba-ingest-core/internal/metrics"
)

var (
	pbpEventColumns      = []string{"game_id", "event_idx", "period", "clock_display", "clock_remaining_ms", "seconds_elapsed", "home_score", "away_score", "event_type", "event_subtype", "team_tricode", "description"}
	pbpEventConflictCols = []string{"game_id", "event_idx"}

	shotColumns      = []string{"game_id", "event_idx", "team_tricode", "made", "value", "shot_type", "zone", "distance_ft", "loc_x", "loc_y"}
	shotConflictCols = []string{"game_id", "event_idx"}
)

func pbpEventArgs(e domain.PbpEvent) []any {
	return []any{
		e.GameID, e.EventIdx, e.Period, e.Clock.Display, e.Clock.RemainingMS,
		e.Clock.SecondsElapsed, e.HomeScore, e.AwayScore, string(e.Type), e.Subtype,
		e.TeamTricode, e.Description,
	}
}

func shotArgs(e domain.PbpEvent) []any {
	return []any{
		e.GameID, e.EventIdx, e.TeamTricode, e.Shot.Made, e.Shot.Value, e.Shot.ShotType,
		string(e.Shot.Zone), e.Shot.Distance, e.Shot.X, e.Shot.Y,
	}
}

func pbpEventStatement(e domain.PbpEvent) statement {
	return statement{
		table: "pbp_events",
		sql:   buildDiffUpsertSQL("pbp_events", pbpEventColumns, pbpEventConflictCols, setColumns(pbpEventColumns, pbpEventConflictCols)),
		args:  pbpEventArgs(e),
	}
}

func shotStatement(e domain.PbpEvent) statement {
	return statement{
		table: "shots",
		sql:   buildDiffUpsertSQL("shots", shotColumns, shotConflictCols, setColumns(shotColumns, shotConflictCols)),
		args:  shotArgs(e),
	}
}

func setColumns(columns, conflictCols []string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if !containsCol(conflictCols, c) {
			out = append(out, c)
		}
	}
	return out
}

// UpsertPbpEvent writes one play-by-play row, keyed by (game_id,
// event_idx) since that's the vendor-assigned event ordering within a
// game.
func UpsertPbpEvent(ctx context.Context, q Queryer, rec *metrics.Recorder, e domain.PbpEvent) error {
	return diffUpsert(ctx, q, rec, "pbp_events", pbpEventColumns, pbpEventConflictCols, pbpEventArgs(e))
}

// UpsertShot writes one shot-detail row derived from a PBP event that
// carries shot data. Non-shot events (e.Shot == nil) are a no-op.
func UpsertShot(ctx context.Context, q Queryer, rec *metrics.Recorder, e domain.PbpEvent) error {
	if e.Shot == nil {
		return nil
	}
	return diffUpsert(ctx, q, rec, "shots", shotColumns, shotConflictCols, shotArgs(e))
}

// LoadShots upserts every shot-carrying event in a game's PBP slice.
func LoadShots(ctx context.Context, q Queryer, rec *metrics.Recorder, events []domain.PbpEvent) error {
	for _, e := range events {
		if e.Shot == nil {
			continue
		}
		if err := UpsertShot(ctx, q, rec, e); err != nil {
			return err
		}
	}
	return nil
}
