package load

import (
	"context"
	"encoding/json"

	"github.com/preston-bernstein/nba-ingest-core/internal/domain"
	"github.com/preston-bernstein/nba-ingest-core/internal/metrics"
)

// UpsertGame writes the root game row.
func UpsertGame(ctx context.Context, q Queryer, rec *metrics.Recorder, g domain.Game) error {
	columns := []string{
		"game_id", "season", "start_time_utc", "arena_date", "arena_tz",
		"home_tricode", "away_tricode", "status", "period",
		"provenance_source", "provenance_url", "provenance_ingested_at",
	}
	args := []any{
		g.GameID, g.Season, g.StartTimeUTC, g.ArenaDate, g.ArenaTZ,
		g.HomeTricode, g.AwayTricode, string(g.Status), g.Period,
		g.Provenance.Source, g.Provenance.URL, g.Provenance.IngestsAt,
	}
	return diffUpsert(ctx, q, rec, "games", columns, []string{"game_id"}, args)
}

// UpsertGameCrosswalk writes one row mapping the canonical GameID to its
// vendor-specific identifiers.
func UpsertGameCrosswalk(ctx context.Context, q Queryer, rec *metrics.Recorder, c domain.GameIDCrosswalk) error {
	otherIDs := c.OtherIDs
	if otherIDs == nil {
		otherIDs = map[string]string{}
	}
	encoded, err := json.Marshal(otherIDs)
	if err != nil {
		return err
	}

	columns := []string{"game_id", "bref_id", "other_ids"}
	args := []any{c.GameID, c.BrefID, encoded}
	return diffUpsert(ctx, q, rec, "game_crosswalk", columns, []string{"game_id"}, args)
}
