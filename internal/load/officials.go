package load

import (
	"context"

	"github.com/preston-bernstein/nba-ingest-core/internal/domain"
	"github.com/preston-bernstein/nba-ingest-core/internal/metrics"
)

// UpsertReferee writes one officiating-crew assignment.
func UpsertReferee(ctx context.Context, q Queryer, rec *metrics.Recorder, r domain.Referee) error {
	columns := []string{"game_id", "slug", "name", "role", "crew_position"}
	args := []any{r.GameID, r.Slug, r.Name, string(r.Role), r.CrewPosition}
	return diffUpsert(ctx, q, rec, "referees", columns, []string{"game_id", "slug"}, args)
}

// UpsertRefereeAlternate writes one official listed as available but not
// assigned to the crew.
func UpsertRefereeAlternate(ctx context.Context, q Queryer, rec *metrics.Recorder, a domain.RefereeAlternate) error {
	columns := []string{"game_id", "slug", "name"}
	args := []any{a.GameID, a.Slug, a.Name}
	return diffUpsert(ctx, q, rec, "referee_alternates", columns, []string{"game_id", "slug"}, args)
}

// UpsertStartingLineup writes one starter slot for a team.
func UpsertStartingLineup(ctx context.Context, q Queryer, rec *metrics.Recorder, l domain.StartingLineup) error {
	columns := []string{"game_id", "team_tricode", "player_slug", "player_id", "position", "lineup_order"}
	args := []any{l.GameID, l.TeamTricode, l.PlayerSlug, l.PlayerID, l.Position, l.Order}
	return diffUpsert(ctx, q, rec, "starting_lineups", columns, []string{"game_id", "team_tricode", "player_slug"}, args)
}

// UpsertInjurySnapshot writes one time-stamped availability report. Unlike
// the other tables here, each report is a distinct fact rather than a
// mutable row: the conflict target includes AsOf so a later re-poll of the
// same report is a no-op rather than clobbering an earlier snapshot.
func UpsertInjurySnapshot(ctx context.Context, q Queryer, rec *metrics.Recorder, s domain.InjurySnapshot) error {
	columns := []string{"game_id", "player_slug", "status", "reason", "as_of"}
	args := []any{s.GameID, s.PlayerSlug, string(s.Status), s.Reason, s.AsOf}
	return diffUpsert(ctx, q, rec, "injury_snapshots", columns, []string{"game_id", "player_slug", "as_of"}, args)
}
