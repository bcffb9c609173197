package load

import (
	"context"

	"github.com/preston-bernstein/nba-ingest-core/internal/domain"
	"github.com/preston-bernstein/nba-ingest-core/internal/metrics"
)

// UpsertTeamPlayerStats writes one player's (or, when PlayerSlug is
// empty, one team aggregate's) box score line for a game.
func UpsertTeamPlayerStats(ctx context.Context, q Queryer, rec *metrics.Recorder, s domain.TeamPlayerStats) error {
	columns := []string{
		"game_id", "team_tricode", "player_slug", "minutes",
		"points", "rebounds", "assists", "steals", "blocks", "turnovers", "personal_fouls",
		"fgm", "fga", "three_pm", "three_pa", "ftm", "fta",
		"off_rebounds", "def_rebounds", "plus_minus",
		"off_rating", "def_rating", "net_rating", "usage_rate",
		"true_shooting_pct", "effective_fg_pct",
	}
	args := []any{
		s.GameID, s.TeamTricode, s.PlayerSlug, s.Minutes,
		s.Points, s.Rebounds, s.Assists, s.Steals, s.Blocks, s.Turnovers, s.PersonalFouls,
		s.FGM, s.FGA, s.ThreePM, s.ThreePA, s.FTM, s.FTA,
		s.OffRebounds, s.DefRebounds, s.PlusMinus,
		s.OffRating, s.DefRating, s.NetRating, s.UsageRate,
		s.TrueShootingPct, s.EffectiveFGPct,
	}
	return diffUpsert(ctx, q, rec, "team_player_stats", columns, []string{"game_id", "team_tricode", "player_slug"}, args)
}

// UpsertOutcome writes the final-result summary row for a completed game.
func UpsertOutcome(ctx context.Context, q Queryer, rec *metrics.Recorder, o domain.Outcome) error {
	columns := []string{"game_id", "home_final", "away_final", "home_q1", "away_q1", "margin", "overtime_count"}
	args := []any{o.GameID, o.HomeFinal, o.AwayFinal, o.HomeQ1, o.AwayQ1, o.Margin, o.OvertimeCount}
	return diffUpsert(ctx, q, rec, "outcomes", columns, []string{"game_id"}, args)
}
