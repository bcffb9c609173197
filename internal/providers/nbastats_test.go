package providers

import (
	"context"
	"os"
	"testing"

	"github.com/preston-bernstein/nba-ingest-core/internal/domain"
	"github.com/preston-bernstein/nba-ingest-core/internal/metrics"
	"github.com/preston-bernstein/nba-ingest-core/internal/reference"
	"github.com/preston-bernstein/nba-ingest-core/internal/sourceclient"
)

const sampleAliasYAML = `
teams:
  - id: "1610612747"
    tricode: LAL
    nba_stats_aliases: ["LAL"]
  - id: "1610612738"
    tricode: BOS
    nba_stats_aliases: ["BOS"]
`

func testAliases(t *testing.T) *reference.AliasTable {
	t.Helper()
	table, err := reference.LoadTeamAliases(writeTemp(t, sampleAliasYAML))
	if err != nil {
		t.Fatalf("load aliases: %v", err)
	}
	return table
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := t.TempDir() + "/aliases.yaml"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp alias file: %v", err)
	}
	return path
}

func resultSetTree(resultSets map[string][]any, headers map[string][]string) sourceclient.ResponseTree {
	sets := make([]any, 0, len(resultSets))
	for name, rows := range resultSets {
		sets = append(sets, map[string]any{
			"name":    name,
			"headers": toAnySlice(headers[name]),
			"rowSet":  rows,
		})
	}
	return sourceclient.ResponseTree{
		Source:   "nba_stats",
		Endpoint: "/test",
		JSON:     map[string]any{"resultSets": sets},
	}
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// fakeClient stubs nbaStatsClient with canned ResponseTrees per endpoint.
type fakeClient struct {
	summary, boxscore, pbp, scoreboard sourceclient.ResponseTree
}

func (f *fakeClient) Scoreboard(ctx context.Context, date string) (sourceclient.ResponseTree, error) {
	return f.scoreboard, nil
}
func (f *fakeClient) Boxscore(ctx context.Context, gameID string) (sourceclient.ResponseTree, error) {
	return f.boxscore, nil
}
func (f *fakeClient) PBP(ctx context.Context, gameID string) (sourceclient.ResponseTree, error) {
	return f.pbp, nil
}
func (f *fakeClient) Lineups(ctx context.Context, gameID string) (sourceclient.ResponseTree, error) {
	return f.summary, nil
}

func sampleSummaryTree() sourceclient.ResponseTree {
	headers := map[string][]string{
		"GameSummary": {"GAME_DATE_EST", "GAME_ID", "GAME_STATUS_TEXT", "HOME_TEAM_ID", "VISITOR_TEAM_ID", "LIVE_PERIOD"},
		"LineScore":   {"TEAM_ID", "TEAM_ABBREVIATION"},
		"Officials":   {"OFFICIAL_ID", "FIRST_NAME", "LAST_NAME"},
	}
	sets := map[string][]any{
		"GameSummary": {
			[]any{"2023-01-15T00:00:00", "0022200600", "Final", "1610612747", "1610612738", 4.0},
		},
		"LineScore": {
			[]any{"1610612747", "LAL"},
			[]any{"1610612738", "BOS"},
		},
		"Officials": {
			[]any{"101", "Tony", "Brothers"},
			[]any{"102", "Scott", "Foster"},
		},
	}
	return resultSetTree(sets, headers)
}

func sampleBoxscoreTree() sourceclient.ResponseTree {
	headers := map[string][]string{
		"PlayerStats": {"TEAM_ABBREVIATION", "PLAYER_NAME", "MIN", "PTS", "FGM", "FGA", "FG3M", "FG3A", "FTM", "FTA", "REB", "OREB", "DREB", "AST", "STL", "BLK", "TO", "PF", "PLUS_MINUS"},
	}
	sets := map[string][]any{
		"PlayerStats": {
			[]any{"LAL", "LeBron James", "35:12", 28.0, 10.0, 18.0, 2.0, 5.0, 6.0, 7.0, 8.0, 1.0, 7.0, 9.0, 1.0, 1.0, 3.0, 2.0, 5.0},
		},
	}
	return resultSetTree(sets, headers)
}

func samplePBPTree() sourceclient.ResponseTree {
	headers := map[string][]string{
		"PlayByPlay": {
			"EVENTNUM", "EVENTMSGTYPE", "PERIOD", "PCTIMESTRING",
			"HOMEDESCRIPTION", "VISITORDESCRIPTION", "NEUTRALDESCRIPTION", "SCORE",
			"PLAYER1_NAME", "PLAYER1_ID", "PLAYER1_TEAM_ABBREVIATION",
			"PLAYER2_NAME", "PLAYER2_ID",
			"PLAYER3_NAME", "PLAYER3_ID",
		},
	}
	sets := map[string][]any{
		"PlayByPlay": {
			[]any{1.0, 12.0, 1.0, "12:00", "", "", "Start of Period", nil, "", "", "", "", "", "", ""},
			[]any{2.0, 1.0, 1.0, "11:45", "LeBron James 2PT Shot", "", "", "2 - 0", "LeBron James", "2544", "LAL", "", "", "", ""},
			[]any{3.0, 4.0, 1.0, "11:30", "", "Celtics Rebound", "", nil, "Jayson Tatum", "1628369", "BOS", "", "", "", ""},
		},
	}
	return resultSetTree(sets, headers)
}

func sampleVenues() map[string]reference.Venue {
	return map[string]reference.Venue{
		"1610612747": {TeamID: "1610612747", ArenaName: "Crypto.com Arena", TZ: "America/Los_Angeles"},
		"1610612738": {TeamID: "1610612738", ArenaName: "TD Garden", TZ: "America/New_York"},
	}
}

func TestFetchGameComposesFullRowSet(t *testing.T) {
	client := &fakeClient{
		summary:  sampleSummaryTree(),
		boxscore: sampleBoxscoreTree(),
		pbp:      samplePBPTree(),
	}
	src := NewNBAStatsSource(client, testAliases(t), sampleVenues(), metrics.NewRecorder())

	rows, err := src.FetchGame(context.Background(), "0022200600")
	if err != nil {
		t.Fatalf("FetchGame: %v", err)
	}

	if rows.Game.HomeTricode != "LAL" || rows.Game.AwayTricode != "BOS" {
		t.Fatalf("got home=%s away=%s, want LAL/BOS", rows.Game.HomeTricode, rows.Game.AwayTricode)
	}
	if rows.Game.Status != domain.StatusFinal {
		t.Fatalf("got status %q, want final", rows.Game.Status)
	}
	if rows.Game.ArenaTZ != "America/Los_Angeles" {
		t.Fatalf("got arena tz %q, want home team's venue tz", rows.Game.ArenaTZ)
	}
	if len(rows.Referees) != 2 || rows.Referees[0].Role != domain.RoleCrewChief {
		t.Fatalf("expected 2 referees with first as crew chief, got %+v", rows.Referees)
	}
	if len(rows.Stats) != 1 || rows.Stats[0].PlayerSlug != "lebron-james" {
		t.Fatalf("expected one stat line for lebron-james, got %+v", rows.Stats)
	}
	if rows.Stats[0].Points != 28 {
		t.Fatalf("got points %d, want 28", rows.Stats[0].Points)
	}

	if len(rows.PBP) != 3 {
		t.Fatalf("expected 3 pbp events, got %d", len(rows.PBP))
	}
	if rows.PBP[0].Type != domain.EventPeriodBegin {
		t.Fatalf("got event 0 type %q, want period_begin", rows.PBP[0].Type)
	}
	if rows.PBP[1].Type != domain.EventShot || rows.PBP[1].Shot == nil || !rows.PBP[1].Shot.Made {
		t.Fatalf("got event 1 %+v, want a made shot", rows.PBP[1])
	}
	if rows.PBP[2].Type != domain.EventRebound || rows.PBP[2].Subtype != "defensive" {
		t.Fatalf("got event 2 subtype %q, want defensive (BOS rebounding after a LAL make)", rows.PBP[2].Subtype)
	}
}

func TestFetchGameUnresolvableTeamFails(t *testing.T) {
	emptyAliases, err := reference.LoadTeamAliases(writeTemp(t, "teams: []\n"))
	if err != nil {
		t.Fatalf("load empty aliases: %v", err)
	}
	client := &fakeClient{summary: sampleSummaryTree()}
	src := NewNBAStatsSource(client, emptyAliases, sampleVenues(), metrics.NewRecorder())

	if _, err := src.FetchGame(context.Background(), "0022200600"); err == nil {
		t.Fatal("expected an error resolving an unknown team alias table")
	}
}

func TestGamesForDateExtractsGameIDs(t *testing.T) {
	headers := map[string][]string{"GameHeader": {"GAME_ID"}}
	sets := map[string][]any{"GameHeader": {[]any{"0022200600"}, []any{"0022200601"}}}
	client := &fakeClient{scoreboard: resultSetTree(sets, headers)}
	src := NewNBAStatsSource(client, testAliases(t), sampleVenues(), metrics.NewRecorder())

	ids, err := src.GamesForDate(context.Background(), "2023-01-15")
	if err != nil {
		t.Fatalf("GamesForDate: %v", err)
	}
	if len(ids) != 2 || ids[0] != "0022200600" {
		t.Fatalf("got %v, want [0022200600 0022200601]", ids)
	}
}
