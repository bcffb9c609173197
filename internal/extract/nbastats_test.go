package extract

import (
	"testing"

	"github.com/preston-bernstein/nba-ingest-core/internal/sourceclient"
)

func scoreboardTree() sourceclient.ResponseTree {
	return sourceclient.ResponseTree{
		Endpoint: "/scoreboardv2",
		JSON: map[string]any{
			"resultSets": []any{
				map[string]any{
					"name":    "GameHeader",
					"headers": []any{"GAME_ID", "GAME_STATUS_TEXT"},
					"rowSet": []any{
						[]any{"0022300123", "Final"},
						[]any{"0022300124", "7:00 pm ET"},
					},
				},
				map[string]any{
					"name":    "LineScore",
					"headers": []any{"GAME_ID", "TEAM_ABBREVIATION"},
					"rowSet":  []any{[]any{"0022300123", "LAL"}},
				},
			},
		},
	}
}

func TestNBAStatsScoreboardExtractsRows(t *testing.T) {
	rows, err := NBAStatsScoreboard(scoreboardTree())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["GAME_ID"] != "0022300123" || rows[0]["GAME_STATUS_TEXT"] != "Final" {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}

func TestNBAStatsLineupsExtractsDifferentResultSet(t *testing.T) {
	rows, err := NBAStatsLineups(scoreboardTree())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0]["TEAM_ABBREVIATION"] != "LAL" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestResultSetRowsMissingSetReturnsError(t *testing.T) {
	_, err := NBAStatsPBP(scoreboardTree())
	if err == nil {
		t.Fatal("expected error for missing resultSet")
	}
}

func TestResultSetRowsNonObjectJSONReturnsError(t *testing.T) {
	tree := sourceclient.ResponseTree{Endpoint: "/bad", JSON: []any{1, 2, 3}}
	if _, err := NBAStatsScoreboard(tree); err == nil {
		t.Fatal("expected error for non-object JSON")
	}
}

func TestResultSetRowsShortRowIgnoresMissingTrailingColumns(t *testing.T) {
	tree := sourceclient.ResponseTree{
		JSON: map[string]any{
			"resultSets": []any{
				map[string]any{
					"name":    "GameHeader",
					"headers": []any{"GAME_ID", "GAME_STATUS_TEXT"},
					"rowSet":  []any{[]any{"0022300123"}},
				},
			},
		},
	}
	rows, err := NBAStatsScoreboard(tree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := rows[0]["GAME_STATUS_TEXT"]; ok {
		t.Fatal("expected missing trailing column to be absent, not zero-valued")
	}
}
