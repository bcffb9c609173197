// Package extract holds one pure-function extractor per (source,
// endpoint) pair. Extractors never perform I/O — they walk an already
// fetched sourceclient.ResponseTree and emit flat row dictionaries, shape
// only: no coercion, no enum mapping. That happens one layer up in
// internal/preprocess.
package extract

import (
	"fmt"

	"github.com/preston-bernstein/nba-ingest-core/internal/sourceclient"
)

// resultSetRows extracts rows from a stats.nba.com-shaped "resultSets"
// envelope: a list of {name, headers, rowSet} objects where rowSet is a
// list of positional arrays matching headers.
func resultSetRows(tree sourceclient.ResponseTree, resultSetName string) ([]map[string]any, error) {
	root, ok := tree.JSON.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("extract: %s: response is not a JSON object", tree.Endpoint)
	}

	sets, ok := root["resultSets"].([]any)
	if !ok {
		if single, ok := root["resultSet"].(map[string]any); ok {
			return rowsFromSet(single)
		}
		return nil, fmt.Errorf("extract: %s: no resultSets in response", tree.Endpoint)
	}

	for _, raw := range sets {
		set, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if name, _ := set["name"].(string); name == resultSetName {
			return rowsFromSet(set)
		}
	}
	return nil, fmt.Errorf("extract: %s: resultSet %q not found", tree.Endpoint, resultSetName)
}

func rowsFromSet(set map[string]any) ([]map[string]any, error) {
	headersRaw, _ := set["headers"].([]any)
	headers := make([]string, len(headersRaw))
	for i, h := range headersRaw {
		headers[i], _ = h.(string)
	}

	rowSet, _ := set["rowSet"].([]any)
	rows := make([]map[string]any, 0, len(rowSet))
	for _, r := range rowSet {
		cols, ok := r.([]any)
		if !ok {
			continue
		}
		row := make(map[string]any, len(headers))
		for i, h := range headers {
			if i < len(cols) {
				row[h] = cols[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// NBAStatsScoreboard extracts one row dictionary per game from a
// scoreboard response.
func NBAStatsScoreboard(tree sourceclient.ResponseTree) ([]map[string]any, error) {
	return resultSetRows(tree, "GameHeader")
}

// NBAStatsBoxscore extracts one row dictionary per player line from a
// traditional box score response.
func NBAStatsBoxscore(tree sourceclient.ResponseTree) ([]map[string]any, error) {
	return resultSetRows(tree, "PlayerStats")
}

// NBAStatsPBP extracts one row dictionary per play-by-play event.
func NBAStatsPBP(tree sourceclient.ResponseTree) ([]map[string]any, error) {
	return resultSetRows(tree, "PlayByPlay")
}

// NBAStatsLineups extracts one row dictionary per team's line score from
// the box score summary response. Despite its resultSet name this is a
// per-team scoring line, not a list of starters; stats.nba.com exposes no
// starting-five resultSet on this endpoint.
func NBAStatsLineups(tree sourceclient.ResponseTree) ([]map[string]any, error) {
	return resultSetRows(tree, "LineScore")
}

// NBAStatsGameSummary extracts the single-row game header (status,
// period, team IDs, season) from the box score summary response.
func NBAStatsGameSummary(tree sourceclient.ResponseTree) ([]map[string]any, error) {
	return resultSetRows(tree, "GameSummary")
}

// NBAStatsOfficials extracts one row dictionary per assigned official
// from the box score summary response.
func NBAStatsOfficials(tree sourceclient.ResponseTree) ([]map[string]any, error) {
	return resultSetRows(tree, "Officials")
}

// NBAStatsShots extracts one row dictionary per charted shot attempt.
func NBAStatsShots(tree sourceclient.ResponseTree) ([]map[string]any, error) {
	return resultSetRows(tree, "Shot_Chart_Detail")
}
