package validate

import (
	"context"
	"fmt"
)

// PreInsertFilter drops rows whose game_id has no corresponding row in
// games, returning the surviving rows plus a warning per dropped one.
// gameID extracts the game_id from a row of type T; derived loaders
// (Q1 window, early shock, schedule/travel) each pass their own
// accessor since the row types share no common interface.
func PreInsertFilter[T any](ctx context.Context, q Queryer, rows []T, gameID func(T) string) (filtered []T, warnings []string, err error) {
	if len(rows) == 0 {
		return rows, nil, nil
	}

	ids := make(map[string]bool, len(rows))
	for _, r := range rows {
		ids[gameID(r)] = true
	}

	unique := make([]string, 0, len(ids))
	for id := range ids {
		unique = append(unique, id)
	}

	known, err := knownGameIDs(ctx, q, unique)
	if err != nil {
		return nil, nil, fmt.Errorf("validate: pre-insert filter: %w", err)
	}

	filtered = make([]T, 0, len(rows))
	for _, r := range rows {
		id := gameID(r)
		if known[id] {
			filtered = append(filtered, r)
			continue
		}
		warnings = append(warnings, fmt.Sprintf("dropped row: game_id %q not found in games", id))
	}

	return filtered, warnings, nil
}

func knownGameIDs(ctx context.Context, q Queryer, candidates []string) (map[string]bool, error) {
	rows, err := q.Query(ctx, `SELECT game_id FROM games WHERE game_id = ANY($1)`, candidates)
	if err != nil {
		return nil, err
	}

	known := map[string]bool{}
	err = scanRows(rows, func() error {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		known[id] = true
		return nil
	})
	return known, err
}
