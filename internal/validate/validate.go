// Package validate implements the batch data-quality checks run
// periodically over recently-ingested rows: foreign-key validity,
// uniqueness, play-by-play monotonicity, completeness, freshness, and
// cross-table consistency. Each check returns a ValidationResult rather
// than an error, so a failing check is a reportable fact, not a fault.
package validate

import (
	"context"
	"fmt"
	"time"
)

// Row is the one method a validator needs from pgx.Row.
type Row interface {
	Scan(dest ...any) error
}

// Rows is the narrow slice of pgx.Rows's surface validators need, the
// same interface-narrowing internal/complete applies to pgx.Tx/Pool.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Queryer is the read-only subset of pgx's Tx/Pool/Conn surface every
// check needs. Because pgx's QueryRow/Query return pgx.Row and pgx.Rows
// rather than Row/Rows, a *pgxpool.Pool is wrapped with NewPoolQueryer to
// satisfy it.
type Queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) Row
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// ValidationResult is the outcome of a single batch check.
type ValidationResult struct {
	Check      string
	Passed     bool
	Issues     []string
	SampleSize int
}

func passing(check string, sampleSize int) ValidationResult {
	return ValidationResult{Check: check, Passed: true, SampleSize: sampleSize}
}

func failing(check string, sampleSize int, issues []string) ValidationResult {
	return ValidationResult{Check: check, Passed: len(issues) == 0, Issues: issues, SampleSize: sampleSize}
}

// childTables lists every table carrying a game_id foreign key back to
// games, per §3's ownership model ("nearly every other table has a
// foreign key to game_id with CASCADE delete").
var childTables = []string{
	"game_id_crosswalk",
	"referees",
	"referee_alternates",
	"starting_lineups",
	"injury_snapshots",
	"pbp_events",
	"shots",
	"team_player_stats",
	"outcomes",
	"q1_window_records",
	"early_shock_events",
	"schedule_travel_records",
}

// FKValidity checks that every child table's game_id resolves in games.
func FKValidity(ctx context.Context, q Queryer, since time.Time) (ValidationResult, error) {
	var issues []string
	sampleSize := 0

	for _, table := range childTables {
		sql := fmt.Sprintf(
			`SELECT c.game_id, COUNT(*) FROM %s c
			 LEFT JOIN games g ON g.game_id = c.game_id
			 WHERE g.game_id IS NULL
			 GROUP BY c.game_id`, table)
		rows, err := q.Query(ctx, sql)
		if err != nil {
			return ValidationResult{}, fmt.Errorf("validate: fk validity on %s: %w", table, err)
		}
		err = scanRows(rows, func() error {
			var gameID string
			var count int
			if err := rows.Scan(&gameID, &count); err != nil {
				return err
			}
			sampleSize += count
			issues = append(issues, fmt.Sprintf("%s: %d orphaned rows for game_id %q", table, count, gameID))
			return nil
		})
		if err != nil {
			return ValidationResult{}, fmt.Errorf("validate: fk validity on %s: %w", table, err)
		}
	}

	return failing("fk_validity", sampleSize, issues), nil
}

// Uniqueness checks that no duplicate bref_game_id exists in games, and
// no duplicate (game_id, referee_slug) exists across referee roles.
func Uniqueness(ctx context.Context, q Queryer) (ValidationResult, error) {
	var issues []string
	sampleSize := 0

	brefDupes, err := q.Query(ctx, `
		SELECT bref_id, COUNT(*) FROM game_id_crosswalk
		WHERE bref_id IS NOT NULL AND bref_id != ''
		GROUP BY bref_id HAVING COUNT(*) > 1`)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("validate: uniqueness bref ids: %w", err)
	}
	if err := scanRows(brefDupes, func() error {
		var brefID string
		var count int
		if err := brefDupes.Scan(&brefID, &count); err != nil {
			return err
		}
		sampleSize += count
		issues = append(issues, fmt.Sprintf("bref_game_id %q duplicated %d times", brefID, count))
		return nil
	}); err != nil {
		return ValidationResult{}, fmt.Errorf("validate: uniqueness bref ids: %w", err)
	}

	refDupes, err := q.Query(ctx, `
		SELECT game_id, slug, COUNT(*) FROM referees
		GROUP BY game_id, slug HAVING COUNT(*) > 1`)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("validate: uniqueness referees: %w", err)
	}
	if err := scanRows(refDupes, func() error {
		var gameID, slug string
		var count int
		if err := refDupes.Scan(&gameID, &slug, &count); err != nil {
			return err
		}
		sampleSize += count
		issues = append(issues, fmt.Sprintf("(game_id %q, referee %q) assigned %d times", gameID, slug, count))
		return nil
	}); err != nil {
		return ValidationResult{}, fmt.Errorf("validate: uniqueness referees: %w", err)
	}

	return failing("uniqueness", sampleSize, issues), nil
}

// backwardStepToleranceSeconds is the single backward clock step within
// a period tolerated for simultaneous events, per §4.11.
const backwardStepToleranceSeconds = 5.0

// PBPMonotonicity checks, within (game_id, period), that event_idx is
// gapless and duplicate-free and seconds_elapsed is non-decreasing
// beyond a small tolerance for simultaneous events.
func PBPMonotonicity(ctx context.Context, q Queryer, gameID string) (ValidationResult, error) {
	rows, err := q.Query(ctx, `
		SELECT period, event_idx, seconds_elapsed FROM pbp_events
		WHERE game_id = $1
		ORDER BY period, event_idx`, gameID)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("validate: pbp monotonicity: %w", err)
	}
	defer rows.Close()

	var issues []string
	sampleSize := 0
	seenIdx := map[int]map[int]bool{}
	lastIdx := map[int]int{}
	lastSeconds := map[int]float64{}
	started := map[int]bool{}

	for rows.Next() {
		var period, eventIdx int
		var secondsElapsed float64
		if err := rows.Scan(&period, &eventIdx, &secondsElapsed); err != nil {
			return ValidationResult{}, fmt.Errorf("validate: pbp monotonicity: %w", err)
		}
		sampleSize++

		if seenIdx[period] == nil {
			seenIdx[period] = map[int]bool{}
		}
		if seenIdx[period][eventIdx] {
			issues = append(issues, fmt.Sprintf("period %d: duplicate event_idx %d", period, eventIdx))
		}
		seenIdx[period][eventIdx] = true

		if started[period] {
			if eventIdx != lastIdx[period]+1 {
				issues = append(issues, fmt.Sprintf("period %d: event_idx gap between %d and %d", period, lastIdx[period], eventIdx))
			}
			if secondsElapsed < lastSeconds[period]-backwardStepToleranceSeconds {
				issues = append(issues, fmt.Sprintf("period %d: seconds_elapsed regressed from %.1f to %.1f at event_idx %d", period, lastSeconds[period], secondsElapsed, eventIdx))
			}
		}
		started[period] = true
		lastIdx[period] = eventIdx
		lastSeconds[period] = secondsElapsed
	}
	if err := rows.Err(); err != nil {
		return ValidationResult{}, fmt.Errorf("validate: pbp monotonicity: %w", err)
	}

	return failing("pbp_monotonicity", sampleSize, issues), nil
}

// Completeness reports the share of recently-ingested games missing
// PBP, Q1 scores, outcomes, or event timestamps.
func Completeness(ctx context.Context, q Queryer, since time.Time) (ValidationResult, error) {
	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM games WHERE ingested_at >= $1`, since).Scan(&total); err != nil {
		return ValidationResult{}, fmt.Errorf("validate: completeness total: %w", err)
	}
	if total == 0 {
		return passing("completeness", 0), nil
	}

	var missingPBP, missingQ1, missingOutcomes, missingTimestamps int
	if err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM games g WHERE g.ingested_at >= $1
		AND NOT EXISTS (SELECT 1 FROM pbp_events p WHERE p.game_id = g.game_id)`, since).Scan(&missingPBP); err != nil {
		return ValidationResult{}, fmt.Errorf("validate: completeness pbp: %w", err)
	}
	if err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM games g WHERE g.ingested_at >= $1
		AND NOT EXISTS (SELECT 1 FROM outcomes o WHERE o.game_id = g.game_id AND o.home_q1 IS NOT NULL)`, since).Scan(&missingQ1); err != nil {
		return ValidationResult{}, fmt.Errorf("validate: completeness q1: %w", err)
	}
	if err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM games g WHERE g.ingested_at >= $1
		AND NOT EXISTS (SELECT 1 FROM outcomes o WHERE o.game_id = g.game_id)`, since).Scan(&missingOutcomes); err != nil {
		return ValidationResult{}, fmt.Errorf("validate: completeness outcomes: %w", err)
	}
	if err := q.QueryRow(ctx, `
		SELECT COUNT(*) FROM pbp_events p
		JOIN games g ON g.game_id = p.game_id
		WHERE g.ingested_at >= $1 AND p.clock_ms IS NULL`, since).Scan(&missingTimestamps); err != nil {
		return ValidationResult{}, fmt.Errorf("validate: completeness timestamps: %w", err)
	}

	var issues []string
	if missingPBP > 0 {
		issues = append(issues, fmt.Sprintf("%d/%d games missing pbp events", missingPBP, total))
	}
	if missingQ1 > 0 {
		issues = append(issues, fmt.Sprintf("%d/%d games missing Q1 scores", missingQ1, total))
	}
	if missingOutcomes > 0 {
		issues = append(issues, fmt.Sprintf("%d/%d games missing outcomes", missingOutcomes, total))
	}
	if missingTimestamps > 0 {
		issues = append(issues, fmt.Sprintf("%d events missing timestamps", missingTimestamps))
	}

	return failing("completeness", total, issues), nil
}

// freshnessWindow is the maximum age, per §4.11, a table's most recent
// ingestion may have before it's considered stale.
const freshnessWindow = 48 * time.Hour

// freshnessTables are the tables Freshness checks for a recent write.
var freshnessTables = []string{"games", "pbp_events", "outcomes", "team_player_stats"}

// Freshness checks that every table in freshnessTables has received a
// row within the last 48 hours.
func Freshness(ctx context.Context, q Queryer, now time.Time) (ValidationResult, error) {
	var issues []string
	cutoff := now.Add(-freshnessWindow)

	for _, table := range freshnessTables {
		sql := fmt.Sprintf(`SELECT MAX(ingested_at) FROM %s`, table)
		var lastIngested *time.Time
		if err := q.QueryRow(ctx, sql).Scan(&lastIngested); err != nil {
			return ValidationResult{}, fmt.Errorf("validate: freshness %s: %w", table, err)
		}
		if lastIngested == nil {
			issues = append(issues, fmt.Sprintf("%s: no rows ingested yet", table))
			continue
		}
		if lastIngested.Before(cutoff) {
			issues = append(issues, fmt.Sprintf("%s: last ingestion %s is older than %s", table, lastIngested.Format(time.RFC3339), freshnessWindow))
		}
	}

	return failing("freshness", len(freshnessTables), issues), nil
}

// consistencyTables are the derived tables whose team_tricode columns
// CrossTableConsistency reconciles against the owning game's tricodes.
var consistencyTables = []string{"team_player_stats", "schedule_travel_records"}

// CrossTableConsistency checks that every derived-table team_tricode
// matches one of its game's home/away tricodes.
func CrossTableConsistency(ctx context.Context, q Queryer, since time.Time) (ValidationResult, error) {
	var issues []string
	sampleSize := 0

	for _, table := range consistencyTables {
		sql := fmt.Sprintf(`
			SELECT d.game_id, d.team_tricode, COUNT(*) FROM %s d
			JOIN games g ON g.game_id = d.game_id
			WHERE g.ingested_at >= $1
			AND d.team_tricode NOT IN (g.home_tricode, g.away_tricode)
			GROUP BY d.game_id, d.team_tricode`, table)
		rows, err := q.Query(ctx, sql, since)
		if err != nil {
			return ValidationResult{}, fmt.Errorf("validate: cross-table consistency %s: %w", table, err)
		}
		err = scanRows(rows, func() error {
			var gameID, tricode string
			var count int
			if err := rows.Scan(&gameID, &tricode, &count); err != nil {
				return err
			}
			sampleSize += count
			issues = append(issues, fmt.Sprintf("%s: game %q has unexpected tricode %q (%d rows)", table, gameID, tricode, count))
			return nil
		})
		if err != nil {
			return ValidationResult{}, fmt.Errorf("validate: cross-table consistency %s: %w", table, err)
		}
	}

	return failing("cross_table_consistency", sampleSize, issues), nil
}

// scanRows runs fn for every row in rows, always closing rows and
// surfacing rows.Err() after the loop.
func scanRows(rows Rows, fn func() error) error {
	defer rows.Close()
	for rows.Next() {
		if err := fn(); err != nil {
			return err
		}
	}
	return rows.Err()
}
