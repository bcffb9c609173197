// Package complete implements the completeness gate derived loaders
// consult before writing a Q1/shock/travel row for a game: a game whose
// raw ingestion hasn't landed enough of the prerequisite data yet is
// skipped rather than derived from a partial picture.
package complete

import (
	"context"
	"fmt"

	"github.com/preston-bernstein/nba-ingest-core/internal/domain"
	"github.com/preston-bernstein/nba-ingest-core/internal/transform"
)

// minPbpEvents is the floor below which a game's play-by-play is
// considered too sparse to derive anything meaningful from, per spec.
const minPbpEvents = 400

// minSecondsElapsedCoverage is the minimum share of a game's expected
// duration that must be accounted for by observed PBP event timestamps.
const minSecondsElapsedCoverage = 0.75

// Row is the one method GameIsComplete needs from pgx.Row.
type Row interface {
	Scan(dest ...any) error
}

// Rows is the narrow slice of pgx.Rows's surface GameIsComplete needs. A
// real *pgx.Rows satisfies this directly (its own method set is a
// superset), the same interface-narrowing the load package uses for
// pgx.Tx.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Queryer is the read-only subset of pgx's Tx/Pool/Conn surface
// GameIsComplete needs. Because pgx's QueryRow/Query return pgx.Row and
// pgx.Rows rather than Row/Rows, a *pgxpool.Pool is wrapped with
// NewPoolQueryer to satisfy it.
type Queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) Row
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// GameIsComplete reports whether game's stored rows clear the
// completeness gate, and why not when they don't. On a database error it
// returns ok=true so a transient failure never silently blocks derived
// analytics forever; the error is returned separately for the caller to
// log, per the "proceed cautiously" rule.
func GameIsComplete(ctx context.Context, q Queryer, gameID string) (ok bool, reasons []string, err error) {
	status, finalPeriod, err := gameStatus(ctx, q, gameID)
	if err != nil {
		return true, nil, fmt.Errorf("complete: load game status: %w", err)
	}
	if status != string(domain.StatusFinal) {
		reasons = append(reasons, "status is not final")
	}

	hasOutcome, err := outcomeExists(ctx, q, gameID)
	if err != nil {
		return true, nil, fmt.Errorf("complete: check outcome: %w", err)
	}
	if !hasOutcome {
		reasons = append(reasons, "no Q1 boxscore (outcomes row missing)")
	}

	eventCount, err := pbpEventCount(ctx, q, gameID)
	if err != nil {
		return true, nil, fmt.Errorf("complete: count pbp events: %w", err)
	}
	if eventCount < minPbpEvents {
		reasons = append(reasons, fmt.Sprintf("only %d pbp events, need >= %d", eventCount, minPbpEvents))
	}

	periodMaxSeconds, err := periodCoverage(ctx, q, gameID)
	if err != nil {
		return true, nil, fmt.Errorf("complete: load period coverage: %w", err)
	}

	expectedPeriods := finalPeriod
	if expectedPeriods < 4 {
		expectedPeriods = 4
	}
	for p := 1; p <= expectedPeriods; p++ {
		if _, ok := periodMaxSeconds[p]; !ok {
			reasons = append(reasons, fmt.Sprintf("no pbp events for period %d", p))
		}
	}

	coverage := secondsElapsedCoverage(expectedPeriods, periodMaxSeconds)
	if coverage < minSecondsElapsedCoverage {
		reasons = append(reasons, fmt.Sprintf("seconds-elapsed coverage %.0f%%, need >= %.0f%%", coverage*100, minSecondsElapsedCoverage*100))
	}

	return len(reasons) == 0, reasons, nil
}

func gameStatus(ctx context.Context, q Queryer, gameID string) (status string, period int, err error) {
	row := q.QueryRow(ctx, "SELECT status, period FROM games WHERE game_id = $1", gameID)
	if err := row.Scan(&status, &period); err != nil {
		return "", 0, err
	}
	return status, period, nil
}

func outcomeExists(ctx context.Context, q Queryer, gameID string) (bool, error) {
	var exists bool
	row := q.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM outcomes WHERE game_id = $1)", gameID)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func pbpEventCount(ctx context.Context, q Queryer, gameID string) (int, error) {
	var count int
	row := q.QueryRow(ctx, "SELECT COUNT(*) FROM pbp_events WHERE game_id = $1", gameID)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// periodCoverage returns, for every period with at least one PBP event,
// the maximum seconds_elapsed value observed in that period.
func periodCoverage(ctx context.Context, q Queryer, gameID string) (map[int]float64, error) {
	rows, err := q.Query(ctx, "SELECT period, MAX(seconds_elapsed) FROM pbp_events WHERE game_id = $1 GROUP BY period", gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int]float64{}
	for rows.Next() {
		var period int
		var maxSeconds float64
		if err := rows.Scan(&period, &maxSeconds); err != nil {
			return nil, err
		}
		out[period] = maxSeconds
	}
	return out, rows.Err()
}

// secondsElapsedCoverage divides the seconds actually accounted for (the
// latest seconds_elapsed seen in each expected period, capped at that
// period's length) by the game's total expected duration.
func secondsElapsedCoverage(expectedPeriods int, periodMaxSeconds map[int]float64) float64 {
	var expectedMS, coveredMS float64
	for p := 1; p <= expectedPeriods; p++ {
		periodLen := float64(transform.PeriodLengthMS(p))
		expectedMS += periodLen
		if seconds, ok := periodMaxSeconds[p]; ok {
			covered := seconds * 1000
			if covered > periodLen {
				covered = periodLen
			}
			coveredMS += covered
		}
	}
	if expectedMS == 0 {
		return 0
	}
	return coveredMS / expectedMS
}
