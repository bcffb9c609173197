package transform

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/preston-bernstein/nba-ingest-core/internal/logging"
)

const dateLayout = "2006-01-02"

// DeriveLocalDate resolves the arena-local calendar date for a game. When
// the vendor supplies its own local date string, that value is preferred;
// it is cross-checked against the UTC-to-arena-timezone conversion and any
// mismatch of more than one day is treated as a data error rather than
// silently overwritten. A same-day or one-day mismatch (the UTC game
// clock crossing midnight relative to the arena) is logged and the
// supplied date wins.
func DeriveLocalDate(startTimeUTC time.Time, arenaTZ string, suppliedDate string) (string, error) {
	loc, err := time.LoadLocation(arenaTZ)
	if err != nil {
		return "", fmt.Errorf("transform: unknown arena timezone %q: %w", arenaTZ, err)
	}
	derived := startTimeUTC.In(loc).Format(dateLayout)

	if suppliedDate == "" {
		return derived, nil
	}
	if suppliedDate == derived {
		return suppliedDate, nil
	}

	diffDays, err := dayDistance(suppliedDate, derived)
	if err != nil {
		return "", fmt.Errorf("transform: invalid supplied date %q: %w", suppliedDate, err)
	}
	if diffDays > 1 {
		return "", fmt.Errorf("transform: supplied date %q disagrees with arena-local derivation %q by %d days", suppliedDate, derived, diffDays)
	}

	logging.Warn(nil, "transform: supplied date differs from arena-local derivation by one day", "supplied", suppliedDate, "derived", derived)
	return suppliedDate, nil
}

func dayDistance(a, b string) (int, error) {
	ta, err := time.Parse(dateLayout, a)
	if err != nil {
		return 0, err
	}
	tb, err := time.Parse(dateLayout, b)
	if err != nil {
		return 0, err
	}
	hours := ta.Sub(tb).Hours()
	return int(math.Abs(hours) / 24), nil
}

// DeriveSeason derives a season's starting year from a vendor game ID's
// season digits at positions 1-3 (e.g. "0022300123"[1:4] == "022" -> 2022)
// when present, else falls back to the month of the UTC start time:
// October through December belongs to the season starting that year,
// January through September belongs to the season that started the
// previous year.
func DeriveSeason(gameID string, startTimeUTC time.Time) (int, error) {
	if len(gameID) >= 4 {
		if yyy, err := strconv.Atoi(gameID[1:4]); err == nil {
			return 2000 + yyy, nil
		}
	}

	year := startTimeUTC.Year()
	if startTimeUTC.Month() >= time.October {
		return year, nil
	}
	return year - 1, nil
}
