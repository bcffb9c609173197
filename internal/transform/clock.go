package transform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/preston-bernstein/nba-ingest-core/internal/domain"
	"github.com/preston-bernstein/nba-ingest-core/internal/logging"
)

const (
	regulationPeriodMS = 720000
	overtimePeriodMS   = 300000
)

// PeriodLengthMS returns a period's full length: 12 minutes for
// regulation (periods 1-4), 5 minutes for any overtime period.
func PeriodLengthMS(period int) int {
	if period <= 4 {
		return regulationPeriodMS
	}
	return overtimePeriodMS
}

var (
	minSecPattern   = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?:\.(\d{1,3}))?$`)
	isoClockPattern = regexp.MustCompile(`^PT(?:(\d+)M)?(?:([\d.]+)S)?$`)
)

// ParseClock parses a clock string in M:SS, MM:SS, MM:SS.fff, or
// PT<m>M<s>S form into a domain.Clock. remaining-ms going negative after
// parsing is auto-flipped to its absolute value once (a defensive
// off-by-one guard for vendor data) and logged rather than rejected.
func ParseClock(period int, display string) (domain.Clock, error) {
	display = strings.TrimSpace(display)
	remainingMS, err := parseRemainingMS(display)
	if err != nil {
		return domain.Clock{}, err
	}

	if remainingMS < 0 {
		logging.Warn(nil, "transform: negative clock remaining, auto-flipping", "display", display, "remaining_ms", remainingMS)
		remainingMS = -remainingMS
	}

	elapsed := float64(PeriodLengthMS(period)-remainingMS) / 1000.0
	return domain.Clock{
		Display:        display,
		RemainingMS:    remainingMS,
		SecondsElapsed: elapsed,
	}, nil
}

func parseRemainingMS(display string) (int, error) {
	if m := minSecPattern.FindStringSubmatch(display); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		seconds, _ := strconv.Atoi(m[2])
		ms := 0
		if m[3] != "" {
			frac := m[3]
			for len(frac) < 3 {
				frac += "0"
			}
			ms, _ = strconv.Atoi(frac[:3])
		}
		return minutes*60000 + seconds*1000 + ms, nil
	}

	if m := isoClockPattern.FindStringSubmatch(display); m != nil && (m[1] != "" || m[2] != "") {
		minutes := 0
		if m[1] != "" {
			minutes, _ = strconv.Atoi(m[1])
		}
		seconds := 0.0
		if m[2] != "" {
			seconds, _ = strconv.ParseFloat(m[2], 64)
		}
		return minutes*60000 + int(seconds*1000), nil
	}

	return 0, fmt.Errorf("transform: unrecognized clock format %q", display)
}
