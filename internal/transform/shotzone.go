package transform

import "github.com/preston-bernstein/nba-ingest-core/internal/domain"

const (
	restrictedAreaFeet = 4.0
	paintFeet          = 10.0
	midRangeFeet       = 23.0
	cornerThreeFeetX   = 22.0 // absolute x beyond which a three from near the baseline is a corner three
)

// ClassifyShotZone buckets a shot by its distance from the basket and,
// for threes, by whether it falls in the corner pocket (tight to the
// sideline) or the arc above the break.
func ClassifyShotZone(distanceFt float64, x float64) domain.ShotZone {
	switch {
	case distanceFt <= restrictedAreaFeet:
		return domain.ZoneRestrictedArea
	case distanceFt <= paintFeet:
		return domain.ZonePaint
	case distanceFt <= midRangeFeet:
		return domain.ZoneMidRange
	}

	absX := x
	if absX < 0 {
		absX = -absX
	}
	if absX >= cornerThreeFeetX {
		return domain.ZoneCornerThree
	}
	return domain.ZoneAboveBreakThree
}
