// Package scheduletravel computes rest, travel, and circadian-disruption
// analytics for each team's chronological schedule.
package scheduletravel

import (
	"math"
	"sort"
	"time"

	"github.com/preston-bernstein/nba-ingest-core/internal/domain"
	"github.com/preston-bernstein/nba-ingest-core/internal/reference"
)

const earthRadiusKM = 6371.0

// longHaulThresholdKM and the 0.3 cap below match the reference
// transformer's distance-fatigue term.
const longHaulThresholdKM = 1000.0
const maxDistanceImpact = 0.3

// altitudeGainThresholdM and the 0.2 cap match the reference's
// altitude term.
const altitudeGainThresholdM = 1000.0
const maxAltitudeImpact = 0.2

const lateGameLocalHour = 22

// Transform computes one ScheduleTravelRow per (game, team) for every
// team appearing in games, except each team's first game of the set
// (there's no prior game to measure rest or travel against). games
// need not be pre-sorted; Transform groups and orders them internally.
func Transform(games []domain.Game, venues map[string]reference.Venue) []domain.ScheduleTravelRow {
	schedules := groupByTeam(games)

	var rows []domain.ScheduleTravelRow
	for team, teamGames := range schedules {
		sort.Slice(teamGames, func(i, j int) bool {
			return teamGames[i].StartTimeUTC.Before(teamGames[j].StartTimeUTC)
		})

		for i := 1; i < len(teamGames); i++ {
			row, ok := analyzeGame(teamGames[i], teamGames[:i], team, venues)
			if ok {
				rows = append(rows, row)
			}
		}
	}
	return rows
}

func groupByTeam(games []domain.Game) map[string][]domain.Game {
	schedules := map[string][]domain.Game{}
	for _, g := range games {
		schedules[g.HomeTricode] = append(schedules[g.HomeTricode], g)
		schedules[g.AwayTricode] = append(schedules[g.AwayTricode], g)
	}
	return schedules
}

// analyzeGame builds the travel row for a team's current game against
// its most recent previous game. ok is false when either game's venue
// is missing from the reference set.
func analyzeGame(current domain.Game, previous []domain.Game, team string, venues map[string]reference.Venue) (domain.ScheduleTravelRow, bool) {
	prev := previous[len(previous)-1]

	currentVenue, ok := venues[current.HomeTricode]
	if !ok {
		return domain.ScheduleTravelRow{}, false
	}
	prevVenue, ok := venues[prev.HomeTricode]
	if !ok {
		return domain.ScheduleTravelRow{}, false
	}

	daysRest := daysBetween(prev.StartTimeUTC, current.StartTimeUTC) - 1
	distanceKM := haversineKM(prevVenue.Lat, prevVenue.Lon, currentVenue.Lat, currentVenue.Lon)
	tzShift := timezoneShiftHours(prevVenue.TZ, currentVenue.TZ, current.StartTimeUTC)
	altitudeChange := currentVenue.AltitudeM - prevVenue.AltitudeM

	backToBack, threeInFour, fiveInSeven := schedulePatterns(current, previous)

	return domain.ScheduleTravelRow{
		GameID:           current.GameID,
		TeamTricode:      team,
		DaysRest:         daysRest,
		BackToBack:       backToBack,
		ThreeInFour:      threeInFour,
		FiveInSeven:      fiveInSeven,
		TimezoneShiftHrs: tzShift,
		CircadianIndex:   circadianIndex(tzShift, distanceKM, altitudeChange, daysRest, current.StartTimeUTC, currentVenue.TZ),
		AltitudeChangeM:  altitudeChange,
		HaversineKM:      distanceKM,
		PrevVenueLat:     prevVenue.Lat,
		PrevVenueLon:     prevVenue.Lon,
	}, true
}

func daysBetween(from, to time.Time) int {
	fromDate := from.UTC().Truncate(24 * time.Hour)
	toDate := to.UTC().Truncate(24 * time.Hour)
	return int(toDate.Sub(fromDate).Hours() / 24)
}

// schedulePatterns reports back-to-back, 3-in-4, and 5-in-7 flags for
// current against its most recent previous games.
func schedulePatterns(current domain.Game, previous []domain.Game) (backToBack, threeInFour, fiveInSeven bool) {
	last := previous[len(previous)-1]
	backToBack = daysBetween(last.StartTimeUTC, current.StartTimeUTC) == 1

	if len(previous) >= 2 {
		window := previous[len(previous)-2:]
		threeInFour = dateSpanDays(window, current) <= 4
	}
	if len(previous) >= 4 {
		window := previous[len(previous)-4:]
		fiveInSeven = dateSpanDays(window, current) <= 7
	}
	return backToBack, threeInFour, fiveInSeven
}

func dateSpanDays(window []domain.Game, current domain.Game) int {
	min, max := current.StartTimeUTC, current.StartTimeUTC
	for _, g := range window {
		if g.StartTimeUTC.Before(min) {
			min = g.StartTimeUTC
		}
		if g.StartTimeUTC.After(max) {
			max = g.StartTimeUTC
		}
	}
	return daysBetween(min, max) + 1
}

// haversineKM is the great-circle distance between two lat/lon points.
func haversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}
	lat1Rad, lon1Rad := lat1*math.Pi/180, lon1*math.Pi/180
	lat2Rad, lon2Rad := lat2*math.Pi/180, lon2*math.Pi/180

	dlat := lat2Rad - lat1Rad
	dlon := lon2Rad - lon1Rad

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Asin(math.Sqrt(a))
	return earthRadiusKM * c
}

// timezoneShiftHours returns the signed difference, in hours, between
// the two venues' actual UTC offsets at the instant of the game —
// unlike a hardcoded offset table, this reflects each zone's real DST
// state on that date. Unresolvable zones fall back to a zero offset
// rather than failing the whole computation.
func timezoneShiftHours(fromTZ, toTZ string, at time.Time) float64 {
	return utcOffsetHours(toTZ, at) - utcOffsetHours(fromTZ, at)
}

func utcOffsetHours(tz string, at time.Time) float64 {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return 0
	}
	_, offsetSec := at.In(loc).Zone()
	return float64(offsetSec) / 3600.0
}

// circadianIndex is the bounded composite disruption score: timezone
// shift (eastward weighted 1.5x), long-haul distance fatigue, rest
// recovery, late local tip-off after eastward travel, and altitude
// gain — each term matching the reference transformer's thresholds
// and caps.
func circadianIndex(tzShiftHrs, distanceKM, altitudeChangeM float64, daysRest int, gameStart time.Time, destTZ string) float64 {
	base := 0.0
	eastward := tzShiftHrs > 0

	if shift := math.Abs(tzShiftHrs); shift > 0 {
		tzImpact := math.Min(shift/3.0, 1.0)
		if eastward {
			tzImpact *= 1.5
		}
		base += tzImpact
	}

	if distanceKM > longHaulThresholdKM {
		base += math.Min(distanceKM/5000.0, maxDistanceImpact)
	}

	base *= restMultiplier(daysRest)

	if eastward && localHour(gameStart, destTZ) >= lateGameLocalHour {
		base *= 1.2
	}

	if altitudeChangeM > altitudeGainThresholdM {
		base += math.Min(altitudeChangeM/2000.0, maxAltitudeImpact)
	}

	return math.Max(0, math.Min(base, 1.0))
}

func restMultiplier(daysRest int) float64 {
	switch {
	case daysRest <= 0:
		return 1.5
	case daysRest == 1:
		return 1.0
	case daysRest >= 3:
		return 0.5
	default:
		return 0.8
	}
}

func localHour(at time.Time, tz string) int {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return at.UTC().Hour()
	}
	return at.In(loc).Hour()
}
