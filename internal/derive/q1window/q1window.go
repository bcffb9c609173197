// Package q1window computes per-team efficiency analytics over the
// 12:00->8:00 window of the first quarter.
package q1window

import (
	"sort"
	"strings"

	"github.com/preston-bernstein/nba-ingest-core/internal/domain"
	"github.com/preston-bernstein/nba-ingest-core/internal/transform/pbpwindows"
)

// windowStartMS/windowEndMS bound the 12:00->8:00 clock-remaining
// window in milliseconds; windowEndSec is the same upper edge expressed
// as seconds elapsed, used for bonus-time and pace arithmetic.
const (
	windowStartMS = 720000
	windowEndMS   = 480000
	windowEndSec  = 240.0

	// expectedPace48 is the league-average-pace benchmark possessions are
	// compared against; there's no per-season feed for this in scope, so
	// a fixed constant stands in, matching the reference transformer's
	// own hardcoded default.
	expectedPace48 = 100.0

	// foulsForBonus is the team personal-foul count in a quarter that
	// puts the opponent in the bonus.
	foulsForBonus = 4
)

type teamStats struct {
	tricode string

	fgm, fga       int
	tpm, tpa       int
	ftm, fta       int
	oreb, dreb     int
	tov            int
	personalFouls  int
	points         int

	foulsInQuarter  int
	bonusStartedSec float64
	inBonus         bool

	transitionEvents int
	earlyClockEvents int
	totalEvents      int
}

func (s *teamStats) effectiveFGPct() float64 {
	if s.fga == 0 {
		return 0
	}
	return (float64(s.fgm) + 0.5*float64(s.tpm)) / float64(s.fga)
}

func (s *teamStats) turnoverRate(possessions int) float64 {
	if possessions == 0 {
		return 0
	}
	return float64(s.tov) / float64(possessions)
}

func (s *teamStats) freeThrowRate() float64 {
	if s.fga == 0 {
		return 0
	}
	return float64(s.fta) / float64(s.fga)
}

func (s *teamStats) bonusTimeSeconds() float64 {
	if !s.inBonus {
		return 0
	}
	remaining := windowEndSec - s.bonusStartedSec
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *teamStats) transitionRate() float64 {
	if s.totalEvents == 0 {
		return 0
	}
	return float64(s.transitionEvents) / float64(s.totalEvents)
}

func (s *teamStats) earlyClockRate() float64 {
	if s.totalEvents == 0 {
		return 0
	}
	return float64(s.earlyClockEvents) / float64(s.totalEvents)
}

func reboundPct(teamReb, oppReb int) float64 {
	total := teamReb + oppReb
	if total == 0 {
		return 0
	}
	return float64(teamReb) / float64(total)
}

// Transform computes one Q1WindowRow per team (home and away) from a
// game's full PBP event slice. Events outside Q1's 12:00->8:00 window,
// or outside Q1 entirely, are ignored. Returns nil if no event falls in
// the window.
func Transform(game domain.Game, events []domain.PbpEvent) []domain.Q1WindowRow {
	windowed := make([]domain.PbpEvent, 0, len(events))
	for _, e := range events {
		if e.Period != 1 {
			continue
		}
		if !pbpwindows.IsInClockWindow(e.Clock.RemainingMS, windowStartMS, windowEndMS) {
			continue
		}
		windowed = append(windowed, e)
	}
	if len(windowed) == 0 {
		return nil
	}

	sort.Slice(windowed, func(i, j int) bool { return windowed[i].EventIdx < windowed[j].EventIdx })
	windowed = dedupe(windowed)

	stats := map[string]*teamStats{
		game.HomeTricode: {tricode: game.HomeTricode},
		game.AwayTricode: {tricode: game.AwayTricode},
	}
	for _, e := range windowed {
		s, ok := stats[e.TeamTricode]
		if !ok {
			continue
		}
		applyEvent(s, e)
	}

	possessions := pbpwindows.EstimatePossessions(windowed)
	teamPossessions := possessions / 2
	if teamPossessions < 1 {
		teamPossessions = 1
	}

	windowMinutes := (windowStartMS - windowEndMS) / 1000.0 / 60.0
	pace48 := 0.0
	if windowMinutes > 0 {
		pace48 = (float64(possessions) / windowMinutes) * 48.0
	}

	home := stats[game.HomeTricode]
	away := stats[game.AwayTricode]

	return []domain.Q1WindowRow{
		q1Row(game.GameID, home, away, possessions, teamPossessions, pace48),
		q1Row(game.GameID, away, home, possessions, teamPossessions, pace48),
	}
}

func q1Row(gameID string, team, opp *teamStats, possessions, teamPossessions int, pace48 float64) domain.Q1WindowRow {
	return domain.Q1WindowRow{
		GameID:           gameID,
		TeamTricode:      team.tricode,
		Possessions:      float64(possessions),
		ActualPace48:     pace48,
		ExpectedPace48:   expectedPace48,
		EffectiveFGPct:   team.effectiveFGPct(),
		TurnoverRate:     team.turnoverRate(teamPossessions),
		FreeThrowRate:    team.freeThrowRate(),
		OffReboundPct:    reboundPct(team.oreb, opp.dreb),
		DefReboundPct:    reboundPct(team.dreb, opp.oreb),
		BonusTimeSeconds: team.bonusTimeSeconds(),
		TransitionRate:   team.transitionRate(),
		EarlyClockRate:   team.earlyClockRate(),
	}
}

func applyEvent(s *teamStats, e domain.PbpEvent) {
	s.totalEvents++
	if e.Situation.Transition {
		s.transitionEvents++
	}
	if e.Situation.EarlyClock {
		s.earlyClockEvents++
	}

	switch e.Type {
	case domain.EventShot:
		s.fga++
		if e.Shot != nil {
			if e.Shot.Made {
				s.fgm++
				s.points += e.Shot.Value
			}
			if e.Shot.Value == 3 {
				s.tpa++
				if e.Shot.Made {
					s.tpm++
				}
			}
		}
	case domain.EventFreeThrow:
		s.fta++
		if e.Shot != nil && e.Shot.Made {
			s.ftm++
			s.points++
		}
	case domain.EventRebound:
		if isOffensiveRebound(e) {
			s.oreb++
		} else {
			s.dreb++
		}
	case domain.EventTurnover:
		s.tov++
	case domain.EventFoul:
		s.personalFouls++
		s.foulsInQuarter++
		if s.foulsInQuarter >= foulsForBonus && !s.inBonus {
			s.inBonus = true
			s.bonusStartedSec = e.Clock.SecondsElapsed
		}
	}
}

func isOffensiveRebound(e domain.PbpEvent) bool {
	return strings.Contains(strings.ToLower(e.Subtype), "offensive")
}

// dedupe drops consecutive events identical on (period, clock remaining
// ms, event type, team), keeping the first occurrence — vendors
// sometimes emit the same clock tick twice across a page boundary.
func dedupe(events []domain.PbpEvent) []domain.PbpEvent {
	out := make([]domain.PbpEvent, 0, len(events))
	for _, e := range events {
		if len(out) > 0 {
			prev := out[len(out)-1]
			if prev.Period == e.Period && prev.Clock.RemainingMS == e.Clock.RemainingMS &&
				prev.Type == e.Type && prev.TeamTricode == e.TeamTricode {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}
