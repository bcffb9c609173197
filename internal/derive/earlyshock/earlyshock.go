// Package earlyshock detects disruptive events in the first 6:00 of Q1:
// a player picking up two early personal fouls, a technical or flagrant
// foul, or a player leaving the game after an apparent injury and not
// returning for several possessions.
package earlyshock

import (
	"sort"
	"strings"

	"github.com/preston-bernstein/nba-ingest-core/internal/domain"
	"github.com/preston-bernstein/nba-ingest-core/internal/transform/pbpwindows"
)

// earlyFoulThresholdSec is the elapsed-time cutoff for the
// two-personal-fouls-early detector, matching the reference
// transformer's 6:00 default.
const earlyFoulThresholdSec = 360.0

// minAbsentPossessions is how many possessions a player must miss after
// an apparent injury for the absence to count as a confirmed shock.
const minAbsentPossessions = 6

var injuryKeywords = []string{"injury", "hurt", "twisted", "sprain", "strain", "collision"}

// Detect runs every shock detector over a game's Q1 events and returns
// every confirmed shock, in no particular cross-detector order.
func Detect(game domain.Game, events []domain.PbpEvent) []domain.EarlyShockRow {
	q1 := q1Events(events)
	if len(q1) == 0 {
		return nil
	}

	changes := possessionChangeCounts(game.HomeTricode, game.AwayTricode, q1)

	var shocks []domain.EarlyShockRow
	shocks = append(shocks, detectTwoFoulsEarly(q1, changes)...)
	shocks = append(shocks, detectTechnicals(q1, changes)...)
	shocks = append(shocks, detectFlagrants(q1, changes)...)
	shocks = append(shocks, detectInjuryLeaves(q1, changes)...)
	return shocks
}

func q1Events(events []domain.PbpEvent) []domain.PbpEvent {
	out := make([]domain.PbpEvent, 0, len(events))
	for _, e := range events {
		if e.Period == 1 {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventIdx < out[j].EventIdx })
	return out
}

// possessionChangeCounts returns, for every Q1 event index, the
// cumulative possession-change count after processing events up to and
// including that index, so possessions elapsed between two points is a
// simple subtraction.
func possessionChangeCounts(homeTricode, awayTricode string, q1 []domain.PbpEvent) map[int]int {
	tracker := pbpwindows.NewPossessionTracker(homeTricode, awayTricode)
	counts := make(map[int]int, len(q1))
	for _, e := range q1 {
		tracker.Update(e)
		counts[e.EventIdx] = tracker.PossessionChanges
	}
	return counts
}

func possessionsSince(q1 []domain.PbpEvent, changes map[int]int, eventIdx int) int {
	if len(q1) == 0 {
		return 0
	}
	total := changes[q1[len(q1)-1].EventIdx]
	at, ok := changes[eventIdx]
	if !ok {
		return 0
	}
	return total - at
}

type foulTracker struct {
	seconds  []float64
	eventIdx []int
}

func detectTwoFoulsEarly(q1 []domain.PbpEvent, changes map[int]int) []domain.EarlyShockRow {
	var shocks []domain.EarlyShockRow
	fouls := map[string]*foulTracker{}

	for _, e := range q1 {
		if e.Type != domain.EventFoul {
			continue
		}
		player := e.Participants[0].Slug
		if player == "" || e.TeamTricode == "" {
			continue
		}
		if e.Clock.SecondsElapsed > earlyFoulThresholdSec {
			continue
		}

		t, ok := fouls[player]
		if !ok {
			t = &foulTracker{}
			fouls[player] = t
		}
		t.seconds = append(t.seconds, e.Clock.SecondsElapsed)
		t.eventIdx = append(t.eventIdx, e.EventIdx)

		if len(t.seconds) == 2 {
			shocks = append(shocks, domain.EarlyShockRow{
				GameID:             q1[0].GameID,
				ShockType:          domain.ShockTwoPersonalFoulsEarly,
				Period:             1,
				SecondsElapsed:     e.Clock.SecondsElapsed,
				PlayerSlug:         player,
				SequenceNumber:     1,
				EventIdxStart:      t.eventIdx[0],
				EventIdxEnd:        t.eventIdx[1],
				FollowedBySub:      immediateSub(q1, changes, e.EventIdx, player),
				PossessionsElapsed: possessionsSince(q1, changes, e.EventIdx),
			})
		}
	}
	return shocks
}

func detectTechnicals(q1 []domain.PbpEvent, changes map[int]int) []domain.EarlyShockRow {
	var shocks []domain.EarlyShockRow
	seq := map[string]int{}

	for _, e := range q1 {
		if e.Type != domain.EventTechnical {
			continue
		}
		player := e.Participants[0].Slug
		if player == "" {
			player = "TEAM"
		}

		key := e.TeamTricode + "|" + player
		seq[key]++

		followedBySub := false
		if player != "TEAM" {
			followedBySub = immediateSub(q1, changes, e.EventIdx, player)
		}

		shocks = append(shocks, domain.EarlyShockRow{
			GameID:             q1[0].GameID,
			ShockType:          domain.ShockTechnical,
			Period:             1,
			SecondsElapsed:     e.Clock.SecondsElapsed,
			PlayerSlug:         player,
			SequenceNumber:     seq[key],
			EventIdxStart:      e.EventIdx,
			FollowedBySub:      followedBySub,
			PossessionsElapsed: possessionsSince(q1, changes, e.EventIdx),
		})
	}
	return shocks
}

func detectFlagrants(q1 []domain.PbpEvent, changes map[int]int) []domain.EarlyShockRow {
	var shocks []domain.EarlyShockRow
	seq := map[string]int{}

	for _, e := range q1 {
		if e.Type != domain.EventFlagrant {
			continue
		}
		player := e.Participants[0].Slug
		if player == "" || e.TeamTricode == "" {
			continue
		}

		key := e.TeamTricode + "|" + player
		seq[key]++

		shocks = append(shocks, domain.EarlyShockRow{
			GameID:             q1[0].GameID,
			ShockType:          domain.ShockFlagrant,
			Period:             1,
			SecondsElapsed:     e.Clock.SecondsElapsed,
			PlayerSlug:         player,
			SequenceNumber:     seq[key],
			EventIdxStart:      e.EventIdx,
			FollowedBySub:      immediateSub(q1, changes, e.EventIdx, player),
			PossessionsElapsed: possessionsSince(q1, changes, e.EventIdx),
		})
	}
	return shocks
}

func detectInjuryLeaves(q1 []domain.PbpEvent, changes map[int]int) []domain.EarlyShockRow {
	var shocks []domain.EarlyShockRow

	for _, e := range q1 {
		if !looksLikeInjury(e.Description) {
			continue
		}
		player := e.Participants[0].Slug
		if player == "" || e.TeamTricode == "" {
			continue
		}

		lastSeen := lastAppearance(q1, e.EventIdx, player)
		absentFrom := e.EventIdx
		if lastSeen != 0 {
			absentFrom = lastSeen
		}
		possessionsAbsent := possessionsSince(q1, changes, absentFrom)
		if possessionsAbsent < minAbsentPossessions {
			continue
		}

		shocks = append(shocks, domain.EarlyShockRow{
			GameID:             q1[0].GameID,
			ShockType:          domain.ShockInjuryLeave,
			Period:             1,
			SecondsElapsed:     e.Clock.SecondsElapsed,
			PlayerSlug:         player,
			SequenceNumber:     1,
			EventIdxStart:      e.EventIdx,
			EventIdxEnd:        lastSeen,
			FollowedBySub:      immediateSub(q1, changes, e.EventIdx, player),
			PossessionsElapsed: possessionsAbsent,
		})
	}
	return shocks
}

func looksLikeInjury(description string) bool {
	if description == "" {
		return false
	}
	lower := strings.ToLower(description)
	for _, kw := range injuryKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// lastAppearance returns the highest event index after afterEventIdx in
// which player appears as any of the event's three participants, or 0
// if the player never appears again.
func lastAppearance(q1 []domain.PbpEvent, afterEventIdx int, player string) int {
	last := 0
	for _, e := range q1 {
		if e.EventIdx <= afterEventIdx {
			continue
		}
		for _, p := range e.Participants {
			if p.Slug == player {
				last = e.EventIdx
				break
			}
		}
	}
	return last
}

// immediateSub reports whether player was substituted out within the
// next possession after eventIdx. Participants[0] on a substitution
// event is the player leaving the game, matching vendor convention
// (player-out, player-in).
func immediateSub(q1 []domain.PbpEvent, changes map[int]int, eventIdx int, player string) bool {
	startIdx := indexOfEvent(q1, eventIdx)
	if startIdx == -1 {
		return false
	}
	baseline := changes[eventIdx]

	for i := startIdx + 1; i < len(q1); i++ {
		e := q1[i]
		if changes[e.EventIdx]-baseline > 1 {
			break
		}
		if e.Type == domain.EventSubstitution && e.Participants[0].Slug == player {
			return true
		}
	}
	return false
}

func indexOfEvent(q1 []domain.PbpEvent, eventIdx int) int {
	for i, e := range q1 {
		if e.EventIdx == eventIdx {
			return i
		}
	}
	return -1
}
