// Package providers wires a concrete vendor's sourceclient, extract,
// preprocess, and transform layers into one pipeline.Source, the way the
// teacher's internal/providers package wires balldontlie into a
// GameProvider. Each provider owns the translation from one vendor's raw
// resultSet shape to the canonical domain rows; the pipeline layer never
// imports a vendor-specific client directly.
package providers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/nba-ingest-core/internal/domain"
	"github.com/preston-bernstein/nba-ingest-core/internal/extract"
	"github.com/preston-bernstein/nba-ingest-core/internal/load"
	"github.com/preston-bernstein/nba-ingest-core/internal/logging"
	"github.com/preston-bernstein/nba-ingest-core/internal/metrics"
	"github.com/preston-bernstein/nba-ingest-core/internal/preprocess"
	"github.com/preston-bernstein/nba-ingest-core/internal/reference"
	"github.com/preston-bernstein/nba-ingest-core/internal/sourceclient"
	"github.com/preston-bernstein/nba-ingest-core/internal/sourceclient/nbastats"
	"github.com/preston-bernstein/nba-ingest-core/internal/transform"
)

const nbaStatsSourceName = "nba_stats"

const defaultArenaTZ = "America/New_York"

// nbaStatsClient is the slice of nbastats.Client this provider needs,
// narrowed so fakes don't have to implement Shots (not called here: shot
// rows are derived from PBP by load.GameLoader, per GameRows having no
// separate Shots field).
type nbaStatsClient interface {
	Scoreboard(ctx context.Context, date string) (sourceclient.ResponseTree, error)
	Boxscore(ctx context.Context, gameID string) (sourceclient.ResponseTree, error)
	PBP(ctx context.Context, gameID string) (sourceclient.ResponseTree, error)
	Lineups(ctx context.Context, gameID string) (sourceclient.ResponseTree, error)
}

var _ nbaStatsClient = (*nbastats.Client)(nil)

// NBAStatsSource implements pipeline.Source (and pipeline.DateGameProvider,
// via GamesForDate) against stats.nba.com-shaped JSON endpoints.
type NBAStatsSource struct {
	client  nbaStatsClient
	aliases *reference.AliasTable
	venues  map[string]reference.Venue
	rec     *metrics.Recorder
}

// NewNBAStatsSource builds a Source that composes an nbastats.Client with
// the shared extract/preprocess/transform layers.
func NewNBAStatsSource(client nbaStatsClient, aliases *reference.AliasTable, venues map[string]reference.Venue, rec *metrics.Recorder) *NBAStatsSource {
	return &NBAStatsSource{client: client, aliases: aliases, venues: venues, rec: rec}
}

func (s *NBAStatsSource) Name() string { return nbaStatsSourceName }

// FetchGame fetches, extracts, preprocesses, and transforms one game's
// full row set. Scope intentionally left for a follow-up pass: starting
// lineups (boxscoresummaryv2's LineScore is a per-team score line, not a
// starters list), injury snapshots, the game ID crosswalk, shot
// coordinates (stats.nba.com's play-by-play carries no x/y; those live
// behind the separate shot-chart endpoint this Source does not call
// since GameRows has no Shots field), and advanced box score rates
// (boxscoreadvancedv2 is a different endpoint this client doesn't
// expose) are left at their zero value.
func (s *NBAStatsSource) FetchGame(ctx context.Context, gameID string) (load.GameRows, error) {
	summaryTree, err := s.client.Lineups(ctx, gameID)
	if err != nil {
		return load.GameRows{}, fmt.Errorf("providers: nba_stats: fetch game summary: %w", err)
	}

	game, referees, err := s.transformGameSummary(summaryTree, gameID)
	if err != nil {
		return load.GameRows{}, err
	}

	boxTree, err := s.client.Boxscore(ctx, gameID)
	if err != nil {
		return load.GameRows{}, fmt.Errorf("providers: nba_stats: fetch boxscore: %w", err)
	}
	stats, err := s.transformBoxscore(boxTree, gameID)
	if err != nil {
		return load.GameRows{}, err
	}

	pbpTree, err := s.client.PBP(ctx, gameID)
	if err != nil {
		return load.GameRows{}, fmt.Errorf("providers: nba_stats: fetch pbp: %w", err)
	}
	events, err := s.transformPBP(pbpTree, gameID)
	if err != nil {
		return load.GameRows{}, err
	}

	return load.GameRows{
		Game:     game,
		Referees: referees,
		PBP:      events,
		Stats:    stats,
		Outcome:  deriveOutcome(gameID, events),
	}, nil
}

// GamesForDate satisfies pipeline.DateGameProvider, resolving a calendar
// date to the game IDs stats.nba.com's scoreboard reports for it.
func (s *NBAStatsSource) GamesForDate(ctx context.Context, date string) ([]string, error) {
	tree, err := s.client.Scoreboard(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("providers: nba_stats: fetch scoreboard: %w", err)
	}
	rows, err := extract.NBAStatsScoreboard(tree)
	if err != nil {
		return nil, fmt.Errorf("providers: nba_stats: extract scoreboard: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if id, ok := preprocess.ToStringOrNone(row["GAME_ID"]); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *NBAStatsSource) transformGameSummary(tree sourceclient.ResponseTree, gameID string) (domain.Game, []domain.Referee, error) {
	summaryRows, err := extract.NBAStatsGameSummary(tree)
	if err != nil {
		return domain.Game{}, nil, fmt.Errorf("providers: nba_stats: extract game summary: %w", err)
	}
	if len(summaryRows) == 0 {
		return domain.Game{}, nil, fmt.Errorf("providers: nba_stats: game %s: no GameSummary row", gameID)
	}
	summary := summaryRows[0]

	lineRows, err := extract.NBAStatsLineups(tree)
	if err != nil {
		return domain.Game{}, nil, fmt.Errorf("providers: nba_stats: extract line score: %w", err)
	}
	abbrevByTeamID := make(map[string]string, len(lineRows))
	for _, row := range lineRows {
		teamID, _ := preprocess.ToStringOrNone(row["TEAM_ID"])
		abbrev, _ := preprocess.ToStringOrNone(row["TEAM_ABBREVIATION"])
		if teamID != "" && abbrev != "" {
			abbrevByTeamID[teamID] = abbrev
		}
	}

	homeTeamID, _ := preprocess.ToStringOrNone(summary["HOME_TEAM_ID"])
	awayTeamID, _ := preprocess.ToStringOrNone(summary["VISITOR_TEAM_ID"])
	homeTricode, err := transform.ResolveTricode(s.aliases, abbrevByTeamID[homeTeamID])
	if err != nil {
		return domain.Game{}, nil, fmt.Errorf("providers: nba_stats: game %s: %w", gameID, err)
	}
	awayTricode, err := transform.ResolveTricode(s.aliases, abbrevByTeamID[awayTeamID])
	if err != nil {
		return domain.Game{}, nil, fmt.Errorf("providers: nba_stats: game %s: %w", gameID, err)
	}

	arenaTZ := s.arenaTimezone(homeTeamID)

	suppliedDate, _ := preprocess.ToStringOrNone(summary["GAME_DATE_EST"])
	startTimeUTC := gameDateToUTC(suppliedDate)
	suppliedDateOnly := ""
	if len(suppliedDate) >= 10 {
		suppliedDateOnly = suppliedDate[:10]
	}
	arenaDate, err := transform.DeriveLocalDate(startTimeUTC, arenaTZ, suppliedDateOnly)
	if err != nil {
		return domain.Game{}, nil, fmt.Errorf("providers: nba_stats: game %s: %w", gameID, err)
	}

	season, err := transform.DeriveSeason(gameID, startTimeUTC)
	if err != nil {
		return domain.Game{}, nil, fmt.Errorf("providers: nba_stats: game %s: %w", gameID, err)
	}

	period, _ := preprocess.ToIntOrNone(summary["LIVE_PERIOD"])
	statusText, _ := preprocess.ToStringOrNone(summary["GAME_STATUS_TEXT"])

	game := domain.Game{
		GameID:       gameID,
		Season:       strconv.Itoa(season),
		StartTimeUTC: startTimeUTC,
		ArenaDate:    arenaDate,
		ArenaTZ:      arenaTZ,
		HomeTricode:  homeTricode,
		AwayTricode:  awayTricode,
		Status:       classifyGameStatus(statusText),
		Period:       period,
		Provenance: domain.Provenance{
			Source:    nbaStatsSourceName,
			URL:       tree.Endpoint,
			IngestsAt: tree.FetchedAt,
		},
	}

	officialRows, err := extract.NBAStatsOfficials(tree)
	if err != nil {
		return domain.Game{}, nil, fmt.Errorf("providers: nba_stats: extract officials: %w", err)
	}
	referees := make([]domain.Referee, 0, len(officialRows))
	for i, row := range officialRows {
		first, _ := preprocess.ToStringOrNone(row["FIRST_NAME"])
		last, _ := preprocess.ToStringOrNone(row["LAST_NAME"])
		if first == "" && last == "" {
			continue
		}
		name := strings.TrimSpace(first + " " + last)
		role := domain.RoleReferee
		if i == 0 {
			role = domain.RoleCrewChief
		}
		referees = append(referees, domain.Referee{
			GameID:       gameID,
			Slug:         slugify(name),
			Name:         name,
			Role:         role,
			CrewPosition: i + 1,
		})
	}

	return game, referees, nil
}

// arenaTimezone looks up the home team's venue timezone, falling back to
// defaultArenaTZ with a warning when the reference data has no entry (a
// new expansion team, or a venue file not yet updated).
func (s *NBAStatsSource) arenaTimezone(homeTeamID string) string {
	if v, ok := s.venues[homeTeamID]; ok && v.TZ != "" {
		return v.TZ
	}
	logging.Warn(nil, "providers: nba_stats: no venue timezone for home team, defaulting",
		"team_id", homeTeamID, "default_tz", defaultArenaTZ)
	return defaultArenaTZ
}

func classifyGameStatus(statusText string) domain.GameStatus {
	lower := strings.ToLower(statusText)
	switch {
	case strings.Contains(lower, "final"):
		return domain.StatusFinal
	case strings.Contains(lower, "ppd") || strings.Contains(lower, "postpon"):
		return domain.StatusPostponed
	case strings.Contains(lower, "q") || strings.Contains(lower, "ot") || strings.Contains(lower, "half"):
		return domain.StatusLive
	default:
		return domain.StatusScheduled
	}
}

// gameDateToUTC parses stats.nba.com's GAME_DATE_EST value. The field
// carries a calendar date with a midnight time component, not the real
// tip-off clock time (that only appears in the live scoreboard feed), so
// the result is a best-effort UTC stamp good enough for season/date
// derivation, not a scheduling timestamp.
func gameDateToUTC(value string) time.Time {
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

func (s *NBAStatsSource) transformBoxscore(tree sourceclient.ResponseTree, gameID string) ([]domain.TeamPlayerStats, error) {
	rows, err := extract.NBAStatsBoxscore(tree)
	if err != nil {
		return nil, fmt.Errorf("providers: nba_stats: extract boxscore: %w", err)
	}

	stats := make([]domain.TeamPlayerStats, 0, len(rows))
	for _, row := range rows {
		abbrev, _ := preprocess.ToStringOrNone(row["TEAM_ABBREVIATION"])
		tricode, err := transform.ResolveTricode(s.aliases, abbrev)
		if err != nil {
			logging.Warn(nil, "providers: nba_stats: skipping stat line, unresolved team", "game_id", gameID, "raw_team", abbrev)
			continue
		}
		name, _ := preprocess.ToStringOrNone(row["PLAYER_NAME"])

		fgm, _ := preprocess.ToIntOrNone(row["FGM"])
		fga, _ := preprocess.ToIntOrNone(row["FGA"])
		threePM, _ := preprocess.ToIntOrNone(row["FG3M"])
		threePA, _ := preprocess.ToIntOrNone(row["FG3A"])
		ftm, _ := preprocess.ToIntOrNone(row["FTM"])
		fta, _ := preprocess.ToIntOrNone(row["FTA"])
		pts, _ := preprocess.ToIntOrNone(row["PTS"])

		line := domain.TeamPlayerStats{
			GameID:       gameID,
			TeamTricode:  tricode,
			PlayerSlug:   slugify(name),
			Minutes:      parseMinutes(row["MIN"]),
			Points:       pts,
			FGM:          fgm,
			FGA:          fga,
			ThreePM:      threePM,
			ThreePA:      threePA,
			FTM:          ftm,
			FTA:          fta,
			EffectiveFGPct: effectiveFGPct(fgm, threePM, fga),
		}
		line.Rebounds, _ = preprocess.ToIntOrNone(row["REB"])
		line.OffRebounds, _ = preprocess.ToIntOrNone(row["OREB"])
		line.DefRebounds, _ = preprocess.ToIntOrNone(row["DREB"])
		line.Assists, _ = preprocess.ToIntOrNone(row["AST"])
		line.Steals, _ = preprocess.ToIntOrNone(row["STL"])
		line.Blocks, _ = preprocess.ToIntOrNone(row["BLK"])
		line.Turnovers, _ = preprocess.ToIntOrNone(row["TO"])
		line.PersonalFouls, _ = preprocess.ToIntOrNone(row["PF"])
		line.PlusMinus, _ = preprocess.ToIntOrNone(row["PLUS_MINUS"])

		stats = append(stats, line)
	}
	return stats, nil
}

func effectiveFGPct(fgm, threePM, fga int) float64 {
	if fga == 0 {
		return 0
	}
	return (float64(fgm) + 0.5*float64(threePM)) / float64(fga)
}

// parseMinutes coerces stats.nba.com's MIN column, which arrives either
// as "MM:SS" or a plain decimal depending on the endpoint.
func parseMinutes(v any) float64 {
	s, ok := preprocess.ToStringOrNone(v)
	if !ok {
		return 0
	}
	if mins, secs, found := strings.Cut(s, ":"); found {
		m, _ := strconv.Atoi(mins)
		sec, _ := strconv.Atoi(secs)
		return float64(m) + float64(sec)/60.0
	}
	f, _ := preprocess.ToFloatOrNone(s)
	return f
}

func (s *NBAStatsSource) transformPBP(tree sourceclient.ResponseTree, gameID string) ([]domain.PbpEvent, error) {
	rows, err := extract.NBAStatsPBP(tree)
	if err != nil {
		return nil, fmt.Errorf("providers: nba_stats: extract pbp: %w", err)
	}

	events := make([]domain.PbpEvent, 0, len(rows))
	var lastShotTeam string
	for _, row := range rows {
		eventIdx, _ := preprocess.ToIntOrNone(row["EVENTNUM"])
		period, _ := preprocess.ToIntOrNone(row["PERIOD"])
		display, _ := preprocess.ToStringOrNone(row["PCTIMESTRING"])
		clock, err := transform.ParseClock(period, display)
		if err != nil {
			logging.Warn(nil, "providers: nba_stats: skipping pbp event with unparseable clock", "game_id", gameID, "event_num", eventIdx, "clock", display)
			continue
		}

		eventType := domain.EventType(preprocess.MapEnum(nbaStatsSourceName, "EVENTMSGTYPE", row["EVENTMSGTYPE"], s.rec))

		teamAbbrev, _ := preprocess.ToStringOrNone(row["PLAYER1_TEAM_ABBREVIATION"])
		teamTricode := ""
		if teamAbbrev != "" {
			if resolved, err := transform.ResolveTricode(s.aliases, teamAbbrev); err == nil {
				teamTricode = resolved
			}
		}

		homeDesc, _ := preprocess.ToStringOrNone(row["HOMEDESCRIPTION"])
		awayDesc, _ := preprocess.ToStringOrNone(row["VISITORDESCRIPTION"])
		neutralDesc, _ := preprocess.ToStringOrNone(row["NEUTRALDESCRIPTION"])
		description := firstNonEmpty(homeDesc, awayDesc, neutralDesc)

		ev := domain.PbpEvent{
			GameID:      gameID,
			Period:      period,
			EventIdx:    eventIdx,
			Clock:       clock,
			Type:        eventType,
			TeamTricode: teamTricode,
			Description: description,
			Participants: [3]domain.Participant{
				participantFrom(row, "PLAYER1"),
				participantFrom(row, "PLAYER2"),
				participantFrom(row, "PLAYER3"),
			},
		}

		homeScore, awayScore, ok := parseScore(row["SCORE"])
		if ok {
			ev.HomeScore, ev.AwayScore = homeScore, awayScore
		}

		switch eventType {
		case domain.EventShot, domain.EventFreeThrow:
			_, scored := preprocess.ToStringOrNone(row["SCORE"])
			ev.Shot = &domain.ShotDetail{
				Made:  scored,
				Value: shotValue(eventType, description),
			}
			if eventType == domain.EventShot {
				lastShotTeam = teamTricode
			}
		case domain.EventRebound:
			if teamTricode != "" && lastShotTeam != "" {
				if teamTricode == lastShotTeam {
					ev.Subtype = "offensive"
				} else {
					ev.Subtype = "defensive"
				}
			}
		}

		events = append(events, ev)
	}
	return events, nil
}

func shotValue(eventType domain.EventType, description string) int {
	if eventType == domain.EventFreeThrow {
		return 1
	}
	if strings.Contains(description, "3PT") {
		return 3
	}
	return 2
}

func parseScore(v any) (home, away int, ok bool) {
	s, present := preprocess.ToStringOrNone(v)
	if !present {
		return 0, 0, false
	}
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errA != nil || errH != nil {
		return 0, 0, false
	}
	return h, a, true
}

func participantFrom(row map[string]any, prefix string) domain.Participant {
	name, _ := preprocess.ToStringOrNone(row[prefix+"_NAME"])
	if name == "" {
		return domain.Participant{}
	}
	id, _ := preprocess.ToStringOrNone(row[prefix+"_ID"])
	return domain.Participant{Slug: slugify(name), ID: id}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// deriveOutcome builds the final-score summary row from the last scored
// event in the feed, or nil if the game hasn't produced a score yet.
func deriveOutcome(gameID string, events []domain.PbpEvent) *domain.Outcome {
	var last domain.PbpEvent
	found := false
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].HomeScore != 0 || events[i].AwayScore != 0 {
			last, found = events[i], true
			break
		}
	}
	if !found {
		return nil
	}

	var homeQ1, awayQ1 int
	for _, e := range events {
		if e.Period == 1 {
			homeQ1, awayQ1 = e.HomeScore, e.AwayScore
		}
	}

	overtimeCount := 0
	for _, e := range events {
		if e.Period > 4 && e.Period > overtimeCount+4 {
			overtimeCount = e.Period - 4
		}
	}

	return &domain.Outcome{
		GameID:        gameID,
		HomeFinal:     last.HomeScore,
		AwayFinal:     last.AwayScore,
		HomeQ1:        homeQ1,
		AwayQ1:        awayQ1,
		Margin:        last.HomeScore - last.AwayScore,
		OvertimeCount: overtimeCount,
	}
}

// slugify mirrors the gamebooks PDF pipeline's player-name slug
// convention: lowercase ASCII with single dashes between words.
func slugify(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := false
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
