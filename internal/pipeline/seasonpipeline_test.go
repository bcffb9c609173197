package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/preston-bernstein/nba-ingest-core/internal/domain"
	"github.com/preston-bernstein/nba-ingest-core/internal/load"
)

type fakeGameIDProvider struct {
	games []ScheduledGame
	err   error
}

func (f *fakeGameIDProvider) GamesForSeason(ctx context.Context, season string, from, to *time.Time) ([]ScheduledGame, error) {
	return f.games, f.err
}

func TestShouldProcessGameAlwaysTrueForNonFinal(t *testing.T) {
	if !shouldProcessGame(domain.StatusLive, false) {
		t.Fatal("expected a live game to always need processing")
	}
}

func TestShouldProcessGameFinalGatedByForceRefresh(t *testing.T) {
	if shouldProcessGame(domain.StatusFinal, false) {
		t.Fatal("expected a final game to be skipped without force refresh")
	}
	if !shouldProcessGame(domain.StatusFinal, true) {
		t.Fatal("expected a final game to be processed with force refresh")
	}
}

func TestSeasonPipelineRunSkipsFinalGamesByDefault(t *testing.T) {
	nba := &fakeSource{name: "nbastats", rows: map[string]load.GameRows{
		"g1": gameRowsFor("g1", "LAL", "BOS"),
	}}
	gp := NewGamePipeline([]Source{nba}, newTestGameLoader(), newTestCheckpoints(), nil, nil)
	games := &fakeGameIDProvider{games: []ScheduledGame{
		{GameID: "g1", Status: domain.StatusLive},
		{GameID: "g2", Status: domain.StatusFinal},
	}}

	sp := NewSeasonPipeline(games, gp, newTestCheckpoints(), 2, 10, nil)
	result := sp.Run(context.Background(), "2025-26", nil, nil, []string{"nbastats"}, false, false)

	if len(nba.fetched) != 1 || nba.fetched[0] != "g1" {
		t.Fatalf("expected only the live game to be fetched, got %v", nba.fetched)
	}
	if result.Successes != 1 {
		t.Fatalf("expected 1 successful game, got %d", result.Successes)
	}
}

func TestSeasonPipelineRunForceRefreshIncludesFinalGames(t *testing.T) {
	nba := &fakeSource{name: "nbastats", rows: map[string]load.GameRows{
		"g1": gameRowsFor("g1", "LAL", "BOS"),
		"g2": gameRowsFor("g2", "DEN", "SAC"),
	}}
	gp := NewGamePipeline([]Source{nba}, newTestGameLoader(), newTestCheckpoints(), nil, nil)
	games := &fakeGameIDProvider{games: []ScheduledGame{
		{GameID: "g1", Status: domain.StatusLive},
		{GameID: "g2", Status: domain.StatusFinal},
	}}

	sp := NewSeasonPipeline(games, gp, newTestCheckpoints(), 2, 10, nil)
	result := sp.Run(context.Background(), "2025-26", nil, nil, []string{"nbastats"}, true, false)

	if len(nba.fetched) != 2 {
		t.Fatalf("expected both games fetched with force refresh, got %v", nba.fetched)
	}
	if result.Successes != 2 {
		t.Fatalf("expected 2 successful games, got %d", result.Successes)
	}
}

func TestSeasonPipelineRunOneGameFailureDoesNotStopTheBatch(t *testing.T) {
	nba := &fakeSource{name: "nbastats",
		rows: map[string]load.GameRows{"g2": gameRowsFor("g2", "DEN", "SAC")},
		errs: map[string]error{"g1": errSentinel},
	}
	gp := NewGamePipeline([]Source{nba}, newTestGameLoader(), newTestCheckpoints(), nil, nil)
	games := &fakeGameIDProvider{games: []ScheduledGame{
		{GameID: "g1", Status: domain.StatusLive},
		{GameID: "g2", Status: domain.StatusLive},
	}}

	sp := NewSeasonPipeline(games, gp, newTestCheckpoints(), 2, 10, nil)
	result := sp.Run(context.Background(), "2025-26", nil, nil, []string{"nbastats"}, false, false)

	if result.Successes != 1 || result.Failures != 1 {
		t.Fatalf("expected 1 success and 1 failure, got successes=%d failures=%d", result.Successes, result.Failures)
	}
}

func TestSeasonPipelineRunResumeUsesCheckpointedKeys(t *testing.T) {
	nba := &fakeSource{name: "nbastats", rows: map[string]load.GameRows{"g3": gameRowsFor("g3", "MIA", "NYK")}}
	gp := NewGamePipeline([]Source{nba}, newTestGameLoader(), newTestCheckpoints(), nil, nil)
	games := &fakeGameIDProvider{games: nil}

	checkpoints := NewCheckpointStore(&fakeCheckpointDB{resumableKeys: []string{"g3"}})
	sp := NewSeasonPipeline(games, gp, checkpoints, 2, 10, nil)
	result := sp.Run(context.Background(), "2025-26", nil, nil, []string{"nbastats"}, false, true)

	if len(nba.fetched) != 1 || nba.fetched[0] != "g3" {
		t.Fatalf("expected resume mode to process the checkpointed key, got %v", nba.fetched)
	}
	if result.Successes != 1 {
		t.Fatalf("expected 1 successful game, got %d", result.Successes)
	}
}
