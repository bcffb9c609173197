package pdfparse

import (
	"testing"

	"github.com/preston-bernstein/nba-ingest-core/internal/domain"
)

func TestParseTextExtractsSections(t *testing.T) {
	text := `Game Id: 0022300123
at: Crypto.com Arena
LAL @ BOS
Crew Chief: John Smith
Referee: Jane Doe
Umpire: Bob Lee
Alternate: Sam Young, Pat Reed
Technical Foul: LeBron James`

	result := parseText(text)

	if result.GameID != "0022300123" {
		t.Fatalf("unexpected game id: %q", result.GameID)
	}
	if result.Venue != "Crypto.com Arena" {
		t.Fatalf("unexpected venue: %q", result.Venue)
	}
	if result.Matchup != "LAL @ BOS" {
		t.Fatalf("unexpected matchup: %q", result.Matchup)
	}
	if len(result.Referees) != 3 {
		t.Fatalf("expected 3 referees, got %d: %+v", len(result.Referees), result.Referees)
	}
	roleCounts := map[domain.RefereeRole]int{}
	for _, r := range result.Referees {
		roleCounts[r.Role]++
	}
	if roleCounts[domain.RoleCrewChief] != 1 || roleCounts[domain.RoleReferee] != 1 || roleCounts[domain.RoleUmpire] != 1 {
		t.Fatalf("unexpected role distribution: %+v", roleCounts)
	}
	if len(result.Alternates) != 2 {
		t.Fatalf("expected 2 alternates, got %d: %+v", len(result.Alternates), result.Alternates)
	}
	if len(result.TechnicalFouls) != 1 {
		t.Fatalf("expected 1 technical foul, got %d", len(result.TechnicalFouls))
	}
	if result.Confidence <= 0 {
		t.Fatal("expected positive confidence with strong signal")
	}
}

func TestParseTextMissingSectionsYieldsPartialResult(t *testing.T) {
	result := parseText("not much here")

	if result.GameID != "" || result.Venue != "" || result.Matchup != "" {
		t.Fatalf("expected empty fields for sparse text, got %+v", result)
	}
	if len(result.Referees) != 0 {
		t.Fatalf("expected no referees, got %+v", result.Referees)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		t.Fatalf("confidence out of bounds: %f", result.Confidence)
	}
}

func TestSlugifyNormalizesNames(t *testing.T) {
	cases := map[string]string{
		"John Smith":     "john-smith",
		"O'Neal  Jr.":    "o-neal-jr",
		"  Pat   Reed  ": "pat-reed",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConfidenceClampsToUnitInterval(t *testing.T) {
	c := confidence(100000, 100, 100)
	if c != 1 {
		t.Fatalf("expected clamped confidence of 1, got %f", c)
	}
	c = confidence(0, 0, 0)
	if c != 0 {
		t.Fatalf("expected confidence of 0, got %f", c)
	}
}
