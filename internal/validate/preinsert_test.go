package validate

import (
	"context"
	"testing"
)

type fakeDerivedRow struct {
	gameID string
	value  int
}

func TestPreInsertFilterKeepsRowsWithKnownGameID(t *testing.T) {
	q := &fakeQueryer{queryResults: []*fakeRows{
		{data: [][]any{{"g1"}, {"g2"}}},
	}}
	rows := []fakeDerivedRow{{gameID: "g1", value: 1}, {gameID: "g2", value: 2}}

	filtered, warnings, err := PreInsertFilter(context.Background(), q, rows, func(r fakeDerivedRow) string { return r.gameID })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected both rows kept, got %v", filtered)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
}

func TestPreInsertFilterDropsRowsWithUnknownGameID(t *testing.T) {
	q := &fakeQueryer{queryResults: []*fakeRows{
		{data: [][]any{{"g1"}}},
	}}
	rows := []fakeDerivedRow{{gameID: "g1", value: 1}, {gameID: "ghost", value: 2}}

	filtered, warnings, err := PreInsertFilter(context.Background(), q, rows, func(r fakeDerivedRow) string { return r.gameID })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered) != 1 || filtered[0].gameID != "g1" {
		t.Fatalf("expected only g1 to survive, got %v", filtered)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
}

func TestPreInsertFilterShortCircuitsOnEmptyInput(t *testing.T) {
	q := &fakeQueryer{}

	filtered, warnings, err := PreInsertFilter(context.Background(), q, []fakeDerivedRow{}, func(r fakeDerivedRow) string { return r.gameID })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered) != 0 || warnings != nil {
		t.Fatalf("expected empty result with no warnings, got filtered=%v warnings=%v", filtered, warnings)
	}
	if q.queryCalls != 0 {
		t.Fatalf("expected no query issued for an empty batch, got %d calls", q.queryCalls)
	}
}
