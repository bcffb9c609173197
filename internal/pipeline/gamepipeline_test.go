package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/preston-bernstein/nba-ingest-core/internal/load"
)

func newTestGameLoader() *load.GameLoader {
	return load.NewGameLoader(&fakePool{}, nil)
}

func newTestCheckpoints() *CheckpointStore {
	return NewCheckpointStore(&fakeCheckpointDB{})
}

func TestGamePipelineRunLoadsEverySource(t *testing.T) {
	nba := &fakeSource{name: "nbastats", rows: map[string]load.GameRows{"g1": gameRowsFor("g1", "LAL", "BOS")}}
	bref := &fakeSource{name: "bref", rows: map[string]load.GameRows{"g1": gameRowsFor("g1", "LAL", "BOS")}}

	p := NewGamePipeline([]Source{nba, bref}, newTestGameLoader(), newTestCheckpoints(), nil, nil)
	result := p.Run(context.Background(), "g1", []string{"nbastats", "bref"})

	if !result.Success {
		t.Fatalf("expected success, got errors: %v", result.Errors)
	}
	if result.Successes != 2 {
		t.Fatalf("expected 2 successful sources, got %d", result.Successes)
	}
	if result.RecordCounts["games"] != 2 {
		t.Fatalf("expected 2 games counted (one per source load), got %d", result.RecordCounts["games"])
	}
}

func TestGamePipelineRunRecordsSourceFailureWithoutStoppingOthers(t *testing.T) {
	nba := &fakeSource{name: "nbastats", errs: map[string]error{"g1": errors.New("fetch failed")}}
	bref := &fakeSource{name: "bref", rows: map[string]load.GameRows{"g1": gameRowsFor("g1", "LAL", "BOS")}}

	p := NewGamePipeline([]Source{nba, bref}, newTestGameLoader(), newTestCheckpoints(), nil, nil)
	result := p.Run(context.Background(), "g1", []string{"nbastats", "bref"})

	if result.Success {
		t.Fatal("expected overall failure when one source errors")
	}
	if result.Successes != 1 || result.Failures != 1 {
		t.Fatalf("expected 1 success and 1 failure, got successes=%d failures=%d", result.Successes, result.Failures)
	}
	if len(bref.fetched) != 1 {
		t.Fatal("expected the second source to still run after the first failed")
	}
}

func TestGamePipelineRunFlagsUnknownSource(t *testing.T) {
	p := NewGamePipeline(nil, newTestGameLoader(), newTestCheckpoints(), nil, nil)
	result := p.Run(context.Background(), "g1", []string{"unknown"})

	if result.Success {
		t.Fatal("expected failure for an unregistered source name")
	}
	if result.Failures != 1 {
		t.Fatalf("expected 1 failure, got %d", result.Failures)
	}
}
