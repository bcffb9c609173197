package transform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/preston-bernstein/nba-ingest-core/internal/ingesterrors"
	"github.com/preston-bernstein/nba-ingest-core/internal/reference"
)

func testAliasTable(t *testing.T) *reference.AliasTable {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	content := `
teams:
  - id: "1"
    tricode: LAL
    nba_stats_aliases: ["Lakers"]
    bref_aliases: ["LAL"]
    general_aliases: ["Los Angeles Lakers"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	table, err := reference.LoadTeamAliases(path)
	if err != nil {
		t.Fatalf("load aliases: %v", err)
	}
	return table
}

func TestResolveTricodeResolvesKnownAlias(t *testing.T) {
	table := testAliasTable(t)
	got, err := ResolveTricode(table, "Lakers")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "LAL" {
		t.Fatalf("got %q, want LAL", got)
	}
}

func TestResolveTricodeUnknownReturnsDomainInvariantError(t *testing.T) {
	table := testAliasTable(t)
	_, err := ResolveTricode(table, "Grizzlies")
	if err == nil {
		t.Fatal("expected error for unresolvable identifier")
	}
	var domainErr *ingesterrors.DomainInvariantError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected *ingesterrors.DomainInvariantError, got %T", err)
	}
	if domainErr.Invariant != "known_tricode" {
		t.Fatalf("unexpected invariant: %q", domainErr.Invariant)
	}
	if len(domainErr.Available) == 0 {
		t.Fatal("expected available keys to be populated")
	}
}
