package reference

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleAliasYAML = `
teams:
  - id: "1"
    tricode: LAL
    nba_stats_aliases: ["Lakers"]
    bref_aliases: ["LAL"]
    general_aliases: ["Los Angeles Lakers"]
  - id: "2"
    tricode: BOS
    nba_stats_aliases: ["Celtics"]
    bref_aliases: ["BOS"]
    general_aliases: ["Boston Celtics"]
`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoadTeamAliasesResolvesCanonicalAndAliases(t *testing.T) {
	path := writeTempFile(t, "aliases.yaml", sampleAliasYAML)
	table, err := LoadTeamAliases(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := map[string]string{
		"LAL":                "LAL",
		"lal":                "LAL",
		"Lakers":              "LAL",
		"Los Angeles Lakers": "LAL",
		"Celtics":             "BOS",
	}
	for in, want := range cases {
		got, ok := table.Resolve(in)
		if !ok || got != want {
			t.Errorf("Resolve(%q) = %q, %v; want %q, true", in, got, ok, want)
		}
	}
}

func TestLoadTeamAliasesUnknownIdentifierMisses(t *testing.T) {
	path := writeTempFile(t, "aliases.yaml", sampleAliasYAML)
	table, err := LoadTeamAliases(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := table.Resolve("XYZ"); ok {
		t.Fatal("expected unknown identifier to miss")
	}
}

func TestLoadTeamAliasesMissingFileErrors(t *testing.T) {
	if _, err := LoadTeamAliases(filepath.Join(t.TempDir(), "nonexistent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
