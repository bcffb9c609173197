// Package reference loads the read-only reference data every
// transformer depends on: team tricode aliases and venue coordinates.
// Both are loaded once at startup and cached in memory for the life of
// the process.
package reference

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// TeamAlias carries one canonical team's alternate identifiers across
// vendors.
type TeamAlias struct {
	ID              string   `yaml:"id"`
	Tricode         string   `yaml:"tricode"`
	NBAStatsAliases []string `yaml:"nba_stats_aliases"`
	BrefAliases     []string `yaml:"bref_aliases"`
	GeneralAliases  []string `yaml:"general_aliases"`
}

type aliasFile struct {
	Teams []TeamAlias `yaml:"teams"`
}

// AliasTable resolves any vendor-specific team identifier to its
// canonical tricode.
type AliasTable struct {
	byCanonical map[string]TeamAlias
	toCanonical map[string]string
}

// LoadTeamAliases reads and indexes team_aliases.yaml.
func LoadTeamAliases(path string) (*AliasTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reference: read team aliases: %w", err)
	}

	var f aliasFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("reference: parse team aliases: %w", err)
	}

	table := &AliasTable{
		byCanonical: make(map[string]TeamAlias, len(f.Teams)),
		toCanonical: make(map[string]string),
	}
	for _, team := range f.Teams {
		canon := strings.ToUpper(team.Tricode)
		table.byCanonical[canon] = team
		table.toCanonical[canon] = canon
		for _, alias := range allAliases(team) {
			table.toCanonical[strings.ToUpper(alias)] = canon
		}
	}
	return table, nil
}

func allAliases(t TeamAlias) []string {
	all := make([]string, 0, len(t.NBAStatsAliases)+len(t.BrefAliases)+len(t.GeneralAliases))
	all = append(all, t.NBAStatsAliases...)
	all = append(all, t.BrefAliases...)
	all = append(all, t.GeneralAliases...)
	return all
}

// Resolve maps any known alias (or the canonical tricode itself) to its
// canonical tricode. ok is false for an unrecognized identifier.
func (t *AliasTable) Resolve(identifier string) (string, bool) {
	canon, ok := t.toCanonical[strings.ToUpper(strings.TrimSpace(identifier))]
	return canon, ok
}

// Keys returns every known canonical tricode, for debug logging on a
// resolution miss.
func (t *AliasTable) Keys() []string {
	keys := make([]string, 0, len(t.byCanonical))
	for k := range t.byCanonical {
		keys = append(keys, k)
	}
	return keys
}
