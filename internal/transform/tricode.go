// Package transform consumes preprocessed row dictionaries and emits
// validated canonical records: tricode resolution, clock parsing, local
// date derivation, season derivation, and shot zone classification.
package transform

import (
	"github.com/preston-bernstein/nba-ingest-core/internal/ingesterrors"
	"github.com/preston-bernstein/nba-ingest-core/internal/logging"
	"github.com/preston-bernstein/nba-ingest-core/internal/reference"
)

// ResolveTricode maps a vendor-specific team identifier to its canonical
// tricode via the alias table. An unresolvable identifier is a domain
// invariant violation: the caller asked the core to ingest a team it has
// no record of.
func ResolveTricode(aliases *reference.AliasTable, identifier string) (string, error) {
	canon, ok := aliases.Resolve(identifier)
	if !ok {
		logging.Warn(nil, "transform: unresolved tricode", "identifier", identifier, "available_count", len(aliases.Keys()))
		return "", &ingesterrors.DomainInvariantError{
			Invariant: "known_tricode",
			Detail:    "no alias table entry for " + identifier,
			Available: aliases.Keys(),
		}
	}
	return canon, nil
}
