// Package sourceclient defines the uniform facade every vendor client
// sits behind: scoreboard/boxscore/pbp are mandatory, lineups/shots are
// feature-detected since not every vendor's payload carries them.
package sourceclient

import (
	"context"
	"time"

	"github.com/preston-bernstein/nba-ingest-core/internal/ingesterrors"
)

// ResponseTree is the neutral shape a fetch produces: the raw bytes (for
// vendors an extractor parses itself, like bref's HTML or gamebooks'
// PDFs) plus, when the response was JSON, the decoded value ready for an
// extractor to walk without re-parsing.
type ResponseTree struct {
	Source    string
	Endpoint  string
	Raw       []byte
	JSON      any
	FetchedAt time.Time
}

// Client is the mandatory surface every vendor client implements.
type Client interface {
	Source() string
	Scoreboard(ctx context.Context, date string) (ResponseTree, error)
	Boxscore(ctx context.Context, gameID string) (ResponseTree, error)
	PBP(ctx context.Context, gameID string) (ResponseTree, error)
}

// LineupFetcher is implemented by clients whose vendor exposes starting
// lineups (not all do).
type LineupFetcher interface {
	Lineups(ctx context.Context, gameID string) (ResponseTree, error)
}

// ShotFetcher is implemented by clients whose vendor exposes shot charts.
type ShotFetcher interface {
	Shots(ctx context.Context, gameID string) (ResponseTree, error)
}

// Facade wraps any Client and fills in Lineups/Shots with a precise
// unsupported-operation error when the underlying client lacks them,
// so callers never need to type-assert themselves.
type Facade struct {
	Client
}

// Lineups calls through to the wrapped client's LineupFetcher if it
// implements one, else returns ingesterrors.ErrUnsupported.
func (f Facade) Lineups(ctx context.Context, gameID string) (ResponseTree, error) {
	if lf, ok := f.Client.(LineupFetcher); ok {
		return lf.Lineups(ctx, gameID)
	}
	return ResponseTree{}, &ingesterrors.ErrUnsupported{Op: "lineups", Source: f.Client.Source()}
}

// Shots calls through to the wrapped client's ShotFetcher if it
// implements one, else returns ingesterrors.ErrUnsupported.
func (f Facade) Shots(ctx context.Context, gameID string) (ResponseTree, error) {
	if sf, ok := f.Client.(ShotFetcher); ok {
		return sf.Shots(ctx, gameID)
	}
	return ResponseTree{}, &ingesterrors.ErrUnsupported{Op: "shots", Source: f.Client.Source()}
}
