// Package nbastats is the JSON REST client for stats.nba.com-shaped
// endpoints, generalizing the teacher's balldontlie client (query
// building, rate-limit-aware error surfacing) across the five source
// operations.
package nbastats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/preston-bernstein/nba-ingest-core/internal/httpfetch"
	"github.com/preston-bernstein/nba-ingest-core/internal/sourceclient"
)

const name = "nba_stats"

// Config controls how the client reaches the upstream API.
type Config struct {
	BaseURL string
	Fetch   *httpfetch.Client
}

// Client implements sourceclient.Client, sourceclient.LineupFetcher, and
// sourceclient.ShotFetcher against stats.nba.com-shaped JSON endpoints.
type Client struct {
	baseURL string
	fetch   *httpfetch.Client
}

// New builds an nbastats Client.
func New(cfg Config) *Client {
	return &Client{baseURL: cfg.BaseURL, fetch: cfg.Fetch}
}

// Source reports the logical source name used for rate limiting, metrics,
// and the circuit breaker registry.
func (c *Client) Source() string { return name }

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (sourceclient.ResponseTree, error) {
	full := c.baseURL + endpoint
	if len(params) > 0 {
		full += "?" + params.Encode()
	}

	var raw json.RawMessage
	if err := c.fetch.Get(ctx, name, full, &raw); err != nil {
		return sourceclient.ResponseTree{}, fmt.Errorf("nbastats: %s: %w", endpoint, err)
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return sourceclient.ResponseTree{}, fmt.Errorf("nbastats: %s: decode: %w", endpoint, err)
	}

	return sourceclient.ResponseTree{
		Source:    name,
		Endpoint:  endpoint,
		Raw:       raw,
		JSON:      decoded,
		FetchedAt: time.Now(),
	}, nil
}

// Scoreboard fetches the day's games.
func (c *Client) Scoreboard(ctx context.Context, date string) (sourceclient.ResponseTree, error) {
	params := url.Values{"GameDate": {date}, "LeagueID": {"00"}, "DayOffset": {"0"}}
	return c.get(ctx, "/scoreboardv2", params)
}

// Boxscore fetches the traditional box score for a game.
func (c *Client) Boxscore(ctx context.Context, gameID string) (sourceclient.ResponseTree, error) {
	params := url.Values{"GameID": {gameID}, "StartPeriod": {"0"}, "EndPeriod": {"14"}, "RangeType": {"2"}}
	return c.get(ctx, "/boxscoretraditionalv2", params)
}

// PBP fetches play-by-play for a game.
func (c *Client) PBP(ctx context.Context, gameID string) (sourceclient.ResponseTree, error) {
	params := url.Values{"GameID": {gameID}, "StartPeriod": {"0"}, "EndPeriod": {"14"}}
	return c.get(ctx, "/playbyplayv2", params)
}

// Lineups fetches a game's boxscoresummaryv2 summary (game summary, line
// score and officials); the endpoint carries no starting-five list.
func (c *Client) Lineups(ctx context.Context, gameID string) (sourceclient.ResponseTree, error) {
	params := url.Values{"GameID": {gameID}}
	return c.get(ctx, "/boxscoresummaryv2", params)
}

// Shots fetches shot chart detail for a game.
func (c *Client) Shots(ctx context.Context, gameID string) (sourceclient.ResponseTree, error) {
	params := url.Values{"GameID": {gameID}, "ContextMeasure": {"FGA"}}
	return c.get(ctx, "/shotchartdetail", params)
}

var (
	_ sourceclient.Client        = (*Client)(nil)
	_ sourceclient.LineupFetcher = (*Client)(nil)
	_ sourceclient.ShotFetcher   = (*Client)(nil)
)
