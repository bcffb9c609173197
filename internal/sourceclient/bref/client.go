// Package bref fetches raw HTML from Basketball-Reference. It performs
// no extraction of its own — per the injected-strategy design, an
// internal/extract function walks the returned bytes with goquery.
package bref

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/preston-bernstein/nba-ingest-core/internal/httpfetch"
	"github.com/preston-bernstein/nba-ingest-core/internal/sourceclient"
)

const name = "bref"

// Config controls how the client reaches basketball-reference.com.
type Config struct {
	BaseURL string
	Fetch   *httpfetch.Client
}

// Client fetches Basketball-Reference HTML pages. It implements only the
// mandatory sourceclient.Client surface: bref has no machine-readable
// lineups or shot-chart endpoint.
type Client struct {
	baseURL string
	fetch   *httpfetch.Client
}

// New builds a bref Client.
func New(cfg Config) *Client {
	return &Client{baseURL: cfg.BaseURL, fetch: cfg.Fetch}
}

// Source reports the logical source name.
func (c *Client) Source() string { return name }

func (c *Client) fetchHTML(ctx context.Context, endpoint string) (sourceclient.ResponseTree, error) {
	var buf bytes.Buffer
	full := c.baseURL + endpoint
	if err := c.fetch.Download(ctx, name, full, &buf); err != nil {
		return sourceclient.ResponseTree{}, fmt.Errorf("bref: %s: %w", endpoint, err)
	}
	return sourceclient.ResponseTree{
		Source:    name,
		Endpoint:  endpoint,
		Raw:       buf.Bytes(),
		FetchedAt: time.Now(),
	}, nil
}

// Scoreboard fetches the day's schedule page.
func (c *Client) Scoreboard(ctx context.Context, date string) (sourceclient.ResponseTree, error) {
	return c.fetchHTML(ctx, "/boxscores/index.cgi?month="+date)
}

// Boxscore fetches a game's box score page. gameID here is bref's own
// game-ID format (the crosswalk maps canonical <-> bref IDs upstream of
// this client).
func (c *Client) Boxscore(ctx context.Context, gameID string) (sourceclient.ResponseTree, error) {
	return c.fetchHTML(ctx, "/boxscores/"+gameID+".html")
}

// PBP fetches a game's play-by-play page.
func (c *Client) PBP(ctx context.Context, gameID string) (sourceclient.ResponseTree, error) {
	return c.fetchHTML(ctx, "/boxscores/pbp/"+gameID+".html")
}

var _ sourceclient.Client = (*Client)(nil)
