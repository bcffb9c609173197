// Package gamebooks downloads and parses NBA officiating "gamebook" PDFs,
// the only source of referee crew/alternate assignments. Unlike the other
// vendor clients it does not implement the full sourceclient.Client
// facade — a gamebook carries no box score or play-by-play — so it is a
// standalone type the referee-extraction step calls directly.
package gamebooks

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/preston-bernstein/nba-ingest-core/internal/gamebooks/pdfparse"
	"github.com/preston-bernstein/nba-ingest-core/internal/httpfetch"
	"github.com/preston-bernstein/nba-ingest-core/internal/respcache"
)

const name = "gamebooks"

// DiscoverFunc resolves a date to the gamebook PDF URLs published for
// that date. It is a seam: the default implementation scrapes a live
// index page, but callers can inject a stub for tests or swap in a
// different discovery strategy without touching the PDF pipeline.
type DiscoverFunc func(ctx context.Context, date string) ([]string, error)

// Config controls how the client reaches the upstream gamebook archive.
type Config struct {
	BaseURL  string
	IndexURL string // template; "{date}" is replaced with YYYY-MM-DD
	Fetch    *httpfetch.Client
	Cache    *respcache.FSCache
	Discover DiscoverFunc // optional override; defaults to scrapeIndex
}

// Client downloads gamebook PDFs and extracts referee crew data from them.
type Client struct {
	baseURL  string
	indexURL string
	fetch    *httpfetch.Client
	cache    *respcache.FSCache
	discover DiscoverFunc
}

// New builds a gamebooks Client.
func New(cfg Config) *Client {
	c := &Client{
		baseURL:  cfg.BaseURL,
		indexURL: cfg.IndexURL,
		fetch:    cfg.Fetch,
		cache:    cfg.Cache,
	}
	if cfg.Discover != nil {
		c.discover = cfg.Discover
	} else {
		c.discover = c.scrapeIndex
	}
	return c
}

// Source reports the logical source name.
func (c *Client) Source() string { return name }

// Discover resolves date to the gamebook PDF URLs published for it.
func (c *Client) Discover(ctx context.Context, date string) ([]string, error) {
	return c.discover(ctx, date)
}

// scrapeIndex is the default Discover strategy: fetch the date's index
// page and collect every anchor href ending in .pdf.
func (c *Client) scrapeIndex(ctx context.Context, date string) ([]string, error) {
	url := strings.ReplaceAll(c.indexURL, "{date}", date)

	var buf bytes.Buffer
	if err := c.fetch.Download(ctx, name, url, &buf); err != nil {
		return nil, fmt.Errorf("gamebooks: discover %s: %w", date, err)
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return nil, fmt.Errorf("gamebooks: parse index %s: %w", date, err)
	}

	var urls []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if strings.HasSuffix(strings.ToLower(href), ".pdf") {
			urls = append(urls, href)
		}
	})
	return urls, nil
}

// fetchAndParse downloads (or reuses a cached copy of) the gamebook PDF
// at pdfURL and runs it through the extraction pipeline.
func (c *Client) fetchAndParse(ctx context.Context, gameID, pdfURL string) (pdfparse.ParseResult, error) {
	key := respcache.Key(c.baseURL, "gamebook", map[string]string{"game_id": gameID, "url": pdfURL})
	if c.cache != nil {
		if body, ok := c.cache.Get(name, key); ok {
			return pdfparse.Parse(body)
		}
	}

	var buf bytes.Buffer
	if err := c.fetch.Download(ctx, name, pdfURL, &buf); err != nil {
		return pdfparse.ParseResult{}, fmt.Errorf("gamebooks: download %s: %w", pdfURL, err)
	}

	if c.cache != nil {
		c.cache.Set(name, key, respcache.ClassDefault, buf.Bytes())
	}
	return pdfparse.Parse(buf.Bytes())
}

// Refs returns the officiating crew assigned to the game whose gamebook
// is at pdfURL, along with the full parse result (callers that also want
// Alternates or the confidence score can reuse it instead of re-parsing).
func (c *Client) Refs(ctx context.Context, gameID, pdfURL string) (pdfparse.ParseResult, error) {
	return c.fetchAndParse(ctx, gameID, pdfURL)
}

// Alternates returns the officials listed as available but not assigned.
func (c *Client) Alternates(ctx context.Context, gameID, pdfURL string) (pdfparse.ParseResult, error) {
	return c.fetchAndParse(ctx, gameID, pdfURL)
}
