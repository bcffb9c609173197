package bref

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/preston-bernstein/nba-ingest-core/internal/httpfetch"
	"github.com/preston-bernstein/nba-ingest-core/internal/metrics"
	"github.com/preston-bernstein/nba-ingest-core/internal/ratelimit"
)

func newTestClient(srv *httptest.Server) *Client {
	reg := ratelimit.NewRegistry()
	reg.Register(name, 6000, 10)
	fetch := httpfetch.New(httpfetch.Config{
		Limiter:        reg,
		Metrics:        metrics.NewRecorder(),
		MaxElapsedTime: 2 * time.Second,
	})
	return New(Config{BaseURL: srv.URL, Fetch: fetch})
}

func TestBoxscoreReturnsRawHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/boxscores/202401020LAL.html" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte("<html><body>box score</body></html>"))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	tree, err := c.Boxscore(context.Background(), "202401020LAL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.JSON != nil {
		t.Fatal("expected bref tree to carry no decoded JSON")
	}
	if string(tree.Raw) != "<html><body>box score</body></html>" {
		t.Fatalf("unexpected raw body: %s", tree.Raw)
	}
}

func TestPBPBuildsExpectedPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/boxscores/pbp/202401020LAL.html" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte("pbp"))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	if _, err := c.PBP(context.Background(), "202401020LAL"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
