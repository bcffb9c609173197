package httpfetch

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/preston-bernstein/nba-ingest-core/internal/metrics"
	"github.com/preston-bernstein/nba-ingest-core/internal/ratelimit"
)

func newTestClient(maxElapsed time.Duration) *Client {
	reg := ratelimit.NewRegistry()
	reg.Register("test", 6000, 10)
	return New(Config{
		Limiter:        reg,
		Metrics:        metrics.NewRecorder(),
		MaxElapsedTime: maxElapsed,
	})
}

func TestClientGetDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newTestClient(5 * time.Second)
	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.Get(context.Background(), "test", srv.URL, &out); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !out.OK {
		t.Fatal("expected decoded ok=true")
	}
}

func TestClientRetriesOnServerError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newTestClient(5 * time.Second)
	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.Get(context.Background(), "test", srv.URL, &out); err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestClientDoesNotRetryOnClientError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(5 * time.Second)
	err := c.Get(context.Background(), "test", srv.URL, nil)
	if err == nil {
		t.Fatal("expected error on 404")
	}
	if attempts != 1 {
		t.Fatalf("expected exactly 1 attempt for a permanent error, got %d", attempts)
	}
}

func TestClientSurfacesRateLimitError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(300 * time.Millisecond)
	err := c.Get(context.Background(), "test", srv.URL, nil)
	if err == nil {
		t.Fatal("expected rate limit error to eventually bubble up")
	}
}

func TestClientDownloadStreamsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4 fixture bytes"))
	}))
	defer srv.Close()

	c := newTestClient(5 * time.Second)
	var buf bytes.Buffer
	if err := c.Download(context.Background(), "test", srv.URL, &buf); err != nil {
		t.Fatalf("expected download success, got %v", err)
	}
	if buf.String() == "" {
		t.Fatal("expected downloaded bytes")
	}
}

func TestParseRetryAfterSeconds(t *testing.T) {
	if got := parseRetryAfter("5"); got != 5*time.Second {
		t.Fatalf("expected 5s, got %s", got)
	}
}

func TestParseRetryAfterEmpty(t *testing.T) {
	if got := parseRetryAfter(""); got != 0 {
		t.Fatalf("expected 0 for empty header, got %s", got)
	}
}
