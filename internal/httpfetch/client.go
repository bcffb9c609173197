// Package httpfetch is the ingestion engine's single egress point: every
// vendor fetch goes through a Client that rate-limits, retries with
// exponential backoff, and records metrics uniformly regardless of which
// upstream source is being hit.
package httpfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/nba-ingest-core/internal/ingesterrors"
	"github.com/preston-bernstein/nba-ingest-core/internal/logging"
	"github.com/preston-bernstein/nba-ingest-core/internal/metrics"
	"github.com/preston-bernstein/nba-ingest-core/internal/ratelimit"
)

// defaultHeaders mirrors a real browser's request headers; several
// upstream vendors (basketball-reference in particular) reject obviously
// scripted user agents.
var defaultHeaders = http.Header{
	"User-Agent": {"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"},
	"Accept":     {"application/json, text/html;q=0.9, */*;q=0.8"},
}

// Config controls the Client's transport, retry, and rate-limit behavior.
type Config struct {
	Limiter        *ratelimit.Registry
	Metrics        *metrics.Recorder
	MaxElapsedTime time.Duration // bounds total retry time; attempts are separately capped at 5
}

// Client performs rate-limited, retried HTTP requests against upstream
// sources and reports timing/outcome metrics.
type Client struct {
	http       *http.Client
	limiter    *ratelimit.Registry
	rec        *metrics.Recorder
	maxElapsed time.Duration
}

// New builds a Client with a conservative connection-pooled transport.
func New(cfg Config) *Client {
	maxElapsed := cfg.MaxElapsedTime
	if maxElapsed <= 0 {
		maxElapsed = 2 * time.Minute // total retry time; backoffPolicy caps attempts at 5
	}

	transport := &http.Transport{
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     20,
		DialContext:         (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
	}

	return &Client{
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		limiter:    cfg.Limiter,
		rec:        cfg.Metrics,
		maxElapsed: maxElapsed,
	}
}

func (c *Client) backoffPolicy() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 1 * time.Second
	b.MaxInterval = 60 * time.Second
	b.MaxElapsedTime = c.maxElapsed
	return backoff.WithMaxRetries(b, 4) // at most 5 attempts in total
}

// Get issues a GET against url for the given source, decoding the JSON
// response body into target when non-nil.
func (c *Client) Get(ctx context.Context, source, url string, target any) error {
	return c.do(ctx, source, http.MethodGet, url, nil, target, nil)
}

// Post issues a POST with the given body against url for source, decoding
// the JSON response body into target when non-nil.
func (c *Client) Post(ctx context.Context, source, url string, body io.Reader, target any) error {
	return c.do(ctx, source, http.MethodPost, url, body, target, nil)
}

// Download streams the response body for url to w, for sources that
// return binary payloads (the gamebooks PDF client).
func (c *Client) Download(ctx context.Context, source, url string, w io.Writer) error {
	return c.do(ctx, source, http.MethodGet, url, nil, nil, w)
}

func (c *Client) do(ctx context.Context, source, method, url string, body io.Reader, target any, dst io.Writer) error {
	attempt := 0
	operation := func() error {
		attempt++
		if err := c.limiter.Acquire(ctx, source, 1); err != nil {
			return backoff.Permanent(err)
		}

		start := time.Now()
		err := c.attempt(ctx, method, url, body, target, dst)
		c.rec.RecordSourceAttempt(source, time.Since(start), err)

		if err == nil {
			return nil
		}
		if rlErr, ok := ingesterrors.AsRateLimitError(err); ok {
			c.rec.RecordRateLimit(source, rlErr.RetryAfter)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		c.rec.RecordRetryAttempt(source, attempt)
		logging.Warn(logging.FromContext(ctx, nil), "fetch retry",
			logging.FieldSource, source,
			logging.FieldAttempt, attempt,
			logging.FieldEndpoint, url,
			"wait_ms", wait.Milliseconds(),
			"err", err,
		)
	}

	return backoff.RetryNotify(operation, c.backoffPolicy(), notify)
}

func (c *Client) attempt(ctx context.Context, method, url string, body io.Reader, target any, dst io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return backoff.Permanent(err)
	}
	for k, vs := range defaultHeaders {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("httpfetch: %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return &ingesterrors.RateLimitError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("httpfetch: %s %s: server error %d", method, url, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return backoff.Permanent(fmt.Errorf("httpfetch: %s %s: client error %d", method, url, resp.StatusCode))
	}

	if dst != nil {
		_, err := io.Copy(dst, resp.Body)
		return err
	}
	if target != nil {
		return json.NewDecoder(resp.Body).Decode(target)
	}
	_, err = io.Copy(io.Discard, resp.Body)
	return err
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := time.ParseDuration(header + "s"); err == nil {
		return secs
	}
	if when, err := http.ParseTime(header); err == nil {
		return time.Until(when)
	}
	return 0
}
