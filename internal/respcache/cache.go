// Package respcache is a content-addressed filesystem cache for raw
// upstream responses, keyed by source/endpoint/params so identical
// requests within a TTL window never hit the network twice.
package respcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/preston-bernstein/nba-ingest-core/internal/logging"
	"github.com/preston-bernstein/nba-ingest-core/internal/metrics"
)

// EndpointClass buckets endpoints into TTL tiers: a scoreboard goes stale
// fast, a finished boxscore effectively never changes.
type EndpointClass string

const (
	ClassScoreboard EndpointClass = "scoreboard"
	ClassBoxscore   EndpointClass = "boxscore"
	ClassPBP        EndpointClass = "pbp"
	ClassDefault    EndpointClass = "default"
)

var defaultTTLs = map[EndpointClass]time.Duration{
	ClassScoreboard: 300 * time.Second,
	ClassBoxscore:   3600 * time.Second,
	ClassPBP:        3600 * time.Second,
	ClassDefault:    1800 * time.Second,
}

// entry is the on-disk envelope around a cached response.
type entry struct {
	Body      []byte    `json:"body"`
	FetchedAt time.Time `json:"fetched_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FSCache stores responses as one JSON-enveloped file per cache key
// under Dir. Writes are best-effort: a disk error is logged and
// swallowed rather than surfaced to the caller, since a cache miss is
// always safe — it just means refetching.
type FSCache struct {
	Dir  string
	TTLs map[EndpointClass]time.Duration

	rec *metrics.Recorder
	now func() time.Time
}

// New builds an FSCache rooted at dir. A nil metrics.Recorder is fine;
// RecordCacheHit/Miss become no-ops.
func New(dir string, rec *metrics.Recorder) *FSCache {
	ttls := make(map[EndpointClass]time.Duration, len(defaultTTLs))
	for k, v := range defaultTTLs {
		ttls[k] = v
	}
	return &FSCache{Dir: dir, TTLs: ttls, rec: rec, now: time.Now}
}

// Key derives the content-addressed cache key for a request: sha256 of
// baseURL|endpoint|sortedParams, hex-encoded.
func Key(baseURL, endpoint string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(baseURL)
	b.WriteByte('|')
	b.WriteString(endpoint)
	for _, k := range keys {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached body for key if present and unexpired.
func (c *FSCache) Get(source, key string) ([]byte, bool) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if err != nil {
		c.rec.RecordCacheMiss(source)
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		c.rec.RecordCacheMiss(source)
		return nil, false
	}
	if c.now().After(e.ExpiresAt) {
		c.rec.RecordCacheMiss(source)
		return nil, false
	}

	c.rec.RecordCacheHit(source)
	return e.Body, true
}

// Set writes body under key with a TTL determined by class. Write
// failures are logged at warn and otherwise ignored.
func (c *FSCache) Set(source, key string, class EndpointClass, body []byte) {
	ttl, ok := c.TTLs[class]
	if !ok {
		ttl = c.TTLs[ClassDefault]
	}

	e := entry{Body: body, FetchedAt: c.now(), ExpiresAt: c.now().Add(ttl)}
	raw, err := json.Marshal(e)
	if err != nil {
		logging.Warn(nil, "respcache: marshal failed", logging.FieldCacheKey, key, "err", err)
		return
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logging.Warn(nil, "respcache: mkdir failed", logging.FieldCacheKey, key, "err", err)
		return
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		logging.Warn(nil, "respcache: write failed", logging.FieldCacheKey, key, "err", err)
	}
}

func (c *FSCache) path(key string) string {
	// Two levels of fan-out keep any single directory from accumulating
	// too many entries across a full season of ingestion.
	return filepath.Join(c.Dir, key[:2], fmt.Sprintf("%s.json", key))
}
