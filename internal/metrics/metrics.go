package metrics

import (
	"sync"
	"time"
)

// SourceSnapshot is a point-in-time view of a single source's counters.
// Source here means an upstream vendor (nba_stats, basketball_reference,
// nba_gamebooks) rather than an HTTP provider, but the shape mirrors the
// teacher's provider snapshot so call sites read the same way.
type SourceSnapshot struct {
	Calls          int64
	Errors         int64
	RateLimitHits  int64
	LastLatency    time.Duration
	LastRetryAfter time.Duration
}

type sourceCounters struct {
	calls          int64
	errors         int64
	rateLimitHits  int64
	lastLatency    time.Duration
	lastRetryAfter time.Duration
}

// Recorder tracks ingestion-pipeline telemetry in memory and, when wired
// via Setup, mirrors every observation into OpenTelemetry instruments
// backed by a Prometheus exporter. A nil *Recorder is safe to call.
type Recorder struct {
	otel *otelInstruments

	mu      sync.Mutex
	sources map[string]*sourceCounters
}

// NewRecorder returns a Recorder with no OpenTelemetry backing; counters
// are tracked in memory only. Use Setup to wire real exporters.
func NewRecorder() *Recorder {
	return &Recorder{sources: make(map[string]*sourceCounters)}
}

func newRecorder(inst *otelInstruments) *Recorder {
	return &Recorder{otel: inst, sources: make(map[string]*sourceCounters)}
}

func (r *Recorder) counters(source string) *sourceCounters {
	if r.sources == nil {
		r.sources = make(map[string]*sourceCounters)
	}
	c, ok := r.sources[source]
	if !ok {
		c = &sourceCounters{}
		r.sources[source] = c
	}
	return c
}

// RecordHTTPRequest tracks a single HTTP round trip made by the fetch
// layer, independent of which upstream source it targeted.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, dur time.Duration) {
	if r == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, dur)
}

// RecordSourceAttempt tracks a single fetch attempt against an upstream
// source, successful or not.
func (r *Recorder) RecordSourceAttempt(source string, dur time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	c := r.counters(source)
	c.calls++
	c.lastLatency = dur
	if err != nil {
		c.errors++
	}
	r.mu.Unlock()

	r.otel.recordSourceAttempt(source, dur, err)
}

// RecordRateLimit tracks a rate-limiter wait or a 429 response, along with
// the server-advertised (or bucket-computed) retry-after delay.
func (r *Recorder) RecordRateLimit(source string, retryAfter time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	c := r.counters(source)
	c.rateLimitHits++
	if retryAfter > 0 {
		c.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()

	r.otel.recordRateLimit(source, retryAfter)
}

// RecordRetryAttempt tracks one backoff retry for a fetch, keyed by the
// attempt number so dashboards can see how deep retries typically go.
func (r *Recorder) RecordRetryAttempt(source string, attempt int) {
	if r == nil {
		return
	}
	r.otel.recordRetryAttempt(source, attempt)
}

// RecordCacheHit/RecordCacheMiss track the content-addressed response
// cache's effectiveness per source.
func (r *Recorder) RecordCacheHit(source string) {
	if r == nil {
		return
	}
	r.otel.recordCache(source, true)
}

func (r *Recorder) RecordCacheMiss(source string) {
	if r == nil {
		return
	}
	r.otel.recordCache(source, false)
}

// RecordBreakerTransition tracks a circuit breaker moving between states
// for a given vendor (closed, open, half-open).
func (r *Recorder) RecordBreakerTransition(vendor, from, to string) {
	if r == nil {
		return
	}
	r.otel.recordBreakerTransition(vendor, from, to)
}

// RecordRowsUpserted tracks a loader's diff-aware upsert outcome for a
// single table: how many rows actually changed versus were no-ops.
func (r *Recorder) RecordRowsUpserted(table string, upserted, unchanged int64) {
	if r == nil {
		return
	}
	r.otel.recordRowsUpserted(table, upserted, unchanged)
}

// RecordDerivedSkip tracks a derived-analytics pass declining to run for a
// game (incomplete data, missing play-by-play, etc).
func (r *Recorder) RecordDerivedSkip(pipeline, reason string) {
	if r == nil {
		return
	}
	r.otel.recordDerivedSkip(pipeline, reason)
}

// RecordSchemaDrift tracks an unrecognized enum/field value observed from
// a vendor, keyed by vendor and field so new vendor payload shapes show up
// as a metric instead of a silent default.
func (r *Recorder) RecordSchemaDrift(vendor, field string) {
	if r == nil {
		return
	}
	r.otel.recordSchemaDrift(vendor, field)
}

// RecordPipelineCycle tracks one pipeline run (game, daily, or season),
// successful or not.
func (r *Recorder) RecordPipelineCycle(pipeline string, dur time.Duration, err error) {
	if r == nil {
		return
	}
	r.otel.recordPipelineCycle(pipeline, dur, err)
}

// SourceCalls, SourceErrors, LastSourceLatency, RateLimitHits, and
// LastRetryAfter expose the in-memory counters for tests and local
// debugging; production dashboards read the OTel/Prometheus path instead.

func (r *Recorder) SourceCalls(source string) int64 {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.sources[source]; ok {
		return c.calls
	}
	return 0
}

func (r *Recorder) SourceErrors(source string) int64 {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.sources[source]; ok {
		return c.errors
	}
	return 0
}

func (r *Recorder) LastSourceLatency(source string) time.Duration {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.sources[source]; ok {
		return c.lastLatency
	}
	return 0
}

func (r *Recorder) RateLimitHits(source string) int64 {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.sources[source]; ok {
		return c.rateLimitHits
	}
	return 0
}

func (r *Recorder) LastRetryAfter(source string) time.Duration {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.sources[source]; ok {
		return c.lastRetryAfter
	}
	return 0
}

// Snapshot returns a copy of a source's counters for assertions/inspection.
func (r *Recorder) Snapshot(source string) SourceSnapshot {
	if r == nil {
		return SourceSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.sources[source]
	if !ok {
		return SourceSnapshot{}
	}
	return SourceSnapshot{
		Calls:          c.calls,
		Errors:         c.errors,
		RateLimitHits:  c.rateLimitHits,
		LastLatency:    c.lastLatency,
		LastRetryAfter: c.lastRetryAfter,
	}
}
