package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// promReaderFactory, otlpReaderFactory, and instrumentFactory are swapped
// out in tests to exercise Setup's error paths without a live collector.
var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = func(p metric.MeterProvider) (*otelInstruments, error) {
		return newOtelInstruments(p)
	}
)

// Setup configures OpenTelemetry metrics with a Prometheus exporter and optional OTLP exporter.
// It returns a Recorder, the Prometheus HTTP handler, and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "nba-ingest-core"
	}

	promReader, promHandler, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	otelInst, err := instrumentFactory(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(otelInst)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}

	return rec, promHandler, shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

// otelInstruments holds every counter/histogram the ingestion engine
// reports. Field names track the domain concern, not the teacher's
// original HTTP-poller vocabulary: source attempts replace provider
// attempts, pipeline cycles replace poller cycles, and the cache/retry/
// breaker/upsert/derived/drift instruments are new for this domain.
type otelInstruments struct {
	ctx context.Context

	meter metric.Meter

	requests         metric.Int64Counter
	requestLatencyMs metric.Float64Histogram

	sourceAttempts  metric.Int64Counter
	sourceErrors    metric.Int64Counter
	sourceLatencyMs metric.Float64Histogram

	rateLimitHits metric.Int64Counter
	retryAfterMs  metric.Float64Histogram
	retryAttempts metric.Int64Counter

	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter

	breakerTransitions metric.Int64Counter

	rowsUpserted  metric.Int64Counter
	rowsUnchanged metric.Int64Counter

	derivedSkips metric.Int64Counter
	schemaDrift  metric.Int64Counter

	pipelineCycles    metric.Int64Counter
	pipelineErrors    metric.Int64Counter
	pipelineLatencyMs metric.Float64Histogram
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter("nba-ingest-core")
	ctx := context.Background()

	var err error
	inst := &otelInstruments{ctx: ctx, meter: meter}

	if inst.requests, err = meter.Int64Counter("http_requests_total"); err != nil {
		return nil, err
	}
	if inst.requestLatencyMs, err = meter.Float64Histogram("http_request_duration_ms"); err != nil {
		return nil, err
	}
	if inst.sourceAttempts, err = meter.Int64Counter("source_attempts_total"); err != nil {
		return nil, err
	}
	if inst.sourceErrors, err = meter.Int64Counter("source_errors_total"); err != nil {
		return nil, err
	}
	if inst.sourceLatencyMs, err = meter.Float64Histogram("source_duration_ms"); err != nil {
		return nil, err
	}
	if inst.rateLimitHits, err = meter.Int64Counter("source_rate_limit_hits_total"); err != nil {
		return nil, err
	}
	if inst.retryAfterMs, err = meter.Float64Histogram("source_retry_after_ms"); err != nil {
		return nil, err
	}
	if inst.retryAttempts, err = meter.Int64Counter("fetch_retry_attempts_total"); err != nil {
		return nil, err
	}
	if inst.cacheHits, err = meter.Int64Counter("response_cache_hits_total"); err != nil {
		return nil, err
	}
	if inst.cacheMisses, err = meter.Int64Counter("response_cache_misses_total"); err != nil {
		return nil, err
	}
	if inst.breakerTransitions, err = meter.Int64Counter("circuit_breaker_transitions_total"); err != nil {
		return nil, err
	}
	if inst.rowsUpserted, err = meter.Int64Counter("loader_rows_upserted_total"); err != nil {
		return nil, err
	}
	if inst.rowsUnchanged, err = meter.Int64Counter("loader_rows_unchanged_total"); err != nil {
		return nil, err
	}
	if inst.derivedSkips, err = meter.Int64Counter("derived_pass_skips_total"); err != nil {
		return nil, err
	}
	if inst.schemaDrift, err = meter.Int64Counter("schema_drift_total"); err != nil {
		return nil, err
	}
	if inst.pipelineCycles, err = meter.Int64Counter("pipeline_cycles_total"); err != nil {
		return nil, err
	}
	if inst.pipelineErrors, err = meter.Int64Counter("pipeline_errors_total"); err != nil {
		return nil, err
	}
	if inst.pipelineLatencyMs, err = meter.Float64Histogram("pipeline_cycle_duration_ms"); err != nil {
		return nil, err
	}

	return inst, nil
}

func (o *otelInstruments) recordCounter(c metric.Int64Counter, n int64, attrs ...attribute.KeyValue) {
	if o == nil || c == nil {
		return
	}
	c.Add(o.ctx, n, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHistogram(h metric.Float64Histogram, v float64, attrs ...attribute.KeyValue) {
	if o == nil || h == nil {
		return
	}
	h.Record(o.ctx, v, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	}
	o.recordCounter(o.requests, 1, attrs...)
	o.recordHistogram(o.requestLatencyMs, float64(duration.Milliseconds()), attrs...)
}

func (o *otelInstruments) recordSourceAttempt(source string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrSource, source)}
	o.recordCounter(o.sourceAttempts, 1, attrs...)
	o.recordHistogram(o.sourceLatencyMs, float64(duration.Milliseconds()), attrs...)
	if err != nil {
		o.recordCounter(o.sourceErrors, 1, attrs...)
	}
}

func (o *otelInstruments) recordRateLimit(source string, retryAfter time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrSource, source)}
	o.recordCounter(o.rateLimitHits, 1, attrs...)
	if retryAfter > 0 {
		o.recordHistogram(o.retryAfterMs, float64(retryAfter.Milliseconds()), attrs...)
	}
}

func (o *otelInstruments) recordRetryAttempt(source string, attempt int) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrSource, source),
		attribute.Int("attempt", attempt),
	}
	o.recordCounter(o.retryAttempts, 1, attrs...)
}

func (o *otelInstruments) recordCache(source string, hit bool) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrSource, source)}
	if hit {
		o.recordCounter(o.cacheHits, 1, attrs...)
		return
	}
	o.recordCounter(o.cacheMisses, 1, attrs...)
}

func (o *otelInstruments) recordBreakerTransition(vendor, from, to string) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrSource, vendor),
		attribute.String("from_state", from),
		attribute.String("to_state", to),
	}
	o.recordCounter(o.breakerTransitions, 1, attrs...)
}

func (o *otelInstruments) recordRowsUpserted(table string, upserted, unchanged int64) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrTable, table)}
	o.recordCounter(o.rowsUpserted, upserted, attrs...)
	o.recordCounter(o.rowsUnchanged, unchanged, attrs...)
}

func (o *otelInstruments) recordDerivedSkip(pipeline, reason string) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("pipeline", pipeline),
		attribute.String("reason", reason),
	}
	o.recordCounter(o.derivedSkips, 1, attrs...)
}

func (o *otelInstruments) recordSchemaDrift(vendor, field string) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrSource, vendor),
		attribute.String("field", field),
	}
	o.recordCounter(o.schemaDrift, 1, attrs...)
}

func (o *otelInstruments) recordPipelineCycle(pipeline string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String("pipeline", pipeline)}
	o.recordCounter(o.pipelineCycles, 1, attrs...)
	o.recordHistogram(o.pipelineLatencyMs, float64(duration.Milliseconds()), attrs...)
	if err != nil {
		o.recordCounter(o.pipelineErrors, 1, attrs...)
	}
}
