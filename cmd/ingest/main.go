package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/preston-bernstein/nba-ingest-core/internal/config"
	"github.com/preston-bernstein/nba-ingest-core/internal/httpfetch"
	"github.com/preston-bernstein/nba-ingest-core/internal/load"
	"github.com/preston-bernstein/nba-ingest-core/internal/logging"
	"github.com/preston-bernstein/nba-ingest-core/internal/metrics"
	"github.com/preston-bernstein/nba-ingest-core/internal/pipeline"
	"github.com/preston-bernstein/nba-ingest-core/internal/providers"
	"github.com/preston-bernstein/nba-ingest-core/internal/ratelimit"
	"github.com/preston-bernstein/nba-ingest-core/internal/reference"
	"github.com/preston-bernstein/nba-ingest-core/internal/sourceclient/nbastats"
)

const appVersion = "dev"

// main wires the ingestion engine's components together and blocks
// until told to stop. Argument parsing, result rendering, and the
// backfill/daily/derive/validate command surface are an operator
// concern layered on top of this wiring, not implemented here.
func main() {
	if os.Getenv("SKIP_INGEST_RUN") == "1" {
		return
	}

	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Service: "nba-ingest-core",
		Version: appVersion,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	aliases, err := reference.LoadTeamAliases(cfg.Reference.TeamAliasesPath)
	if err != nil {
		logging.Error(logger, "failed to load team aliases", err)
		os.Exit(1)
	}
	venues, err := reference.LoadVenues(cfg.Reference.VenuesPath)
	if err != nil {
		logging.Error(logger, "failed to load venues", err)
		os.Exit(1)
	}
	logging.Info(logger, "reference data loaded",
		"team_aliases", len(aliases.Keys()),
		"venues", len(venues))

	pool, err := pgxpool.New(ctx, cfg.Postgres.URL)
	if err != nil {
		logging.Error(logger, "failed to open database pool", err)
		os.Exit(1)
	}
	defer pool.Close()

	rec, metricsHandler, shutdownMetrics, err := metrics.Setup(ctx, metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	})
	if err != nil {
		logging.Error(logger, "failed to set up telemetry", err)
		os.Exit(1)
	}
	defer shutdownMetrics(context.Background())

	if metricsHandler != nil {
		serveMetrics(ctx, logger, cfg.Metrics.Port, metricsHandler)
	}

	loader := load.NewGameLoader(load.NewPoolBeginner(pool), rec)
	checkpoints := pipeline.NewCheckpointStore(pipeline.NewPoolCheckpointDB(pool))

	limiter := ratelimit.NewRegistry()
	limiter.Register(string(config.SourceNBAStats), cfg.Sources.NBAStats.RequestsPerMinute, cfg.Sources.NBAStats.Burst)
	nbaStatsClient := nbastats.New(nbastats.Config{
		BaseURL: cfg.Sources.NBAStats.BaseURL,
		Fetch:   httpfetch.New(httpfetch.Config{Limiter: limiter, Metrics: rec, MaxElapsedTime: cfg.Sources.NBAStats.Timeout}),
	})
	nbaStatsSource := providers.NewNBAStatsSource(nbaStatsClient, aliases, venues, rec)

	// bref and gamebooks Sources aren't wired yet: their client packages
	// fetch raw HTML/PDF bytes but nothing composes them into
	// load.GameRows the way providers.NBAStatsSource does for nba_stats.
	gamePipeline := pipeline.NewGamePipeline([]pipeline.Source{nbaStatsSource}, loader, checkpoints, rec, logger)
	dailyPipeline := pipeline.NewDailyPipeline(nbaStatsSource, gamePipeline, cfg.WorkerWidth)

	logging.Info(logger, "ingestion engine ready",
		"worker_width", cfg.WorkerWidth,
		"sources_configured", len(cfg.Sources.AsMap()))

	runDaily(ctx, logger, dailyPipeline)
	<-ctx.Done()
	logging.Info(logger, "shutting down")
}

const dailyPollInterval = 10 * time.Minute

// runDaily drives DailyPipeline on a ticker, one run now to warm the
// current day's data and one every dailyPollInterval after, until ctx is
// cancelled. The backfill/season/derive/validate command surface that
// targets a specific date or season range is an operator concern layered
// on top of this daemon loop, not implemented here.
func runDaily(ctx context.Context, logger *slog.Logger, daily *pipeline.DailyPipeline) {
	sourceNames := []string{string(config.SourceNBAStats)}

	run := func() {
		date := time.Now().UTC().Format("2006-01-02")
		result := daily.Run(ctx, date, sourceNames)
		logging.Info(logger, "daily pipeline cycle complete",
			logging.FieldDate, date,
			"successes", result.Successes,
			"failures", result.Failures,
			logging.FieldDurationMS, result.Duration.Milliseconds())
	}

	go func() {
		run()
		ticker := time.NewTicker(dailyPollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			}
		}
	}()
}

func serveMetrics(ctx context.Context, logger *slog.Logger, port string, handler http.Handler) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Addr: ":" + port, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error(logger, "metrics server exited", err)
		}
	}()
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
}
