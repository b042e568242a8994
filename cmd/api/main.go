package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/enpal-growth/landing-insights/api/controllers"
	"github.com/enpal-growth/landing-insights/api/routes"
	"github.com/enpal-growth/landing-insights/internal/ingest"
	ingestbq "github.com/enpal-growth/landing-insights/internal/ingest/bq"
	"github.com/enpal-growth/landing-insights/internal/narrative"
	"github.com/enpal-growth/landing-insights/internal/report"
	"github.com/enpal-growth/landing-insights/pkg/bigquery"
	"github.com/enpal-growth/landing-insights/pkg/config"
	"github.com/enpal-growth/landing-insights/pkg/ga4"
	"github.com/enpal-growth/landing-insights/pkg/logger"
	"github.com/enpal-growth/landing-insights/pkg/metrics"
	"github.com/enpal-growth/landing-insights/pkg/redis"
)

const sessionSweepInterval = 10 * time.Minute

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	ingestMetrics := metrics.NewIngestMetrics(promRegistry)

	healthDeps := map[string]controllers.Pinger{"redis": redisClient}

	var source ingest.Source
	switch cfg.Ingest.NormalizedSource() {
	case config.SourceBigQuery:
		bqClient, err := bigquery.NewClient(context.Background(), cfg.GCP, cfg.BigQuery, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap bigquery", err)
			os.Exit(1)
		}
		defer func() {
			if err := bqClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing bigquery", err)
			}
		}()
		healthDeps["bigquery"] = bqClient
		source = ingestbq.NewSource(bqClient, cfg.GA4, logg)
	default:
		ga4Client, err := ga4.NewClient(context.Background(), cfg.GA4, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap ga4 client", err)
			os.Exit(1)
		}
		source = ingest.NewGA4Source(ga4Client)
	}

	eventsService := ingest.NewService(source, redisClient, cfg.Ingest.CacheTTL, ingestMetrics, logg)

	anthropicClient := narrative.NewClient(cfg.Anthropic)
	if !anthropicClient.Enabled() {
		logg.Warn(context.Background(), "anthropic api key not configured, narrative runs degraded")
	}
	narrativeService := narrative.NewService(anthropicClient, redisClient, cfg.Ingest.CacheTTL, logg)

	reportRegistry := report.NewRegistry(cfg.Report.SessionTTL)
	go reportRegistry.RunSweeper(context.Background(), sessionSweepInterval)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"source": cfg.Ingest.NormalizedSource(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			redisClient,
			healthDeps,
			eventsService,
			narrativeService,
			reportRegistry,
			promRegistry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
