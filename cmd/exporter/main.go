// Command exporter is a one-shot job that loads the recent enriched
// observations from Postgres, builds the four CSV artifacts, and uploads
// them to S3. Run it on a schedule (cron, EventBridge) rather than as a
// long-lived service.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-enrichment-etl/internal/adapter/postgres"
	s3adapter "github.com/couchcryptid/weather-enrichment-etl/internal/adapter/s3"
	"github.com/couchcryptid/weather-enrichment-etl/internal/config"
	"github.com/couchcryptid/weather-enrichment-etl/internal/export"
	"github.com/couchcryptid/weather-enrichment-etl/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat).
		With("run_id", uuid.NewString())

	if cfg.ExportBucket == "" {
		logger.Error("EXPORT_BUCKET is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := postgres.Open(cfg.PostgresDSN, logger)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	sink, err := s3adapter.New(ctx, cfg.AWSRegion, cfg.ExportBucket)
	if err != nil {
		logger.Error("failed to initialize s3", "error", err)
		os.Exit(1)
	}

	clock := clockwork.NewRealClock()
	since := clock.Now().UTC().Add(-cfg.ExportWindow).Format(time.RFC3339)

	batch, err := store.FetchSince(ctx, since)
	if err != nil {
		logger.Error("failed to load export window", "error", err)
		os.Exit(1)
	}
	logger.Info("loaded export window", "since", since, "records", len(batch))

	exporter := export.NewExporter(sink, clock, logger)
	if err := exporter.Export(ctx, batch); err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}

	logger.Info("export complete", "records", len(batch), "bucket", cfg.ExportBucket)
}
