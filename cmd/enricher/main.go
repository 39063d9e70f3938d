// Command enricher runs the streaming enrichment service: it consumes raw
// weather observations from Kafka, derives comfort metrics, scores severity
// and risk, flags anomalies against recent city history, persists the result
// to Postgres, and dispatches alerts for dangerous conditions.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/weather-enrichment-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/weather-enrichment-etl/internal/adapter/kafka"
	"github.com/couchcryptid/weather-enrichment-etl/internal/adapter/postgres"
	snsadapter "github.com/couchcryptid/weather-enrichment-etl/internal/adapter/sns"
	"github.com/couchcryptid/weather-enrichment-etl/internal/alert"
	"github.com/couchcryptid/weather-enrichment-etl/internal/anomaly"
	"github.com/couchcryptid/weather-enrichment-etl/internal/config"
	"github.com/couchcryptid/weather-enrichment-etl/internal/observability"
	"github.com/couchcryptid/weather-enrichment-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := postgres.Open(cfg.PostgresDSN, logger)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	// Alert dispatch is feature-flagged via SNS_TOPIC_ARN.
	var publisher pipeline.AlertPublisher
	if cfg.SNSTopicARN != "" {
		p, err := snsadapter.New(ctx, cfg.AWSRegion)
		if err != nil {
			logger.Error("failed to initialize sns", "error", err)
			os.Exit(1)
		}
		publisher = p
		logger.Info("alert dispatch enabled", "topic", cfg.SNSTopicARN)
	} else {
		logger.Info("alert dispatch disabled")
	}

	reader := kafkaadapter.NewReader(cfg, logger)

	detector := anomaly.NewDetector(cfg.ZScoreThreshold, cfg.HistoryConfidenceFloor)
	enricher := pipeline.NewEnricher(
		cfg.SeverityPolicy,
		detector,
		store,
		cfg.HistoryWindow,
		cfg.HistoryMaxSamples,
		clockwork.NewRealClock(),
		logger,
		metrics,
	)
	composer := alert.NewComposer(cfg.SNSTopicARN)

	p := pipeline.New(reader, enricher, store, composer, publisher,
		logger, metrics, cfg.BatchSize, cfg.Workers)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, store, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start enrichment pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := store.Close(); err != nil {
		logger.Error("postgres close error", "error", err)
	}

	logger.Info("shutdown complete")
}
