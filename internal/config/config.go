// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/weather-enrichment-etl/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration
	Workers            int

	// Enrichment configuration.
	SeverityPolicy         domain.SeverityPolicy
	ZScoreThreshold        float64
	HistoryConfidenceFloor int
	HistoryWindow          time.Duration
	HistoryMaxSamples      int

	// Collaborators.
	PostgresDSN string
	AWSRegion   string
	SNSTopicARN string

	// Export job configuration.
	ExportBucket string
	ExportWindow time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	batchSize, err := parseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := parsePositiveDuration("BATCH_FLUSH_INTERVAL", "500ms")
	if err != nil {
		return nil, err
	}

	workers, err := parsePositiveInt("WORKERS", 4)
	if err != nil {
		return nil, err
	}

	policy := domain.SeverityPolicy(envOrDefault("SEVERITY_POLICY", string(domain.PolicyBounded10)))

	zScoreThreshold, err := parsePositiveFloat("ZSCORE_THRESHOLD", 2.0)
	if err != nil {
		return nil, err
	}

	confidenceFloor, err := parsePositiveInt("HISTORY_CONFIDENCE_FLOOR", 10)
	if err != nil {
		return nil, err
	}

	historyWindow, err := parsePositiveDuration("HISTORY_WINDOW", "168h")
	if err != nil {
		return nil, err
	}

	historyMaxSamples, err := parsePositiveInt("HISTORY_MAX_SAMPLES", 50)
	if err != nil {
		return nil, err
	}

	exportWindow, err := parsePositiveDuration("EXPORT_WINDOW", "24h")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:     parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic: envOrDefault("KAFKA_SOURCE_TOPIC", "raw-weather-observations"),
		KafkaGroupID:     envOrDefault("KAFKA_GROUP_ID", "weather-enrichment-etl"),
		HTTPAddr:         envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,

		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		Workers:            workers,

		SeverityPolicy:         policy,
		ZScoreThreshold:        zScoreThreshold,
		HistoryConfidenceFloor: confidenceFloor,
		HistoryWindow:          historyWindow,
		HistoryMaxSamples:      historyMaxSamples,

		PostgresDSN: envOrDefault("POSTGRES_DSN", "postgres://localhost:5432/weather?sslmode=disable"),
		AWSRegion:   envOrDefault("AWS_REGION", "ca-central-1"),
		SNSTopicARN: os.Getenv("SNS_TOPIC_ARN"),

		ExportBucket: os.Getenv("EXPORT_BUCKET"),
		ExportWindow: exportWindow,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if !cfg.SeverityPolicy.Valid() {
		return nil, fmt.Errorf("invalid SEVERITY_POLICY %q", cfg.SeverityPolicy)
	}
	if cfg.PostgresDSN == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseBatchSize() (int, error) {
	n, err := parsePositiveInt("BATCH_SIZE", 50)
	if err != nil {
		return 0, err
	}
	if n > 1000 {
		return 0, errors.New("BATCH_SIZE must be at most 1000")
	}
	return n, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, s)
	}
	return n, nil
}

func parsePositiveFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive number", key, s)
	}
	return f, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", key, s)
	}
	return d, nil
}
