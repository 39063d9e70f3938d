// Package postgres persists enriched observations and serves the trailing
// temperature history used for anomaly detection.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/couchcryptid/weather-enrichment-etl/internal/anomaly"
	"github.com/couchcryptid/weather-enrichment-etl/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS enriched_observations (
	id               BIGSERIAL PRIMARY KEY,
	city             TEXT NOT NULL,
	province         TEXT NOT NULL DEFAULT '',
	region           TEXT NOT NULL DEFAULT '',
	ts               TEXT NOT NULL,
	temperature      DOUBLE PRECISION NOT NULL,
	humidity         DOUBLE PRECISION NOT NULL,
	wind_speed       DOUBLE PRECISION NOT NULL,
	severity_score   DOUBLE PRECISION NOT NULL,
	risk_category    TEXT NOT NULL,
	anomaly_detected BOOLEAN NOT NULL,
	alert_flags      TEXT[] NOT NULL DEFAULT '{}',
	payload          JSONB NOT NULL,
	processed_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS enriched_observations_city_ts ON enriched_observations (city, ts);
CREATE INDEX IF NOT EXISTS enriched_observations_ts ON enriched_observations (ts);
`

// Store is the Postgres-backed observation store. It implements
// pipeline.ObservationStore and anomaly.HistoryFetcher.
//
// Timestamps are stored as ISO-8601 strings, so range queries and ordering
// reduce to lexicographic comparison.
type Store struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Open connects to Postgres and verifies the connection.
func Open(dsn string, logger *slog.Logger) (*Store, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// EnsureSchema creates the observations table and indexes if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// HealthCheck pings the database with a short deadline.
func (s *Store) HealthCheck(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.db.PingContext(pingCtx); err != nil {
		return &domain.CollaboratorError{Collaborator: "history store", Err: err}
	}
	return nil
}

// Store persists one enriched observation. The full record lands in the
// JSONB payload; the scalar columns exist for history queries and ad hoc
// analysis.
func (s *Store) Store(ctx context.Context, obs domain.EnrichedObservation) error {
	payload, err := json.Marshal(obs)
	if err != nil {
		return fmt.Errorf("marshal observation: %w", err)
	}

	const query = `
		INSERT INTO enriched_observations (
			city, province, region, ts,
			temperature, humidity, wind_speed,
			severity_score, risk_category, anomaly_detected, alert_flags,
			payload, processed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = s.db.ExecContext(ctx, query,
		obs.City,
		obs.Province,
		obs.Region,
		obs.Timestamp,
		obs.Temperature,
		obs.Humidity,
		obs.WindSpeed,
		obs.SeverityScore,
		string(obs.RiskCategory),
		obs.AnomalyDetected,
		pq.Array(obs.AlertFlags),
		payload,
		obs.ProcessedAt,
	)
	if err != nil {
		return &domain.CollaboratorError{Collaborator: "history store", Err: fmt.Errorf("insert observation: %w", err)}
	}
	return nil
}

// FetchHistory returns up to maxSamples of the city's most recent readings
// after since, oldest first. No rows is an empty slice, never an error.
func (s *Store) FetchHistory(ctx context.Context, city, since string, maxSamples int) ([]anomaly.Sample, error) {
	const query = `
		SELECT ts, temperature
		FROM enriched_observations
		WHERE city = $1 AND ts > $2
		ORDER BY ts DESC
		LIMIT $3
	`

	var samples []anomaly.Sample
	if err := s.db.SelectContext(ctx, &samples, query, city, since, maxSamples); err != nil {
		return nil, &domain.CollaboratorError{Collaborator: "history store", Err: fmt.Errorf("fetch history: %w", err)}
	}

	// Newest-first made the LIMIT cheap; callers want oldest-first.
	for i, j := 0, len(samples)-1; i < j; i, j = i+1, j-1 {
		samples[i], samples[j] = samples[j], samples[i]
	}
	return samples, nil
}

// FetchSince returns every enriched observation after since, oldest first.
// Used by the export job to load its window.
func (s *Store) FetchSince(ctx context.Context, since string) ([]domain.EnrichedObservation, error) {
	const query = `
		SELECT payload
		FROM enriched_observations
		WHERE ts > $1
		ORDER BY ts
	`

	var payloads [][]byte
	if err := s.db.SelectContext(ctx, &payloads, query, since); err != nil {
		return nil, &domain.CollaboratorError{Collaborator: "history store", Err: fmt.Errorf("fetch window: %w", err)}
	}

	batch := make([]domain.EnrichedObservation, 0, len(payloads))
	for _, p := range payloads {
		var obs domain.EnrichedObservation
		if err := json.Unmarshal(p, &obs); err != nil {
			s.logger.Warn("skipping undecodable stored observation", "error", err)
			continue
		}
		batch = append(batch, obs)
	}
	return batch, nil
}
