package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-enrichment-etl/internal/anomaly"
	"github.com/couchcryptid/weather-enrichment-etl/internal/domain"
	"github.com/couchcryptid/weather-enrichment-etl/internal/observability"
)

const (
	pipelineStage = "processing"
	dataVersion   = "2.0"
)

// ObservationEnricher implements Enricher: it parses a raw event, derives
// the comfort metrics, scores severity under the configured policy, runs
// anomaly detection against fresh city history, and classifies risk.
type ObservationEnricher struct {
	policy     domain.SeverityPolicy
	detector   *anomaly.Detector
	history    anomaly.HistoryFetcher
	window     time.Duration
	maxSamples int
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewEnricher creates an ObservationEnricher. Pass a nil history fetcher to
// run with bounds-only anomaly detection.
func NewEnricher(
	policy domain.SeverityPolicy,
	detector *anomaly.Detector,
	history anomaly.HistoryFetcher,
	window time.Duration,
	maxSamples int,
	clock clockwork.Clock,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *ObservationEnricher {
	if maxSamples <= 0 {
		maxSamples = anomaly.DefaultMaxSamples
	}
	return &ObservationEnricher{
		policy:     policy,
		detector:   detector,
		history:    history,
		window:     window,
		maxSamples: maxSamples,
		clock:      clock,
		logger:     logger,
		metrics:    metrics,
	}
}

func (e *ObservationEnricher) Enrich(ctx context.Context, raw domain.RawEvent) (domain.EnrichedObservation, error) {
	obs, err := domain.ParseObservation(raw)
	if err != nil {
		return domain.EnrichedObservation{}, err
	}

	severity, err := domain.SeverityScore(obs, e.policy)
	if err != nil {
		return domain.EnrichedObservation{}, err
	}

	assessment := e.detector.Assess(obs, e.fetchWindow(ctx, obs.City))

	// The two scoring policies pair with different classification tables:
	// bounded-10 severity classifies directly, while the bounded-100 policy
	// classifies risk from the anomaly z-score instead.
	var risk domain.RiskCategory
	if e.policy == domain.PolicyBounded100 {
		risk = domain.CategorizeRisk(assessment.Score, domain.RiskScaleZScore)
	} else {
		risk = domain.CategorizeRisk(severity, domain.RiskScaleBounded10)
	}

	if assessment.Detected {
		e.metrics.AnomaliesDetected.WithLabelValues(string(assessment.Category)).Inc()
	}

	observedAt := e.clock.Now().UTC()
	if ts, err := time.Parse(time.RFC3339, obs.Timestamp); err == nil {
		observedAt = ts
	}

	return domain.EnrichedObservation{
		Observation: obs,

		FeelsLike:    domain.FeelsLike(obs.Temperature, obs.Humidity),
		WindChill:    domain.WindChill(obs.Temperature, obs.WindSpeed),
		HeatIndex:    domain.HeatIndex(obs.Temperature, obs.Humidity),
		ComfortIndex: domain.ComfortIndex(obs.Temperature, obs.Humidity, obs.WindSpeed),

		SeverityScore:  severity,
		SeverityPolicy: e.policy,
		RiskCategory:   risk,

		AnomalyDetected: assessment.Detected,
		AnomalyScore:    assessment.Score,
		AlertCategory:   assessment.Category,

		TimeOfDay:     domain.TimeOfDay(observedAt),
		Season:        domain.Season(observedAt),
		PipelineStage: pipelineStage,
		DataVersion:   dataVersion,
		ProcessedAt:   e.clock.Now().UTC(),
	}, nil
}

// fetchWindow loads the city's trailing history. A fetch failure degrades
// detection to bounds checks only; it never fails the observation.
func (e *ObservationEnricher) fetchWindow(ctx context.Context, city string) anomaly.HistoryWindow {
	if e.history == nil {
		return anomaly.HistoryWindow{City: city}
	}

	since := e.clock.Now().UTC().Add(-e.window).Format(time.RFC3339)

	start := time.Now()
	samples, err := e.history.FetchHistory(ctx, city, since, e.maxSamples)
	e.metrics.HistoryFetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		e.metrics.HistoryFetchFailures.Inc()
		e.logger.Warn("history fetch failed, degrading to bounds checks",
			"city", city, "error", err)
		return anomaly.HistoryWindow{City: city}
	}
	return anomaly.HistoryWindow{City: city, Samples: samples}
}
