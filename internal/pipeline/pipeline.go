package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/weather-enrichment-etl/internal/alert"
	"github.com/couchcryptid/weather-enrichment-etl/internal/domain"
	"github.com/couchcryptid/weather-enrichment-etl/internal/observability"
)

// BatchExtractor reads up to batchSize raw events from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Enricher converts a raw event into an enriched observation.
type Enricher interface {
	Enrich(ctx context.Context, raw domain.RawEvent) (domain.EnrichedObservation, error)
}

// ObservationStore persists one enriched observation.
type ObservationStore interface {
	Store(ctx context.Context, obs domain.EnrichedObservation) error
}

// AlertPublisher dispatches one composed alert message.
type AlertPublisher interface {
	Publish(ctx context.Context, msg alert.Message) error
}

// Pipeline orchestrates the extract-enrich-store-alert loop.
type Pipeline struct {
	extractor BatchExtractor
	enricher  Enricher
	store     ObservationStore
	composer  *alert.Composer
	publisher AlertPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
	batchSize int
	workers   int
}

// New creates a Pipeline with the given stages and observability. A nil
// publisher disables alert dispatch; everything else is required.
func New(
	e BatchExtractor,
	enricher Enricher,
	store ObservationStore,
	composer *alert.Composer,
	publisher AlertPublisher,
	logger *slog.Logger,
	metrics *observability.Metrics,
	batchSize, workers int,
) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		extractor: e,
		enricher:  enricher,
		store:     store,
		composer:  composer,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
		workers:   workers,
	}
}

// CheckReadiness returns nil if the pipeline has processed at least one
// observation, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not processed any observations yet")
	}
	return nil
}

// Run executes the batch loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize, "workers", p.workers)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	// Keeps retry storms short while avoiding tight loops during outages.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// processBatch runs one extract-enrich-store cycle. Returns false if the
// pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.ObservationsConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	*backoff = 200 * time.Millisecond

	stored := p.enrichAndStore(ctx, rawBatch)

	if stored > 0 {
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
		p.ready.Store(true)
	}
	return ctx.Err() == nil
}

type enrichResult struct {
	obs domain.EnrichedObservation
	err error
}

// enrichAndStore enriches the batch concurrently, persists the successes in
// batch order, and dispatches alerts for qualifying observations. Every
// per-message failure is isolated: a bad record is counted, its offset
// committed, and the rest of the batch proceeds. Store failures leave the
// offset uncommitted so the observation is redelivered.
func (p *Pipeline) enrichAndStore(ctx context.Context, rawBatch []domain.RawEvent) int {
	results := p.enrichBatch(ctx, rawBatch)

	stored := 0
	var alertable []domain.EnrichedObservation
	for i, res := range results {
		raw := rawBatch[i]
		if res.err != nil {
			p.logger.Warn("enrichment failed, skipping observation",
				"error", res.err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.EnrichmentFailures.Inc()
			p.commitOffset(ctx, raw)
			continue
		}

		if err := p.store.Store(ctx, res.obs); err != nil {
			p.logger.Error("store failed, observation will be redelivered",
				"error", err, "city", res.obs.City, "offset", raw.Offset)
			p.metrics.StoreFailures.Inc()
			continue
		}

		p.metrics.ObservationsEnriched.Inc()
		p.commitOffset(ctx, raw)
		stored++
		alertable = append(alertable, res.obs)
	}

	p.dispatchAlerts(ctx, alertable)
	return stored
}

// enrichBatch fans the batch out across the worker pool. Results are
// indexed by input position so batch order survives the concurrency.
func (p *Pipeline) enrichBatch(ctx context.Context, rawBatch []domain.RawEvent) []enrichResult {
	results := make([]enrichResult, len(rawBatch))

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				obs, err := p.enricher.Enrich(ctx, rawBatch[i])
				results[i] = enrichResult{obs: obs, err: err}
			}
		}()
	}
	for i := range rawBatch {
		indices <- i
	}
	close(indices)
	wg.Wait()

	return results
}

// dispatchAlerts composes and publishes alerts for qualifying observations.
// Dispatch is best effort: a publish failure is counted and logged, never
// retried, and never blocks the batch.
func (p *Pipeline) dispatchAlerts(ctx context.Context, batch []domain.EnrichedObservation) {
	if p.publisher == nil || len(batch) == 0 {
		return
	}

	for _, msg := range p.composer.ComposeBatch(batch) {
		if err := p.publisher.Publish(ctx, msg); err != nil {
			p.logger.Error("alert publish failed", "error", err, "subject", msg.Subject)
			p.metrics.AlertPublishFailures.Inc()
			continue
		}
		p.metrics.AlertsPublished.Inc()
	}
}

// backoffOrStop checks for context cancellation, sleeps with the current
// backoff, and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
