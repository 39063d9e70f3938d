package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-enrichment-etl/internal/domain"
)

const keyTimestampLayout = "2006-01-02-15-04"

// ArtifactSink persists one finished artifact under the given object key.
type ArtifactSink interface {
	WriteArtifact(ctx context.Context, key string, content []byte) error
}

// Exporter builds the four CSV artifacts from one batch and writes each to
// the sink. Artifacts are independent: a failed write does not stop the
// rest, and the combined error reports every failure.
type Exporter struct {
	sink   ArtifactSink
	clock  clockwork.Clock
	logger *slog.Logger
}

func NewExporter(sink ArtifactSink, clock clockwork.Clock, logger *slog.Logger) *Exporter {
	return &Exporter{sink: sink, clock: clock, logger: logger}
}

// Export publishes all artifacts for the batch. An empty batch is a no-op;
// a batch with no alert flags skips only the alert log. Object keys embed
// the export time at minute precision, so runs within the same minute
// overwrite each other.
func (e *Exporter) Export(ctx context.Context, batch []domain.EnrichedObservation) error {
	if len(batch) == 0 {
		e.logger.Info("no records in export window, skipping export")
		return nil
	}

	stamp := e.clock.Now().UTC().Format(keyTimestampLayout)
	var errs []error

	raw, err := RawCSV(batch)
	if err != nil {
		errs = append(errs, fmt.Errorf("build raw artifact: %w", err))
	} else {
		errs = append(errs, e.write(ctx, fmt.Sprintf("exports/raw-data/weather-data-%s.csv", stamp), raw, len(batch)))
	}

	rollups := BuildCityRollups(batch)
	if content, err := RollupCSV(rollups); err != nil {
		errs = append(errs, fmt.Errorf("build city summary artifact: %w", err))
	} else {
		errs = append(errs, e.write(ctx, fmt.Sprintf("exports/city-summary/city-summary-%s.csv", stamp), content, len(rollups)))
	}

	alerts := BuildAlertLog(batch)
	if len(alerts) == 0 {
		e.logger.Info("no alerts in export window, skipping alert log")
	} else if content, err := AlertsCSV(alerts); err != nil {
		errs = append(errs, fmt.Errorf("build alert artifact: %w", err))
	} else {
		errs = append(errs, e.write(ctx, fmt.Sprintf("exports/alerts/weather-alerts-%s.csv", stamp), content, len(alerts)))
	}

	trends := BuildTrendSeries(batch)
	if content, err := TrendsCSV(trends); err != nil {
		errs = append(errs, fmt.Errorf("build trend artifact: %w", err))
	} else {
		errs = append(errs, e.write(ctx, fmt.Sprintf("exports/trends/trend-analysis-%s.csv", stamp), content, len(trends)))
	}

	return errors.Join(errs...)
}

func (e *Exporter) write(ctx context.Context, key string, content []byte, rows int) error {
	if err := e.sink.WriteArtifact(ctx, key, content); err != nil {
		e.logger.Error("failed to write artifact", "key", key, "error", err)
		return &domain.CollaboratorError{Collaborator: "export sink", Err: fmt.Errorf("write %s: %w", key, err)}
	}
	e.logger.Info("wrote artifact", "key", key, "rows", rows, "bytes", len(content))
	return nil
}
