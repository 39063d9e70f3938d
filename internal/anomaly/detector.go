package anomaly

import (
	"context"
	"math"

	"github.com/couchcryptid/weather-enrichment-etl/internal/domain"
)

// Detection defaults; each is overridable through Detector fields or the
// service configuration.
const (
	// DefaultZScoreThreshold is the deviation magnitude above which a
	// reading counts as anomalous.
	DefaultZScoreThreshold = 2.0
	// MinSamples is the floor below which no deviation score is computed at all.
	MinSamples = 3
	// DefaultConfidenceFloor is the sample count required before a deviation
	// score is trusted enough to raise the anomaly flag.
	DefaultConfidenceFloor = 10
	// DefaultMaxSamples bounds how much history one scoring call considers.
	DefaultMaxSamples = 50
)

// Absolute physical bounds. Values outside these are implausible for
// ground-level Canadian observations regardless of history.
const (
	minPlausibleTemp = -50.0
	maxPlausibleTemp = 45.0
	maxPlausibleWind = 150.0
)

// HistoryFetcher supplies a city's trailing samples. Implementations must
// return an empty slice, not an error, when no data exists; errors are
// reserved for collaborator failures, which callers treat as "no history".
// Safe for concurrent use across and within cities: the fetch is read-only.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, city, since string, maxSamples int) ([]Sample, error)
}

// TemperatureOutOfBounds reports a temperature outside [−50, 45]°C.
func TemperatureOutOfBounds(temp float64) bool {
	return temp < minPlausibleTemp || temp > maxPlausibleTemp
}

// HumidityOutOfBounds reports humidity outside [0, 100]%.
func HumidityOutOfBounds(humidity float64) bool {
	return humidity < 0 || humidity > 100
}

// WindOutOfBounds reports wind speed above 150 km/h.
func WindOutOfBounds(windSpeed float64) bool {
	return windSpeed > maxPlausibleWind
}

// DeviationScore computes |current − mean| / stdev over the window's
// temperatures. It returns 0.0 — never an error — when the window holds
// fewer than MinSamples readings or their spread is zero, so insufficient
// history silently suppresses this mode.
func DeviationScore(currentTemp float64, window HistoryWindow) float64 {
	temps := window.Temperatures()
	if len(temps) < MinSamples {
		return 0
	}
	m := mean(temps)
	sd := sampleStdDev(temps, m)
	if sd == 0 {
		return 0
	}
	return math.Abs(currentTemp-m) / sd
}

// Assessment is the detector's verdict for one observation.
type Assessment struct {
	Detected bool
	// Score is the deviation z-score magnitude (0.0 when history was
	// insufficient or flat).
	Score float64

	TemperatureAnomaly bool
	HumidityAnomaly    bool
	WindAnomaly        bool
	DeviationAnomaly   bool

	Category domain.AlertCategory
}

// boundsCount is the number of absolute-bounds checks that fired.
func (a Assessment) boundsCount() int {
	n := 0
	for _, hit := range []bool{a.TemperatureAnomaly, a.HumidityAnomaly, a.WindAnomaly} {
		if hit {
			n++
		}
	}
	return n
}

// Detector combines the two detection modes under one configuration.
// Stateless and safe for concurrent use.
type Detector struct {
	zScoreThreshold float64
	confidenceFloor int
}

// NewDetector creates a Detector. Non-positive arguments fall back to the
// package defaults.
func NewDetector(zScoreThreshold float64, confidenceFloor int) *Detector {
	if zScoreThreshold <= 0 {
		zScoreThreshold = DefaultZScoreThreshold
	}
	if confidenceFloor <= 0 {
		confidenceFloor = DefaultConfidenceFloor
	}
	return &Detector{zScoreThreshold: zScoreThreshold, confidenceFloor: confidenceFloor}
}

// Assess runs both detection modes against one observation. The deviation
// flag requires the window to meet the confidence floor; the deviation
// score itself is reported from MinSamples upward so callers can see
// near-threshold behavior before it becomes actionable.
func (d *Detector) Assess(obs domain.Observation, window HistoryWindow) Assessment {
	a := Assessment{
		TemperatureAnomaly: TemperatureOutOfBounds(obs.Temperature),
		HumidityAnomaly:    HumidityOutOfBounds(obs.Humidity),
		WindAnomaly:        WindOutOfBounds(obs.WindSpeed),
		Score:              DeviationScore(obs.Temperature, window),
	}
	a.DeviationAnomaly = len(window.Samples) >= d.confidenceFloor && a.Score > d.zScoreThreshold
	a.Detected = a.TemperatureAnomaly || a.HumidityAnomaly || a.WindAnomaly || a.DeviationAnomaly
	if a.Detected {
		a.Category = classifyAlertCategory(obs, a)
	}
	return a
}

// classifyAlertCategory picks the single most specific applicable label,
// in priority order: cold_extreme > heat_extreme > wind_extreme >
// humidity_extreme > severe_weather (two or more simultaneous bounds
// anomalies) > moderate_alert.
func classifyAlertCategory(obs domain.Observation, a Assessment) domain.AlertCategory {
	switch {
	case a.TemperatureAnomaly && obs.Temperature < minPlausibleTemp:
		return domain.AlertColdExtreme
	case a.TemperatureAnomaly:
		return domain.AlertHeatExtreme
	case a.WindAnomaly:
		return domain.AlertWindExtreme
	case a.HumidityAnomaly:
		return domain.AlertHumidityExtreme
	case a.boundsCount() >= 2:
		return domain.AlertSevereWeather
	default:
		return domain.AlertModerate
	}
}
