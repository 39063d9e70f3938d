// Package alert renders human-readable weather alerts for enriched
// observations and groups them for dispatch. Deduplication and rate
// limiting are deliberately left to the dispatch collaborator.
package alert

import (
	"fmt"

	"github.com/couchcryptid/weather-enrichment-etl/internal/domain"
)

// Message is one alert ready for the dispatch collaborator.
type Message struct {
	Subject string
	Body    string
	Target  string
}

// Composer renders alert messages keyed by alert category.
type Composer struct {
	target string
}

// NewComposer creates a Composer publishing to the given dispatch target
// (an SNS topic ARN in production).
func NewComposer(target string) *Composer {
	return &Composer{target: target}
}

// Qualifies reports whether an observation warrants an alert: a detected
// anomaly, or instantaneous conditions classified HIGH or worse.
func (c *Composer) Qualifies(obs domain.EnrichedObservation) bool {
	return obs.AnomalyDetected || obs.RiskCategory.Rank() >= domain.RiskHigh.Rank()
}

// Compose renders the alert for one qualifying observation. The template is
// keyed by alert category; categories without a dedicated template share the
// default severe-conditions wording.
func (c *Composer) Compose(obs domain.EnrichedObservation) Message {
	var body string
	switch obs.AlertCategory {
	case domain.AlertHeatExtreme:
		body = fmt.Sprintf(
			"EXTREME HEAT in %s: %.1f°C (feels like %.1f°C) at %.0f%% humidity. Severity %.1f.",
			obs.City, obs.Temperature, obs.FeelsLike, obs.Humidity, obs.SeverityScore)
	case domain.AlertColdExtreme:
		body = fmt.Sprintf(
			"EXTREME COLD in %s: %.1f°C (wind chill %.1f°C) with %.0f km/h wind. Severity %.1f.",
			obs.City, obs.Temperature, obs.WindChill, obs.WindSpeed, obs.SeverityScore)
	case domain.AlertWindExtreme:
		body = fmt.Sprintf(
			"EXTREME WIND in %s: %.0f km/h at %.1f°C. Severity %.1f.",
			obs.City, obs.WindSpeed, obs.Temperature, obs.SeverityScore)
	default:
		body = fmt.Sprintf(
			"Severe weather in %s: %.1f°C, %.0f%% humidity, %.0f km/h wind. Risk %s, severity %.1f.",
			obs.City, obs.Temperature, obs.Humidity, obs.WindSpeed, obs.RiskCategory, obs.SeverityScore)
	}

	return Message{
		Subject: fmt.Sprintf("Weather Alert: %s, %s", obs.City, obs.Province),
		Body:    body,
		Target:  c.target,
	}
}

// ComposeBatch renders alerts for every qualifying observation in the
// batch, preserving input order. Independent messages are returned together
// so the caller can dispatch them in a single publishing pass.
func (c *Composer) ComposeBatch(batch []domain.EnrichedObservation) []Message {
	var msgs []Message
	for _, obs := range batch {
		if c.Qualifies(obs) {
			msgs = append(msgs, c.Compose(obs))
		}
	}
	return msgs
}
