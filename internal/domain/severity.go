package domain

import (
	"fmt"
	"math"
)

// SeverityPolicy selects which of the two coexisting scoring schemes a
// pipeline run uses. Callers choose exactly one; the schemes produce scores
// on different scales and must never be mixed within a run.
type SeverityPolicy string

const (
	// PolicyBounded10 is the additive multi-factor score clamped to [0, 10].
	PolicyBounded10 SeverityPolicy = "bounded10"
	// PolicyBounded100 is the three-sub-score integer scheme clamped to [0, 100].
	PolicyBounded100 SeverityPolicy = "bounded100"
)

// Valid reports whether p names a known policy.
func (p SeverityPolicy) Valid() bool {
	return p == PolicyBounded10 || p == PolicyBounded100
}

// SeverityScore computes the severity of instantaneous conditions under the
// given policy. Deterministic and history-free: deviation from a city's
// norm is the anomaly detector's signal, not severity's.
func SeverityScore(obs Observation, policy SeverityPolicy) (float64, error) {
	switch policy {
	case PolicyBounded10:
		return bounded10Score(obs), nil
	case PolicyBounded100:
		return bounded100Score(obs), nil
	default:
		return 0, fmt.Errorf("unknown severity policy %q", policy)
	}
}

// bounded10Score weights temperature extremity by Canadian climate bands
// (−35°C is as severe as +40°C), then adds wind, pressure-deviation,
// visibility, combined-condition, and alert-flag contributions.
func bounded10Score(obs Observation) float64 {
	severity := 0.0

	switch {
	case obs.Temperature <= -35:
		severity += 4
	case obs.Temperature <= -25:
		severity += 3
	case obs.Temperature <= -15:
		severity += 2
	case obs.Temperature <= -5:
		severity += 1
	case obs.Temperature >= 40:
		severity += 4
	case obs.Temperature >= 35:
		severity += 3
	case obs.Temperature >= 30:
		severity += 2
	}

	switch {
	case obs.WindSpeed >= 40:
		severity += 3
	case obs.WindSpeed >= 25:
		severity += 2
	case obs.WindSpeed >= 15:
		severity += 1
	}

	// Pressure far from the 1013 hPa standard atmosphere signals an active
	// weather system.
	switch {
	case obs.Pressure < 980 || obs.Pressure > 1040:
		severity += 2
	case obs.Pressure < 990 || obs.Pressure > 1030:
		severity += 1
	}

	switch {
	case obs.Visibility < 1:
		severity += 2
	case obs.Visibility < 5:
		severity += 1
	}

	// Blizzard conditions.
	if obs.Temperature < -20 && obs.WindSpeed > 20 {
		severity += 2
	}
	// Dangerous heat and humidity combination.
	if obs.Temperature > 30 && obs.Humidity > 80 {
		severity += 2
	}

	severity += float64(len(obs.AlertFlags)) * 0.5

	return math.Min(10, round1(severity))
}

// bounded100Score sums three independently-bounded integer sub-scores:
// temperature 0–40, humidity 0–25, wind 0–35.
func bounded100Score(obs Observation) float64 {
	var temp int
	switch {
	case obs.Temperature <= -30 || obs.Temperature >= 40:
		temp = 40
	case obs.Temperature <= -20 || obs.Temperature >= 35:
		temp = 30
	case obs.Temperature <= -10 || obs.Temperature >= 30:
		temp = 20
	case obs.Temperature < 0 || obs.Temperature > 25:
		temp = 10
	}

	var humidity int
	switch {
	case obs.Humidity > 90 || obs.Humidity < 10:
		humidity = 25
	case obs.Humidity > 80 || obs.Humidity < 20:
		humidity = 15
	case obs.Humidity > 70 || obs.Humidity < 30:
		humidity = 5
	}

	var wind int
	switch {
	case obs.WindSpeed >= 90:
		wind = 35
	case obs.WindSpeed >= 60:
		wind = 25
	case obs.WindSpeed >= 40:
		wind = 15
	case obs.WindSpeed >= 25:
		wind = 10
	case obs.WindSpeed >= 15:
		wind = 5
	}

	total := temp + humidity + wind
	if total > 100 {
		total = 100
	}
	return float64(total)
}
