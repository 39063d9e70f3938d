// Package anomaly flags observations that are physically implausible or
// statistically unusual for their city.
//
// Two independent modes contribute to the verdict. Absolute-bounds checks
// are stateless and always available: temperature outside [−50, 45]°C,
// humidity outside [0, 100]%, or wind above 150 km/h. Historical-deviation
// scoring compares the current temperature against a trailing window of the
// same city's readings and flags z-scores above a configurable threshold.
// Too little history never raises an error; it only suppresses the
// deviation mode (score 0, no flag), leaving the bounds checks in force.
package anomaly

import "math"

// Sample is one prior reading used for deviation scoring. Timestamps are
// ISO-8601 strings, ordered lexicographically.
type Sample struct {
	Timestamp   string  `db:"ts"`
	Temperature float64 `db:"temperature"`
}

// HistoryWindow is an ordered trailing sample set for one city. It is
// fetched fresh for every scoring call and read-only here: the detector
// never owns or persists history.
type HistoryWindow struct {
	City    string
	Samples []Sample
}

// Temperatures extracts the temperature series in window order.
func (w HistoryWindow) Temperatures() []float64 {
	temps := make([]float64, len(w.Samples))
	for i, s := range w.Samples {
		temps[i] = s.Temperature
	}
	return temps
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev computes the sample (n−1) standard deviation.
func sampleStdDev(values []float64, m float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
