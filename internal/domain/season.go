package domain

import "time"

// TimeOfDay classifies a UTC instant into night, morning, afternoon, or
// evening. Used as enrichment metadata only; no scoring depends on it.
func TimeOfDay(t time.Time) string {
	switch hour := t.UTC().Hour(); {
	case hour < 6:
		return "night"
	case hour < 12:
		return "morning"
	case hour < 18:
		return "afternoon"
	default:
		return "evening"
	}
}

// Season classifies a UTC instant into the meteorological season for the
// northern hemisphere.
func Season(t time.Time) string {
	switch t.UTC().Month() {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "fall"
	}
}
