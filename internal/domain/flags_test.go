package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDetectAlertFlags(t *testing.T) {
	tests := []struct {
		name     string
		obs      Observation
		expected []string
	}{
		{
			"calm conditions raise nothing",
			Observation{Temperature: 18, Humidity: 55, WindSpeed: 10, Visibility: 10},
			nil,
		},
		{
			"extreme cold outranks cold warning",
			Observation{Temperature: -31, Humidity: 60, WindSpeed: 5, Visibility: 10},
			[]string{FlagExtremeCold},
		},
		{
			"cold warning band",
			Observation{Temperature: -22, Humidity: 60, WindSpeed: 5, Visibility: 10},
			[]string{FlagColdWarning},
		},
		{
			"heat warning band",
			Observation{Temperature: 31, Humidity: 40, WindSpeed: 5, Visibility: 10},
			[]string{FlagHeatWarning},
		},
		{
			"extreme wind outranks high wind",
			Observation{Temperature: 10, Humidity: 50, WindSpeed: 45, Visibility: 10},
			[]string{FlagExtremeWind},
		},
		{
			"blizzard stacks on cold and wind",
			Observation{Temperature: -21, Humidity: 90, WindSpeed: 26, Visibility: 2, Condition: "Snow"},
			[]string{FlagColdWarning, FlagHighWind, FlagStormConditions, FlagBlizzardRisk},
		},
		{
			"dense fog needs mist and low visibility",
			Observation{Temperature: 8, Humidity: 95, WindSpeed: 3, Visibility: 0.5, Condition: "Mist"},
			[]string{FlagDenseFog},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectAlertFlags(tt.obs))
		})
	}
}

func TestTimeOfDay(t *testing.T) {
	tests := []struct {
		hour     int
		expected string
	}{
		{0, "night"}, {5, "night"},
		{6, "morning"}, {11, "morning"},
		{12, "afternoon"}, {17, "afternoon"},
		{18, "evening"}, {23, "evening"},
	}
	for _, tt := range tests {
		at := time.Date(2026, 2, 11, tt.hour, 30, 0, 0, time.UTC)
		assert.Equal(t, tt.expected, TimeOfDay(at), "hour=%d", tt.hour)
	}
}

func TestSeason(t *testing.T) {
	tests := []struct {
		month    time.Month
		expected string
	}{
		{time.January, "winter"}, {time.December, "winter"},
		{time.April, "spring"},
		{time.July, "summer"},
		{time.October, "fall"},
	}
	for _, tt := range tests {
		at := time.Date(2026, tt.month, 15, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, tt.expected, Season(at), "month=%s", tt.month)
	}
}
