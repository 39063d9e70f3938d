package export

import (
	"testing"

	"github.com/couchcryptid/weather-enrichment-etl/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func reading(city, ts string, temp, severity float64, flags ...string) domain.EnrichedObservation {
	return domain.EnrichedObservation{
		Observation: domain.Observation{
			City:        city,
			Province:    "ON",
			Region:      "Central",
			Timestamp:   ts,
			Temperature: temp,
			Humidity:    60,
			WindSpeed:   12,
			Pressure:    1013,
			AlertFlags:  flags,
			Condition:   "Clouds",
		},
		FeelsLike:     temp + 1.5,
		SeverityScore: severity,
	}
}

func TestBuildCityRollups(t *testing.T) {
	batch := []domain.EnrichedObservation{
		reading("Toronto", "2026-02-01T10:00:00Z", 10, 1, "COLD_WARNING"),
		reading("Toronto", "2026-02-01T12:00:00Z", 30, 2),
		reading("Toronto", "2026-02-01T11:00:00Z", 20, 3, "HIGH_WIND", "STORM_CONDITIONS"),
	}

	rollups := BuildCityRollups(batch)

	assert.Len(t, rollups, 1)
	expected := CityRollup{
		City:            "Toronto",
		Province:        "ON",
		Region:          "Central",
		RecordCount:     3,
		AvgTemperature:  20.0,
		MinTemperature:  10.0,
		MaxTemperature:  30.0,
		AvgSeverity:     2.0,
		MaxSeverity:     3.0,
		AlertCount:      3,
		LatestTimestamp: "2026-02-01T12:00:00Z",
	}
	if diff := cmp.Diff(expected, rollups[0]); diff != "" {
		t.Fatalf("rollup mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCityRollups_SortedByCity(t *testing.T) {
	batch := []domain.EnrichedObservation{
		reading("Winnipeg", "2026-02-01T10:00:00Z", -20, 4),
		reading("Calgary", "2026-02-01T10:00:00Z", -10, 2),
		reading("Montreal", "2026-02-01T10:00:00Z", -5, 1),
	}

	rollups := BuildCityRollups(batch)

	cities := make([]string, len(rollups))
	for i, r := range rollups {
		cities[i] = r.City
	}
	assert.Equal(t, []string{"Calgary", "Montreal", "Winnipeg"}, cities)
}

func TestBuildCityRollups_RunningMeanMatchesArithmeticMean(t *testing.T) {
	temps := []float64{-3.2, 7.7, 12.1, 0.4, -8.9, 22.0}
	batch := make([]domain.EnrichedObservation, len(temps))
	sum := 0.0
	for i, temp := range temps {
		batch[i] = reading("Regina", "2026-02-01T10:00:00Z", temp, 0)
		sum += temp
	}

	rollups := BuildCityRollups(batch)

	expected := round1(sum / float64(len(temps)))
	assert.InDelta(t, expected, rollups[0].AvgTemperature, 0.0001)
}

func TestBuildAlertLog(t *testing.T) {
	batch := []domain.EnrichedObservation{
		reading("Toronto", "2026-02-01T10:00:00Z", -25, 5, "EXTREME_COLD", "BLIZZARD_RISK"),
		reading("Ottawa", "2026-02-01T10:05:00Z", 5, 0),
		reading("Halifax", "2026-02-01T10:10:00Z", 8, 2, "HIGH_WIND"),
	}

	rows := BuildAlertLog(batch)

	assert.Len(t, rows, 3)
	assert.Equal(t, "EXTREME_COLD", rows[0].AlertType)
	assert.Equal(t, "BLIZZARD_RISK", rows[1].AlertType)
	assert.Equal(t, "Toronto", rows[1].City)
	assert.Equal(t, "HIGH_WIND", rows[2].AlertType)
	assert.Equal(t, "Halifax", rows[2].City)
}

func TestBuildAlertLog_NoFlags(t *testing.T) {
	rows := BuildAlertLog([]domain.EnrichedObservation{
		reading("Toronto", "2026-02-01T10:00:00Z", 5, 0),
	})
	assert.Empty(t, rows)
}

func TestBuildTrendSeries(t *testing.T) {
	batch := []domain.EnrichedObservation{
		reading("Toronto", "2026-02-01T10:00:00Z", 10, 0),
		reading("Toronto", "2026-02-01T11:00:00Z", 14, 0),
		reading("Toronto", "2026-02-01T12:00:00Z", 16, 0),
		reading("Toronto", "2026-02-01T13:00:00Z", 20, 0),
	}

	points := BuildTrendSeries(batch)

	trends := make([]float64, len(points))
	for i, p := range points {
		trends[i] = p.TempTrend3Pt
	}
	assert.Equal(t, []float64{10.0, 12.0, 13.3, 16.7}, trends)
}

func TestBuildTrendSeries_SortsByTimestampAndSeparatesCities(t *testing.T) {
	batch := []domain.EnrichedObservation{
		reading("Toronto", "2026-02-01T12:00:00Z", 16, 0),
		reading("Ottawa", "2026-02-01T10:30:00Z", -10, 0),
		reading("Toronto", "2026-02-01T10:00:00Z", 10, 0),
		reading("Toronto", "2026-02-01T11:00:00Z", 14, 0),
	}

	points := BuildTrendSeries(batch)

	assert.Equal(t, "Toronto", points[0].City)
	assert.Equal(t, 10.0, points[0].TempTrend3Pt)
	assert.Equal(t, "Ottawa", points[1].City)
	// Ottawa's single reading trends on itself, unaffected by Toronto.
	assert.Equal(t, -10.0, points[1].TempTrend3Pt)
	assert.Equal(t, 12.0, points[2].TempTrend3Pt)
	assert.Equal(t, 13.3, points[3].TempTrend3Pt)
}
