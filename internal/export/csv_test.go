package export

import (
	"bytes"
	"encoding/csv"
	"sort"
	"testing"

	"github.com/couchcryptid/weather-enrichment-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseCSV(t *testing.T, content []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return records
}

func cell(t *testing.T, records [][]string, row int, column string) string {
	t.Helper()
	for i, name := range records[0] {
		if name == column {
			return records[row][i]
		}
	}
	t.Fatalf("column %q not in header %v", column, records[0])
	return ""
}

func TestRawCSV_UnionOfFields(t *testing.T) {
	full := reading("Toronto", "2026-02-01T10:00:00Z", 22.5, 1.5, "HEAT_WARNING", "HIGH_WIND")
	full.DataSource = "environment-canada"
	sparse := domain.EnrichedObservation{
		Observation: domain.Observation{
			City:        "Ottawa",
			Timestamp:   "2026-02-01T10:05:00Z",
			Temperature: 18,
			Humidity:    50,
			WindSpeed:   8,
		},
	}

	content, err := RawCSV([]domain.EnrichedObservation{full, sparse})
	require.NoError(t, err)

	records := parseCSV(t, content)
	require.Len(t, records, 3)

	header := records[0]
	assert.True(t, sort.StringsAreSorted(header))
	assert.Contains(t, header, "alert_flags")
	assert.Contains(t, header, "data_source")
	assert.Contains(t, header, "severity_score")

	assert.Equal(t, "HEAT_WARNING, HIGH_WIND", cell(t, records, 1, "alert_flags"))
	assert.Equal(t, "22.5", cell(t, records, 1, "temperature_celsius"))
	assert.Equal(t, "environment-canada", cell(t, records, 1, "data_source"))

	// Fields the sparse record never carried render as empty cells.
	assert.Equal(t, "", cell(t, records, 2, "alert_flags"))
	assert.Equal(t, "", cell(t, records, 2, "data_source"))
	assert.Equal(t, "Ottawa", cell(t, records, 2, "city"))
}

func TestRollupCSV(t *testing.T) {
	content, err := RollupCSV([]CityRollup{{
		City:            "Toronto",
		Province:        "ON",
		Region:          "Central",
		RecordCount:     3,
		AvgTemperature:  20,
		MinTemperature:  10,
		MaxTemperature:  30,
		AvgSeverity:     2,
		MaxSeverity:     3,
		AlertCount:      3,
		LatestTimestamp: "2026-02-01T12:00:00Z",
	}})
	require.NoError(t, err)

	records := parseCSV(t, content)
	require.Len(t, records, 2)
	assert.Equal(t, rollupHeader, records[0])
	assert.Equal(t, []string{
		"Toronto", "ON", "Central", "3", "20", "10", "30", "2", "3", "3",
		"2026-02-01T12:00:00Z",
	}, records[1])
}

func TestAlertsCSV(t *testing.T) {
	content, err := AlertsCSV([]AlertRow{{
		Timestamp:     "2026-02-01T10:00:00Z",
		City:          "Winnipeg",
		Province:      "MB",
		AlertType:     "EXTREME_COLD",
		Temperature:   -32.5,
		FeelsLike:     -41,
		Humidity:      70,
		WindSpeed:     22,
		SeverityScore: 7.5,
		Condition:     "Snow",
	}})
	require.NoError(t, err)

	records := parseCSV(t, content)
	require.Len(t, records, 2)
	assert.Equal(t, alertsHeader, records[0])
	assert.Equal(t, "EXTREME_COLD", cell(t, records, 1, "alert_type"))
	assert.Equal(t, "-32.5", cell(t, records, 1, "temperature"))
	assert.Equal(t, "7.5", cell(t, records, 1, "severity_score"))
}

func TestTrendsCSV(t *testing.T) {
	points := BuildTrendSeries([]domain.EnrichedObservation{
		reading("Toronto", "2026-02-01T10:00:00Z", 10, 0.5),
		reading("Toronto", "2026-02-01T11:00:00Z", 14, 0.5, "HIGH_WIND"),
	})

	content, err := TrendsCSV(points)
	require.NoError(t, err)

	records := parseCSV(t, content)
	require.Len(t, records, 3)
	assert.Equal(t, trendsHeader, records[0])
	assert.Equal(t, "10", cell(t, records, 1, "temp_trend_3pt"))
	assert.Equal(t, "12", cell(t, records, 2, "temp_trend_3pt"))
	assert.Equal(t, "1", cell(t, records, 2, "alert_count"))
}
