package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/couchcryptid/weather-enrichment-etl/internal/domain"
)

// rollupHeader and friends are the fixed column orders of the shaped
// artifacts. The raw dump has no fixed header: its columns are the sorted
// union of every field present in the batch.
var (
	rollupHeader = []string{
		"city", "province", "region", "record_count", "avg_temperature",
		"min_temperature", "max_temperature", "avg_severity", "max_severity",
		"alert_count", "latest_timestamp",
	}
	alertsHeader = []string{
		"timestamp", "city", "province", "alert_type", "temperature", "feels_like",
		"humidity", "wind_speed", "severity_score", "weather_condition",
	}
	trendsHeader = []string{
		"timestamp", "city", "province", "region", "temperature", "temp_trend_3pt",
		"feels_like", "humidity", "pressure", "wind_speed", "severity_score",
		"weather_condition", "alert_count",
	}
)

// RawCSV renders the batch as a full-fidelity CSV dump. Columns are the
// sorted union of every JSON field any record carries; records missing a
// column get an empty cell, and list fields are comma-joined.
func RawCSV(batch []domain.EnrichedObservation) ([]byte, error) {
	maps := make([]map[string]any, len(batch))
	keySet := make(map[string]struct{})
	for i, obs := range batch {
		data, err := json.Marshal(obs)
		if err != nil {
			return nil, fmt.Errorf("marshal observation: %w", err)
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("flatten observation: %w", err)
		}
		maps[i] = m
		for k := range m {
			keySet[k] = struct{}{}
		}
	}

	columns := make([]string, 0, len(keySet))
	for k := range keySet {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, err
	}
	row := make([]string, len(columns))
	for _, m := range maps {
		for i, col := range columns {
			row[i] = formatCell(m[col])
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// RollupCSV renders city rollups in the fixed summary column order.
func RollupCSV(rollups []CityRollup) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(rollupHeader); err != nil {
		return nil, err
	}
	for _, r := range rollups {
		err := w.Write([]string{
			r.City, r.Province, r.Region,
			strconv.Itoa(r.RecordCount),
			formatFloat(r.AvgTemperature),
			formatFloat(r.MinTemperature),
			formatFloat(r.MaxTemperature),
			formatFloat(r.AvgSeverity),
			formatFloat(r.MaxSeverity),
			strconv.Itoa(r.AlertCount),
			r.LatestTimestamp,
		})
		if err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// AlertsCSV renders the alert log, one row per alert flag.
func AlertsCSV(rows []AlertRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(alertsHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		err := w.Write([]string{
			r.Timestamp, r.City, r.Province, r.AlertType,
			formatFloat(r.Temperature),
			formatFloat(r.FeelsLike),
			formatFloat(r.Humidity),
			formatFloat(r.WindSpeed),
			formatFloat(r.SeverityScore),
			r.Condition,
		})
		if err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// TrendsCSV renders the trend series in timestamp order.
func TrendsCSV(points []TrendPoint) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(trendsHeader); err != nil {
		return nil, err
	}
	for _, p := range points {
		err := w.Write([]string{
			p.Timestamp, p.City, p.Province, p.Region,
			formatFloat(p.Temperature),
			formatFloat(p.TempTrend3Pt),
			formatFloat(p.FeelsLike),
			formatFloat(p.Humidity),
			formatFloat(p.Pressure),
			formatFloat(p.WindSpeed),
			formatFloat(p.SeverityScore),
			p.Condition,
			strconv.Itoa(p.AlertCount),
		})
		if err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatCell renders a decoded JSON value for the raw dump. Lists are
// comma-joined; absent values render empty.
func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return formatFloat(val)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = formatCell(item)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", val)
	}
}
