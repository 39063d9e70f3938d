// Package export turns batches of enriched observations into the four CSV
// artifacts published for downstream analysis: the raw record dump, per-city
// rollups, the alert log, and the temperature trend series.
package export

import (
	"math"
	"sort"

	"github.com/couchcryptid/weather-enrichment-etl/internal/domain"
)

// CityRollup is the summary row for one city over the export window.
type CityRollup struct {
	City            string
	Province        string
	Region          string
	RecordCount     int
	AvgTemperature  float64
	MinTemperature  float64
	MaxTemperature  float64
	AvgSeverity     float64
	MaxSeverity     float64
	AlertCount      int
	LatestTimestamp string
}

// Fold accumulates one observation into the rollup. Averages use the
// running-mean update (old*(n-1)+x)/n so the rollup never holds the full
// sample set; timestamps are ISO-8601 strings, so "latest" is a plain
// string comparison.
func (r *CityRollup) Fold(obs domain.EnrichedObservation) {
	if r.RecordCount == 0 {
		r.City = obs.City
		r.Province = obs.Province
		r.Region = obs.Region
		r.MinTemperature = obs.Temperature
		r.MaxTemperature = obs.Temperature
		r.MaxSeverity = obs.SeverityScore
		r.LatestTimestamp = obs.Timestamp
	}

	r.RecordCount++
	n := float64(r.RecordCount)
	r.AvgTemperature = (r.AvgTemperature*(n-1) + obs.Temperature) / n
	r.AvgSeverity = (r.AvgSeverity*(n-1) + obs.SeverityScore) / n
	r.MinTemperature = math.Min(r.MinTemperature, obs.Temperature)
	r.MaxTemperature = math.Max(r.MaxTemperature, obs.Temperature)
	r.MaxSeverity = math.Max(r.MaxSeverity, obs.SeverityScore)
	r.AlertCount += len(obs.AlertFlags)
	if obs.Timestamp > r.LatestTimestamp {
		r.LatestTimestamp = obs.Timestamp
	}
}

// BuildCityRollups folds the batch into one rollup per city, sorted by city
// name. Averages are rounded to one decimal place on the way out.
func BuildCityRollups(batch []domain.EnrichedObservation) []CityRollup {
	byCity := make(map[string]*CityRollup)
	for _, obs := range batch {
		r, ok := byCity[obs.City]
		if !ok {
			r = &CityRollup{}
			byCity[obs.City] = r
		}
		r.Fold(obs)
	}

	rollups := make([]CityRollup, 0, len(byCity))
	for _, r := range byCity {
		r.AvgTemperature = round1(r.AvgTemperature)
		r.AvgSeverity = round1(r.AvgSeverity)
		rollups = append(rollups, *r)
	}
	sort.Slice(rollups, func(i, j int) bool { return rollups[i].City < rollups[j].City })
	return rollups
}

// AlertRow is one alert-log entry. An observation carrying n alert flags
// produces n rows, each repeating the observation's readings.
type AlertRow struct {
	Timestamp     string
	City          string
	Province      string
	AlertType     string
	Temperature   float64
	FeelsLike     float64
	Humidity      float64
	WindSpeed     float64
	SeverityScore float64
	Condition     string
}

// BuildAlertLog flattens the batch's alert flags into rows, preserving
// batch order and per-observation flag order.
func BuildAlertLog(batch []domain.EnrichedObservation) []AlertRow {
	var rows []AlertRow
	for _, obs := range batch {
		for _, flag := range obs.AlertFlags {
			rows = append(rows, AlertRow{
				Timestamp:     obs.Timestamp,
				City:          obs.City,
				Province:      obs.Province,
				AlertType:     flag,
				Temperature:   obs.Temperature,
				FeelsLike:     obs.FeelsLike,
				Humidity:      obs.Humidity,
				WindSpeed:     obs.WindSpeed,
				SeverityScore: obs.SeverityScore,
				Condition:     obs.Condition,
			})
		}
	}
	return rows
}

// TrendPoint is one row of the trend series: an observation plus the
// trailing 3-point moving average of its city's temperatures.
type TrendPoint struct {
	Timestamp     string
	City          string
	Province      string
	Region        string
	Temperature   float64
	TempTrend3Pt  float64
	FeelsLike     float64
	Humidity      float64
	Pressure      float64
	WindSpeed     float64
	SeverityScore float64
	Condition     string
	AlertCount    int
}

// BuildTrendSeries sorts the batch by timestamp and computes, for each
// observation, the average of its city's last up-to-three temperatures
// including the current one. With fewer than three readings the average
// covers what exists, so the first point's trend equals its temperature.
func BuildTrendSeries(batch []domain.EnrichedObservation) []TrendPoint {
	ordered := make([]domain.EnrichedObservation, len(batch))
	copy(ordered, batch)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Timestamp < ordered[j].Timestamp })

	cityTemps := make(map[string][]float64)
	points := make([]TrendPoint, 0, len(ordered))
	for _, obs := range ordered {
		temps := append(cityTemps[obs.City], obs.Temperature)
		cityTemps[obs.City] = temps

		window := temps
		if len(window) > 3 {
			window = window[len(window)-3:]
		}
		sum := 0.0
		for _, t := range window {
			sum += t
		}

		points = append(points, TrendPoint{
			Timestamp:     obs.Timestamp,
			City:          obs.City,
			Province:      obs.Province,
			Region:        obs.Region,
			Temperature:   obs.Temperature,
			TempTrend3Pt:  round1(sum / float64(len(window))),
			FeelsLike:     obs.FeelsLike,
			Humidity:      obs.Humidity,
			Pressure:      obs.Pressure,
			WindSpeed:     obs.WindSpeed,
			SeverityScore: obs.SeverityScore,
			Condition:     obs.Condition,
			AlertCount:    len(obs.AlertFlags),
		})
	}
	return points
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
