package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Fallback values for optional metrics. These are explicit policy defaults,
// not masks for missing data: required metrics have no fallback at all.
const (
	DefaultPressureHPa  = 1013.0
	DefaultVisibilityKm = 10.0
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// rawObservationRecord mirrors the flat JSON published by the collector.
// Required metrics are pointers so an absent field can be told apart from a
// legitimate zero reading.
type rawObservationRecord struct {
	City        string   `json:"city"`
	Province    string   `json:"province"`
	Region      string   `json:"region"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Timestamp   string   `json:"timestamp"`
	Temperature *float64 `json:"temperature_celsius"`
	Humidity    *float64 `json:"humidity_percent"`
	WindSpeed   *float64 `json:"wind_speed_kmh"`
	Pressure    *float64 `json:"pressure_hpa"`
	Visibility  *float64 `json:"visibility_km"`
	Condition   string   `json:"weather_condition"`
	Description string   `json:"weather_description"`
	AlertFlags  []string `json:"alert_flags"`
	DataSource  string   `json:"data_source"`
}

// Observation is a single validated weather reading for one city.
// Immutable once parsed.
type Observation struct {
	City        string   `json:"city"`
	Province    string   `json:"province,omitempty"`
	Region      string   `json:"region,omitempty"`
	Latitude    float64  `json:"latitude,omitempty"`
	Longitude   float64  `json:"longitude,omitempty"`
	Timestamp   string   `json:"timestamp"`
	Temperature float64  `json:"temperature_celsius"`
	Humidity    float64  `json:"humidity_percent"`
	WindSpeed   float64  `json:"wind_speed_kmh"`
	Pressure    float64  `json:"pressure_hpa"`
	Visibility  float64  `json:"visibility_km"`
	Condition   string   `json:"weather_condition,omitempty"`
	Description string   `json:"weather_description,omitempty"`
	AlertFlags  []string `json:"alert_flags,omitempty"`
	DataSource  string   `json:"data_source,omitempty"`
}

// AlertCategory labels the single most specific anomaly condition observed.
type AlertCategory string

const (
	AlertColdExtreme     AlertCategory = "cold_extreme"
	AlertHeatExtreme     AlertCategory = "heat_extreme"
	AlertWindExtreme     AlertCategory = "wind_extreme"
	AlertHumidityExtreme AlertCategory = "humidity_extreme"
	AlertSevereWeather   AlertCategory = "severe_weather"
	AlertModerate        AlertCategory = "moderate_alert"
)

// EnrichedObservation is an Observation plus every derived field the
// enrichment pipeline produces. Never mutated after creation.
type EnrichedObservation struct {
	Observation

	FeelsLike    float64 `json:"feels_like_celsius"`
	WindChill    float64 `json:"wind_chill_celsius"`
	HeatIndex    float64 `json:"heat_index_celsius"`
	ComfortIndex float64 `json:"comfort_index"`

	SeverityScore  float64        `json:"severity_score"`
	SeverityPolicy SeverityPolicy `json:"severity_policy"`
	RiskCategory   RiskCategory   `json:"risk_category"`

	AnomalyDetected bool          `json:"anomaly_detected"`
	AnomalyScore    float64       `json:"anomaly_score"`
	AlertCategory   AlertCategory `json:"alert_category,omitempty"`

	TimeOfDay     string    `json:"time_of_day,omitempty"`
	Season        string    `json:"season,omitempty"`
	PipelineStage string    `json:"pipeline_stage"`
	DataVersion   string    `json:"data_version"`
	ProcessedAt   time.Time `json:"processed_at"`
}

// ParseObservation deserializes and validates a raw event's value.
// Temperature, humidity, and wind speed are required; their absence is a
// MissingFieldError, not a zero default. Optional metrics fall back to the
// package defaults. A record without its own timestamp inherits the message
// timestamp so downstream ordering always has something to sort on.
func ParseObservation(raw RawEvent) (Observation, error) {
	var rec rawObservationRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return Observation{}, fmt.Errorf("parse observation: %w", err)
	}

	if rec.City == "" {
		return Observation{}, &MissingFieldError{Field: "city"}
	}
	if rec.Temperature == nil {
		return Observation{}, &MissingFieldError{Field: "temperature_celsius"}
	}
	if rec.Humidity == nil {
		return Observation{}, &MissingFieldError{Field: "humidity_percent"}
	}
	if rec.WindSpeed == nil {
		return Observation{}, &MissingFieldError{Field: "wind_speed_kmh"}
	}

	ts := rec.Timestamp
	if ts == "" && !raw.Timestamp.IsZero() {
		ts = raw.Timestamp.UTC().Format(time.RFC3339)
	}

	pressure := DefaultPressureHPa
	if rec.Pressure != nil {
		pressure = *rec.Pressure
	}
	visibility := DefaultVisibilityKm
	if rec.Visibility != nil {
		visibility = *rec.Visibility
	}

	return Observation{
		City:        rec.City,
		Province:    rec.Province,
		Region:      rec.Region,
		Latitude:    rec.Latitude,
		Longitude:   rec.Longitude,
		Timestamp:   ts,
		Temperature: *rec.Temperature,
		Humidity:    *rec.Humidity,
		WindSpeed:   *rec.WindSpeed,
		Pressure:    pressure,
		Visibility:  visibility,
		Condition:   rec.Condition,
		Description: rec.Description,
		AlertFlags:  rec.AlertFlags,
		DataSource:  rec.DataSource,
	}, nil
}
