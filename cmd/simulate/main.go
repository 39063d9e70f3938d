// Command simulate generates realistic Canadian weather observations and
// publishes them to the raw source topic. It stands in for the upstream
// collector during local development and load testing.
//
// Usage:
//
//	go run ./cmd/simulate \
//	  -brokers localhost:9092 \
//	  -topic raw-weather-observations \
//	  -rounds 10 -interval 5s
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	kafkaadapter "github.com/couchcryptid/weather-enrichment-etl/internal/adapter/kafka"
	"github.com/couchcryptid/weather-enrichment-etl/internal/domain"
)

type cityInfo struct {
	name     string
	province string
	region   string
	lat, lon float64
}

var cities = []cityInfo{
	{"Toronto", "ON", "Central", 43.6532, -79.3832},
	{"Vancouver", "BC", "West Coast", 49.2827, -123.1207},
	{"Montreal", "QC", "Central", 45.5017, -73.5673},
	{"Calgary", "AB", "Prairie", 51.0447, -114.0719},
	{"Ottawa", "ON", "Central", 45.4215, -75.6972},
	{"Edmonton", "AB", "Prairie", 53.5461, -113.4938},
	{"Winnipeg", "MB", "Prairie", 49.8951, -97.1384},
	{"Halifax", "NS", "Atlantic", 44.6488, -63.5752},
	{"Quebec City", "QC", "Central", 46.8139, -71.2082},
	{"Victoria", "BC", "West Coast", 48.4284, -123.3656},
}

// seasonalBaseTemps holds typical temperatures by season and province.
var seasonalBaseTemps = map[string]map[string]float64{
	"winter": {"BC": 2, "AB": -15, "SK": -18, "MB": -20, "ON": -8, "QC": -12, "NB": -8, "NS": -3, "PE": -5, "NL": -5},
	"spring": {"BC": 12, "AB": 8, "SK": 6, "MB": 4, "ON": 15, "QC": 10, "NB": 8, "NS": 8, "PE": 6, "NL": 3},
	"summer": {"BC": 22, "AB": 22, "SK": 25, "MB": 25, "ON": 26, "QC": 24, "NB": 22, "NS": 20, "PE": 18, "NL": 15},
	"fall":   {"BC": 10, "AB": 5, "SK": 2, "MB": 0, "ON": 12, "QC": 8, "NB": 10, "NS": 12, "PE": 8, "NL": 8},
}

// regionalAdjustments shifts the provincial base by climate zone.
var regionalAdjustments = map[string]float64{
	"West Coast": 5,
	"Prairie":    -3,
	"Central":    0,
	"Atlantic":   2,
	"North":      -10,
}

func main() {
	if err := run(); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	brokers := flag.String("brokers", "localhost:9092", "comma-separated Kafka brokers")
	topic := flag.String("topic", "raw-weather-observations", "destination topic")
	rounds := flag.Int("rounds", 1, "number of observation rounds to publish (0 = run forever)")
	interval := flag.Duration("interval", 5*time.Second, "delay between rounds")
	seed := flag.Int64("seed", 0, "random seed (0 = time-based)")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	writer := kafkaadapter.NewWriter(strings.Split(*brokers, ","), *topic, logger)
	defer writer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("simulation starting",
		"topic", *topic, "cities", len(cities), "rounds", *rounds, "seed", *seed)

	for round := 0; *rounds == 0 || round < *rounds; round++ {
		batch := make([]domain.Observation, len(cities))
		for i, city := range cities {
			batch[i] = simulateObservation(rng, city, time.Now().UTC())
		}
		if err := writer.PublishBatch(ctx, batch); err != nil {
			return fmt.Errorf("publish round %d: %w", round, err)
		}
		logger.Info("published round", "round", round, "observations", len(batch))

		if *rounds == 0 || round < *rounds-1 {
			select {
			case <-ctx.Done():
				logger.Info("simulation stopping", "reason", ctx.Err())
				return nil
			case <-time.After(*interval):
			}
		}
	}

	return nil
}

func simulateObservation(rng *rand.Rand, city cityInfo, now time.Time) domain.Observation {
	base := seasonalBaseTemps[domain.Season(now)][city.province]
	temperature := round1(base + regionalAdjustments[city.region] + rng.Float64()*10 - 5)

	humidity := correlatedHumidity(rng, temperature)
	windSpeed := round1(rng.Float64() * 30)
	pressure := round1(980 + rng.Float64()*50)
	visibility := round1(1 + rng.Float64()*19)
	condition, description := determineCondition(rng, temperature, humidity, windSpeed)

	obs := domain.Observation{
		City:        city.name,
		Province:    city.province,
		Region:      city.region,
		Latitude:    city.lat,
		Longitude:   city.lon,
		Timestamp:   now.Format(time.RFC3339),
		Temperature: temperature,
		Humidity:    humidity,
		WindSpeed:   windSpeed,
		Pressure:    pressure,
		Visibility:  visibility,
		Condition:   condition,
		Description: description,
		DataSource:  "simulated",
	}
	obs.AlertFlags = domain.DetectAlertFlags(obs)
	return obs
}

// correlatedHumidity draws humidity from a band that tracks temperature:
// very cold air reads humid, mild air spans the widest range.
func correlatedHumidity(rng *rand.Rand, temperature float64) float64 {
	var lo, hi float64
	switch {
	case temperature < -20:
		lo, hi = 60, 90
	case temperature < 0:
		lo, hi = 50, 85
	case temperature < 20:
		lo, hi = 40, 80
	default:
		lo, hi = 30, 90
	}
	return math.Floor(lo + rng.Float64()*(hi-lo))
}

func determineCondition(rng *rand.Rand, temperature, humidity, windSpeed float64) (string, string) {
	switch {
	case temperature < -10 && humidity > 80:
		return "Snow", "light snow"
	case temperature < 0 && humidity > 85:
		return "Snow", "snow"
	case temperature > 15 && humidity > 80:
		return "Rain", "light rain"
	case humidity > 90:
		return "Mist", "mist"
	case windSpeed > 20:
		return "Clouds", "windy"
	}

	fair := []struct{ main, description string }{
		{"Clear", "clear sky"},
		{"Clouds", "few clouds"},
		{"Clouds", "scattered clouds"},
		{"Clouds", "broken clouds"},
		{"Clouds", "overcast clouds"},
	}
	pick := fair[rng.Intn(len(fair))]
	return pick.main, pick.description
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
