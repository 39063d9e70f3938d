package alert

import (
	"testing"

	"github.com/couchcryptid/weather-enrichment-etl/internal/domain"
	"github.com/stretchr/testify/assert"
)

func enriched(city string, category domain.AlertCategory, risk domain.RiskCategory, detected bool) domain.EnrichedObservation {
	return domain.EnrichedObservation{
		Observation: domain.Observation{
			City:        city,
			Province:    "ON",
			Temperature: 46.5,
			Humidity:    30,
			WindSpeed:   20,
		},
		FeelsLike:       48.2,
		WindChill:       46.5,
		SeverityScore:   8.5,
		RiskCategory:    risk,
		AnomalyDetected: detected,
		AlertCategory:   category,
	}
}

func TestComposer_Qualifies(t *testing.T) {
	c := NewComposer("arn:aws:sns:ca-central-1:0:weather-alerts")

	tests := []struct {
		name     string
		obs      domain.EnrichedObservation
		expected bool
	}{
		{"anomaly detected", enriched("Toronto", domain.AlertHeatExtreme, domain.RiskLow, true), true},
		{"high risk without anomaly", enriched("Toronto", "", domain.RiskHigh, false), true},
		{"extreme risk without anomaly", enriched("Toronto", "", domain.RiskExtreme, false), true},
		{"moderate risk, no anomaly", enriched("Toronto", "", domain.RiskModerate, false), false},
		{"quiet conditions", enriched("Toronto", "", domain.RiskMinimal, false), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Qualifies(tt.obs))
		})
	}
}

func TestComposer_Compose(t *testing.T) {
	c := NewComposer("arn:aws:sns:ca-central-1:0:weather-alerts")

	t.Run("heat template", func(t *testing.T) {
		msg := c.Compose(enriched("Toronto", domain.AlertHeatExtreme, domain.RiskExtreme, true))

		assert.Equal(t, "Weather Alert: Toronto, ON", msg.Subject)
		assert.Contains(t, msg.Body, "EXTREME HEAT in Toronto")
		assert.Contains(t, msg.Body, "46.5°C")
		assert.Contains(t, msg.Body, "feels like 48.2°C")
		assert.Contains(t, msg.Body, "Severity 8.5")
		assert.Equal(t, "arn:aws:sns:ca-central-1:0:weather-alerts", msg.Target)
	})

	t.Run("cold template", func(t *testing.T) {
		obs := enriched("Winnipeg", domain.AlertColdExtreme, domain.RiskExtreme, true)
		obs.Temperature = -52
		obs.WindChill = -64.3
		msg := c.Compose(obs)

		assert.Contains(t, msg.Body, "EXTREME COLD in Winnipeg")
		assert.Contains(t, msg.Body, "wind chill -64.3°C")
	})

	t.Run("wind template", func(t *testing.T) {
		obs := enriched("Halifax", domain.AlertWindExtreme, domain.RiskHigh, true)
		obs.WindSpeed = 165
		msg := c.Compose(obs)

		assert.Contains(t, msg.Body, "EXTREME WIND in Halifax")
		assert.Contains(t, msg.Body, "165 km/h")
	})

	t.Run("default template covers remaining categories", func(t *testing.T) {
		for _, category := range []domain.AlertCategory{
			domain.AlertHumidityExtreme, domain.AlertSevereWeather, domain.AlertModerate, "",
		} {
			msg := c.Compose(enriched("Ottawa", category, domain.RiskHigh, true))
			assert.Contains(t, msg.Body, "Severe weather in Ottawa", "category=%s", category)
		}
	})
}

func TestComposer_ComposeBatch(t *testing.T) {
	c := NewComposer("arn:test")

	batch := []domain.EnrichedObservation{
		enriched("Toronto", domain.AlertHeatExtreme, domain.RiskExtreme, true),
		enriched("Montreal", "", domain.RiskLow, false),
		enriched("Halifax", domain.AlertWindExtreme, domain.RiskHigh, true),
	}

	msgs := c.ComposeBatch(batch)

	assert.Len(t, msgs, 2)
	assert.Contains(t, msgs[0].Body, "Toronto")
	assert.Contains(t, msgs[1].Body, "Halifax")
}

func TestComposeBatch_NoQualifiers(t *testing.T) {
	c := NewComposer("arn:test")
	msgs := c.ComposeBatch([]domain.EnrichedObservation{
		enriched("Regina", "", domain.RiskMinimal, false),
	})
	assert.Empty(t, msgs)
}
