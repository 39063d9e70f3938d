package kafka

import (
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-enrichment-etl/internal/domain"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("Toronto"),
		Value:     []byte(`{"city":"Toronto"}`),
		Topic:     "raw-weather-observations",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "data_source", Value: []byte("environment-canada")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("Toronto"), raw.Key)
	assert.JSONEq(t, `{"city":"Toronto"}`, string(raw.Value))
	assert.Equal(t, "raw-weather-observations", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "environment-canada", raw.Headers["data_source"])
	assert.Nil(t, raw.Commit)
}

func TestSerializeToMessage(t *testing.T) {
	obs := domain.Observation{
		City:        "Toronto",
		Province:    "ON",
		Timestamp:   "2026-02-01T10:00:00Z",
		Temperature: -5.5,
		Humidity:    70,
		WindSpeed:   20,
		DataSource:  "simulated",
	}

	msg, err := serializeToMessage(obs)
	require.NoError(t, err)

	assert.Equal(t, []byte("Toronto"), msg.Key)
	assert.Contains(t, string(msg.Value), `"temperature_celsius":-5.5`)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "data_source", msg.Headers[0].Key)
	assert.Equal(t, []byte("simulated"), msg.Headers[0].Value)
	assert.Equal(t, "timestamp", msg.Headers[1].Key)
	assert.Equal(t, []byte("2026-02-01T10:00:00Z"), msg.Headers[1].Value)
}
