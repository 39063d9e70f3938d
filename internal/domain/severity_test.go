package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obsWith(temp, humidity, wind float64) Observation {
	return Observation{
		City:        "Winnipeg",
		Temperature: temp,
		Humidity:    humidity,
		WindSpeed:   wind,
		Pressure:    DefaultPressureHPa,
		Visibility:  DefaultVisibilityKm,
	}
}

func TestSeverityScore_UnknownPolicy(t *testing.T) {
	_, err := SeverityScore(obsWith(20, 50, 5), SeverityPolicy("bounded42"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown severity policy")
}

func TestSeverityScore_Bounded10(t *testing.T) {
	tests := []struct {
		name     string
		obs      Observation
		expected float64
	}{
		{"calm mild day scores zero", obsWith(20, 50, 5), 0},
		{"cold snap", obsWith(-16, 70, 10), 2},
		{"heat and humidity combination", obsWith(31, 85, 5), 4},
		{"blizzard conditions", obsWith(-26, 75, 30), 7},
		{"moderate wind only", obsWith(10, 50, 16), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := SeverityScore(tt.obs, PolicyBounded10)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, score)
		})
	}

	t.Run("pressure and visibility contribute", func(t *testing.T) {
		obs := obsWith(20, 50, 5)
		obs.Pressure = 975
		obs.Visibility = 0.5
		score, err := SeverityScore(obs, PolicyBounded10)
		require.NoError(t, err)
		assert.Equal(t, 4.0, score)
	})

	t.Run("half a point per alert flag", func(t *testing.T) {
		obs := obsWith(20, 50, 5)
		obs.AlertFlags = []string{FlagHighWind, FlagStormConditions, FlagDenseFog}
		score, err := SeverityScore(obs, PolicyBounded10)
		require.NoError(t, err)
		assert.Equal(t, 1.5, score)
	})

	t.Run("clamped to 10", func(t *testing.T) {
		obs := obsWith(-38, 90, 60)
		obs.Pressure = 960
		obs.Visibility = 0.2
		obs.AlertFlags = []string{FlagExtremeCold, FlagExtremeWind, FlagBlizzardRisk}
		score, err := SeverityScore(obs, PolicyBounded10)
		require.NoError(t, err)
		assert.Equal(t, 10.0, score)
	})

	t.Run("always within 0 to 10", func(t *testing.T) {
		for _, temp := range []float64{-60, -30, -10, 0, 20, 32, 45} {
			for _, wind := range []float64{0, 18, 30, 50, 200} {
				score, err := SeverityScore(obsWith(temp, 85, wind), PolicyBounded10)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, score, 0.0)
				assert.LessOrEqual(t, score, 10.0)
			}
		}
	})
}

func TestSeverityScore_Bounded100(t *testing.T) {
	tests := []struct {
		name     string
		obs      Observation
		expected float64
	}{
		{"calm mild day scores zero", obsWith(20, 50, 5), 0},
		{"hot dry windstorm", obsWith(36, 95, 70), 80},
		{"deep freeze", obsWith(-32, 65, 10), 40},
		{"slightly off ideal", obsWith(26, 75, 16), 20},
		{"worst case caps at 100", obsWith(-40, 5, 200), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := SeverityScore(tt.obs, PolicyBounded100)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, score)
		})
	}

	t.Run("always an integer within 0 to 100", func(t *testing.T) {
		for _, temp := range []float64{-45.5, -12.3, 0, 24.9, 31.7, 50} {
			for _, humidity := range []float64{0, 15, 50, 88, 100} {
				for _, wind := range []float64{0, 20, 45, 95, 180} {
					score, err := SeverityScore(obsWith(temp, humidity, wind), PolicyBounded100)
					require.NoError(t, err)
					assert.Equal(t, math.Trunc(score), score, "integer-valued")
					assert.GreaterOrEqual(t, score, 0.0)
					assert.LessOrEqual(t, score, 100.0)
				}
			}
		}
	})
}
