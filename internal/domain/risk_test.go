package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeRisk_Bounded10Table(t *testing.T) {
	tests := []struct {
		score    float64
		expected RiskCategory
	}{
		{0, RiskMinimal},
		{1.9, RiskMinimal},
		{2, RiskLow},
		{3.9, RiskLow},
		{4, RiskModerate},
		{5.9, RiskModerate},
		{6, RiskHigh},
		{7.9, RiskHigh},
		{8, RiskExtreme},
		{10, RiskExtreme},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, CategorizeRisk(tt.score, RiskScaleBounded10),
			"score=%v", tt.score)
	}
}

func TestCategorizeRisk_ZScoreTable(t *testing.T) {
	tests := []struct {
		score    float64
		expected RiskCategory
	}{
		{0, RiskMinimal},
		{0.5, RiskMinimal},
		{0.51, RiskLow},
		{1, RiskLow},
		{1.01, RiskModerate},
		{2, RiskModerate},
		{2.5, RiskHigh},
		{3, RiskHigh},
		{3.01, RiskExtreme},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, CategorizeRisk(tt.score, RiskScaleZScore),
			"score=%v", tt.score)
	}
}

// The two tables must stay distinct: a 2.5 is LOW on the bounded-10 table
// but HIGH on the z-score table.
func TestCategorizeRisk_TablesAreNotInterchangeable(t *testing.T) {
	assert.Equal(t, RiskLow, CategorizeRisk(2.5, RiskScaleBounded10))
	assert.Equal(t, RiskHigh, CategorizeRisk(2.5, RiskScaleZScore))
}

func TestCategorizeRisk_MonotoneStepFunction(t *testing.T) {
	for _, scale := range []RiskScale{RiskScaleBounded10, RiskScaleZScore} {
		prev := -1
		for score := 0.0; score <= 10.0; score += 0.05 {
			rank := CategorizeRisk(score, scale).Rank()
			assert.GreaterOrEqual(t, rank, prev, "scale=%s score=%v", scale, score)
			prev = rank
		}
	}
}
