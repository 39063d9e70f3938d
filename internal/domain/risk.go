package domain

// RiskCategory is an ordered label derived from a severity or z-score under
// one classification scale.
type RiskCategory string

const (
	RiskMinimal  RiskCategory = "MINIMAL"
	RiskLow      RiskCategory = "LOW"
	RiskModerate RiskCategory = "MODERATE"
	RiskHigh     RiskCategory = "HIGH"
	RiskExtreme  RiskCategory = "EXTREME"
)

// Rank returns the category's position in the MINIMAL < LOW < MODERATE <
// HIGH < EXTREME ordering. Unknown categories rank below MINIMAL.
func (c RiskCategory) Rank() int {
	switch c {
	case RiskMinimal:
		return 0
	case RiskLow:
		return 1
	case RiskModerate:
		return 2
	case RiskHigh:
		return 3
	case RiskExtreme:
		return 4
	default:
		return -1
	}
}

// RiskScale names one of the two distinct classification threshold tables.
// The scale is explicit configuration: it is never inferred from the score's
// magnitude, because a 2.5 means very different things on the two scales.
type RiskScale string

const (
	// RiskScaleBounded10 classifies bounded-10 severity scores.
	RiskScaleBounded10 RiskScale = "bounded10"
	// RiskScaleZScore classifies z-score magnitudes on a 0–3 working scale.
	RiskScaleZScore RiskScale = "zscore"
)

// CategorizeRisk maps a score to its risk category under the given scale.
// Monotone non-decreasing in the score for a fixed scale.
func CategorizeRisk(score float64, scale RiskScale) RiskCategory {
	if scale == RiskScaleZScore {
		switch {
		case score > 3:
			return RiskExtreme
		case score > 2:
			return RiskHigh
		case score > 1:
			return RiskModerate
		case score > 0.5:
			return RiskLow
		default:
			return RiskMinimal
		}
	}

	switch {
	case score >= 8:
		return RiskExtreme
	case score >= 6:
		return RiskHigh
	case score >= 4:
		return RiskModerate
	case score >= 2:
		return RiskLow
	default:
		return RiskMinimal
	}
}
