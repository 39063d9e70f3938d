package domain

// Ingestion-time alert flag tokens. Flags are attached by the collector (or
// simulator) before enrichment; each flag later contributes +0.5 to the
// bounded-10 severity score and one row to the alert-log export.
const (
	FlagExtremeCold     = "EXTREME_COLD"
	FlagColdWarning     = "COLD_WARNING"
	FlagExtremeHeat     = "EXTREME_HEAT"
	FlagHeatWarning     = "HEAT_WARNING"
	FlagExtremeWind     = "EXTREME_WIND"
	FlagHighWind        = "HIGH_WIND"
	FlagStormConditions = "STORM_CONDITIONS"
	FlagBlizzardRisk    = "BLIZZARD_RISK"
	FlagDenseFog        = "DENSE_FOG"
)

// DetectAlertFlags evaluates the ingestion-time alert conditions for a
// reading. At most one temperature flag and one wind flag apply (the more
// extreme band wins); storm, blizzard, and fog flags stack on top.
func DetectAlertFlags(obs Observation) []string {
	var flags []string

	switch {
	case obs.Temperature <= -30:
		flags = append(flags, FlagExtremeCold)
	case obs.Temperature <= -20:
		flags = append(flags, FlagColdWarning)
	case obs.Temperature >= 35:
		flags = append(flags, FlagExtremeHeat)
	case obs.Temperature >= 30:
		flags = append(flags, FlagHeatWarning)
	}

	switch {
	case obs.WindSpeed >= 40:
		flags = append(flags, FlagExtremeWind)
	case obs.WindSpeed >= 25:
		flags = append(flags, FlagHighWind)
	}

	if (obs.Condition == "Snow" || obs.Condition == "Rain") &&
		obs.WindSpeed > 15 && obs.Humidity > 85 {
		flags = append(flags, FlagStormConditions)
	}

	if obs.Condition == "Snow" && obs.WindSpeed > 20 && obs.Temperature < -15 {
		flags = append(flags, FlagBlizzardRisk)
	}

	if obs.Condition == "Mist" && obs.Visibility < 1 {
		flags = append(flags, FlagDenseFog)
	}

	return flags
}
