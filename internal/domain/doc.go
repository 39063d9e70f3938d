// Package domain models per-city weather observations and the pure
// enrichment math applied to them.
//
// # Data Source
//
// Observations arrive as flat JSON records on the Kafka source topic, one
// record per city reading, published either by a real collector in front of
// the OpenWeather API or by the cmd/simulate developer tool. Field names
// follow the collector's conventions (temperature_celsius, humidity_percent,
// wind_speed_kmh, ...).
//
// Temperature, humidity, and wind speed are required: a record missing any
// of them is rejected at the parse boundary with a MissingFieldError rather
// than silently defaulted to zero. Pressure and visibility are optional and
// fall back to explicit policy defaults (1013 hPa, 10 km).
//
// # Derived Metrics
//
// All derivation functions are pure and never fail. Physically implausible
// inputs still produce a numeric result; flagging them is the anomaly
// detector's job, not the deriver's.
//
//	FeelsLike     Steadman apparent temperature (temperature + humidity term)
//	WindChill     metric wind-chill formula, applied only when T ≤ 10°C and
//	              wind > 4.8 km/h; outside that envelope wind chill is not
//	              meaningful and the input temperature is returned unchanged
//	HeatIndex     Rothfusz regression, applied only above 20°C (and ≥ 80°F
//	              after conversion); computed in Fahrenheit, reported in Celsius
//	ComfortIndex  0–10 score starting at a perfect 10 with graduated
//	              penalties for temperature, humidity, and wind discomfort
//
// # Severity Scoring
//
// Two scoring policies coexist and are selected explicitly by configuration.
// They are not interchangeable and a single pipeline run never mixes them:
//
//	bounded10   additive multi-factor score clamped to [0, 10], tuned for
//	            Canadian climate bands (deep cold counts as much as heat)
//	bounded100  three independently-bounded integer sub-scores — temperature
//	            (0–40), humidity (0–25), wind (0–35) — summed to [0, 100]
//
// Severity is a function of instantaneous conditions only. Deviation from a
// city's recent history is scored separately by the anomaly package so the
// two signals stay independent.
//
// # Risk Categories
//
// CategorizeRisk maps a score to an ordered label (MINIMAL < LOW < MODERATE
// < HIGH < EXTREME) under one of two distinct threshold tables: one for
// bounded-10 severity scores, one for z-score magnitudes on a 0–3 scale.
// The table is an explicit input; it is never inferred from the score's
// magnitude.
package domain
