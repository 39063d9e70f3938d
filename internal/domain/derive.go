package domain

import "math"

// FeelsLike computes the Steadman apparent temperature from temperature and
// humidity (the wind term is reported separately as wind chill):
//
//	AT = T + 0.33·e − 4.0
//	e  = (h/100) · 6.105 · exp(17.27·T / (237.7 + T))
//
// where e is the water vapour pressure in hPa. Continuous, and monotone
// non-decreasing in humidity for a fixed temperature. One decimal.
func FeelsLike(temp, humidity float64) float64 {
	vapour := (humidity / 100.0) * 6.105 * math.Exp(17.27*temp/(237.7+temp))
	return round1(temp + 0.33*vapour - 4.0)
}

// WindChill applies the Environment Canada metric wind-chill formula:
//
//	13.12 + 0.6215·T − 11.37·V^0.16 + 0.3965·T·V^0.16
//
// Wind chill is only meaningful at or below 10°C with wind above 4.8 km/h;
// outside that envelope the input temperature is returned unchanged.
func WindChill(temp, windSpeed float64) float64 {
	if temp > 10 || windSpeed <= 4.8 {
		return temp
	}
	v := math.Pow(windSpeed, 0.16)
	return round1(13.12 + 0.6215*temp - 11.37*v + 0.3965*temp*v)
}

// HeatIndex applies the Rothfusz regression for hot, humid conditions.
// The regression is defined in Fahrenheit and valid from 80°F upward, so the
// input is converted, evaluated, and converted back. At or below 20°C (or
// below the 80°F floor) the input temperature is returned unchanged.
func HeatIndex(temp, humidity float64) float64 {
	if temp <= 20 {
		return temp
	}

	tempF := temp*9/5 + 32
	if tempF < 80 {
		return temp
	}

	hi := -42.379 +
		2.04901523*tempF +
		10.14333127*humidity -
		0.22475541*tempF*humidity -
		6.83783e-3*tempF*tempF -
		5.481717e-2*humidity*humidity +
		1.22874e-3*tempF*tempF*humidity +
		8.5282e-4*tempF*humidity*humidity -
		1.99e-6*tempF*tempF*humidity*humidity

	return round1((hi - 32) * 5 / 9)
}

// ComfortIndex scores overall comfort from 0 (miserable) to 10 (ideal).
// A perfect score requires temperature in 18–24°C, humidity in 40–60%, and
// a light 5–15 km/h breeze; graduated penalties apply outside those bands.
func ComfortIndex(temp, humidity, windSpeed float64) float64 {
	score := 10.0

	switch {
	case temp < -10 || temp > 35:
		score -= 4
	case temp < 5 || temp > 30:
		score -= 3
	case temp < 15 || temp > 27:
		score -= 2
	case temp < 18 || temp > 24:
		score -= 1
	}

	switch {
	case humidity > 80 || humidity < 20:
		score -= 2
	case humidity > 70 || humidity < 30:
		score -= 1
	}

	switch {
	case windSpeed > 25:
		score -= 2
	case windSpeed > 15:
		score -= 1
	case windSpeed < 5:
		score -= 0.5
	}

	return math.Max(0, round1(score))
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
