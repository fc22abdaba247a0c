package domain

import "math"

const (
	maxDeclinationDeg = 23.45
	equinoxDayOffset  = 81
	daysPerYear       = 365
)

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }
func radToDeg(rad float64) float64 { return rad * 180 / math.Pi }

// Declination returns the solar declination in degrees, using the month number
// in place of a day-of-year.
func Declination(month int) float64 {
	return maxDeclinationDeg * math.Sin(2*math.Pi*float64(month-equinoxDayOffset)/daysPerYear)
}

// MiddayElevation returns the solar elevation at solar noon in degrees.
func MiddayElevation(latitude, declination float64) float64 {
	const hourAngle = 0.0
	latRad := degToRad(latitude)
	declRad := degToRad(declination)
	sinElev := math.Sin(latRad)*math.Sin(declRad) +
		math.Cos(latRad)*math.Cos(declRad)*math.Cos(hourAngle)
	return radToDeg(math.Asin(math.Min(1, sinElev)))
}
