package domain

import "math"

// IncidentAngle returns the angle in radians between the noon sun and the
// panel normal.
func IncidentAngle(elevation, tilt, azimuth float64) float64 {
	elevRad := degToRad(elevation)
	tiltRad := degToRad(tilt)
	cosTheta := math.Sin(elevRad)*math.Sin(tiltRad) +
		math.Cos(elevRad)*math.Cos(tiltRad)*math.Cos(degToRad(azimuth-180))
	// Rounding can push the product a hair past ±1, where Acos is NaN.
	return math.Acos(math.Max(-1, math.Min(1, cosTheta)))
}

// IncidenceModifier returns cos(incident angle) clamped to [0, 1]. Geometry
// that puts the sun behind the panel yields 0.
func IncidenceModifier(elevation, tilt, azimuth float64) float64 {
	return math.Max(0, math.Cos(IncidentAngle(elevation, tilt, azimuth)))
}

// PlaneOfArrayIrradiance scales horizontal irradiance (kWh/m²/day) onto the
// panel plane. Negative irradiance is treated as none.
func PlaneOfArrayIrradiance(ghi, elevation, tilt, azimuth float64) float64 {
	return math.Max(0, ghi) * IncidenceModifier(elevation, tilt, azimuth)
}
