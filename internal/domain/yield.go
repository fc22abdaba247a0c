package domain

import "math"

const (
	temperatureCoefficient = 0.004 // derating per °C above reference
	referenceTemperature   = 25.0  // °C, standard test condition
	daysPerMonth           = 30
)

// MonthlyResult is the per-month output of the energy model.
type MonthlyResult struct {
	Month                       int     `json:"month"`
	GlobalHorizontalIrradiance  float64 `json:"ghi"`
	DirectNormalIrradiance      float64 `json:"dni"`
	DiffuseHorizontalIrradiance float64 `json:"dhi"`
	EnergyProduction            float64 `json:"energy_kwh"` // AC, whole month

	SolarDeclination       float64 `json:"solar_declination"`  // degrees
	SolarElevation         float64 `json:"solar_elevation"`    // degrees at solar noon
	IncidenceModifier      float64 `json:"incidence_modifier"` // 0..1
	PlaneOfArrayIrradiance float64 `json:"poa_irradiance"`     // kWh/m²/day
}

// TemperatureCorrection returns the linear derating factor for an ambient
// temperature, floored at zero.
func TemperatureCorrection(temperature float64) float64 {
	return math.Max(0, 1-temperatureCoefficient*(temperature-referenceTemperature))
}

// MonthlyEnergy converts one month of meteorology into AC energy for the system.
func MonthlyEnergy(p SystemParameters, m MonthlyMeteorology) MonthlyResult {
	declination := Declination(m.Month)
	elevation := MiddayElevation(p.Latitude, declination)
	modifier := IncidenceModifier(elevation, p.TiltAngle, p.AzimuthAngle)
	poa := PlaneOfArrayIrradiance(m.GlobalHorizontalIrradiance, elevation, p.TiltAngle, p.AzimuthAngle)
	tempCorrection := TemperatureCorrection(m.Temperature)

	// kWp → W and back; kept so results match the reference calculator bit for bit.
	dcEnergy := poa * p.SystemSize * 1000 * p.PanelEfficiency * tempCorrection / 1000
	acEnergy := dcEnergy * (1 - p.SystemLosses)

	return MonthlyResult{
		Month:                       m.Month,
		GlobalHorizontalIrradiance:  m.GlobalHorizontalIrradiance,
		DirectNormalIrradiance:      m.DirectNormalIrradiance,
		DiffuseHorizontalIrradiance: m.DiffuseHorizontalIrradiance,
		EnergyProduction:            acEnergy * daysPerMonth,

		SolarDeclination:       declination,
		SolarElevation:         elevation,
		IncidenceModifier:      modifier,
		PlaneOfArrayIrradiance: poa,
	}
}
