package domain

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// co2KgPerKWh is a fixed grid-average emission factor.
	co2KgPerKWh  = 0.5
	hoursPerYear = daysPerYear * 24
)

// AnnualSummary aggregates twelve monthly results.
type AnnualSummary struct {
	AnnualEnergy  float64 `json:"annual_energy_kwh"`
	SpecificYield float64 `json:"specific_yield_kwh_per_kwp"`
	PeakSunHours  float64 `json:"peak_sun_hours"`
	CO2Offset     float64 `json:"co2_offset_kg"`

	// PlaneOfArrayInsolation is the mean daily plane-of-array irradiance,
	// kWh/m²/day, i.e. equivalent full-sun hours on the panel before any
	// efficiency or loss is applied.
	PlaneOfArrayInsolation float64         `json:"poa_insolation"`
	CapacityFactor         float64         `json:"capacity_factor"`
	Statistics             YieldStatistics `json:"statistics"`

	Monthly []MonthlyResult `json:"monthly"`
}

// YieldStatistics describes how monthly energy is spread over the year.
type YieldStatistics struct {
	MeanMonthlyEnergy   float64 `json:"mean_monthly_energy_kwh"`
	StdDevMonthlyEnergy float64 `json:"stddev_monthly_energy_kwh"`
	BestMonth           int     `json:"best_month"`
	WorstMonth          int     `json:"worst_month"`
}

// Summarize derives the annual figures from ordered monthly results.
// systemSize must be positive, which Validate guarantees.
func Summarize(monthly []MonthlyResult, systemSize float64) AnnualSummary {
	var annual, poaSum float64
	energies := make([]float64, len(monthly))
	for i, m := range monthly {
		annual += m.EnergyProduction
		poaSum += m.PlaneOfArrayIrradiance
		energies[i] = m.EnergyProduction
	}

	summary := AnnualSummary{
		AnnualEnergy:   annual,
		SpecificYield:  annual / systemSize,
		PeakSunHours:   annual / (systemSize * daysPerYear),
		CO2Offset:      annual * co2KgPerKWh,
		CapacityFactor: annual / (systemSize * hoursPerYear),
		Monthly:        monthly,
	}
	if len(monthly) == 0 {
		return summary
	}

	summary.PlaneOfArrayInsolation = poaSum / float64(len(monthly))
	mean, std := stat.MeanStdDev(energies, nil)
	if math.IsNaN(std) {
		std = 0
	}
	summary.Statistics = YieldStatistics{
		MeanMonthlyEnergy:   mean,
		StdDevMonthlyEnergy: std,
		BestMonth:           monthly[floats.MaxIdx(energies)].Month,
		WorstMonth:          monthly[floats.MinIdx(energies)].Month,
	}
	return summary
}
