package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_ReferenceScenario(t *testing.T) {
	p := validParams()

	summary, err := Calculate(p, FallbackMeteorology(p.Latitude))
	require.NoError(t, err)

	require.Len(t, summary.Monthly, MonthsPerYear)
	for i, m := range summary.Monthly {
		assert.Equal(t, i+1, m.Month)
		assert.GreaterOrEqual(t, m.EnergyProduction, 0.0)
	}

	assert.Positive(t, summary.AnnualEnergy)
	assert.InDelta(t, 2898.901, summary.AnnualEnergy, 1e-3)

	// Peak sun hours follow the literal formula, which keeps panel efficiency
	// in the product; the panel-plane insolation is the physical figure.
	assert.InDelta(t, 0.7942, summary.PeakSunHours, 1e-4)
	assert.InDelta(t, 3.97, summary.PeakSunHours/p.PanelEfficiency, 0.01)
	assert.GreaterOrEqual(t, summary.PlaneOfArrayInsolation, 3.0)
	assert.LessOrEqual(t, summary.PlaneOfArrayInsolation, 7.0)
	assert.InDelta(t, 4.5551, summary.PlaneOfArrayInsolation, 1e-4)

	assert.Equal(t, 1, summary.Statistics.BestMonth)
	assert.Equal(t, 7, summary.Statistics.WorstMonth)
}

func TestCalculate_AggregateIdentities(t *testing.T) {
	sites := []SystemParameters{
		validParams(),
		{Latitude: -33.9, Longitude: 18.4, SystemSize: 4.5, PanelEfficiency: 0.18, TiltAngle: 30, AzimuthAngle: 0, SystemLosses: 0.1, Albedo: 0.25},
		{Latitude: 0, Longitude: 0, SystemSize: 0.1, PanelEfficiency: 0.1, TiltAngle: 0, AzimuthAngle: 180, SystemLosses: 0.5, Albedo: 0},
		{Latitude: 64.1, Longitude: -21.9, SystemSize: 1000, PanelEfficiency: 0.3, TiltAngle: 90, AzimuthAngle: -90, SystemLosses: 0, Albedo: 1},
	}

	for _, p := range sites {
		summary, err := Calculate(p, FallbackMeteorology(p.Latitude))
		require.NoError(t, err)

		var sum float64
		for _, m := range summary.Monthly {
			sum += m.EnergyProduction
			assert.GreaterOrEqual(t, m.EnergyProduction, 0.0)
			assert.GreaterOrEqual(t, m.IncidenceModifier, 0.0)
			assert.LessOrEqual(t, m.IncidenceModifier, 1.0)
		}

		assert.Equal(t, sum, summary.AnnualEnergy)
		assert.Equal(t, 0.5*summary.AnnualEnergy, summary.CO2Offset)
		assert.InDelta(t, summary.AnnualEnergy, summary.SpecificYield*p.SystemSize, 1e-9*math.Max(1, summary.AnnualEnergy))
		assert.InDelta(t, summary.AnnualEnergy, summary.PeakSunHours*p.SystemSize*365, 1e-9*math.Max(1, summary.AnnualEnergy))
		assert.InDelta(t, summary.AnnualEnergy, summary.CapacityFactor*p.SystemSize*8760, 1e-9*math.Max(1, summary.AnnualEnergy))
	}
}

func TestCalculate_IsDeterministic(t *testing.T) {
	p := validParams()
	first, err := Calculate(p, FallbackMeteorology(p.Latitude))
	require.NoError(t, err)
	second, err := Calculate(p, FallbackMeteorology(p.Latitude))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCalculate_AlbedoDoesNotAffectEnergy(t *testing.T) {
	low := validParams()
	low.Albedo = 0
	high := validParams()
	high.Albedo = 1

	a, err := Calculate(low, FallbackMeteorology(low.Latitude))
	require.NoError(t, err)
	b, err := Calculate(high, FallbackMeteorology(high.Latitude))
	require.NoError(t, err)

	assert.Equal(t, a.AnnualEnergy, b.AnnualEnergy)
}

func TestCalculate_RejectsInvalidInput(t *testing.T) {
	p := validParams()
	p.Latitude = 91
	_, err := Calculate(p, FallbackMeteorology(35))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Latitude", verr.Field)

	_, err = Calculate(validParams(), FallbackMeteorology(35)[:6])
	assert.ErrorIs(t, err, ErrInvalidSeries)
}

func TestCalculate_ZeroIrradianceSeries(t *testing.T) {
	series := FallbackMeteorology(35)
	for i := range series {
		series[i].GlobalHorizontalIrradiance = 0
	}

	summary, err := Calculate(validParams(), series)
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.AnnualEnergy)
	assert.Equal(t, 0.0, summary.Statistics.StdDevMonthlyEnergy)
}

func TestSummarize_Statistics(t *testing.T) {
	monthly := make([]MonthlyResult, MonthsPerYear)
	for i := range monthly {
		monthly[i] = MonthlyResult{Month: i + 1, EnergyProduction: 100}
	}
	monthly[4].EnergyProduction = 160
	monthly[10].EnergyProduction = 40

	s := Summarize(monthly, 2)
	assert.Equal(t, 1200.0, s.AnnualEnergy)
	assert.Equal(t, 600.0, s.SpecificYield)
	assert.Equal(t, 600.0, s.CO2Offset)
	assert.InDelta(t, 100, s.Statistics.MeanMonthlyEnergy, 1e-12)
	assert.Positive(t, s.Statistics.StdDevMonthlyEnergy)
	assert.Equal(t, 5, s.Statistics.BestMonth)
	assert.Equal(t, 11, s.Statistics.WorstMonth)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, 5)
	assert.Equal(t, 0.0, s.AnnualEnergy)
	assert.Empty(t, s.Monthly)
	assert.Equal(t, YieldStatistics{}, s.Statistics)
}
