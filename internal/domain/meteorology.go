package domain

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// MonthsPerYear is the fixed length of every meteorology series and result set.
const MonthsPerYear = 12

// ErrInvalidSeries means a meteorology series is not exactly twelve entries
// ordered January through December.
var ErrInvalidSeries = errors.New("invalid meteorology series")

// MonthlyMeteorology holds one calendar month of averaged weather inputs.
type MonthlyMeteorology struct {
	Month                       int     `json:"month"`
	GlobalHorizontalIrradiance  float64 `json:"ghi"`         // kWh/m²/day
	DirectNormalIrradiance      float64 `json:"dni"`         // kWh/m²/day
	DiffuseHorizontalIrradiance float64 `json:"dhi"`         // kWh/m²/day
	Temperature                 float64 `json:"temperature"` // °C
	WindSpeed                   float64 `json:"wind_speed"`  // m/s
}

// MeteorologyProvider supplies twelve months of meteorology for a location.
type MeteorologyProvider interface {
	// Name identifies the data source in reports, logs, and metrics.
	Name() string

	// Fetch returns the series ordered by month 1..12.
	Fetch(ctx context.Context, lat, lon float64) ([]MonthlyMeteorology, error)
}

// ValidateSeries checks the series shape the engine relies on.
func ValidateSeries(series []MonthlyMeteorology) error {
	if len(series) != MonthsPerYear {
		return fmt.Errorf("%w: got %d months, want %d", ErrInvalidSeries, len(series), MonthsPerYear)
	}
	for i, m := range series {
		if m.Month != i+1 {
			return fmt.Errorf("%w: entry %d has month %d", ErrInvalidSeries, i, m.Month)
		}
	}
	return nil
}

// AnalyticProvider derives meteorology from latitude with a closed-form
// seasonal model. It needs no network and never fails.
type AnalyticProvider struct{}

// AnalyticSource is the provider name reported for the analytic model.
const AnalyticSource = "analytic"

func (AnalyticProvider) Name() string { return AnalyticSource }

func (AnalyticProvider) Fetch(_ context.Context, lat, _ float64) ([]MonthlyMeteorology, error) {
	return FallbackMeteorology(lat), nil
}

// FallbackMeteorology returns the analytic twelve-month series for a latitude:
//
//	base GHI  = max(3, 7 − |lat|/15)
//	variation = min(0.5, |lat|/90)
//	factor    = 1 + variation · cos((month − phase)·π/6), phase 1 north, 7 south
//	GHI = base·factor, DNI = GHI·0.7, DHI = GHI·0.3
//	T   = 20 + 10 · cos((month − 7)·π/6), wind = 5 m/s
func FallbackMeteorology(lat float64) []MonthlyMeteorology {
	absLat := math.Abs(lat)
	baseGHI := math.Max(3, 7-absLat/15)
	variation := math.Min(0.5, absLat/90)

	phase := 1
	if lat < 0 {
		phase = 7
	}

	series := make([]MonthlyMeteorology, 0, MonthsPerYear)
	for month := 1; month <= MonthsPerYear; month++ {
		factor := 1 + variation*math.Cos(float64(month-phase)*math.Pi/6)
		series = append(series, MonthlyMeteorology{
			Month:                       month,
			GlobalHorizontalIrradiance:  baseGHI * factor,
			DirectNormalIrradiance:      baseGHI * factor * 0.7,
			DiffuseHorizontalIrradiance: baseGHI * factor * 0.3,
			Temperature:                 20 + 10*math.Cos(float64(month-7)*math.Pi/6),
			WindSpeed:                   5,
		})
	}
	return series
}
