package domain

import (
	"fmt"
	"math"
)

// SystemParameters describes a PV installation and its site.
type SystemParameters struct {
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	SystemSize      float64 `json:"system_size_kwp"`
	PanelEfficiency float64 `json:"panel_efficiency"` // fraction, 0.1–0.3
	TiltAngle       float64 `json:"tilt_angle"`
	AzimuthAngle    float64 `json:"azimuth_angle"` // 180 = equator-facing
	SystemLosses    float64 `json:"system_losses"` // fraction, 0–0.5
	Albedo          float64 `json:"albedo"`        // validated, not used by the energy model
}

// ValidationError reports the first parameter that failed its range check.
type ValidationError struct {
	Field string  // human-readable name, e.g. "Panel Efficiency"
	Key   string  // JSON key, e.g. "panel_efficiency"
	Value float64 // offending value (may be NaN)
	Min   float64
	Max   float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s must be between %g and %g", e.Field, e.Min, e.Max)
}

type bound struct {
	field string
	key   string
	value float64
	min   float64
	max   float64
}

func (p SystemParameters) bounds() []bound {
	return []bound{
		{"Latitude", "latitude", p.Latitude, -90, 90},
		{"Longitude", "longitude", p.Longitude, -180, 180},
		{"System Size", "system_size_kwp", p.SystemSize, 0.1, 1000},
		{"Panel Efficiency", "panel_efficiency", p.PanelEfficiency, 0.1, 0.3},
		{"Tilt Angle", "tilt_angle", p.TiltAngle, 0, 90},
		{"Azimuth Angle", "azimuth_angle", p.AzimuthAngle, -180, 180},
		{"System Losses", "system_losses", p.SystemLosses, 0, 0.5},
		{"Albedo", "albedo", p.Albedo, 0, 1},
	}
}

// Validate checks every parameter against its closed range in declaration
// order and returns a *ValidationError for the first failure. NaN always fails.
func (p SystemParameters) Validate() error {
	for _, b := range p.bounds() {
		if math.IsNaN(b.value) || b.value < b.min || b.value > b.max {
			return &ValidationError{
				Field: b.field,
				Key:   b.key,
				Value: b.value,
				Min:   b.min,
				Max:   b.max,
			}
		}
	}
	return nil
}

// PercentToFraction converts a percentage input (e.g. 20 for 20 %) to the
// fractional form Validate expects.
func PercentToFraction(pct float64) float64 {
	return pct / 100
}
