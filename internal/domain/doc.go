// Package domain models photovoltaic energy-yield estimation for a single site.
//
// # Inputs
//
// A request is described by [SystemParameters]: site coordinates, installed
// capacity (kWp), panel efficiency, tilt, azimuth, system losses, and ground
// albedo. Efficiency and losses are fractions. Callers that collect them as
// percentages divide by 100 before validation.
//
// Meteorology arrives as twelve [MonthlyMeteorology] records, one per calendar
// month, from a [MeteorologyProvider]. Irradiance values are daily means in
// kWh/m²/day, temperature is the 2 m air temperature in °C, wind is 10 m wind
// speed in m/s.
//
// # Angle conventions
//
//	Latitude:  -90..90, positive north.
//	Tilt:      0 (horizontal) .. 90 (vertical).
//	Azimuth:   -180..180 with 180 meaning equator-facing. The incidence model
//	           uses (azimuth - 180), so a panel at 180 has no azimuth penalty.
//
// All trigonometry runs in radians; degrees are converted at function boundaries.
//
// # Model
//
// The engine evaluates a single solar-noon snapshot per month and scales it to
// the whole month:
//
//	declination  = 23.45 · sin(2π(month − 81)/365)
//	elevation    = asin(sin φ sin δ + cos φ cos δ cos 0)
//	incidence    = acos(sin e sin β + cos e cos β cos(γ − 180))
//	modifier     = max(0, cos incidence)
//	POA          = max(0, GHI) · modifier
//	tempFactor   = max(0, 1 − 0.004 (T − 25))
//	DC           = POA · kWp · efficiency · tempFactor
//	AC           = DC · (1 − losses)
//	monthly kWh  = AC · 30
//
// Known simplifications of the model:
//
//   - The raw month number stands in for day-of-year in the declination
//     formula, so declination barely moves across the year.
//   - Every month counts as 30 days.
//   - Panel efficiency multiplies an irradiance figure that already represents
//     delivered energy per m², which depresses absolute output.
//   - Albedo is validated but no ground-reflected component is modelled.
//   - Negative irradiance and the temperature derate are floored at zero so
//     monthly energy never goes negative. Neither floor is reached by real
//     climate data (it takes T above 275 °C).
//
// # Fallback meteorology
//
// [AnalyticProvider] derives twelve months from latitude alone. It never fails
// and is bit-reproducible, which makes it the reference path for deterministic
// tests and the substitute whenever a remote provider errors.
package domain
