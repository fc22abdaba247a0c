package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// reportNamespace scopes report IDs so they never collide with other UUIDv5 spaces.
var reportNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/couchcryptid/solar-yield-service/reports"))

// EstimateReport is the output record handed to presentation and reporting
// collaborators.
type EstimateReport struct {
	ID                string           `json:"id"`
	Parameters        SystemParameters `json:"parameters"`
	Summary           AnnualSummary    `json:"summary"`
	MeteorologySource string           `json:"meteorology_source"`
	// Degraded is true when the requested provider failed and the analytic
	// model was substituted.
	Degraded   bool      `json:"degraded"`
	ComputedAt time.Time `json:"computed_at"`
}

// NewReport stamps a summary with its identity and computation time.
func NewReport(p SystemParameters, summary AnnualSummary, source string, degraded bool) EstimateReport {
	return EstimateReport{
		ID:                ReportID(p, source),
		Parameters:        p,
		Summary:           summary,
		MeteorologySource: source,
		Degraded:          degraded,
		ComputedAt:        clock.Now().UTC(),
	}
}

// ReportID derives a deterministic UUIDv5 from the parameters and the
// meteorology source, so repeating a request yields the same key downstream.
func ReportID(p SystemParameters, source string) string {
	name := fmt.Sprintf("%s|%.6f|%.6f|%g|%g|%g|%g|%g|%g",
		source, p.Latitude, p.Longitude, p.SystemSize, p.PanelEfficiency,
		p.TiltAngle, p.AzimuthAngle, p.SystemLosses, p.Albedo)
	return uuid.NewSHA1(reportNamespace, []byte(name)).String()
}
