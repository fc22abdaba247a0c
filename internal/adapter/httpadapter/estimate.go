package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/couchcryptid/solar-yield-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

const (
	maxBatchSites = 100
	maxBodyBytes  = 1 << 20
)

// estimateRequest is the wire form of one installation. Efficiency and losses
// arrive as percentages. Pointers distinguish an absent field, which fails
// validation, from an explicit zero.
type estimateRequest struct {
	Latitude           *float64 `json:"latitude"`
	Longitude          *float64 `json:"longitude"`
	SystemSize         *float64 `json:"system_size_kwp"`
	PanelEfficiencyPct *float64 `json:"panel_efficiency_pct"`
	TiltAngle          *float64 `json:"tilt_angle"`
	AzimuthAngle       *float64 `json:"azimuth_angle"`
	SystemLossesPct    *float64 `json:"system_losses_pct"`
	Albedo             *float64 `json:"albedo"`
}

func (r estimateRequest) params() domain.SystemParameters {
	return domain.SystemParameters{
		Latitude:        valueOrNaN(r.Latitude),
		Longitude:       valueOrNaN(r.Longitude),
		SystemSize:      valueOrNaN(r.SystemSize),
		PanelEfficiency: domain.PercentToFraction(valueOrNaN(r.PanelEfficiencyPct)),
		TiltAngle:       valueOrNaN(r.TiltAngle),
		AzimuthAngle:    valueOrNaN(r.AzimuthAngle),
		SystemLosses:    domain.PercentToFraction(valueOrNaN(r.SystemLossesPct)),
		Albedo:          valueOrNaN(r.Albedo),
	}
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

type batchRequest struct {
	Sites []estimateRequest `json:"sites"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type batchResult struct {
	Index  int                    `json:"index"`
	Report *domain.EstimateReport `json:"report,omitempty"`
	Error  *errorResponse         `json:"error,omitempty"`
}

type batchResponse struct {
	Results []batchResult `json:"results"`
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := decodeBody(w, r, &req); err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	report, err := s.estimator.Estimate(r.Context(), req.params())
	if err != nil {
		status, body := s.errorBody(err)
		sharedobs.WriteJSON(w, status, body)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, report)
}

func (s *Server) handleEstimateBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeBody(w, r, &req); err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	switch {
	case len(req.Sites) == 0:
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "sites must not be empty", Field: "sites"})
		return
	case len(req.Sites) > maxBatchSites:
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("at most %d sites per batch", maxBatchSites),
			Field: "sites",
		})
		return
	}

	sites := make([]domain.SystemParameters, len(req.Sites))
	for i, site := range req.Sites {
		sites[i] = site.params()
	}

	items := s.estimator.EstimateBatch(r.Context(), sites)
	resp := batchResponse{Results: make([]batchResult, len(items))}
	for i, item := range items {
		resp.Results[i] = batchResult{Index: i}
		if item.Err != nil {
			_, body := s.errorBody(item.Err)
			resp.Results[i].Error = &body
			continue
		}
		report := item.Report
		resp.Results[i].Report = &report
	}
	sharedobs.WriteJSON(w, http.StatusOK, resp)
}

// errorBody maps an estimate error to its status and response body. Only
// validation failures are shown to the caller verbatim.
func (s *Server) errorBody(err error) (int, errorResponse) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, errorResponse{Error: verr.Error(), Field: verr.Key}
	}
	s.logger.Error("estimate failed", "error", err)
	return http.StatusInternalServerError, errorResponse{Error: "calculation failed"}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
