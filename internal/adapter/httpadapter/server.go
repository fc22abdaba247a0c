package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/solar-yield-service/internal/domain"
	"github.com/couchcryptid/solar-yield-service/internal/estimator"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Estimator is the estimation surface served over HTTP.
type Estimator interface {
	sharedobs.ReadinessChecker
	Estimate(ctx context.Context, p domain.SystemParameters) (domain.EstimateReport, error)
	EstimateBatch(ctx context.Context, sites []domain.SystemParameters) []estimator.BatchItem
}

// Server exposes the estimate API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	estimator  Estimator
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /v1/estimates, /v1/estimates/batch,
// /healthz, /readyz, and /metrics routes.
func NewServer(addr string, est Estimator, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		estimator: est,
		logger:    logger,
	}

	mux.HandleFunc("POST /v1/estimates", s.handleEstimate)
	mux.HandleFunc("POST /v1/estimates/batch", s.handleEstimateBatch)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(est))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
