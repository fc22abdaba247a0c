package estimator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/solar-yield-service/internal/domain"
	"github.com/couchcryptid/solar-yield-service/internal/observability"
	"golang.org/x/sync/errgroup"
)

// Publisher receives completed estimate reports.
type Publisher interface {
	Publish(ctx context.Context, reports ...domain.EstimateReport) error
}

// BatchItem is the outcome of one site in a batch. Exactly one of Report or
// Err is meaningful.
type BatchItem struct {
	Report domain.EstimateReport
	Err    error
}

// Service orchestrates validation, meteorology lookup, the yield model, and
// report publishing.
type Service struct {
	provider    domain.MeteorologyProvider
	fallback    domain.MeteorologyProvider
	publisher   Publisher
	logger      *slog.Logger
	metrics     *observability.Metrics
	concurrency int
	ready       atomic.Bool
}

// New creates a Service. A nil provider estimates from the analytic model
// only; a nil publisher disables report publishing.
func New(provider domain.MeteorologyProvider, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics, concurrency int) *Service {
	if provider == nil {
		provider = domain.AnalyticProvider{}
		metrics.MeteorologyRemote.Set(0)
	} else {
		metrics.MeteorologyRemote.Set(1)
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		provider:    provider,
		fallback:    domain.AnalyticProvider{},
		publisher:   publisher,
		logger:      logger,
		metrics:     metrics,
		concurrency: concurrency,
	}
}

// CheckReadiness returns nil once at least one estimate has completed,
// or an error describing why the service is not yet ready.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("estimator has not completed an estimate yet")
	}
	return nil
}

// Warmup runs the reference scenario through the analytic model so readiness
// does not wait for the first client request.
func (s *Service) Warmup(ctx context.Context) error {
	p := domain.SystemParameters{
		Latitude: 35, Longitude: -118, SystemSize: 10, PanelEfficiency: 0.2,
		TiltAngle: 20, AzimuthAngle: 180, SystemLosses: 0.14, Albedo: 0.2,
	}
	series, err := s.fallback.Fetch(ctx, p.Latitude, p.Longitude)
	if err != nil {
		return fmt.Errorf("warmup meteorology: %w", err)
	}
	summary, err := domain.Calculate(p, series)
	if err != nil {
		return fmt.Errorf("warmup calculate: %w", err)
	}
	s.ready.Store(true)
	s.logger.Info("estimator warm", "reference_annual_energy_kwh", summary.AnnualEnergy)
	return nil
}

// Estimate computes and publishes the report for one installation. Invalid
// parameters return a *domain.ValidationError; provider failures are absorbed
// by the analytic fallback and flagged on the report.
func (s *Service) Estimate(ctx context.Context, p domain.SystemParameters) (domain.EstimateReport, error) {
	report, err := s.estimate(ctx, p)
	if err != nil {
		return domain.EstimateReport{}, err
	}
	s.publish(ctx, report)
	return report, nil
}

// EstimateBatch estimates independent sites in parallel, bounded by the
// configured concurrency. Items keep input order; per-site failures do not
// affect other sites. Successful reports are published in one call.
func (s *Service) EstimateBatch(ctx context.Context, sites []domain.SystemParameters) []BatchItem {
	items := make([]BatchItem, len(sites))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, p := range sites {
		g.Go(func() error {
			report, err := s.estimate(ctx, p)
			items[i] = BatchItem{Report: report, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	reports := make([]domain.EstimateReport, 0, len(items))
	for _, item := range items {
		if item.Err == nil {
			reports = append(reports, item.Report)
		}
	}
	s.publish(ctx, reports...)

	s.logger.Info("batch estimated", "sites", len(sites), "succeeded", len(reports))
	return items
}

func (s *Service) estimate(ctx context.Context, p domain.SystemParameters) (domain.EstimateReport, error) {
	start := time.Now()

	if err := p.Validate(); err != nil {
		s.recordInvalid(err)
		return domain.EstimateReport{}, err
	}

	series, source, degraded := s.meteorology(ctx, p)

	summary, err := domain.Calculate(p, series)
	if err != nil {
		s.metrics.EstimatesTotal.WithLabelValues("error").Inc()
		s.logger.Error("yield calculation failed", "error", err, "source", source)
		return domain.EstimateReport{}, fmt.Errorf("calculate yield: %w", err)
	}

	report := domain.NewReport(p, summary, source, degraded)

	s.metrics.EstimatesTotal.WithLabelValues("success").Inc()
	s.metrics.EstimateDuration.Observe(time.Since(start).Seconds())
	s.metrics.SpecificYield.Observe(summary.SpecificYield)
	s.ready.Store(true)

	s.logger.Debug("estimate complete",
		"report_id", report.ID,
		"source", source,
		"degraded", degraded,
		"annual_energy_kwh", summary.AnnualEnergy,
	)
	return report, nil
}

// meteorology fetches from the configured provider and substitutes the
// analytic model on any failure or malformed series.
func (s *Service) meteorology(ctx context.Context, p domain.SystemParameters) ([]domain.MonthlyMeteorology, string, bool) {
	series, err := s.provider.Fetch(ctx, p.Latitude, p.Longitude)
	if err == nil {
		err = domain.ValidateSeries(series)
	}
	if err == nil {
		return series, s.provider.Name(), false
	}

	s.logger.Warn("meteorology provider failed, using analytic model",
		"provider", s.provider.Name(),
		"error", err,
		"latitude", p.Latitude,
		"longitude", p.Longitude,
	)
	s.metrics.MeteorologyFallbacks.Inc()

	// The analytic model ignores the context and never fails.
	series, _ = s.fallback.Fetch(ctx, p.Latitude, p.Longitude)
	return series, s.fallback.Name(), true
}

func (s *Service) publish(ctx context.Context, reports ...domain.EstimateReport) {
	if s.publisher == nil || len(reports) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, reports...); err != nil {
		s.metrics.ReportPublishErrors.Inc()
		s.logger.Warn("report publish failed", "error", err, "count", len(reports))
		return
	}
	s.metrics.ReportsPublished.Add(float64(len(reports)))
}

func (s *Service) recordInvalid(err error) {
	s.metrics.EstimatesTotal.WithLabelValues("invalid").Inc()
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		s.metrics.ValidationErrors.WithLabelValues(verr.Key).Inc()
	}
}
