package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/solar-yield-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/solar-yield-service/internal/adapter/kafka"
	"github.com/couchcryptid/solar-yield-service/internal/adapter/nasapower"
	"github.com/couchcryptid/solar-yield-service/internal/config"
	"github.com/couchcryptid/solar-yield-service/internal/domain"
	"github.com/couchcryptid/solar-yield-service/internal/estimator"
	"github.com/couchcryptid/solar-yield-service/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Remote meteorology (feature-flagged via NASA_POWER_ENABLED). Without it
	// every estimate uses the analytic model.
	var provider domain.MeteorologyProvider
	if cfg.NASAPowerEnabled {
		client := nasapower.NewClient(cfg, metrics, logger)
		provider = nasapower.NewCachedProvider(client, cfg.NASAPowerCacheSize, metrics)
		logger.Info("nasa power meteorology enabled",
			"url", cfg.NASAPowerURL,
			"cache_size", cfg.NASAPowerCacheSize,
			"timeout", cfg.NASAPowerTimeout,
			"years", []int{cfg.NASAPowerStartYear, cfg.NASAPowerEndYear},
		)
	} else {
		logger.Info("nasa power meteorology disabled, using analytic model")
	}

	// Report publishing (enabled by KAFKA_BROKERS / KAFKA_ENABLED).
	var publisher estimator.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("report publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaReportTopic)
	}

	svc := estimator.New(provider, publisher, logger, metrics, cfg.BatchConcurrency)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := svc.Warmup(ctx); err != nil {
		logger.Error("estimator warmup failed", "error", err)
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
