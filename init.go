package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tournevent/rateshop/internal/batch"
	"github.com/tournevent/rateshop/internal/config"
	"github.com/tournevent/rateshop/internal/schedule"
	"github.com/tournevent/rateshop/internal/sheet"
	"github.com/tournevent/rateshop/internal/telemetry"
	"github.com/tournevent/rateshop/pkg/shipper"
	"github.com/tournevent/rateshop/pkg/shipper/shipstation"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// app is everything a command needs to drive the job.
type app struct {
	cfg       *config.Config
	logger    *otelzap.Logger
	job       *batch.Job
	registry  *shipper.Registry
	metrics   *telemetry.Metrics
	scheduler *schedule.TimerScheduler
	notifier  *schedule.LogNotifier
	closers   []func(context.Context) error
}

func (a *app) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.Warn("Shutdown step failed", zap.Error(err))
		}
	}
	a.logger.Sync()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func initLogger(cfg *config.Config) (*otelzap.Logger, error) {
	return telemetry.NewLogger(cfg.LogLevel, cfg.ServiceName)
}

func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return nil, func(context.Context) error { return nil }, nil
	}
	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
}

func openStore(ctx context.Context, cfg *config.Config) (sheet.Store, func(context.Context) error, error) {
	switch cfg.SheetBackend {
	case config.BackendPostgres:
		store, pool, err := sheet.OpenPostgres(ctx, cfg.DatabaseURL, cfg.SheetTable)
		if err != nil {
			return nil, nil, err
		}
		return store, func(context.Context) error { pool.Close(); return nil }, nil
	default:
		store, err := sheet.OpenCSV(cfg.SheetPath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Flush, nil
	}
}

func initProvider(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer, metrics *telemetry.Metrics) shipper.RateProvider {
	return shipstation.New(shipstation.Config{
		APIKey:    cfg.ShipStationAPIKey,
		APISecret: cfg.ShipStationAPISecret,
		BaseURL:   cfg.ShipStationBaseURL,
		Timeout:   cfg.ShipStationTimeout,
		UseMock:   cfg.ShipStationUseMock,
	}, logger, tracer).WithRecorder(metrics)
}

// setup builds the job and its collaborators from the environment.
func setup(ctx context.Context, onFailure func(error)) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := initLogger(cfg)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}

	tracer, tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		a.closers = append(a.closers, tracerShutdown)
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Sync()
		return nil, fmt.Errorf("opening sheet: %w", err)
	}
	a.closers = append(a.closers, closeStore)

	a.metrics = telemetry.NewMetrics(prometheus.DefaultRegisterer)
	a.registry = shipper.DefaultRegistry()
	a.scheduler = schedule.NewTimerScheduler(ctx, logger)
	a.notifier = schedule.NewLogNotifier(logger)

	a.job = batch.NewJob(batch.Config{
		BatchSize: cfg.BatchSize,
		Delay:     cfg.ContinuationDelay,
	}, batch.Deps{
		Store:     store,
		Layout:    sheet.DefaultLayout(),
		Registry:  a.registry,
		Provider:  initProvider(cfg, logger, tracer, a.metrics),
		Scheduler: a.scheduler,
		Notifier:  a.notifier,
		Logger:    logger,
		Metrics:   a.metrics,
		Tracer:    tracer,
		OnFailure: onFailure,
	})
	return a, nil
}
