package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sopulse/internal/config"
	"sopulse/internal/dataset"
	"sopulse/internal/infrastructure"
	"sopulse/internal/services"
	transport "sopulse/internal/transport/http"
)

// Application owns the lifecycle of the web service: configuration,
// logging, telemetry, the loaded dataset and the HTTP server.
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	Dataset       *dataset.Dataset
	Service       *services.AnalyticsService
	OTelProviders *infrastructure.OTelProviders
	Server        *http.Server
}

// NewApplication wires the whole service together: config, logger,
// telemetry, dataset load, analytics service and router. The dataset
// load is the only expensive step; it happens once, here, and a
// failure is fatal.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(nil, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize telemetry: %w", err)
	}

	var metrics *infrastructure.AggregationMetrics
	if providers.Meter != nil {
		metrics, err = infrastructure.CreateAggregationMetrics(providers.Meter)
		if err != nil {
			return nil, fmt.Errorf("create metrics: %w", err)
		}
	}

	ctx := context.Background()
	ds, err := dataset.Load(ctx, cfg.Dataset.CSVPath)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	if metrics != nil {
		metrics.DatasetRows.Record(ctx, int64(ds.Len()))
	}

	service := services.NewAnalyticsService(ds, cfg.Analytics, metrics, logger)

	router := transport.NewRouter(transport.RouterConfig{
		Service:        service,
		Dataset:        ds,
		ServerConfig:   cfg.Server,
		Logger:         logger,
		MetricsHandler: providers.PrometheusHTTP,
	})

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		Dataset:       ds,
		Service:       service,
		OTelProviders: providers,
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown. The analytics
// cache warms in the background so the server accepts requests
// immediately; SIGINT and SIGTERM trigger a graceful stop.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.Service.Warmup(ctx)

	serverErr := make(chan error, 1)
	go func() {
		a.Logger.InfoContext(ctx, "HTTP server starting",
			slog.String("addr", a.Server.Addr),
			slog.Int("records", a.Dataset.Len()))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		a.Logger.Info("shutdown signal received")
	}

	return a.Stop(context.Background())
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "HTTP server shutdown failed", slog.String("error", err.Error()))
		return err
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		return err
	}

	a.Logger.Info("shutdown complete", slog.String("uptime_ended", time.Now().Format(time.RFC3339)))
	return nil
}
