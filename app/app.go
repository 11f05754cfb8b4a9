package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/platina-lab/platina-lab/api"
	catalogservice "github.com/platina-lab/platina-lab/app/modules/catalog/application"
	catalogdb "github.com/platina-lab/platina-lab/app/modules/catalog/infrastructure/repositories"
	decoderservice "github.com/platina-lab/platina-lab/app/modules/decoder/application"
	decoderdb "github.com/platina-lab/platina-lab/app/modules/decoder/infrastructure/repositories"
	progressservice "github.com/platina-lab/platina-lab/app/modules/progress/application"
	progressqueue "github.com/platina-lab/platina-lab/app/modules/progress/infrastructure/queue"
	progressdb "github.com/platina-lab/platina-lab/app/modules/progress/infrastructure/repositories"
	rankingservice "github.com/platina-lab/platina-lab/app/modules/ranking/application"
	resultservice "github.com/platina-lab/platina-lab/app/modules/result/application"
	resultdb "github.com/platina-lab/platina-lab/app/modules/result/infrastructure/repositories"
	"github.com/platina-lab/platina-lab/config"
	"github.com/platina-lab/platina-lab/internal/eventbus"
	"github.com/platina-lab/platina-lab/internal/observability"
)

// App owns every long-lived component of the service.
type App struct {
	Cfg    *config.Config
	Logger *slog.Logger

	db       *bun.DB
	eventBus eventbus.EventBus
	registry *prometheus.Registry
	queue    progressqueue.QueueService
	server   *http.Server

	// metricsServer exposes the prometheus registry on its own listener so
	// scrape traffic stays off the public API port.
	metricsServer *http.Server

	Decoders decoderservice.Service
	Catalog  catalogservice.Service
	Results  resultservice.Service
	Ranking  rankingservice.Service
	Progress progressservice.Service
}

// NewApp wires the service together from configuration.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := observability.NewLogger(cfg.Environment)
	tracer := otel.GetTracerProvider().Tracer("platina-lab")

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(pgdb, pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	var bus eventbus.EventBus = eventbus.NoOpEventBus{}
	if cfg.NATS.URL != "" {
		natsBus, err := eventbus.NewNATSEventBus(cfg.NATS.URL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create event bus: %w", err)
		}
		bus = natsBus
	} else {
		logger.Warn("NATS URL not configured, domain events disabled")
	}

	a := &App{
		Cfg:      cfg,
		Logger:   logger,
		db:       db,
		eventBus: bus,
		registry: registry,
	}
	a.buildServices(metrics, tracer)

	queue, err := progressqueue.NewService(ctx, cfg.Postgres.DSN, cfg.Progress.SweepInterval, logger, a.Progress)
	if err != nil {
		return nil, fmt.Errorf("failed to create progress queue: %w", err)
	}
	a.queue = queue

	perMinute := rate.Limit(float64(cfg.HTTP.SubmitRatePerMinute) / 60.0)
	limiter := api.NewKeyRateLimiter(perMinute, cfg.HTTP.SubmitRatePerMinute)
	handlers := api.NewHandlers(
		a.Decoders,
		a.Catalog,
		a.Results,
		a.Ranking,
		a.Progress,
		logger,
		limiter,
		cfg.Catalog.LastModified,
	)
	a.server = &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.NewRouter(handlers, logger, nil),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.Metrics.Addr != "" {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		a.metricsServer = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           metricsMux,
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	return a, nil
}

func (a *App) buildServices(metrics *observability.Metrics, tracer trace.Tracer) {
	a.Catalog = catalogservice.NewCatalogService(&catalogdb.CatalogDBImpl{}, a.db, a.Logger, tracer)
	a.Decoders = decoderservice.NewDecoderService(&decoderdb.DecoderDBImpl{}, a.db, a.Logger, metrics, tracer)
	a.Results = resultservice.NewResultService(&resultdb.ResultDBImpl{}, a.Catalog, a.db, a.eventBus, a.Logger, metrics, tracer)
	a.Ranking = rankingservice.NewRankingService(&resultdb.ResultDBImpl{}, a.Catalog, a.db, a.Logger, tracer)
	a.Progress = progressservice.NewProgressService(
		&progressdb.ProgressDBImpl{},
		a.Ranking,
		a.Decoders,
		a.db,
		a.Logger,
		metrics,
		tracer,
		a.Cfg.Progress.SweepConcurrency,
	)
}

// Run starts the queue and the HTTP server and blocks until the context is
// canceled or the server fails.
func (a *App) Run(ctx context.Context) error {
	if err := a.queue.Start(ctx); err != nil {
		return fmt.Errorf("failed to start progress queue: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("HTTP server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	if a.metricsServer != nil {
		go func() {
			a.Logger.Info("Metrics server listening", slog.String("addr", a.metricsServer.Addr))
			if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				a.Logger.Error("Metrics server failed", slog.Any("error", err))
			}
		}()
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed: %w", err)
	}
}

// Shutdown stops the components in reverse start order.
func (a *App) Shutdown(ctx context.Context) {
	if err := a.server.Shutdown(ctx); err != nil {
		a.Logger.Error("HTTP server shutdown failed", slog.Any("error", err))
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			a.Logger.Error("Metrics server shutdown failed", slog.Any("error", err))
		}
	}
	if err := a.queue.Stop(ctx); err != nil {
		a.Logger.Error("Progress queue shutdown failed", slog.Any("error", err))
	}
	if err := a.eventBus.Close(); err != nil {
		a.Logger.Error("Event bus close failed", slog.Any("error", err))
	}
	if err := a.db.Close(); err != nil {
		a.Logger.Error("Database close failed", slog.Any("error", err))
	}
}
