package client

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/go-event-sync/internal/adapter"
	"github.com/MKhiriev/go-event-sync/internal/config"
	"github.com/MKhiriev/go-event-sync/internal/handler"
	"github.com/MKhiriev/go-event-sync/internal/handler/http"
	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/internal/metrics"
	"github.com/MKhiriev/go-event-sync/internal/network"
	"github.com/MKhiriev/go-event-sync/internal/server"
	"github.com/MKhiriev/go-event-sync/internal/service"
	"github.com/MKhiriev/go-event-sync/internal/store"
	"github.com/MKhiriev/go-event-sync/internal/workers"
	"github.com/MKhiriev/go-event-sync/models"
)

const closeTimeout = 5 * time.Second

type App struct {
	services *service.Services
	storage  store.Storage
	metrics  *metrics.Provider
	workers  *workers.Workers

	logger *logger.Logger
}

// NewApp opens storage and builds every component described by cfg. On
// failure everything opened so far is closed again.
func NewApp(ctx context.Context, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*App, error) {
	storage, err := store.NewStorage(ctx, cfg.Storage, cfg.Sync.StoreID, logger)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	app, err := newApp(ctx, cfg, storage, buildInfo, logger)
	if err != nil {
		storage.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, cfg *config.ClientConfig, storage store.Storage, buildInfo models.AppBuildInfo, logger *logger.Logger) (*App, error) {
	remote, err := adapter.NewHTTPRemoteAdapter(cfg.Sync, logger)
	if err != nil {
		return nil, fmt.Errorf("create remote adapter: %w", err)
	}

	provider, err := metrics.NewProvider(ctx, cfg.Metrics, buildInfo.BuildVersion(), logger)
	if err != nil {
		return nil, fmt.Errorf("create metrics provider: %w", err)
	}

	services, err := service.NewServices(storage, remote, cfg.Sync, provider.Recorder(), buildInfo, logger)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, fmt.Errorf("create services: %w", err)
	}

	source, err := network.NewSource(cfg.Network, cfg.Sync.Timeout, logger)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, fmt.Errorf("create connectivity source: %w", err)
	}

	runners := workers.NewWorkers(
		network.NewMonitor(source, services.Coordinator, cfg.Network.Debounce, logger),
		workers.NewScheduler(services.SyncJob, cfg.Sync.SyncInterval, cfg.Sync.EnableBackgroundSync, logger),
	)

	if cfg.Server.HTTPAddress != "" {
		// only a pushed source can take the host signal
		var setter http.ConnectivitySetter
		if channel, ok := source.(*network.ChannelSource); ok {
			setter = channel
		}

		handlers, err := handler.NewHandlers(services, setter, cfg, logger)
		if err != nil {
			_ = provider.Shutdown(ctx)
			return nil, fmt.Errorf("create handlers: %w", err)
		}
		srv, err := server.NewServer(handlers, cfg.Server, logger)
		if err != nil {
			_ = provider.Shutdown(ctx)
			return nil, fmt.Errorf("create server: %w", err)
		}
		runners.Add(srv)
	}

	return &App{
		services: services,
		storage:  storage,
		metrics:  provider,
		workers:  runners,
		logger:   logger,
	}, nil
}

// Run blocks until ctx is done or SIGINT/SIGTERM/SIGQUIT arrives, then
// cancels the in-flight cycle and releases storage and the exporter.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	a.logger.Info().Msg("sync daemon started")

	go func() {
		<-ctx.Done()
		if err := a.services.Coordinator.Cancel(); err == nil {
			a.logger.Info().Msg("in-flight sync cancelled")
		}
	}()

	runErr := a.workers.Run(ctx)

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
	defer cancel()

	err := errors.Join(runErr, a.metrics.Shutdown(closeCtx), a.storage.Close())
	if err != nil {
		a.logger.Err(err).Msg("sync daemon stopped with error")
		return err
	}

	a.logger.Info().Msg("sync daemon stopped gracefully")
	return nil
}

// Services exposes the wired services, e.g. to embed the engine in a host
// process.
func (a *App) Services() *service.Services {
	return a.services
}
