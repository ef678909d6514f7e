package service

import (
	"github.com/MKhiriev/go-event-sync/internal/adapter"
	"github.com/MKhiriev/go-event-sync/internal/config"
	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/internal/store"
	"github.com/MKhiriev/go-event-sync/models"
)

type Services struct {
	EventStore     EventStore
	Resolver       ConflictResolver
	Coordinator    Coordinator
	Status         StatusReader
	SyncJob        SyncJob
	AppInfoService AppInfoService
}

func NewServices(
	storage store.Storage,
	remote adapter.RemoteAdapter,
	cfg config.SyncConfig,
	recorder SyncRecorder,
	buildInfo models.AppBuildInfo,
	logger *logger.Logger,
) (*Services, error) {
	resolver, err := NewConflictResolver(cfg.ConflictStrategy)
	if err != nil {
		return nil, err
	}

	appInfo, err := NewAppInfoService(buildInfo, logger)
	if err != nil {
		return nil, err
	}

	events := NewEventStore(storage, cfg.DeviceID, logger)
	coordinator := NewCoordinator(storage, events, remote, resolver, cfg, recorder, logger)

	return &Services{
		EventStore:     events,
		Resolver:       resolver,
		Coordinator:    coordinator,
		Status:         NewStatusModel(storage, coordinator),
		SyncJob:        NewSyncJob(coordinator, logger),
		AppInfoService: appInfo,
	}, nil
}
