package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-event-sync/internal/config"
	"github.com/MKhiriev/go-event-sync/internal/logger"
)

// Supported values of STORAGE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// NewStorage opens the adapter selected by cfg.Driver and initializes it.
// Rows are scoped by storeID so several logical stores may share one
// database.
//
// Returns [ErrUnknownDriver] for an unsupported driver.
func NewStorage(ctx context.Context, cfg config.ClientStorage, storeID string, log *logger.Logger) (Storage, error) {
	log.Info().Str("driver", cfg.Driver).Str("store_id", storeID).Msg("creating new storage...")

	var storage Storage

	switch cfg.Driver {
	case DriverSQLite:
		db, err := NewConnectSQLite(ctx, cfg.DSN, log)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection error: %w", err)
		}
		storage = NewSQLEventStorage(db, storeID, log)
	case DriverPostgres:
		db, err := NewConnectPostgres(ctx, cfg.DSN, log)
		if err != nil {
			return nil, fmt.Errorf("postgres connection error: %w", err)
		}
		storage = NewSQLEventStorage(db, storeID, log)
	case DriverRedis:
		client, err := NewRedisClient(ctx, cfg.DSN, log)
		if err != nil {
			return nil, fmt.Errorf("redis connection error: %w", err)
		}
		storage = NewRedisEventStorage(client, storeID, log)
	case DriverMemory:
		storage = NewMemoryEventStorage()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}

	if err := storage.Initialize(ctx); err != nil {
		storage.Close()
		return nil, fmt.Errorf("storage initialization failed: %w", err)
	}

	return storage, nil
}
