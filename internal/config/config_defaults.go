package config

import "time"

const (
	DefaultSyncInterval     = 30 * time.Second
	DefaultMaxRetries       = 3
	DefaultBatchSize        = 50
	DefaultTimeout          = 45 * time.Second
	DefaultConflictStrategy = "LWW"
	DefaultStoreID          = "sync-local-events"
	DefaultInitialBackoff   = time.Second
	DefaultMaxBackoff       = 30 * time.Second
	DefaultStorageDriver    = "sqlite"
	DefaultNetworkMode      = "probe"
	DefaultProbeInterval    = 10 * time.Second
	DefaultNetworkDebounce  = 500 * time.Millisecond
	DefaultHealthPath       = "/api/health"
	DefaultLogLevel         = "info"
)

func defaultConfig() *StructuredConfig {
	maxRetries := DefaultMaxRetries
	batchSize := DefaultBatchSize
	interval := Duration(DefaultSyncInterval)
	timeout := Duration(DefaultTimeout)
	background := true

	return &StructuredConfig{
		Sync: Sync{
			SyncInterval:         &interval,
			MaxRetries:           &maxRetries,
			BatchSize:            &batchSize,
			Timeout:              &timeout,
			ConflictStrategy:     DefaultConflictStrategy,
			EnableBackgroundSync: &background,
			StoreID:              DefaultStoreID,
			InitialBackoff:       Duration(DefaultInitialBackoff),
			MaxBackoff:           Duration(DefaultMaxBackoff),
		},
		Storage: Storage{
			Driver: DefaultStorageDriver,
		},
		Network: Network{
			Mode:          DefaultNetworkMode,
			ProbeInterval: Duration(DefaultProbeInterval),
			Debounce:      Duration(DefaultNetworkDebounce),
		},
		Log: Log{
			Level: DefaultLogLevel,
		},
	}
}
